package shot

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var imageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp"}

// IsImageFile checks if the path has one of the supported image extensions
func IsImageFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, v := range imageExtensions {
		if v == ext {
			return true
		}
	}
	return false
}

// ListImages returns the image filenames directly inside dir, sorted
func ListImages(dir string) ([]string, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: no source folder set", ErrNotFound)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot list %s: %w", ErrNotFound, dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !IsImageFile(e.Name()) {
			continue
		}
		// Follow symlinks so linked screenshots are listed but linked folders are not
		if e.Type()&os.ModeSymlink != 0 {
			fi, err := os.Stat(filepath.Join(dir, e.Name()))
			if err != nil || !fi.Mode().IsRegular() {
				continue
			}
		}
		files = append(files, e.Name())
	}

	sort.Strings(files)
	return files, nil
}

// CheckFolders verifies the source and destination roots exist before a
// batch makes any change
func CheckFolders(sourceDir, destDir string) error {
	if err := checkDir("source", sourceDir); err != nil {
		return err
	}
	return checkDir("destination", destDir)
}

func checkDir(role, dir string) error {
	if dir == "" {
		return fmt.Errorf("%w: no %s folder set", ErrNotFound, role)
	}
	fi, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("%w: %s folder %s: %w", ErrNotFound, role, dir, err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("%w: %s %s is not a folder", ErrNotFound, role, dir)
	}
	return nil
}
