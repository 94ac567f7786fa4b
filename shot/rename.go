package shot

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// SequenceName builds "<prefix>_<NNN><ext>" with the number zero-padded to 3 digits
func SequenceName(prefix string, n int, ext string) string {
	return fmt.Sprintf("%s_%03d%s", prefix, n, ext)
}

// outputExtension picks the destination extension for a source file
func outputExtension(source string, policy ExtensionPolicy) string {
	if policy == KeepExtension {
		if ext := strings.ToLower(filepath.Ext(source)); ext != "" {
			return ext
		}
	}
	return ".png"
}

// PrepareTarget checks the folders and creates destDir/<category>/. It is
// safe to call before numbers are allocated and again by RenameBatch.
func PrepareTarget(sourceDir, destDir, category string) (string, error) {
	if err := CheckFolders(sourceDir, destDir); err != nil {
		return "", err
	}
	targetDir := filepath.Join(destDir, category)
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", targetDir, err)
	}
	return targetDir, nil
}

// RenameBatch copies files from sourceDir into destDir/<category>/ as
// <category>_<NNN>, numbering from start in the given order. A failed copy
// is recorded and the batch moves on; its number stays used. Only missing
// folders, an unusable target folder or an empty selection abort the batch,
// before anything is written.
func RenameBatch(files []string, category string, start int, sourceDir, destDir string, opts RenameOptions) (*BatchResult, error) {
	if len(files) == 0 {
		return nil, ErrEmptySelection
	}
	targetDir, err := PrepareTarget(sourceDir, destDir, category)
	if err != nil {
		return nil, err
	}

	result := &BatchResult{Category: category, Folder: category, Start: start}
	for i, name := range files {
		newName := SequenceName(category, start+i, outputExtension(name, opts.Extension))
		src := filepath.Join(sourceDir, name)
		dst := filepath.Join(targetDir, newName)

		item := FileResult{Source: name, NewName: newName}
		if err := copyImage(src, dst, opts.Extension); err != nil {
			item.Err = err
			item.Line = failureLine(name, err)
		} else {
			item.Line = successLine(name, category, newName)
		}
		result.add(item)
	}

	return result, nil
}

// copyImage writes src to dst according to the extension policy
func copyImage(src, dst string, policy ExtensionPolicy) error {
	if policy == ConvertPNG {
		return convertToPNG(src, dst)
	}
	return copyFile(src, dst)
}

// copyFile copies the bytes of src to dst and carries over the modification
// time. The source is never modified. A partial dst is removed on failure.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	fi, err := in.Stat()
	if err != nil {
		return err
	}
	if fi.IsDir() {
		return fmt.Errorf("%s is a directory", src)
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return err
	}

	return os.Chtimes(dst, fi.ModTime(), fi.ModTime())
}
