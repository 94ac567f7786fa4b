package utils

import (
	"path/filepath"
	"runtime"
	"strings"
)

// IsNetworkPath reports whether a folder looks like a network mount, where
// parallel reads tend to be slower than sequential ones
func IsNetworkPath(dir string) bool {
	// UNC paths are checked before making the path absolute
	if strings.HasPrefix(dir, "//") || strings.HasPrefix(dir, "\\\\") {
		return true
	}

	absPath, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	absPath = filepath.ToSlash(absPath)

	for _, prefix := range []string{"/mnt/", "/media/", "/Volumes/"} {
		if strings.HasPrefix(absPath, prefix) {
			return true
		}
	}

	lowerPath := strings.ToLower(absPath)
	for _, indicator := range []string{"nfs", "cifs", "smb", "webdav", "sftp"} {
		if strings.Contains(lowerPath, indicator) {
			return true
		}
	}

	return false
}

// WorkerCount picks the number of hashing workers for a folder. An explicit
// positive request wins; otherwise network folders get one worker and local
// folders get one per CPU.
func WorkerCount(requested int, dir string) int {
	if requested > 0 {
		return requested
	}
	if IsNetworkPath(dir) {
		return 1
	}
	return runtime.NumCPU()
}
