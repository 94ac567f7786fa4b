package shot

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a source or destination folder is missing
	ErrNotFound = errors.New("folder not found")

	// ErrEmptySelection is returned when a batch is started with no files
	ErrEmptySelection = errors.New("no files selected")
)

// ExtensionPolicy decides the extension of copied files
type ExtensionPolicy int

const (
	// ForcePNG names every output file .png and copies the bytes unchanged
	ForcePNG ExtensionPolicy = iota
	// KeepExtension keeps the lowercased source extension
	KeepExtension
	// ConvertPNG re-encodes the image as PNG so the .png name is truthful
	ConvertPNG
)

// ParseExtensionPolicy maps a CLI value to a policy
func ParseExtensionPolicy(s string) (ExtensionPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "png":
		return ForcePNG, nil
	case "keep":
		return KeepExtension, nil
	case "convert":
		return ConvertPNG, nil
	}
	return ForcePNG, fmt.Errorf("unknown extension policy %q (want png, keep or convert)", s)
}

func (p ExtensionPolicy) String() string {
	switch p {
	case KeepExtension:
		return "keep"
	case ConvertPNG:
		return "convert"
	default:
		return "png"
	}
}

// RenameOptions holds settings shared by category and AI batches
type RenameOptions struct {
	Extension ExtensionPolicy
}

// FileResult is the outcome of copying one file
type FileResult struct {
	Source  string // filename in the source folder
	NewName string // destination filename, set even when the copy failed
	Line    string // history line
	Err     error
}

// BatchResult holds the outcome of one rename batch
type BatchResult struct {
	Category  string
	Folder    string // destination subfolder name
	Start     int    // first sequence number used
	Items     []FileResult
	Lines     []string
	Succeeded int
	Failed    int
	Fallbacks int // AI names that fell back to a timestamp
}

func (r *BatchResult) add(item FileResult) {
	r.Items = append(r.Items, item)
	r.Lines = append(r.Lines, item.Line)
	if item.Err != nil {
		r.Failed++
	} else {
		r.Succeeded++
	}
}

// Summary renders the end-of-batch counts
func (r *BatchResult) Summary() string {
	return fmt.Sprintf("%d successful, %d failed", r.Succeeded, r.Failed)
}

func successLine(source, folder, newName string) string {
	return fmt.Sprintf("%s → %s/%s", source, folder, newName)
}

func failureLine(source string, err error) string {
	return fmt.Sprintf("Error with %s: %v", source, err)
}
