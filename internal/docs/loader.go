// Package docs extracts plain text from document files and discovers
// ingestable files under a directory.
package docs

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	// ErrUnsupportedFormat is returned for file extensions no loader handles.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrDecodeFailure is returned when no supported text encoding applies.
	ErrDecodeFailure = errors.New("could not decode file with any known encoding")
)

// SupportedExtensions lists the formats Load understands.
var SupportedExtensions = []string{".txt", ".md", ".pdf", ".docx"}

// Loader extracts text from documents on the local filesystem.
type Loader struct{}

// NewLoader creates a new Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads the file at path and returns its plain text content, dispatching
// on the file extension.
func (l *Loader) Load(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md":
		return loadText(path)
	case ".pdf":
		return loadPDF(path)
	case ".docx":
		return loadDOCX(path)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// IsSupported reports whether Load can handle the file.
func IsSupported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, s := range SupportedExtensions {
		if ext == s {
			return true
		}
	}
	return false
}
