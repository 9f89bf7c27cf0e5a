// Package output persists recognized text next to the capture it came from.
package output

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrWrite marks a filesystem failure while saving recognized text. Fatal
// to the run: without the output file the run cannot be considered complete.
var ErrWrite = errors.New("failed to write recognized text")

// TextPath derives the text file path from the capture path: same stem,
// .txt extension.
func TextPath(imagePath string) string {
	ext := filepath.Ext(imagePath)
	return strings.TrimSuffix(imagePath, ext) + ".txt"
}

// Write saves text as the capture's sibling .txt file, creating the parent
// directory if it is absent, and returns the path written.
func Write(text, imagePath string) (string, error) {
	path := TextPath(imagePath)

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("%w: %v", ErrWrite, err)
		}
	}

	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return path, nil
}
