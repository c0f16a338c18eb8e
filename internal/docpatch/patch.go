// Package docpatch rewrites the marker-delimited section of a text document.
// Text outside the section is preserved byte for byte, and markers are never
// created or removed.
package docpatch

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrMarkersNotFound is matched by every *MarkerError.
var ErrMarkersNotFound = errors.New("docpatch: markers not found")

// MarkerError reports which marker of a pair could not be located.
type MarkerError struct {
	Start   string
	End     string
	Missing string
}

func (e *MarkerError) Error() string {
	return fmt.Sprintf("docpatch: markers %s and %s not found (missing %s)", e.Start, e.End, e.Missing)
}

func (e *MarkerError) Unwrap() error { return ErrMarkersNotFound }

// Patch replaces the text strictly between the first start marker and the
// first end marker following it with block. When either marker is missing it
// returns the document unchanged together with a *MarkerError.
func Patch(document, start, end, block string) (string, error) {
	if start == "" || end == "" {
		return document, fmt.Errorf("docpatch: empty marker")
	}

	startPos := strings.Index(document, start)
	if startPos < 0 {
		return document, &MarkerError{Start: start, End: end, Missing: start}
	}
	bodyStart := startPos + len(start)

	endOffset := strings.Index(document[bodyStart:], end)
	if endOffset < 0 {
		return document, &MarkerError{Start: start, End: end, Missing: end}
	}
	bodyEnd := bodyStart + endOffset

	var sb strings.Builder
	sb.Grow(len(document) - (bodyEnd - bodyStart) + len(block))
	sb.WriteString(document[:bodyStart])
	sb.WriteString(block)
	sb.WriteString(document[bodyEnd:])
	return sb.String(), nil
}

// PatchFile applies Patch to the file at path and writes the result back,
// keeping the file's permissions. The file is not written when the markers
// are missing or the content is already up to date. It reports whether the
// file changed.
func PatchFile(path, start, end, block string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("docpatch: stat %s: %w", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("docpatch: reading %s: %w", path, err)
	}

	document := string(data)
	updated, err := Patch(document, start, end, block)
	if err != nil {
		return false, err
	}
	if updated == document {
		return false, nil
	}

	if err := os.WriteFile(path, []byte(updated), info.Mode().Perm()); err != nil {
		return false, fmt.Errorf("docpatch: writing %s: %w", path, err)
	}
	return true, nil
}
