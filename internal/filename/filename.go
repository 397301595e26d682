// Package filename derives canonical stored names from client-supplied
// filenames, including the folder-prefix convention: a name containing "/"
// carries its folder in the segment before the first separator.
package filename

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidName reports a client-supplied filename that cannot be
// normalized.
var ErrInvalidName = errors.New("invalid filename")

// Metadata carries what normalization learned about the original name.
type Metadata struct {
	OriginalFilename string
	FolderName       string
}

// Normalize splits an uploaded filename into its cleaned form and folder
// placement. A "/" in the name makes the text before the first separator the
// authoritative folder name, overriding folderName; otherwise folderName is
// used as supplied (empty allowed). An empty filename is a validation error.
func Normalize(originalName, folderName string) (string, Metadata, error) {
	if strings.TrimSpace(originalName) == "" {
		return "", Metadata{}, fmt.Errorf("%w: filename must not be empty", ErrInvalidName)
	}

	if idx := strings.Index(originalName, "/"); idx >= 0 {
		cleaned := originalName[idx+1:]
		if cleaned == "" {
			return "", Metadata{}, fmt.Errorf("%w: %q has no name after folder prefix", ErrInvalidName, originalName)
		}
		return cleaned, Metadata{
			OriginalFilename: cleaned,
			FolderName:       originalName[:idx],
		}, nil
	}

	return originalName, Metadata{
		OriginalFilename: originalName,
		FolderName:       folderName,
	}, nil
}

// UniqueName inserts a random token between base name and extension so
// repeated uploads of the same filename never collide in the flat storage
// namespace.
func UniqueName(cleaned string) string {
	base, ext := Parts(cleaned)
	token := strings.ReplaceAll(uuid.New().String(), "-", "")
	return fmt.Sprintf("%s_%s%s", base, token, ext)
}

// Parts splits a filename into base name and lower-cased extension
// (including the leading dot; empty when there is none).
func Parts(name string) (base, ext string) {
	ext = strings.ToLower(filepath.Ext(name))
	base = name[:len(name)-len(ext)]
	return base, ext
}

// Sanitize replaces characters that are invalid in object keys and trims
// leading/trailing dots and spaces.
func Sanitize(name string) string {
	const invalid = `<>:"/\|?*`
	sanitized := strings.Map(func(r rune) rune {
		if strings.ContainsRune(invalid, r) {
			return '_'
		}
		return r
	}, name)
	return strings.Trim(sanitized, ". ")
}
