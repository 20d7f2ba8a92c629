package errors

import (
	"path/filepath"
	"slices"
	"strings"
	"unicode"
)

// Output formats understood by the export and optimize commands.
var outputFormats = []string{"json", "dot", "svg"}

// ValidateDocumentName validates a mind map name used in cache keys and
// export titles.
//
// The rules are intentionally conservative:
//   - Maximum length of 256 characters
//   - No control characters
//   - No path separators
//
// An empty name is allowed.
func ValidateDocumentName(name string) error {
	if len(name) > 256 {
		return New(ErrCodeInvalidInput, "document name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "document name contains invalid control characters")
		}
	}

	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidInput, "document name cannot contain path separators")
	}

	return nil
}

// ValidatePath validates a snapshot or export file path given on the
// command line.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
//   - Cannot name a directory (trailing separator)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasSuffix(path, string(filepath.Separator)) || strings.HasSuffix(path, "/") {
		return New(ErrCodeInvalidPath, "path must name a file, not a directory")
	}

	return nil
}

// ValidateFormat validates an output format name.
func ValidateFormat(format string) error {
	if !slices.Contains(outputFormats, format) {
		return New(ErrCodeInvalidFormat, "unsupported format %q (want one of %s)", format, strings.Join(outputFormats, ", "))
	}
	return nil
}

// FormatFromPath infers the output format from a file extension. It returns
// "json" for unknown or missing extensions.
func FormatFromPath(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if slices.Contains(outputFormats, ext) {
		return ext
	}
	return "json"
}
