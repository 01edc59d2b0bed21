package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// maxUploadName bounds the length of user-supplied file names.
const maxUploadName = 255

// ValidateUploadFilename validates the name of an uploaded table.
// It must be a simple basename ending in .csv, without control characters or
// path separators.
func ValidateUploadFilename(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidPath, "file name cannot be empty")
	}

	if len(filename) > maxUploadName {
		return New(ErrCodeInvalidPath, "file name too long (max %d characters)", maxUploadName)
	}

	for _, r := range filename {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "file name contains invalid control characters")
		}
	}

	if strings.ContainsAny(filename, "/\\") || strings.Contains(filename, "..") {
		return New(ErrCodeInvalidPath, "file name cannot contain path separators")
	}

	if !strings.EqualFold(filepath.Ext(filename), ".csv") {
		return New(ErrCodeInvalidFormat, "only .csv files are supported, got %q", filename)
	}

	return nil
}

// ValidateColumnNames checks a user-supplied column selection: it must not
// be empty and every name must be non-blank and unique.
func ValidateColumnNames(names []string) error {
	if len(names) == 0 {
		return New(ErrCodeSchema, "no value columns selected")
	}
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if strings.TrimSpace(n) == "" {
			return New(ErrCodeSchema, "column name cannot be blank")
		}
		if seen[n] {
			return New(ErrCodeSchema, "column %q selected twice", n)
		}
		seen[n] = true
	}
	return nil
}
