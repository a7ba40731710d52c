// Package validator guards the reorganizer's filesystem writes: a rejected
// category short name or an output root containing ".." never reaches
// os.Rename/os.MkdirAll.
package validator

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ValidateFilename checks that a category short name or renamed document
// name is safe to use as-is.
func ValidateFilename(name string) error {
	if name == "" {
		return fmt.Errorf("filename cannot be empty")
	}

	invalidChars := []string{"/", "\\", ":", "*", "?", "\"", "<", ">", "|", "\x00"}
	for _, char := range invalidChars {
		if strings.Contains(name, char) {
			return fmt.Errorf("filename contains invalid character: %s", char)
		}
	}

	reservedNames := []string{
		"CON", "PRN", "AUX", "NUL",
		"COM1", "COM2", "COM3", "COM4", "COM5", "COM6", "COM7", "COM8", "COM9",
		"LPT1", "LPT2", "LPT3", "LPT4", "LPT5", "LPT6", "LPT7", "LPT8", "LPT9",
	}
	nameUpper := strings.ToUpper(strings.TrimSuffix(name, filepath.Ext(name)))
	for _, reserved := range reservedNames {
		if nameUpper == reserved {
			return fmt.Errorf("filename is a reserved name: %s", name)
		}
	}

	if strings.Trim(name, ".") == "" {
		return fmt.Errorf("filename cannot consist only of dots")
	}

	if len(name) > 255 {
		return fmt.Errorf("filename is too long (max 255 characters)")
	}

	return nil
}

// ValidatePath checks that a source or output root is non-empty and carries
// no parent-directory traversal, without requiring the path to exist yet.
func ValidatePath(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}

	cleanPath := filepath.Clean(path)

	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path contains parent directory references")
	}

	if !filepath.IsAbs(cleanPath) {
		return nil
	}

	return nil
}

// SanitizeFilename removes or replaces characters a VIN folder or category
// short name can't carry on disk, for the rare source filename that arrives
// with illegal characters baked in.
func SanitizeFilename(name string) string {
	sanitized := strings.Trim(name, " .")

	invalidChars := []string{"/", "\\", ":", "*", "?", "\"", "<", ">", "|", "\x00"}
	for _, char := range invalidChars {
		sanitized = strings.ReplaceAll(sanitized, char, "_")
	}

	sanitized = strings.Trim(sanitized, " ._")

	if sanitized == "" {
		return "unnamed"
	}

	if len(sanitized) > 255 {
		ext := filepath.Ext(sanitized)
		baseName := strings.TrimSuffix(sanitized, ext)
		maxBase := 255 - len(ext)
		if maxBase > 0 {
			sanitized = baseName[:maxBase] + ext
		} else {
			sanitized = sanitized[:255]
		}
	}

	return sanitized
}
