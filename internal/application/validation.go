package application

import (
	"fmt"
	"strings"
)

// ValidateRequired checks if a string field is non-empty (after trimming whitespace).
// Returns a ValidationError if the field is empty.
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		displayName := formatFieldName(fieldName)
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", displayName),
		}
	}
	return nil
}

// ValidateLine checks that a 1-based line number is positive
func ValidateLine(fieldName string, line int) error {
	if line < 1 {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s must be 1 or greater, got: %d", formatFieldName(fieldName), line),
		}
	}
	return nil
}

// formatFieldName converts camelCase field names to space-separated words
// for more readable error messages (e.g., "filePath" -> "file path")
func formatFieldName(fieldName string) string {
	replacements := map[string]string{
		"filePath":          "file path",
		"topLine":           "top line",
		"projectFilePath":   "project file path",
		"linkStoreFilePath": "link store file path",
		"code":              "code",
		"data":              "data",
	}

	if formatted, ok := replacements[fieldName]; ok {
		return formatted
	}

	return fieldName
}
