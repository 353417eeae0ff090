package application

import (
	"fmt"
	"math"
	"strings"

	"schemer/internal/domain"
)

// ValidateRequired checks if a string field is non-empty (after trimming whitespace).
// Returns a ValidationError if the field is empty.
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", formatFieldName(fieldName)),
		}
	}
	return nil
}

// formatFieldName converts camelCase field names to space-separated words
// for more readable error messages (e.g., "fromCardinality" -> "from cardinality")
func formatFieldName(fieldName string) string {
	replacements := map[string]string{
		"entity":          "entity",
		"link":            "link",
		"title":           "title",
		"from":            "source entity",
		"to":              "target entity",
		"fromCardinality": "from cardinality",
		"toCardinality":   "to cardinality",
	}

	if formatted, ok := replacements[fieldName]; ok {
		return formatted
	}
	return fieldName
}

// ValidateCardinality checks a cardinality name.
func ValidateCardinality(fieldName, value string) error {
	if _, err := domain.ParseCardinality(value); err != nil {
		return &ValidationError{Field: fieldName, Message: err.Error()}
	}
	return nil
}

// ValidateCoordinate rejects NaN and infinities.
func ValidateCoordinate(fieldName string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s must be a finite number", formatFieldName(fieldName)),
		}
	}
	return nil
}
