package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps struct field names to user-friendly labels
var FieldLabels = map[string]string{
	"UserID":          "User ID",
	"Positions":       "Positions",
	"LinkedInProfile": "LinkedIn profile",
	"URL":             "LinkedIn profile URL",
	"ResumeURL":       "Resume URL",
	"Hobbies":         "Hobbies",
	"SubmittedAt":     "Submission time",
	"Name":            "Name",
	"Category":        "Category",
	"Source":          "Source",
}

// FormatValidationErrors converts validator.ValidationErrors to user-friendly messages
func FormatValidationErrors(err error) []string {
	var messages []string

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		// Not a validation error, return generic message
		return []string{err.Error()}
	}

	for _, e := range validationErrors {
		messages = append(messages, formatSingleError(e))
	}

	return messages
}

// formatSingleError formats a single validation error to a user-friendly message
func formatSingleError(e validator.FieldError) string {
	label := getFieldLabel(e.Field())
	param := e.Param()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s: is required", label)

	case "min":
		if e.Kind().String() == "slice" {
			return fmt.Sprintf("%s: select at least %s", label, param)
		}
		return fmt.Sprintf("%s: must be at least %s characters", label, param)

	case "max":
		if e.Kind().String() == "slice" {
			return fmt.Sprintf("%s: select at most %s", label, param)
		}
		return fmt.Sprintf("%s: must be at most %s characters", label, param)

	case "oneof":
		return fmt.Sprintf("%s: must be one of: %s", label, strings.Join(strings.Fields(param), ", "))

	case "url":
		return fmt.Sprintf("%s: invalid URL format", label)

	case "linkedin_url":
		return "Please provide a valid LinkedIn profile URL"

	default:
		// Fallback for unknown tags
		return fmt.Sprintf("%s: validation failed (%s)", label, e.Tag())
	}
}

// getFieldLabel returns the user-friendly label for a field
func getFieldLabel(fieldName string) string {
	if label, ok := FieldLabels[fieldName]; ok {
		return label
	}
	return formatCamelCase(fieldName)
}

// formatCamelCase converts CamelCase to spaced words
func formatCamelCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune(' ')
		}
		result.WriteRune(r)
	}
	return result.String()
}
