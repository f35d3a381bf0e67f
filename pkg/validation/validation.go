package validation

import (
	"fmt"

	"github.com/jackrejister/form-craft-nexus/pkg/models"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidateField checks value against field and returns the first failed rule
// message, or an empty string when the value is valid.
//
// The required check always runs first. Empty values of optional fields are
// valid regardless of any other constraint.
func ValidateField(field models.FieldDefinition, value interface{}) string {
	empty := isEmpty(value)
	if field.Required && empty {
		return fmt.Sprintf("%s is required", field.Label)
	}
	if empty {
		return ""
	}

	v := field.Validation
	if v == nil {
		v = &models.FieldValidation{}
	}
	for _, r := range typeRules[field.Type] {
		if msg := r(field, v, value); msg != "" {
			return msg
		}
	}
	if field.Type != models.FieldFile {
		if msg := patternRule(field, v, value); msg != "" {
			return msg
		}
	}
	return ""
}

// ValidateForm validates every field in order and returns all failures,
// ordered like fields.
func ValidateForm(fields []models.FieldDefinition, values map[string]interface{}) []ValidationError {
	errs := make([]ValidationError, 0)
	for _, f := range fields {
		if msg := ValidateField(f, values[f.ID]); msg != "" {
			errs = append(errs, ValidationError{Field: f.ID, Message: msg})
		}
	}
	return errs
}

// ErrorMessageFor returns the message reported for fieldID, if any.
func ErrorMessageFor(fieldID string, errs []ValidationError) string {
	for _, e := range errs {
		if e.Field == fieldID {
			return e.Message
		}
	}
	return ""
}
