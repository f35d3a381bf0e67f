package validation

import (
	"github.com/jackrejister/form-craft-nexus/pkg/models"
	"github.com/pkg/errors"
)

// ValidateDefinition checks that a field definition is well formed.
func ValidateDefinition(field models.FieldDefinition) error {
	if !field.Type.Valid() {
		return errors.Errorf("field %q has unknown type %q", field.ID, field.Type)
	}
	if field.Type.IsChoice() && len(field.Options) == 0 {
		return errors.Errorf("field %q of type %s requires options", field.ID, field.Type)
	}
	v := field.Validation
	if v == nil {
		return nil
	}
	if v.Min != nil && v.Max != nil && *v.Min > *v.Max {
		return errors.Errorf("field %q min is greater than max", field.ID)
	}
	if (v.MinLength != nil && *v.MinLength < 0) || (v.MaxLength != nil && *v.MaxLength < 0) {
		return errors.Errorf("field %q length bounds must not be negative", field.ID)
	}
	if v.MinLength != nil && v.MaxLength != nil && *v.MaxLength > 0 && *v.MinLength > *v.MaxLength {
		return errors.Errorf("field %q minLength is greater than maxLength", field.ID)
	}
	return nil
}

// ValidateDefinitions checks every field and that field ids are unique.
func ValidateDefinitions(fields []models.FieldDefinition) error {
	ids := make(map[string]bool, len(fields))
	for _, f := range fields {
		if f.ID != "" {
			if ids[f.ID] {
				return errors.Errorf("duplicate field id %q", f.ID)
			}
			ids[f.ID] = true
		}
		if err := ValidateDefinition(f); err != nil {
			return err
		}
	}
	return nil
}
