package validation

import (
	"strings"

	"github.com/jackrejister/form-craft-nexus/pkg/models"
)

// IsVisible evaluates the field's conditional against the current values.
// Fields without a conditional, or with an unknown operator, are visible.
func IsVisible(field models.FieldDefinition, values map[string]interface{}) bool {
	c := field.Conditional
	if c == nil || c.Field == "" {
		return true
	}
	actual := values[c.Field]
	switch c.Operator {
	case models.OperatorEquals:
		return valuesEqual(actual, c.Value)
	case models.OperatorNotEquals:
		return !valuesEqual(actual, c.Value)
	case models.OperatorContains:
		return valueContains(actual, c.Value)
	case models.OperatorNotContains:
		return !valueContains(actual, c.Value)
	case models.OperatorGreaterThan:
		a, okA := numberValue(actual)
		b, okB := numberValue(c.Value)
		return okA && okB && a > b
	case models.OperatorLessThan:
		a, okA := numberValue(actual)
		b, okB := numberValue(c.Value)
		return okA && okB && a < b
	}
	return true
}

// VisibleFields returns the fields shown for values, in order. A field whose
// condition refers to a hidden field sees that field as unanswered.
func VisibleFields(fields []models.FieldDefinition, values map[string]interface{}) []models.FieldDefinition {
	hidden := make(map[string]bool)
	effective := make(map[string]interface{}, len(values))
	for k, v := range values {
		effective[k] = v
	}
	for _, f := range fields {
		if c := f.Conditional; c != nil && hidden[c.Field] {
			effective[c.Field] = nil
		}
		if !IsVisible(f, effective) {
			hidden[f.ID] = true
		}
	}
	visible := make([]models.FieldDefinition, 0, len(fields))
	for _, f := range fields {
		if !hidden[f.ID] {
			visible = append(visible, f)
		}
	}
	return visible
}

func valuesEqual(a, b interface{}) bool {
	na, okA := numberValue(a)
	nb, okB := numberValue(b)
	if okA && okB {
		return na == nb
	}
	return stringValue(a) == stringValue(b)
}

func valueContains(actual, want interface{}) bool {
	w := stringValue(want)
	switch v := actual.(type) {
	case []string:
		for _, s := range v {
			if s == w {
				return true
			}
		}
		return false
	case []interface{}:
		for _, item := range v {
			if stringValue(item) == w {
				return true
			}
		}
		return false
	case nil:
		return false
	}
	return strings.Contains(stringValue(actual), w)
}
