package validation

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jackrejister/form-craft-nexus/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestValidateField_Required(t *testing.T) {
	emptyValues := []interface{}{nil, "", "   ", []string{}, []interface{}{}, false,
		map[string]interface{}{"first": "", "last": " "}, (*models.FileValue)(nil)}

	types := []models.FieldType{models.FieldText, models.FieldEmail, models.FieldNumber,
		models.FieldPhone, models.FieldURL, models.FieldMultiselect, models.FieldName, models.FieldFile}

	for _, ft := range types {
		field := models.FieldDefinition{
			ID:       "f1",
			Type:     ft,
			Label:    "Contact",
			Required: true,
			Validation: &models.FieldValidation{
				Pattern:   "^x+$",
				MinLength: models.Int(3),
				Min:       models.Float(5),
			},
		}
		for _, v := range emptyValues {
			assert.Equal(t, "Contact is required", ValidateField(field, v), "type %s value %#v", ft, v)
		}
	}
}

func TestValidateField_OptionalEmptyIsValid(t *testing.T) {
	field := models.FieldDefinition{
		ID:    "email",
		Type:  models.FieldEmail,
		Label: "Email",
		Validation: &models.FieldValidation{
			Pattern:   "^never$",
			MinLength: models.Int(10),
		},
	}
	for _, v := range []interface{}{nil, "", "  ", []string{}} {
		assert.Empty(t, ValidateField(field, v))
	}
}

func TestValidateField_Text(t *testing.T) {
	field := models.FieldDefinition{
		ID:    "bio",
		Type:  models.FieldTextarea,
		Label: "Bio",
		Validation: &models.FieldValidation{
			MinLength: models.Int(3),
			MaxLength: models.Int(5),
		},
	}
	tests := []struct {
		value string
		want  string
	}{
		{"ab", "Bio must be at least 3 characters"},
		{"  ab  ", "Bio must be at least 3 characters"},
		{"abc", ""},
		{"abcde", ""},
		{"abcdef", "Bio must be no more than 5 characters"},
		{"héllo", ""},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateField(field, tt.value))
		})
	}
}

func TestValidateField_Number(t *testing.T) {
	field := models.FieldDefinition{
		ID:    "qty",
		Type:  models.FieldNumber,
		Label: "Quantity",
		Validation: &models.FieldValidation{
			Min: models.Float(5),
			Max: models.Float(10),
		},
	}
	tests := []struct {
		name  string
		value interface{}
		want  string
	}{
		{"below min", float64(3), "Quantity must be at least 5"},
		{"above max", float64(12), "Quantity must be no more than 10"},
		{"in range", float64(7), ""},
		{"numeric string", "7", ""},
		{"int", 6, ""},
		{"not a number", "seven", "Quantity must be a valid number"},
		{"infinite", "Inf", "Quantity must be a valid number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateField(field, tt.value))
		})
	}
}

func TestValidateField_Email(t *testing.T) {
	field := models.FieldDefinition{ID: "email", Type: models.FieldEmail, Label: "Email"}
	assert.Empty(t, ValidateField(field, "john@example.com"))
	assert.Equal(t, "Email must be a valid email address", ValidateField(field, "john@"))
	assert.Equal(t, "Email must be a valid email address", ValidateField(field, "john.example.com"))
}

func TestValidateField_RequiredWinsOverEmail(t *testing.T) {
	field := models.FieldDefinition{ID: "email", Type: models.FieldEmail, Label: "Email", Required: true}
	assert.Equal(t, "Email is required", ValidateField(field, ""))
}

func TestValidateField_Phone(t *testing.T) {
	field := models.FieldDefinition{ID: "phone", Type: models.FieldPhone, Label: "Phone"}
	assert.Empty(t, ValidateField(field, "+14155551234"))
	assert.Empty(t, ValidateField(field, "(415) 555-1234"))
	assert.Equal(t, "Phone must be a valid phone number", ValidateField(field, "abc"))
	assert.Equal(t, "Phone must be a valid phone number", ValidateField(field, "0123456"))
	assert.Equal(t, "Phone must be a valid phone number", ValidateField(field, "+1234567890123456"))
}

func TestValidateField_URL(t *testing.T) {
	field := models.FieldDefinition{ID: "site", Type: models.FieldURL, Label: "Website"}
	assert.Empty(t, ValidateField(field, "https://example.com/path?q=1"))
	assert.Empty(t, ValidateField(field, "mailto:john@example.com"))
	assert.Equal(t, "Website must be a valid URL", ValidateField(field, "example.com"))
	assert.Equal(t, "Website must be a valid URL", ValidateField(field, "http://"))
}

func TestValidateField_File(t *testing.T) {
	field := models.FieldDefinition{
		ID:    "cv",
		Type:  models.FieldFile,
		Label: "Resume",
		Validation: &models.FieldValidation{
			Max:     models.Float(2),
			Pattern: ".pdf, .DOCX",
		},
	}
	tests := []struct {
		name  string
		value interface{}
		want  string
	}{
		{"valid", &models.FileValue{Name: "cv.pdf", Size: 1024}, ""},
		{"extension case", models.FileValue{Name: "CV.Docx", Size: 1024}, ""},
		{"too large", &models.FileValue{Name: "cv.pdf", Size: 3 * 1024 * 1024}, "Resume file size must be less than 2MB"},
		{"exactly max", &models.FileValue{Name: "cv.pdf", Size: 2 * 1024 * 1024}, ""},
		{"wrong extension", &models.FileValue{Name: "cv.exe", Size: 10}, "Resume must be one of: .pdf, .DOCX"},
		{"decoded json", map[string]interface{}{"name": "cv.png", "size": float64(10)}, "Resume must be one of: .pdf, .DOCX"},
		{"not a file handle", "cv.exe", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateField(field, tt.value))
		})
	}
}

func TestValidateField_Pattern(t *testing.T) {
	field := models.FieldDefinition{
		ID:         "code",
		Type:       models.FieldText,
		Label:      "Code",
		Validation: &models.FieldValidation{Pattern: `^[A-Z]{3}-\d{2}$`},
	}
	assert.Empty(t, ValidateField(field, "ABC-12"))
	assert.Equal(t, "Code format is invalid", ValidateField(field, "abc-12"))

	field.Validation.Pattern = "([a-z"
	assert.Empty(t, ValidateField(field, "anything"), "invalid pattern is not a constraint")
}

func TestValidateField_Idempotent(t *testing.T) {
	fields := []models.FieldDefinition{
		{ID: "1", Type: models.FieldEmail, Label: "Email"},
		{ID: "2", Type: models.FieldPhone, Label: "Phone"},
		{ID: "3", Type: models.FieldNumber, Label: "Age", Validation: &models.FieldValidation{Min: models.Float(1)}},
		{ID: "4", Type: models.FieldText, Label: "Name", Validation: &models.FieldValidation{MaxLength: models.Int(10)}},
	}
	values := []interface{}{"a@b.co", "(415) 555-1234", "42", "Jane"}
	for i, f := range fields {
		assert.Empty(t, ValidateField(f, values[i]))
		assert.Empty(t, ValidateField(f, values[i]))
	}
}

func TestValidateForm(t *testing.T) {
	fields := []models.FieldDefinition{
		{ID: "name", Type: models.FieldText, Label: "Name", Required: true},
		{ID: "heading", Type: models.FieldHeading, Label: "About you"},
		{ID: "email", Type: models.FieldEmail, Label: "Email", Required: true},
		{ID: "age", Type: models.FieldNumber, Label: "Age", Validation: &models.FieldValidation{Min: models.Float(18)}},
		{ID: "site", Type: models.FieldURL, Label: "Website"},
	}
	values := map[string]interface{}{
		"email": "nope",
		"age":   "12",
		"site":  "https://example.com",
	}

	errs := ValidateForm(fields, values)
	want := []ValidationError{
		{Field: "name", Message: "Name is required"},
		{Field: "email", Message: "Email must be a valid email address"},
		{Field: "age", Message: "Age must be at least 18"},
	}
	if diff := cmp.Diff(want, errs); diff != "" {
		t.Errorf("ValidateForm() mismatch (-want +got):\n%s", diff)
	}

	failing := 0
	for _, f := range fields {
		if ValidateField(f, values[f.ID]) != "" {
			failing++
		}
	}
	assert.Equal(t, failing, len(errs))
	assert.Equal(t, "Age must be at least 18", ErrorMessageFor("age", errs))
	assert.Empty(t, ErrorMessageFor("site", errs))
}

func TestValidateForm_NoErrors(t *testing.T) {
	errs := ValidateForm(nil, nil)
	assert.NotNil(t, errs)
	assert.Empty(t, errs)
}
