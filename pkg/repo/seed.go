package repo

import (
	"os"

	"github.com/jackrejister/form-craft-nexus/pkg/models"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// SampleForms returns the forms a fresh in-memory store starts with.
func SampleForms() []models.Form {
	feedbackSettings := models.DefaultSettings()
	feedbackSettings.AllowMultipleSubmissions = false
	feedbackSettings.EnableCaptcha = true

	registrationSettings := feedbackSettings
	registrationSettings.SubmitButtonText = "Register"

	contactSettings := models.FormSettings{
		AllowMultipleSubmissions: true,
		EnableCaptcha:            true,
		SubmitButtonText:         "Send Message",
	}

	return []models.Form{
		{
			ID:          "1",
			Title:       "Customer Feedback",
			Description: "Help us improve our products and services",
			CreatedAt:   "2023-04-15T10:30:00Z",
			UpdatedAt:   "2023-04-16T14:45:00Z",
			Submissions: 245,
			Fields: []models.FieldDefinition{
				{ID: "name", Type: models.FieldText, Label: "Name", Required: true},
				{ID: "email", Type: models.FieldEmail, Label: "Email", Required: true},
				{ID: "rating", Type: models.FieldRating, Label: "Overall satisfaction", Required: true,
					Validation: &models.FieldValidation{Min: models.Float(1), Max: models.Float(5)}},
				{ID: "improve", Type: models.FieldTextarea, Label: "What could we improve?",
					Conditional: &models.Conditional{Field: "rating", Operator: models.OperatorLessThan, Value: 4}},
			},
			Theme:        models.DefaultTheme(),
			Settings:     feedbackSettings,
			Integrations: []models.FormIntegration{},
		},
		{
			ID:          "2",
			Title:       "Event Registration",
			Description: "Register for our upcoming webinar",
			CreatedAt:   "2023-05-02T09:15:00Z",
			UpdatedAt:   "2023-05-03T11:20:00Z",
			Submissions: 124,
			Fields: []models.FieldDefinition{
				{ID: "name", Type: models.FieldName, Label: "Full name", Required: true},
				{ID: "email", Type: models.FieldEmail, Label: "Email", Required: true},
				{ID: "phone", Type: models.FieldPhone, Label: "Phone"},
				{ID: "session", Type: models.FieldSelect, Label: "Session", Required: true,
					Options: []string{"Morning", "Afternoon"}},
			},
			Theme:        models.DefaultTheme(),
			Settings:     registrationSettings,
			Integrations: []models.FormIntegration{},
		},
		{
			ID:          "3",
			Title:       "Contact Form",
			Description: "Get in touch with our team",
			CreatedAt:   "2023-03-10T16:45:00Z",
			UpdatedAt:   "2023-03-11T08:30:00Z",
			Submissions: 78,
			Fields: []models.FieldDefinition{
				{ID: "name", Type: models.FieldText, Label: "Name", Required: true},
				{ID: "email", Type: models.FieldEmail, Label: "Email", Required: true},
				{ID: "message", Type: models.FieldTextarea, Label: "Message", Required: true,
					Validation: &models.FieldValidation{MinLength: models.Int(10), MaxLength: models.Int(2000)}},
			},
			Theme:        models.DefaultTheme(),
			Settings:     contactSettings,
			Integrations: []models.FormIntegration{},
		},
	}
}

type seedFile struct {
	Forms []models.Form `yaml:"forms"`
}

// LoadSeedFile reads extra forms from a YAML file with a top level "forms" list.
func LoadSeedFile(path string) ([]models.Form, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading seed file %s", path)
	}
	var sf seedFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, errors.Wrapf(err, "error parsing seed file %s", path)
	}
	return sf.Forms, nil
}
