package models

type Form struct {
	ID           string            `json:"id" yaml:"id" bson:"id"`
	Title        string            `json:"title" yaml:"title" bson:"title"`
	Description  string            `json:"description,omitempty" yaml:"description,omitempty" bson:"description,omitempty"`
	Fields       []FieldDefinition `json:"fields" yaml:"fields" bson:"fields"`
	Theme        FormTheme         `json:"theme" yaml:"theme" bson:"theme"`
	Settings     FormSettings      `json:"settings" yaml:"settings" bson:"settings"`
	Integrations []FormIntegration `json:"integrations" yaml:"integrations" bson:"integrations"`
	CreatedAt    string            `json:"createdAt" yaml:"createdAt" bson:"createdAt"`
	UpdatedAt    string            `json:"updatedAt" yaml:"updatedAt" bson:"updatedAt"`
	Submissions  int               `json:"submissions" yaml:"submissions" bson:"submissions"`
}

// Field returns the field with the given id.
func (f *Form) Field(id string) (FieldDefinition, bool) {
	for _, fd := range f.Fields {
		if fd.ID == id {
			return fd, true
		}
	}
	return FieldDefinition{}, false
}

func (f *Form) Integration(id string) (FormIntegration, bool) {
	for _, i := range f.Integrations {
		if i.ID == id {
			return i, true
		}
	}
	return FormIntegration{}, false
}

type FormTheme struct {
	BackgroundColor string `json:"backgroundColor" yaml:"backgroundColor" bson:"backgroundColor"`
	TextColor       string `json:"textColor" yaml:"textColor" bson:"textColor"`
	AccentColor     string `json:"accentColor" yaml:"accentColor" bson:"accentColor"`
	FontFamily      string `json:"fontFamily" yaml:"fontFamily" bson:"fontFamily"`
	BorderRadius    string `json:"borderRadius" yaml:"borderRadius" bson:"borderRadius"`
	Logo            string `json:"logo,omitempty" yaml:"logo,omitempty" bson:"logo,omitempty"`
	CoverImage      string `json:"coverImage,omitempty" yaml:"coverImage,omitempty" bson:"coverImage,omitempty"`
}

type FormSettings struct {
	RedirectAfterSubmit      string `json:"redirectAfterSubmit,omitempty" yaml:"redirectAfterSubmit,omitempty" bson:"redirectAfterSubmit,omitempty"`
	SavePartialResponses     bool   `json:"savePartialResponses" yaml:"savePartialResponses" bson:"savePartialResponses"`
	AllowMultipleSubmissions bool   `json:"allowMultipleSubmissions" yaml:"allowMultipleSubmissions" bson:"allowMultipleSubmissions"`
	EnableCaptcha            bool   `json:"enableCaptcha" yaml:"enableCaptcha" bson:"enableCaptcha"`
	ShowProgressBar          bool   `json:"showProgressBar" yaml:"showProgressBar" bson:"showProgressBar"`
	ConfirmationMessage      string `json:"confirmationMessage,omitempty" yaml:"confirmationMessage,omitempty" bson:"confirmationMessage,omitempty"`
	SubmitButtonText         string `json:"submitButtonText" yaml:"submitButtonText" bson:"submitButtonText"`
	SubmitButtonColor        string `json:"submitButtonColor,omitempty" yaml:"submitButtonColor,omitempty" bson:"submitButtonColor,omitempty"`
	LimitSubmissions         int    `json:"limitSubmissions,omitempty" yaml:"limitSubmissions,omitempty" bson:"limitSubmissions,omitempty"`
	ClosedMessage            string `json:"closedMessage,omitempty" yaml:"closedMessage,omitempty" bson:"closedMessage,omitempty"`
	FormExpiry               string `json:"formExpiry,omitempty" yaml:"formExpiry,omitempty" bson:"formExpiry,omitempty"`
}

func DefaultTheme() FormTheme {
	return FormTheme{
		BackgroundColor: "#ffffff",
		TextColor:       "#1a1a1a",
		AccentColor:     "#9b87f5",
		FontFamily:      "Inter, sans-serif",
		BorderRadius:    "8px",
	}
}

func DefaultSettings() FormSettings {
	return FormSettings{
		SavePartialResponses:     true,
		AllowMultipleSubmissions: true,
		ShowProgressBar:          true,
		SubmitButtonText:         "Submit",
	}
}
