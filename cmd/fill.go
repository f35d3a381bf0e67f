package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/jackrejister/form-craft-nexus/pkg/models"
	"github.com/jackrejister/form-craft-nexus/pkg/validation"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	formFile string
	fillCmd  = &cobra.Command{
		Use:   "fill",
		Short: "Fill a form definition in the terminal and print the answers as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			form, err := readFormFile(formFile)
			if err != nil {
				return err
			}
			values, err := fillForm(form, surveyAsker{})
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(values)
		},
	}
)

func init() {
	fillCmd.Flags().StringVar(&formFile, "file", "", "form definition in YAML")
	_ = fillCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(fillCmd)
}

func readFormFile(path string) (models.Form, error) {
	var form models.Form
	data, err := os.ReadFile(path)
	if err != nil {
		return form, errors.Wrapf(err, "error reading form %s", path)
	}
	if err := yaml.Unmarshal(data, &form); err != nil {
		return form, errors.Wrapf(err, "error parsing form %s", path)
	}
	if err := validation.ValidateDefinitions(form.Fields); err != nil {
		return form, errors.Wrapf(err, "invalid form %s", path)
	}
	return form, nil
}

type asker interface {
	Ask(field models.FieldDefinition, validate func(interface{}) error) (interface{}, error)
}

// fillForm asks every answerable field in order. Conditionals are evaluated
// against the answers given so far, so hidden fields are never asked.
func fillForm(form models.Form, a asker) (map[string]interface{}, error) {
	values := make(map[string]interface{})
	for _, f := range form.Fields {
		if f.Type.IsLayout() || !answerable(f.Type) || !validation.IsVisible(f, values) {
			continue
		}
		field := f
		v, err := a.Ask(field, func(ans interface{}) error {
			if msg := validation.ValidateField(field, convertAnswer(field, ans)); msg != "" {
				return errors.New(msg)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		v = convertAnswer(field, v)
		if !validation.IsEmpty(v) {
			values[field.ID] = v
		}
	}
	visible := validation.VisibleFields(form.Fields, values)
	if errs := validation.ValidateForm(visible, values); len(errs) > 0 {
		return values, errors.Errorf("%s: %s", errs[0].Field, errs[0].Message)
	}
	return values, nil
}

func answerable(t models.FieldType) bool {
	switch t {
	case models.FieldFile, models.FieldPayment, models.FieldSignature:
		return false
	}
	return true
}

// convertAnswer turns a raw prompt answer into the value a browser would send.
func convertAnswer(field models.FieldDefinition, ans interface{}) interface{} {
	switch a := ans.(type) {
	case string:
		if field.Type == models.FieldNumber || field.Type == models.FieldRating {
			s := strings.TrimSpace(a)
			if s == "" {
				return nil
			}
			if n, err := strconv.ParseFloat(s, 64); err == nil {
				return n
			}
		}
		return a
	case []string:
		return a
	case []interface{}:
		out := make([]string, 0, len(a))
		for _, o := range a {
			out = append(out, optionValue(o))
		}
		return out
	}
	return ans
}

func optionValue(o interface{}) string {
	switch v := o.(type) {
	case string:
		return v
	case interface{ String() string }:
		return v.String()
	}
	return fmt.Sprint(o)
}

type surveyAsker struct{}

func (surveyAsker) Ask(field models.FieldDefinition, validate func(interface{}) error) (interface{}, error) {
	message := field.Label
	if field.Required {
		message += " *"
	}
	switch {
	case field.Type == models.FieldSelect || field.Type == models.FieldRadio:
		var out string
		prompt := &survey.Select{Message: message, Options: field.Options, Help: field.Description}
		err := survey.AskOne(prompt, &out)
		return out, err
	case field.Type == models.FieldMultiselect || field.Type == models.FieldCheckbox:
		var out []string
		prompt := &survey.MultiSelect{Message: message, Options: field.Options, Help: field.Description}
		var opts []survey.AskOpt
		if field.Required {
			opts = append(opts, survey.WithValidator(survey.Required))
		}
		err := survey.AskOne(prompt, &out, opts...)
		return out, err
	case field.Type == models.FieldTextarea:
		var out string
		prompt := &survey.Multiline{Message: message, Help: field.Description}
		err := survey.AskOne(prompt, &out, survey.WithValidator(validate))
		return out, err
	}
	var out string
	prompt := &survey.Input{Message: message, Help: field.Description}
	if s, ok := field.DefaultValue.(string); ok {
		prompt.Default = s
	}
	err := survey.AskOne(prompt, &out, survey.WithValidator(validate))
	return out, err
}
