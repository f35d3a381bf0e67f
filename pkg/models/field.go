package models

type FieldType string

const (
	FieldText        FieldType = "text"
	FieldTextarea    FieldType = "textarea"
	FieldNumber      FieldType = "number"
	FieldEmail       FieldType = "email"
	FieldPhone       FieldType = "phone"
	FieldSelect      FieldType = "select"
	FieldMultiselect FieldType = "multiselect"
	FieldRadio       FieldType = "radio"
	FieldCheckbox    FieldType = "checkbox"
	FieldDate        FieldType = "date"
	FieldTime        FieldType = "time"
	FieldFile        FieldType = "file"
	FieldRating      FieldType = "rating"
	FieldURL         FieldType = "url"
	FieldName        FieldType = "name"
	FieldAddress     FieldType = "address"
	FieldPayment     FieldType = "payment"
	FieldSignature   FieldType = "signature"
	FieldDivider     FieldType = "divider"
	FieldHeading     FieldType = "heading"
)

// FieldTypes lists every supported field type in palette order.
var FieldTypes = []FieldType{
	FieldText, FieldTextarea, FieldNumber, FieldEmail, FieldPhone,
	FieldSelect, FieldMultiselect, FieldRadio, FieldCheckbox,
	FieldDate, FieldTime, FieldFile, FieldRating, FieldURL,
	FieldName, FieldAddress, FieldPayment, FieldSignature,
	FieldDivider, FieldHeading,
}

func (t FieldType) Valid() bool {
	for _, ft := range FieldTypes {
		if ft == t {
			return true
		}
	}
	return false
}

// IsChoice reports whether the field picks from a list of options.
func (t FieldType) IsChoice() bool {
	switch t {
	case FieldSelect, FieldMultiselect, FieldRadio, FieldCheckbox:
		return true
	}
	return false
}

func (t FieldType) IsText() bool {
	return t == FieldText || t == FieldTextarea
}

// IsLayout reports whether the field only structures the form and never holds an answer.
func (t FieldType) IsLayout() bool {
	return t == FieldDivider || t == FieldHeading
}

type FieldDefinition struct {
	ID           string           `json:"id" yaml:"id" bson:"id"`
	Type         FieldType        `json:"type" yaml:"type" bson:"type"`
	Label        string           `json:"label" yaml:"label" bson:"label"`
	Placeholder  string           `json:"placeholder,omitempty" yaml:"placeholder,omitempty" bson:"placeholder,omitempty"`
	Description  string           `json:"description,omitempty" yaml:"description,omitempty" bson:"description,omitempty"`
	Required     bool             `json:"required" yaml:"required" bson:"required"`
	Options      []string         `json:"options,omitempty" yaml:"options,omitempty" bson:"options,omitempty"`
	DefaultValue interface{}      `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty" bson:"defaultValue,omitempty"`
	Validation   *FieldValidation `json:"validation,omitempty" yaml:"validation,omitempty" bson:"validation,omitempty"`
	Conditional  *Conditional     `json:"conditional,omitempty" yaml:"conditional,omitempty" bson:"conditional,omitempty"`
}

// FieldValidation holds optional constraints. Min and Max bound numbers, or the
// file size in megabytes for file fields. Pattern is a regular expression, or a
// comma separated extension list (".pdf, .png") for file fields.
type FieldValidation struct {
	Pattern   string   `json:"pattern,omitempty" yaml:"pattern,omitempty" bson:"pattern,omitempty"`
	Min       *float64 `json:"min,omitempty" yaml:"min,omitempty" bson:"min,omitempty"`
	Max       *float64 `json:"max,omitempty" yaml:"max,omitempty" bson:"max,omitempty"`
	MinLength *int     `json:"minLength,omitempty" yaml:"minLength,omitempty" bson:"minLength,omitempty"`
	MaxLength *int     `json:"maxLength,omitempty" yaml:"maxLength,omitempty" bson:"maxLength,omitempty"`
}

type ConditionOperator string

const (
	OperatorEquals      ConditionOperator = "equals"
	OperatorNotEquals   ConditionOperator = "notEquals"
	OperatorContains    ConditionOperator = "contains"
	OperatorNotContains ConditionOperator = "notContains"
	OperatorGreaterThan ConditionOperator = "greaterThan"
	OperatorLessThan    ConditionOperator = "lessThan"
)

// Conditional shows a field only when another field's value matches.
type Conditional struct {
	Field    string            `json:"field" yaml:"field" bson:"field"`
	Value    interface{}       `json:"value" yaml:"value" bson:"value"`
	Operator ConditionOperator `json:"operator" yaml:"operator" bson:"operator"`
}

// FileValue is the value of a file field: the uploaded file's metadata.
type FileValue struct {
	Name        string `json:"name" mapstructure:"name"`
	Size        int64  `json:"size" mapstructure:"size"`
	ContentType string `json:"contentType,omitempty" mapstructure:"contentType"`
}

func Float(v float64) *float64 {
	return &v
}

func Int(v int) *int {
	return &v
}
