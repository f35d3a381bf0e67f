package validation

import (
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/jackrejister/form-craft-nexus/pkg/models"
)

type rule func(field models.FieldDefinition, v *models.FieldValidation, value interface{}) string

var typeRules = map[models.FieldType][]rule{
	models.FieldText:     {textLength},
	models.FieldTextarea: {textLength},
	models.FieldNumber:   {numberRange},
	models.FieldEmail:    {emailFormat},
	models.FieldURL:      {absoluteURL},
	models.FieldPhone:    {phoneNumber},
	models.FieldFile:     {fileSize, fileExtension},
}

var (
	emailRe      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe      = regexp.MustCompile(`^\+?[1-9]\d{0,14}$`)
	phoneCleanRe = regexp.MustCompile(`[\s\-()]`)
)

const bytesPerMB = 1024 * 1024

func textLength(field models.FieldDefinition, v *models.FieldValidation, value interface{}) string {
	s := stringValue(value)
	if v.MinLength != nil && *v.MinLength > 0 && utf8.RuneCountInString(strings.TrimSpace(s)) < *v.MinLength {
		return fmt.Sprintf("%s must be at least %d characters", field.Label, *v.MinLength)
	}
	if v.MaxLength != nil && *v.MaxLength > 0 && utf8.RuneCountInString(s) > *v.MaxLength {
		return fmt.Sprintf("%s must be no more than %d characters", field.Label, *v.MaxLength)
	}
	return ""
}

func numberRange(field models.FieldDefinition, v *models.FieldValidation, value interface{}) string {
	n, ok := numberValue(value)
	if !ok {
		return fmt.Sprintf("%s must be a valid number", field.Label)
	}
	if v.Min != nil && n < *v.Min {
		return fmt.Sprintf("%s must be at least %s", field.Label, formatNumber(*v.Min))
	}
	if v.Max != nil && n > *v.Max {
		return fmt.Sprintf("%s must be no more than %s", field.Label, formatNumber(*v.Max))
	}
	return ""
}

func emailFormat(field models.FieldDefinition, _ *models.FieldValidation, value interface{}) string {
	if !emailRe.MatchString(stringValue(value)) {
		return fmt.Sprintf("%s must be a valid email address", field.Label)
	}
	return ""
}

func absoluteURL(field models.FieldDefinition, _ *models.FieldValidation, value interface{}) string {
	u, err := url.Parse(strings.TrimSpace(stringValue(value)))
	if err != nil || u.Scheme == "" || (u.Host == "" && u.Opaque == "" && u.Path == "") {
		return fmt.Sprintf("%s must be a valid URL", field.Label)
	}
	return ""
}

func phoneNumber(field models.FieldDefinition, _ *models.FieldValidation, value interface{}) string {
	clean := phoneCleanRe.ReplaceAllString(stringValue(value), "")
	if !phoneRe.MatchString(clean) {
		return fmt.Sprintf("%s must be a valid phone number", field.Label)
	}
	return ""
}

// fileSize and fileExtension only apply when the value carries file metadata.
func fileSize(field models.FieldDefinition, v *models.FieldValidation, value interface{}) string {
	fv, ok := fileValue(value)
	if !ok || v.Max == nil || *v.Max <= 0 {
		return ""
	}
	if float64(fv.Size)/bytesPerMB > *v.Max {
		return fmt.Sprintf("%s file size must be less than %sMB", field.Label, formatNumber(*v.Max))
	}
	return ""
}

func fileExtension(field models.FieldDefinition, v *models.FieldValidation, value interface{}) string {
	fv, ok := fileValue(value)
	if !ok || strings.TrimSpace(v.Pattern) == "" {
		return ""
	}
	allowed := make([]string, 0)
	for _, ext := range strings.Split(v.Pattern, ",") {
		if ext = strings.TrimSpace(ext); ext != "" {
			allowed = append(allowed, ext)
		}
	}
	ext := strings.ToLower(path.Ext(fv.Name))
	for _, a := range allowed {
		if strings.ToLower(a) == ext {
			return ""
		}
	}
	return fmt.Sprintf("%s must be one of: %s", field.Label, strings.Join(allowed, ", "))
}

func patternRule(field models.FieldDefinition, v *models.FieldValidation, value interface{}) string {
	if v.Pattern == "" {
		return ""
	}
	re := compilePattern(v.Pattern)
	if re == nil {
		return ""
	}
	if !re.MatchString(stringValue(value)) {
		return fmt.Sprintf("%s format is invalid", field.Label)
	}
	return ""
}

// patterns caches compiled field patterns; invalid patterns are stored as nil.
var patterns sync.Map

func compilePattern(p string) *regexp.Regexp {
	if cached, ok := patterns.Load(p); ok {
		return cached.(*regexp.Regexp)
	}
	re, err := regexp.Compile(p)
	if err != nil {
		re = nil
	}
	patterns.Store(p, re)
	return re
}
