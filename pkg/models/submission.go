package models

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// SubmissionPayload is the normalized submission handed to integrations.
type SubmissionPayload struct {
	FormTitle   string              `json:"formTitle"`
	Fields      []SubmissionField   `json:"fields"`
	SubmittedAt string              `json:"submittedAt"`
	Metadata    *SubmissionMetadata `json:"metadata,omitempty"`
}

type SubmissionField struct {
	ID    string      `json:"id"`
	Label string      `json:"label"`
	Type  FieldType   `json:"type"`
	Value interface{} `json:"value"`
}

type SubmissionMetadata struct {
	UserAgent string `json:"userAgent,omitempty"`
	IP        string `json:"ip,omitempty"`
	Referrer  string `json:"referrer,omitempty"`
}

// Clone returns a copy that shares no slices or maps with sp.
func (sp SubmissionPayload) Clone() SubmissionPayload {
	c := sp
	c.Fields = make([]SubmissionField, len(sp.Fields))
	for i, f := range sp.Fields {
		f.Value = cloneValue(f.Value)
		c.Fields[i] = f
	}
	if sp.Metadata != nil {
		md := *sp.Metadata
		c.Metadata = &md
	}
	return c
}

func cloneValue(v interface{}) interface{} {
	switch tv := v.(type) {
	case []string:
		return append([]string(nil), tv...)
	case []interface{}:
		out := make([]interface{}, len(tv))
		for i := range tv {
			out[i] = cloneValue(tv[i])
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(tv))
		for k, mv := range tv {
			out[k] = cloneValue(mv)
		}
		return out
	case *FileValue:
		if tv == nil {
			return tv
		}
		fv := *tv
		return &fv
	}
	return v
}

type FormResponse struct {
	ID          string                 `json:"id" bson:"id"`
	FormID      string                 `json:"formId" bson:"formId"`
	Data        map[string]interface{} `json:"data" bson:"data"`
	SubmittedAt string                 `json:"submittedAt" bson:"submittedAt"`
	IP          string                 `json:"ip,omitempty" bson:"ip,omitempty"`
	Metadata    *ResponseMetadata      `json:"metadata,omitempty" bson:"metadata,omitempty"`
}

type ResponseMetadata struct {
	UserAgent   string `json:"userAgent,omitempty" bson:"userAgent,omitempty"`
	Browser     string `json:"browser,omitempty" bson:"browser,omitempty"`
	OS          string `json:"os,omitempty" bson:"os,omitempty"`
	Device      string `json:"device,omitempty" bson:"device,omitempty"`
	Referrer    string `json:"referrer,omitempty" bson:"referrer,omitempty"`
	UtmSource   string `json:"utmSource,omitempty" bson:"utmSource,omitempty"`
	UtmMedium   string `json:"utmMedium,omitempty" bson:"utmMedium,omitempty"`
	UtmCampaign string `json:"utmCampaign,omitempty" bson:"utmCampaign,omitempty"`
}

var subValueKeyOrder = []string{
	"title", "first", "firstName", "middle", "last", "lastName",
	"street", "line1", "line2", "city", "state", "zip", "postalCode", "country",
}

// FormatValue renders an answer as a single display string: arrays are joined
// with ", ", files are shown by name and structured values (name, address)
// by their non-empty parts.
func FormatValue(v interface{}) string {
	switch tv := v.(type) {
	case nil:
		return ""
	case string:
		return tv
	case []string:
		return strings.Join(tv, ", ")
	case []interface{}:
		parts := make([]string, len(tv))
		for i := range tv {
			parts[i] = FormatValue(tv[i])
		}
		return strings.Join(parts, ", ")
	case bool:
		return strconv.FormatBool(tv)
	case float64:
		return strconv.FormatFloat(tv, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(tv), 'f', -1, 32)
	case int:
		return strconv.Itoa(tv)
	case int64:
		return strconv.FormatInt(tv, 10)
	case FileValue:
		return tv.Name
	case *FileValue:
		if tv == nil {
			return ""
		}
		return tv.Name
	case map[string]interface{}:
		return formatSubValues(tv)
	}
	// named slice and map types, such as the ones storage drivers decode into
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		parts := make([]string, rv.Len())
		for i := range parts {
			parts[i] = FormatValue(rv.Index(i).Interface())
		}
		return strings.Join(parts, ", ")
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			m := make(map[string]interface{}, rv.Len())
			iter := rv.MapRange()
			for iter.Next() {
				m[iter.Key().String()] = iter.Value().Interface()
			}
			return formatSubValues(m)
		}
	}
	return fmt.Sprint(v)
}

func formatSubValues(m map[string]interface{}) string {
	if name, ok := m["name"].(string); ok {
		if _, isFile := m["size"]; isFile {
			return name
		}
	}
	seen := make(map[string]bool, len(m))
	parts := make([]string, 0, len(m))
	for _, k := range subValueKeyOrder {
		if mv, ok := m[k]; ok {
			seen[k] = true
			if s := FormatValue(mv); s != "" {
				parts = append(parts, s)
			}
		}
	}
	rest := make([]string, 0, len(m))
	for k := range m {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	for _, k := range rest {
		if s := FormatValue(m[k]); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}
