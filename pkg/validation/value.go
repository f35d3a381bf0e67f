package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jackrejister/form-craft-nexus/pkg/models"
	"github.com/mitchellh/mapstructure"
)

func isEmpty(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case bool:
		return !v
	case []string:
		return len(v) == 0
	case []interface{}:
		return len(v) == 0
	case map[string]interface{}:
		for _, mv := range v {
			if !isEmpty(mv) {
				return false
			}
		}
		return true
	case models.FileValue:
		return v.Name == "" && v.Size == 0
	case *models.FileValue:
		return v == nil || (v.Name == "" && v.Size == 0)
	case float64, float32, int, int32, int64, json.Number:
		return false
	}
	return strings.TrimSpace(fmt.Sprint(value)) == ""
}

func stringValue(value interface{}) string {
	return models.FormatValue(value)
}

// numberValue coerces value to a finite number.
func numberValue(value interface{}) (float64, bool) {
	var n float64
	switch v := value.(type) {
	case float64:
		n = v
	case float32:
		n = float64(v)
	case int:
		n = float64(v)
	case int32:
		n = float64(v)
	case int64:
		n = float64(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		n = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		n = f
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// fileValue extracts file metadata from a file handle or its decoded JSON form.
func fileValue(value interface{}) (models.FileValue, bool) {
	switch v := value.(type) {
	case models.FileValue:
		return v, true
	case *models.FileValue:
		if v == nil {
			return models.FileValue{}, false
		}
		return *v, true
	case map[string]interface{}:
		if _, ok := v["name"]; !ok {
			return models.FileValue{}, false
		}
		var fv models.FileValue
		if err := mapstructure.WeakDecode(v, &fv); err != nil {
			return models.FileValue{}, false
		}
		return fv, true
	}
	return models.FileValue{}, false
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// IsEmpty reports whether value counts as unanswered.
func IsEmpty(value interface{}) bool {
	return isEmpty(value)
}
