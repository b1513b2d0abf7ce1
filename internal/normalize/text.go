package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// normalizeText implements §4.4's text-collection rule: a string maps
// to itself; an array maps to the concatenation of its string items and
// the text field of its object items; an object maps to its text field.
// If no string parts can be collected this way, the value is
// JSON-stringified instead (primitives in their native string form,
// null contributing nothing).
func normalizeText(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []any:
		var parts []string
		for _, item := range val {
			if s, ok := item.(string); ok {
				parts = append(parts, s)
				continue
			}
			if obj, ok := item.(map[string]any); ok {
				if t, ok := obj["text"].(string); ok {
					parts = append(parts, t)
				}
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, "")
		}
		return stringifyFallback(val)
	case map[string]any:
		if t, ok := val["text"].(string); ok {
			return t
		}
		return stringifyFallback(val)
	default:
		return stringifyFallback(val)
	}
}

func stringifyFallback(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return formatNumber(val)
	case bool:
		return strconv.FormatBool(val)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

func formatNumber(f float64) string {
	if f == math.Trunc(f) && !math.IsInf(f, 0) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
