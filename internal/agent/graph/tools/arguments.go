package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// SanitizeArguments is a best-effort cleanup of model-produced tool arguments
// and never fails: strings are trimmed, numbers given as strings are parsed
// and max_results is clamped to 1..20. Arguments that are not a JSON object
// are returned unchanged.
func SanitizeArguments(_ context.Context, name, arguments string) (string, error) {
	var m map[string]any
	if err := json.Unmarshal([]byte(arguments), &m); err != nil || m == nil {
		return arguments, nil
	}

	switch name {
	case ToolSearchProducts:
		trimString(m, "query", true)
		trimString(m, "category", false)
		trimString(m, "diet_type", false)
		if s, ok := m["diet_type"].(string); ok {
			m["diet_type"] = strings.ToLower(s)
		}
		number(m, "min_discount", false)
		number(m, "max_days_until_expiry", true)
		clampResults(m)
	case ToolGetDynamicPricing:
		trimString(m, "product_id", true)
	case ToolGetRecommendations:
		trimString(m, "user_id", true)
		clampResults(m)
	case ToolGetDeadStockRisk:
		trimString(m, "category", false)
		clampResults(m)
	}

	b, err := json.Marshal(m)
	if err != nil {
		return arguments, nil
	}
	return string(b), nil
}

// trimString trims a string field. Non-string values are coerced when
// coerce is set and dropped otherwise; empty optional strings are dropped.
func trimString(m map[string]any, key string, coerce bool) {
	v, ok := m[key]
	if !ok {
		return
	}
	switch vv := v.(type) {
	case string:
		s := strings.TrimSpace(vv)
		if s == "" && !coerce {
			delete(m, key)
			return
		}
		m[key] = s
	case nil:
		delete(m, key)
	default:
		if coerce {
			m[key] = strings.TrimSpace(fmt.Sprint(v))
		} else {
			delete(m, key)
		}
	}
}

// number keeps JSON numbers, parses numeric strings and drops anything else.
func number(m map[string]any, key string, integer bool) {
	v, ok := m[key]
	if !ok {
		return
	}
	switch vv := v.(type) {
	case float64:
		if integer {
			m[key] = int(vv)
		}
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(vv), 64)
		if err != nil {
			delete(m, key)
			return
		}
		if integer {
			m[key] = int(f)
		} else {
			m[key] = f
		}
	default:
		delete(m, key)
	}
}

func clampResults(m map[string]any) {
	number(m, "max_results", true)
	if v, ok := m["max_results"].(int); ok {
		m["max_results"] = clampInt(v, 1, maxMaxResults)
	}
}

// clampInt returns v limited to [lo, hi].
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
