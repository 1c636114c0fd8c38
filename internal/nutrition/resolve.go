package nutrition

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// DefaultCalorieKeys is the candidate key priority order, highest first.
// Records written by different historical write paths stored the calorie
// value under different names; no migration of stored rows is assumed.
var DefaultCalorieKeys = []string{
	"approx_calories",
	"calories",
	"estimated_calories",
	"est_calories",
	"ai_estimated_calories",
	"ai_calories",
	"calorie_estimate",
	"calories_estimate",
	"kcal",
}

// ResolveCalories is a total function: the first candidate key holding a
// value coercible to a finite number wins, anything else resolves to 0.
// The result is never negative, NaN, or infinite.
func ResolveCalories(record NutritionRecord, candidateKeys []string) float64 {
	for _, key := range candidateKeys {
		raw, ok := record.CalorieFields[key]
		if !ok || raw == nil {
			continue
		}
		value, ok := coerceFinite(raw)
		if !ok {
			continue
		}
		if value < 0 {
			return 0
		}
		return value
	}
	return 0
}

func coerceFinite(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return v, true
	case float32:
		return coerceFinite(float64(v))
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return coerceFinite(f)
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return 0, false
		}
		return coerceFinite(f)
	default:
		return 0, false
	}
}
