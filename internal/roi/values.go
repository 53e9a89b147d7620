package roi

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Values holds raw user inputs keyed by field id. Percent fields are stored
// as whole percents (45 means 45%).
type Values map[string]float64

// Get returns the value for id, or 0 when it is absent or not finite.
func (v Values) Get(id string) float64 {
	x, ok := v[id]
	if !ok || math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}

// NonNegative returns Get(id) clamped at 0 from below.
func (v Values) NonNegative(id string) float64 {
	return math.Max(0, v.Get(id))
}

// Rate converts a whole-percent input into a fraction in [0, 1].
func (v Values) Rate(id string) float64 {
	return clamp01(v.Get(id) / 100)
}

func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, x := range v {
		out[k] = x
	}
	return out
}

// Merge returns a copy of v with every entry of override applied on top.
func (v Values) Merge(override Values) Values {
	out := v.Clone()
	for k, x := range override {
		out[k] = x
	}
	return out
}

// ValuesFromMap coerces loosely typed input, as decoded from JSON or a
// workflow variable, into Values. Non-numeric entries become 0.
func ValuesFromMap(in map[string]interface{}) Values {
	out := make(Values, len(in))
	for k, raw := range in {
		out[k] = toFloat(raw)
	}
	return out
}

func toFloat(raw interface{}) float64 {
	var x float64
	switch n := raw.(type) {
	case float64:
		x = n
	case float32:
		x = float64(n)
	case int:
		x = float64(n)
	case int32:
		x = float64(n)
	case int64:
		x = float64(n)
	case json.Number:
		x, _ = n.Float64()
	case string:
		x, _ = strconv.ParseFloat(strings.TrimSpace(n), 64)
	default:
		return 0
	}
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}

func clamp01(x float64) float64 {
	if math.IsNaN(x) || x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
