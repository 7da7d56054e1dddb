package entities

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// GenerationParameters are the user-supplied values a prompt is built from.
// Values arrive decoded from JSON, so numbers are usually float64. The
// accessors never fail: a missing or wrongly-typed value yields the default.
type GenerationParameters map[string]interface{}

// String returns a non-empty string value or def
func (p GenerationParameters) String(key, def string) string {
	if s, ok := p[key].(string); ok {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return def
}

// Float returns a non-negative finite number or def. Numeric strings are accepted.
func (p GenerationParameters) Float(key string, def float64) float64 {
	v, ok := toFloat(p[key])
	if !ok || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return v
}

// MaxStoredInt is the largest integer a plan column can hold
const MaxStoredInt = math.MaxInt32

// RoundCount rounds v to the nearest integer within [0, MaxStoredInt].
// NaN yields 0.
func RoundCount(v float64) int {
	switch {
	case math.IsNaN(v) || v <= 0:
		return 0
	case v >= MaxStoredInt:
		return MaxStoredInt
	}
	return int(math.Round(v))
}

// Int returns Float rounded to the nearest integer, capped at MaxStoredInt
func (p GenerationParameters) Int(key string, def int) int {
	v := p.Float(key, -1)
	if v < 0 {
		return def
	}
	return RoundCount(v)
}

// PositiveInt is like Int but treats zero as missing
func (p GenerationParameters) PositiveInt(key string, def int) int {
	if v := p.Int(key, def); v > 0 {
		return v
	}
	return def
}

// StringList returns a list of non-empty strings. A single string becomes a
// one-element list; any other shape yields def.
func (p GenerationParameters) StringList(key string, def []string) []string {
	switch v := p[key].(type) {
	case []string:
		return compactStrings(v)
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return cloneStrings(def)
			}
			out = append(out, s)
		}
		return compactStrings(out)
	case string:
		if s := strings.TrimSpace(v); s != "" {
			return []string{s}
		}
	}
	return cloneStrings(def)
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}

func compactStrings(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
