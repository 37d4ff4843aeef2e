// Package fields provides the flat field dictionaries the forms layer writes
// for every catalog entity, plus the presence rule used by completion checks.
package fields

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Dictionary is the field map of a single entity (member or account).
//
// Values are whatever the forms layer stored: strings, numbers (json.Number
// after decoding), booleans, lists of instances and nested maps.
type Dictionary map[string]any

// IsPresent reports whether a field value counts as filled in.
//
// A value is absent when it is nil, an empty or whitespace-only string, or an
// empty list/map. Zero, false and the string "0" are present.
func IsPresent(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(t) != ""
	case json.Number:
		return strings.TrimSpace(string(t)) != ""
	case []any:
		return len(t) > 0
	case []string:
		return len(t) > 0
	case []map[string]any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	case Dictionary:
		return len(t) > 0
	case *time.Time:
		return t != nil && !t.IsZero()
	}
	return true
}

// Present reports whether key holds a present value.
func (d Dictionary) Present(key string) bool {
	if d == nil {
		return false
	}
	return IsPresent(d[key])
}

// Has checks if key exists (including nil values).
func (d Dictionary) Has(key string) bool {
	if d == nil {
		return false
	}
	_, ok := d[key]
	return ok
}

// --- Type-safe getters ---

// GetString returns string value or empty string if not found/wrong type.
func (d Dictionary) GetString(key string) string {
	if d == nil {
		return ""
	}
	switch v := d[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	}
	return ""
}

// GetDecimal returns decimal.Decimal value with full precision.
func (d Dictionary) GetDecimal(key string) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	v, _ := ToDecimal(d[key])
	return v
}

// GetList returns a list value or nil.
func (d Dictionary) GetList(key string) []any {
	if d == nil {
		return nil
	}
	return AsList(d[key])
}

// GetMap returns nested map.
func (d Dictionary) GetMap(key string) Dictionary {
	if d == nil {
		return nil
	}
	switch v := d[key].(type) {
	case map[string]any:
		return Dictionary(v)
	case Dictionary:
		return v
	}
	return nil
}

// Clone creates a shallow copy.
func (d Dictionary) Clone() Dictionary {
	if d == nil {
		return nil
	}
	result := make(Dictionary, len(d))
	for k, v := range d {
		result[k] = v
	}
	return result
}

// Merge returns a copy of d with every key of patch applied on top.
// A nil value in patch removes the key.
func (d Dictionary) Merge(patch Dictionary) Dictionary {
	result := make(Dictionary, len(d)+len(patch))
	for k, v := range d {
		result[k] = v
	}
	for k, v := range patch {
		if v == nil {
			delete(result, k)
			continue
		}
		result[k] = v
	}
	return result
}

// ToDecimal converts a numeric-looking value to decimal.Decimal.
func ToDecimal(v any) (decimal.Decimal, bool) {
	switch t := v.(type) {
	case json.Number:
		d, err := decimal.NewFromString(t.String())
		return d, err == nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(t))
		return d, err == nil
	case float64:
		return decimal.NewFromFloat(t), true
	case float32:
		return decimal.NewFromFloat32(t), true
	case int:
		return decimal.NewFromInt(int64(t)), true
	case int64:
		return decimal.NewFromInt(t), true
	case decimal.Decimal:
		return t, true
	}
	return decimal.Zero, false
}

// AsList returns v as a list when it is one.
func AsList(v any) []any {
	switch t := v.(type) {
	case []any:
		return t
	case []map[string]any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = t[i]
		}
		return out
	}
	return nil
}
