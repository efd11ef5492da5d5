// Package convert provides type normalization for query parameter values.
//
// Host values arrive as whatever Go types the caller happens to hold
// (int32, float32, typed slices, nested maps). The builder normalizes them
// through this package so that literal rendering and parameter conversion
// see a small, predictable set of shapes.
//
// All conversion functions return a success boolean so callers can handle
// unconvertible values gracefully.
//
// Example:
//
//	if i, ok := convert.ToInt64(v); ok {
//		// render as an integer literal
//	}
package convert

import "strconv"

// ToFloat64 converts any numeric type (or numeric string) to float64.
// Returns (value, true) on success, (0, false) on failure.
func ToFloat64(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case int32:
		return float64(val), true
	case int16:
		return float64(val), true
	case int8:
		return float64(val), true
	case uint:
		return float64(val), true
	case uint64:
		return float64(val), true
	case uint32:
		return float64(val), true
	case string:
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

// ToInt64 converts any integer type to int64. Floats and strings do not
// convert; a value that renders as an integer literal must actually be one.
// Returns (value, true) on success, (0, false) on failure.
func ToInt64(v any) (int64, bool) {
	switch val := v.(type) {
	case int64:
		return val, true
	case int:
		return int64(val), true
	case int32:
		return int64(val), true
	case int16:
		return int64(val), true
	case int8:
		return int64(val), true
	case uint:
		return int64(val), true
	case uint32:
		return int64(val), true
	case uint16:
		return int64(val), true
	case uint8:
		return int64(val), true
	case uint64:
		return int64(val), true
	}
	return 0, false
}
