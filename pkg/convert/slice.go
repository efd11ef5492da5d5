package convert

// ToAnySlice normalizes common typed slices to []any so recursive value
// conversion only has to handle one list shape.
// Returns (slice, true) on success, (nil, false) when v is not a slice of a
// supported element type.
func ToAnySlice(v any) ([]any, bool) {
	switch val := v.(type) {
	case []any:
		return val, true
	case []string:
		out := make([]any, len(val))
		for i, s := range val {
			out[i] = s
		}
		return out, true
	case []int:
		out := make([]any, len(val))
		for i, n := range val {
			out[i] = n
		}
		return out, true
	case []int64:
		out := make([]any, len(val))
		for i, n := range val {
			out[i] = n
		}
		return out, true
	case []float64:
		out := make([]any, len(val))
		for i, f := range val {
			out[i] = f
		}
		return out, true
	case []bool:
		out := make([]any, len(val))
		for i, b := range val {
			out[i] = b
		}
		return out, true
	case []map[string]any:
		out := make([]any, len(val))
		for i, m := range val {
			out[i] = m
		}
		return out, true
	}
	return nil, false
}
