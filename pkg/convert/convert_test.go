package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToFloat64(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  float64
		ok    bool
	}{
		{"float64", 3.14, 3.14, true},
		{"float32", float32(2.5), 2.5, true},
		{"int", 7, 7.0, true},
		{"int64", int64(-9), -9.0, true},
		{"int32", int32(12), 12.0, true},
		{"uint", uint(3), 3.0, true},
		{"numeric string", "1.25", 1.25, true},
		{"integer string", "42", 42.0, true},
		{"non-numeric string", "abc", 0, false},
		{"bool", true, 0, false},
		{"nil", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToFloat64(tt.input)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestToInt64(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  int64
		ok    bool
	}{
		{"int", 42, 42, true},
		{"int64", int64(-5), -5, true},
		{"int32", int32(9), 9, true},
		{"int8", int8(1), 1, true},
		{"uint", uint(8), 8, true},
		{"uint8", uint8(255), 255, true},
		{"float rejected", 3.0, 0, false},
		{"string rejected", "42", 0, false},
		{"nil", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToInt64(tt.input)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestToAnySlice(t *testing.T) {
	got, ok := ToAnySlice([]string{"a", "b"})
	assert.True(t, ok)
	assert.Equal(t, []any{"a", "b"}, got)

	got, ok = ToAnySlice([]int{1, 2, 3})
	assert.True(t, ok)
	assert.Equal(t, []any{1, 2, 3}, got)

	got, ok = ToAnySlice([]float64{1.5})
	assert.True(t, ok)
	assert.Equal(t, []any{1.5}, got)

	got, ok = ToAnySlice([]bool{true, false})
	assert.True(t, ok)
	assert.Equal(t, []any{true, false}, got)

	got, ok = ToAnySlice([]map[string]any{{"k": 1}})
	assert.True(t, ok)
	assert.Equal(t, []any{map[string]any{"k": 1}}, got)

	// passthrough keeps the original slice
	in := []any{"x"}
	got, ok = ToAnySlice(in)
	assert.True(t, ok)
	assert.Equal(t, []any{"x"}, got)

	_, ok = ToAnySlice("not a slice")
	assert.False(t, ok)

	_, ok = ToAnySlice([]struct{}{})
	assert.False(t, ok)
}
