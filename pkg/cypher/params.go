// Parameters and value conversion for the Cypher query builder.
//
// A parameter wraps a value that is bound at execution time rather than
// inlined as text. Every parameter reachable from a built tree appears in the
// final parameter table exactly once, under its assigned key. Two Param
// instances wrapping the same value are independent bindings; there is no
// dedup by value.
//
// Parameter placeholders render with the $ sigil:
//
//	$param0        - anonymous, key allocated by the Environment
//	$title         - named, key chosen by the caller
//
// ConvertValue turns arbitrary host values (nested maps, lists, scalars,
// nil) into parameter-bearing expressions recursively.

package cypher

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/orneryd/cypherbuild/pkg/convert"
)

// Param wraps a value as an anonymous bind-time parameter. The Environment
// allocates its key (prefix + "param" + N) at first render and memoizes it,
// so one instance reachable from several tree positions binds once.
type Param struct {
	value any
}

// NewParam returns an anonymous parameter wrapping value.
func NewParam(value any) *Param {
	return &Param{value: value}
}

// Value returns the wrapped value.
func (p *Param) Value() any { return p.value }

// Render emits $key and binds the wrapped value into the parameter table.
func (p *Param) Render(env *Environment) (string, error) {
	return "$" + env.keyFor(p), nil
}

// NamedParam wraps a value under a caller-chosen key. The key is used
// verbatim, without the build's parameter prefix.
type NamedParam struct {
	name  string
	value any
}

// NewNamedParam returns a parameter bound under exactly name.
func NewNamedParam(name string, value any) *NamedParam {
	return &NamedParam{name: name, value: value}
}

// Render emits $name and binds the value. Binding the same key twice with
// different values is a render error rather than a silent overwrite.
func (p *NamedParam) Render(env *Environment) (string, error) {
	if err := env.bind(p.name, p.value); err != nil {
		return "", err
	}
	return "$" + p.name, nil
}

// nullLiteral renders the Cypher NULL literal and binds nothing.
type nullLiteral struct{}

// Null is the shared NULL expression.
var Null Expression = nullLiteral{}

func (nullLiteral) Render(*Environment) (string, error) { return "NULL", nil }

// Literal inlines a value as escaped Cypher text instead of binding it. Use
// it only where a parameter cannot appear, such as inside SKIP and LIMIT.
type Literal struct {
	value any
}

// NewLiteral returns an inline literal for value.
func NewLiteral(value any) *Literal {
	return &Literal{value: value}
}

// Render emits the value as a Cypher literal. Map keys render in sorted
// order so output is deterministic.
func (l *Literal) Render(*Environment) (string, error) {
	return literalText(l.value), nil
}

func literalText(v any) string {
	if v == nil {
		return "NULL"
	}
	switch val := v.(type) {
	case string:
		escaped := strings.ReplaceAll(val, "\\", "\\\\")
		escaped = strings.ReplaceAll(escaped, "'", "\\'")
		return "'" + escaped + "'"
	case bool:
		if val {
			return "true"
		}
		return "false"
	case float32, float64:
		f, _ := convert.ToFloat64(val)
		return strconv.FormatFloat(f, 'f', -1, 64)
	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = literalText(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = escapeIdentifier(k) + ": " + literalText(val[k])
		}
		return "{ " + strings.Join(parts, ", ") + " }"
	default:
		if i, ok := convert.ToInt64(v); ok {
			return strconv.FormatInt(i, 10)
		}
		if f, ok := convert.ToFloat64(v); ok {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
		return literalText(fmt.Sprintf("%v", v))
	}
}

// MapExpr renders a Cypher map whose values are arbitrary expressions. Keys
// render in sorted order.
type MapExpr struct {
	entries map[string]Expression
}

// NewMapExpr returns a map expression over entries.
func NewMapExpr(entries map[string]Expression) *MapExpr {
	return &MapExpr{entries: entries}
}

// Render emits { key: <expr>, ... }.
func (m *MapExpr) Render(env *Environment) (string, error) {
	keys := make([]string, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		text, err := m.entries[k].Render(env)
		if err != nil {
			return "", err
		}
		parts[i] = escapeIdentifier(k) + ": " + text
	}
	return "{ " + strings.Join(parts, ", ") + " }", nil
}

// ListExpr renders a Cypher list of arbitrary expressions.
type ListExpr struct {
	items []Expression
}

// NewListExpr returns a list expression over items.
func NewListExpr(items ...Expression) *ListExpr {
	return &ListExpr{items: items}
}

// Render emits [<expr>, ...].
func (l *ListExpr) Render(env *Environment) (string, error) {
	parts := make([]string, len(l.items))
	for i, item := range l.items {
		text, err := item.Render(env)
		if err != nil {
			return "", err
		}
		parts[i] = text
	}
	return "[" + strings.Join(parts, ", ") + "]", nil
}

// ConvertValue converts an arbitrary host value into an expression: scalars
// become anonymous parameters, maps and lists convert recursively, and nil
// becomes NULL. Nested structure is preserved in the query text while every
// leaf value still binds through the parameter table.
func ConvertValue(value any) Expression {
	switch v := value.(type) {
	case nil:
		return Null
	case Expression:
		return v
	case map[string]any:
		entries := make(map[string]Expression, len(v))
		for k, item := range v {
			entries[k] = ConvertValue(item)
		}
		return NewMapExpr(entries)
	default:
		if items, ok := convert.ToAnySlice(value); ok {
			converted := make([]Expression, len(items))
			for i, item := range items {
				converted[i] = ConvertValue(item)
			}
			return NewListExpr(converted...)
		}
		return NewParam(value)
	}
}
