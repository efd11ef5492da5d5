// Function and predicate catalogue for the Cypher query builder.
//
// Plain functions render as name(arg, ...). The quantifier predicates
// (Any, All, Single) bind a fresh variable over a list and render Cypher's
// existential/universal syntax:
//
//	any(x IN list WHERE predicate)
//
// The bound variable is registered with the Environment before the inner
// predicate renders, so the predicate always sees a final name.

package cypher

import "strings"

// FunctionCall renders a Cypher function invocation. Use the named
// constructors below for the common catalogue, or NewFunction for anything
// else (apoc procedures, new built-ins).
type FunctionCall struct {
	name string
	args []Expression
	err  error
}

// NewFunction returns a call to name over args.
func NewFunction(name string, args ...Expression) *FunctionCall {
	f := &FunctionCall{name: name, args: args}
	if name == "" {
		f.err = constructionErrorf("FunctionCall", "function name is empty")
	}
	for _, a := range args {
		if a == nil {
			f.err = constructionErrorf("FunctionCall", "%s received a nil argument", name)
			break
		}
	}
	return f
}

// Render emits name(arg, ...).
func (f *FunctionCall) Render(env *Environment) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	parts := make([]string, len(f.args))
	for i, a := range f.args {
		text, err := a.Render(env)
		if err != nil {
			return "", err
		}
		parts[i] = text
	}
	return f.name + "(" + strings.Join(parts, ", ") + ")", nil
}

// Coalesce renders coalesce(arg, ...), the first non-null argument.
func Coalesce(args ...Expression) *FunctionCall { return NewFunction("coalesce", args...) }

// Point renders point(arg), constructing a spatial value from a map.
func Point(arg Expression) *FunctionCall { return NewFunction("point", arg) }

// Distance renders distance(a, b) for pre-4.x compatibility.
func Distance(a, b Expression) *FunctionCall { return NewFunction("distance", a, b) }

// PointDistance renders point.distance(a, b).
func PointDistance(a, b Expression) *FunctionCall { return NewFunction("point.distance", a, b) }

// Datetime renders datetime(...); with no arguments it is the current time.
func Datetime(args ...Expression) *FunctionCall { return NewFunction("datetime", args...) }

// Labels renders labels(node).
func Labels(node *Node) *FunctionCall { return NewFunction("labels", node) }

// Count renders the aggregate count(expr).
func Count(expr Expression) *FunctionCall { return NewFunction("count", expr) }

// CountStar renders count(*).
func CountStar() Expression { return rawFragment("count(*)") }

// Min renders the aggregate min(expr).
func Min(expr Expression) *FunctionCall { return NewFunction("min", expr) }

// Max renders the aggregate max(expr).
func Max(expr Expression) *FunctionCall { return NewFunction("max", expr) }

// Avg renders the aggregate avg(expr).
func Avg(expr Expression) *FunctionCall { return NewFunction("avg", expr) }

// Sum renders the aggregate sum(expr).
func Sum(expr Expression) *FunctionCall { return NewFunction("sum", expr) }

// Collect renders the aggregate collect(expr).
func Collect(expr Expression) *FunctionCall { return NewFunction("collect", expr) }

// Size renders size(expr) over a list or string.
func Size(expr Expression) *FunctionCall { return NewFunction("size", expr) }

// Head renders head(list).
func Head(list Expression) *FunctionCall { return NewFunction("head", list) }

// Last renders last(list).
func Last(list Expression) *FunctionCall { return NewFunction("last", list) }

// rawFragment is a fixed text expression with no parameters and no naming.
type rawFragment string

func (r rawFragment) Render(*Environment) (string, error) { return string(r), nil }

// quantifier is the shared shape of the any/all/single predicates.
type quantifier struct {
	name     string
	variable *Variable
	list     Expression
	where    Expression
	err      error
}

func newQuantifier(name string, variable *Variable, list, where Expression) *quantifier {
	q := &quantifier{name: name, variable: variable, list: list, where: where}
	switch {
	case variable == nil:
		q.err = constructionErrorf(name, "bound variable is nil")
	case list == nil:
		q.err = constructionErrorf(name, "list expression is nil")
	case where == nil:
		q.err = constructionErrorf(name, "predicate expression is nil")
	}
	return q
}

// Render names the bound variable first, then renders the list and inner
// predicate under that name.
func (q *quantifier) Render(env *Environment) (string, error) {
	if q.err != nil {
		return "", q.err
	}
	bound, err := env.NameOf(q.variable)
	if err != nil {
		return "", err
	}
	list, err := q.list.Render(env)
	if err != nil {
		return "", err
	}
	where, err := q.where.Render(env)
	if err != nil {
		return "", err
	}
	return q.name + "(" + bound + " IN " + list + " WHERE " + where + ")", nil
}

// Any renders any(v IN list WHERE predicate).
func Any(variable *Variable, list, predicate Expression) Expression {
	return newQuantifier("any", variable, list, predicate)
}

// All renders all(v IN list WHERE predicate).
func All(variable *Variable, list, predicate Expression) Expression {
	return newQuantifier("all", variable, list, predicate)
}

// Single renders single(v IN list WHERE predicate).
func Single(variable *Variable, list, predicate Expression) Expression {
	return newQuantifier("single", variable, list, predicate)
}

type existsPredicate struct {
	pattern *Pattern
	err     error
}

func (e *existsPredicate) Render(env *Environment) (string, error) {
	if e.err != nil {
		return "", e.err
	}
	text, err := e.pattern.Render(env)
	if err != nil {
		return "", err
	}
	return "exists(" + text + ")", nil
}

// Exists renders exists(pattern), true when the pattern has at least one
// occurrence in the graph.
func Exists(pattern *Pattern) Expression {
	e := &existsPredicate{pattern: pattern}
	if pattern == nil {
		e.err = constructionErrorf("exists", "pattern is nil")
	}
	return e
}
