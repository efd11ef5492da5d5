// Unit tests for comparisons, boolean/math operators, functions,
// predicates, comprehensions and CASE expressions.

package cypher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// renderExpr builds a throwaway environment and renders e.
func renderExpr(t *testing.T, e Expression) (string, map[string]any) {
	t.Helper()
	env := NewEnvironment("")
	text, err := e.Render(env)
	require.NoError(t, err)
	return text, env.Params()
}

// ========================================
// Comparison Tests
// ========================================

func TestComparisons(t *testing.T) {
	n := NewNamedVariable("n")

	tests := []struct {
		name string
		expr Expression
		want string
	}{
		{name: "eq", expr: Eq(n.Property("age"), NewLiteral(30)), want: "n.age = 30"},
		{name: "gt", expr: Gt(n.Property("age"), NewLiteral(30)), want: "n.age > 30"},
		{name: "gte", expr: Gte(n.Property("age"), NewLiteral(30)), want: "n.age >= 30"},
		{name: "lt", expr: Lt(n.Property("age"), NewLiteral(30)), want: "n.age < 30"},
		{name: "lte", expr: Lte(n.Property("age"), NewLiteral(30)), want: "n.age <= 30"},
		{name: "in", expr: In(n.Property("status"), NewLiteral([]any{"a", "b"})), want: "n.status IN ['a', 'b']"},
		{name: "contains", expr: Contains(n.Property("email"), NewLiteral("@")), want: "n.email CONTAINS '@'"},
		{name: "starts with", expr: StartsWith(n.Property("name"), NewLiteral("Al")), want: "n.name STARTS WITH 'Al'"},
		{name: "ends with", expr: EndsWith(n.Property("name"), NewLiteral("ce")), want: "n.name ENDS WITH 'ce'"},
		{name: "matches", expr: Matches(n.Property("name"), NewLiteral(".*Smith")), want: "n.name =~ '.*Smith'"},
		{name: "is null", expr: IsNull(n.Property("deletedAt")), want: "n.deletedAt IS NULL"},
		{name: "is not null", expr: IsNotNull(n.Property("deletedAt")), want: "n.deletedAt IS NOT NULL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, _ := renderExpr(t, tt.expr)
			assert.Equal(t, tt.want, text)
		})
	}
}

// ========================================
// Boolean / Math Operator Tests
// ========================================

func TestBooleanParenthesization(t *testing.T) {
	n := NewNamedVariable("n")
	a := Eq(n.Property("a"), NewLiteral(1))
	b := Eq(n.Property("b"), NewLiteral(2))
	c := Eq(n.Property("c"), NewLiteral(3))

	tests := []struct {
		name string
		expr Expression
		want string
	}{
		{
			name: "and of or keeps structure",
			expr: And(a, Or(b, c)),
			want: "(n.a = 1 AND (n.b = 2 OR n.c = 3))",
		},
		{
			name: "or of and keeps structure",
			expr: Or(And(a, b), c),
			want: "((n.a = 1 AND n.b = 2) OR n.c = 3)",
		},
		{
			name: "not always parenthesizes",
			expr: Not(a),
			want: "NOT (n.a = 1)",
		},
		{
			name: "single operand passes through",
			expr: And(a),
			want: "n.a = 1",
		},
		{
			name: "xor",
			expr: Xor(a, b),
			want: "(n.a = 1 XOR n.b = 2)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, _ := renderExpr(t, tt.expr)
			assert.Equal(t, tt.want, text)
		})
	}
}

func TestMathOperators(t *testing.T) {
	n := NewNamedVariable("n")

	text, _ := renderExpr(t, Plus(n.Property("a"), NewLiteral(1)))
	assert.Equal(t, "(n.a + 1)", text)

	text, _ = renderExpr(t, Minus(n.Property("a"), Plus(n.Property("b"), NewLiteral(2))))
	assert.Equal(t, "(n.a - (n.b + 2))", text)
}

// ========================================
// Function Tests
// ========================================

func TestFunctionCatalogue(t *testing.T) {
	n := NewNamedVariable("n")
	node := NewNamedVariable("m")

	tests := []struct {
		name string
		expr Expression
		want string
	}{
		{name: "coalesce", expr: Coalesce(n.Property("x"), NewLiteral(0)), want: "coalesce(n.x, 0)"},
		{name: "point", expr: Point(n.Property("location")), want: "point(n.location)"},
		{name: "distance", expr: Distance(n.Property("a"), n.Property("b")), want: "distance(n.a, n.b)"},
		{name: "point distance", expr: PointDistance(n.Property("a"), n.Property("b")), want: "point.distance(n.a, n.b)"},
		{name: "datetime now", expr: Datetime(), want: "datetime()"},
		{name: "count", expr: Count(node), want: "count(m)"},
		{name: "count star", expr: CountStar(), want: "count(*)"},
		{name: "min", expr: Min(n.Property("x")), want: "min(n.x)"},
		{name: "max", expr: Max(n.Property("x")), want: "max(n.x)"},
		{name: "avg", expr: Avg(n.Property("x")), want: "avg(n.x)"},
		{name: "sum", expr: Sum(n.Property("x")), want: "sum(n.x)"},
		{name: "collect", expr: Collect(node), want: "collect(m)"},
		{name: "size", expr: Size(n.Property("tags")), want: "size(n.tags)"},
		{name: "head", expr: Head(n.Property("tags")), want: "head(n.tags)"},
		{name: "last", expr: Last(n.Property("tags")), want: "last(n.tags)"},
		{name: "generic", expr: NewFunction("toUpper", n.Property("name")), want: "toUpper(n.name)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, _ := renderExpr(t, tt.expr)
			assert.Equal(t, tt.want, text)
		})
	}
}

func TestLabelsFunction(t *testing.T) {
	movie := NewNode("Movie")
	ret := NewReturn(Labels(movie))
	result, err := Build(Concat(NewMatch(NewPattern(movie)), ret), "")
	require.NoError(t, err)
	assert.Equal(t, "MATCH (this:Movie)\nRETURN labels(this)", result.Query)
}

// ========================================
// Predicate Tests
// ========================================

func TestQuantifierPredicates(t *testing.T) {
	x := NewVariable("x")
	list := NewLiteral([]any{1, 2, 3})

	text, _ := renderExpr(t, Any(x, list, Gt(x, NewLiteral(2))))
	assert.Equal(t, "any(x IN [1, 2, 3] WHERE x > 2)", text)

	y := NewVariable("y")
	text, _ = renderExpr(t, All(y, list, Gt(y, NewLiteral(0))))
	assert.Equal(t, "all(y IN [1, 2, 3] WHERE y > 0)", text)

	z := NewVariable("z")
	text, _ = renderExpr(t, Single(z, list, Eq(z, NewLiteral(1))))
	assert.Equal(t, "single(z IN [1, 2, 3] WHERE z = 1)", text)
}

func TestExistsPredicate(t *testing.T) {
	person := NewNode("Person")
	movie := NewNode("Movie")
	acted := NewRelationship("ACTED_IN")

	match := NewMatch(NewPattern(person)).
		Where(Exists(NewPattern(person).Related(acted, Outgoing).To(movie)))
	result, err := Build(Concat(match, NewReturn(person)), "")
	require.NoError(t, err)

	assert.Equal(t,
		"MATCH (this:Person)\nWHERE exists((this:Person)-[this0:ACTED_IN]->(this1:Movie))\nRETURN this",
		result.Query)
}

// ========================================
// Comprehension Tests
// ========================================

func TestListComprehension(t *testing.T) {
	x := NewVariable("x")
	list := NewParam([]any{1, 2, 3})

	comp := NewListComprehension(x, list).
		Where(Gt(x, NewLiteral(1))).
		Map(Plus(x, NewLiteral(1)))

	text, params := renderExpr(t, comp)
	assert.Equal(t, "[x IN $param0 WHERE x > 1 | (x + 1)]", text)
	assert.Equal(t, map[string]any{"param0": []any{1, 2, 3}}, params)
}

func TestListComprehensionBare(t *testing.T) {
	x := NewVariable("x")
	text, _ := renderExpr(t, NewListComprehension(x, NewLiteral([]any{1})))
	assert.Equal(t, "[x IN [1]]", text)
}

func TestPatternComprehension(t *testing.T) {
	movie := NewNode("Movie")
	person := NewNode("Person")
	acted := NewRelationship("ACTED_IN")

	comp := NewPatternComprehension(
		NewPattern(movie).Related(acted, Incoming).To(person),
		person.Property("name"),
	).Where(IsNotNull(person.Property("name")))

	match := NewMatch(NewPattern(movie))
	result, err := Build(Concat(match, NewReturn(comp)), "")
	require.NoError(t, err)

	assert.Equal(t,
		"MATCH (this:Movie)\n"+
			"RETURN [(this:Movie)<-[this0:ACTED_IN]-(this1:Person) WHERE this1.name IS NOT NULL | this1.name]",
		result.Query)
}

// ========================================
// CASE Expression Tests
// ========================================

func TestSearchedCase(t *testing.T) {
	n := NewNamedVariable("n")

	expr := NewCase().
		When(Gt(n.Property("age"), NewLiteral(65)), NewLiteral("senior")).
		When(Gt(n.Property("age"), NewLiteral(18)), NewLiteral("adult")).
		Else(NewLiteral("minor"))

	text, _ := renderExpr(t, expr)
	assert.Equal(t,
		"CASE WHEN n.age > 65 THEN 'senior' WHEN n.age > 18 THEN 'adult' ELSE 'minor' END",
		text)
}

func TestSimpleCase(t *testing.T) {
	n := NewNamedVariable("n")

	expr := NewSimpleCase(n.Property("status")).
		When(NewLiteral("a"), NewLiteral(1)).
		When(NewLiteral("b"), NewLiteral(2))

	text, _ := renderExpr(t, expr)
	assert.Equal(t, "CASE n.status WHEN 'a' THEN 1 WHEN 'b' THEN 2 END", text)
}

func TestCaseWithoutBranchesFails(t *testing.T) {
	env := NewEnvironment("")
	_, err := NewCase().Render(env)
	var cErr *ConstructionError
	require.ErrorAs(t, err, &cErr)
}
