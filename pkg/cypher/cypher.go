// Package cypher builds parameterized Cypher queries from composable AST
// fragments.
//
// Call sites construct expression and clause trees bottom-up (leaves are
// values and variable references), compose them with Concat or subquery
// wrapping, and hand the root to Build, which walks the tree once to assign
// variable names and emit text while accumulating the parameter table.
//
// # Usage Example
//
//	movie := cypher.NewNode("Movie")
//	match := cypher.NewMatch(cypher.NewPattern(movie)).
//		Where(cypher.Eq(movie.Property("title"), cypher.NewParam("The Matrix")))
//	ret := cypher.NewReturn(movie)
//
//	result, err := cypher.Build(cypher.Concat(match, ret), "")
//	// result.Query:
//	//   MATCH (this:Movie)
//	//   WHERE this.title = $param0
//	//   RETURN this
//	// result.Params: map[param0:The Matrix]
//
// # Naming
//
// Variable names are assigned by an Environment scoped to one Build call.
// Two distinct references never share a name within a build, and the same
// reference renders to the same name everywhere it appears, including across
// clauses joined by Concat and across CALL subquery boundaries. Fragments
// built in isolation may therefore be renamed when composed; that is how two
// copies of a repeated sub-statement avoid clobbering each other.
//
// # ELI12
//
// Building a query here is like assembling a LEGO set. Each brick (a match,
// a filter, a return) is built on its own, then snapped together. When the
// finished model is put on display (Build), every minifigure gets a name tag,
// and no two figures ever get the same tag - even if two kits both shipped
// a figure called "this".
//
// The package only generates queries. It never executes, plans, or parses
// Cypher text.
package cypher

// Expression is any AST node that renders to a Cypher text fragment given an
// Environment. Rendering may bind parameters into the shared table as a side
// effect.
type Expression interface {
	Render(env *Environment) (string, error)
}

// Clause is a statement-level node rendering to one or more query lines.
// Clauses are sequenced with Concat and built with Build.
type Clause interface {
	Expression

	// isClause restricts the set of clause implementations to this package
	// plus RawCypher, keeping the render traversal uniform.
	isClause()
}

// Result is the output of one Build call: final query text plus the flattened
// parameter table. It is immutable once returned.
type Result struct {
	// Query is the rendered Cypher text.
	Query string

	// Params maps each bound parameter name (without the $ sigil) to the
	// value it wraps.
	Params map[string]any
}

// Build renders root with a fresh Environment and returns the query text and
// parameter table. Anonymous parameter keys are prefixed with paramPrefix so
// that multiple independently built statements can be merged by an outer
// caller without key collisions.
//
// Rendering is a single depth-first pass: a reference's name is fixed at its
// first encounter in document order. Any construction-time error recorded
// while the tree was assembled aborts the build before text is produced.
func Build(root Clause, paramPrefix string) (*Result, error) {
	if root == nil {
		return nil, &ConstructionError{Node: "Build", Reason: "root clause is nil"}
	}
	env := NewEnvironment(paramPrefix)
	text, err := root.Render(env)
	if err != nil {
		return nil, err
	}
	return &Result{Query: text, Params: env.Params()}, nil
}
