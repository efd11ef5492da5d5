// CALL subquery clause.
//
//	WITH this
//	CALL {
//	    WITH this
//	    MATCH (this)-[this0:ACTED_IN]->(this1:Person)
//	    RETURN count(this1) AS actors
//	}
//
// The InnerWith list is the subquery import mechanism: the named references
// are rendered as a WITH line immediately inside the CALL block, and because
// the inner tree shares the build's Environment, they resolve to exactly the
// same names they have in the enclosing scope.

package cypher

import "strings"

// Call wraps an inner clause tree as a CALL { ... } subquery.
type Call struct {
	inner   Clause
	imports []Reference
	err     error
}

// NewCall returns a CALL subquery around inner.
func NewCall(inner Clause) *Call {
	c := &Call{inner: inner}
	if inner == nil {
		c.err = constructionErrorf("Call", "inner clause is nil")
	}
	return c
}

// InnerWith declares enclosing-scope references that must be visible inside
// the subquery. They render as an import line at the top of the block.
func (c *Call) InnerWith(refs ...Reference) *Call {
	if c.err != nil {
		return c
	}
	for _, ref := range refs {
		if ref == nil {
			c.err = constructionErrorf("Call", "InnerWith reference is nil")
			return c
		}
	}
	c.imports = append(c.imports, refs...)
	return c
}

func (c *Call) isClause() {}

// Render emits the CALL block. Imports are named before the inner tree
// renders, so a reference first seen in the import list keeps that name at
// every later occurrence.
func (c *Call) Render(env *Environment) (string, error) {
	if c.err != nil {
		return "", c.err
	}

	var lines []string
	if len(c.imports) > 0 {
		names := make([]string, len(c.imports))
		for i, ref := range c.imports {
			name, err := env.NameOf(ref)
			if err != nil {
				return "", err
			}
			names[i] = name
		}
		lines = append(lines, "WITH "+strings.Join(names, ", "))
	}

	inner, err := c.inner.Render(env)
	if err != nil {
		return "", err
	}
	lines = append(lines, strings.Split(inner, "\n")...)

	var b strings.Builder
	b.WriteString("CALL {")
	for _, line := range lines {
		b.WriteString("\n    ")
		b.WriteString(line)
	}
	b.WriteString("\n}")
	return b.String(), nil
}
