// List and pattern comprehensions.
//
//	[x IN list WHERE predicate | projection]
//	[(a)-[:REL]->(b) WHERE predicate | projection]
//
// The bound variable (or the pattern's references) register with the
// Environment before the filter and projection render, so inner expressions
// always see final names rather than placeholders.

package cypher

import "strings"

// ListComprehension binds a variable over a source list with an optional
// filter and an optional mapping projection. With neither, it renders the
// bare [x IN list] form.
type ListComprehension struct {
	variable   *Variable
	list       Expression
	where      Expression
	projection Expression
	err        error
}

// NewListComprehension binds variable over list.
func NewListComprehension(variable *Variable, list Expression) *ListComprehension {
	c := &ListComprehension{variable: variable, list: list}
	if variable == nil {
		c.err = constructionErrorf("ListComprehension", "bound variable is nil")
	} else if list == nil {
		c.err = constructionErrorf("ListComprehension", "list expression is nil")
	}
	return c
}

// Where sets the filter predicate.
func (c *ListComprehension) Where(predicate Expression) *ListComprehension {
	if c.err == nil && predicate == nil {
		c.err = constructionErrorf("ListComprehension", "Where predicate is nil")
	}
	c.where = predicate
	return c
}

// Map sets the projection applied to each element.
func (c *ListComprehension) Map(projection Expression) *ListComprehension {
	if c.err == nil && projection == nil {
		c.err = constructionErrorf("ListComprehension", "Map projection is nil")
	}
	c.projection = projection
	return c
}

// Render emits the comprehension, naming the bound variable first.
func (c *ListComprehension) Render(env *Environment) (string, error) {
	if c.err != nil {
		return "", c.err
	}
	bound, err := env.NameOf(c.variable)
	if err != nil {
		return "", err
	}
	list, err := c.list.Render(env)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(bound)
	b.WriteString(" IN ")
	b.WriteString(list)
	if c.where != nil {
		where, err := c.where.Render(env)
		if err != nil {
			return "", err
		}
		b.WriteString(" WHERE ")
		b.WriteString(where)
	}
	if c.projection != nil {
		proj, err := c.projection.Render(env)
		if err != nil {
			return "", err
		}
		b.WriteString(" | ")
		b.WriteString(proj)
	}
	b.WriteByte(']')
	return b.String(), nil
}

// PatternComprehension collects a projection over every occurrence of a
// graph pattern, with an optional filter.
type PatternComprehension struct {
	pattern    *Pattern
	where      Expression
	projection Expression
	err        error
}

// NewPatternComprehension collects projection over pattern.
func NewPatternComprehension(pattern *Pattern, projection Expression) *PatternComprehension {
	c := &PatternComprehension{pattern: pattern, projection: projection}
	if pattern == nil {
		c.err = constructionErrorf("PatternComprehension", "pattern is nil")
	} else if projection == nil {
		c.err = constructionErrorf("PatternComprehension", "projection is nil")
	}
	return c
}

// Where sets the filter predicate.
func (c *PatternComprehension) Where(predicate Expression) *PatternComprehension {
	if c.err == nil && predicate == nil {
		c.err = constructionErrorf("PatternComprehension", "Where predicate is nil")
	}
	c.where = predicate
	return c
}

// Render emits the comprehension. The pattern renders first so its
// references are named before the filter and projection see them.
func (c *PatternComprehension) Render(env *Environment) (string, error) {
	if c.err != nil {
		return "", c.err
	}
	pattern, err := c.pattern.Render(env)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(pattern)
	if c.where != nil {
		where, err := c.where.Render(env)
		if err != nil {
			return "", err
		}
		b.WriteString(" WHERE ")
		b.WriteString(where)
	}
	proj, err := c.projection.Render(env)
	if err != nil {
		return "", err
	}
	b.WriteString(" | ")
	b.WriteString(proj)
	b.WriteByte(']')
	return b.String(), nil
}
