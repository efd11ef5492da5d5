// CASE expression construction.
// Supports both searched CASE and simple CASE forms:
//
//	CASE WHEN condition THEN result [WHEN ...] [ELSE default] END
//	CASE expression WHEN value THEN result [WHEN ...] [ELSE default] END

package cypher

import "strings"

type caseWhen struct {
	when Expression
	then Expression
}

// Case is a CASE expression under construction. At least one When is
// required before it renders.
type Case struct {
	test     Expression
	whens    []caseWhen
	elseExpr Expression
	err      error
}

// NewCase starts a searched CASE expression.
func NewCase() *Case {
	return &Case{}
}

// NewSimpleCase starts a simple CASE expression testing test against each
// WHEN value.
func NewSimpleCase(test Expression) *Case {
	c := &Case{test: test}
	if test == nil {
		c.err = constructionErrorf("Case", "test expression is nil")
	}
	return c
}

// When appends a WHEN ... THEN ... branch.
func (c *Case) When(when, then Expression) *Case {
	if c.err == nil && (when == nil || then == nil) {
		c.err = constructionErrorf("Case", "When requires both a condition and a result")
	}
	c.whens = append(c.whens, caseWhen{when: when, then: then})
	return c
}

// Else sets the default branch.
func (c *Case) Else(result Expression) *Case {
	if c.err == nil && result == nil {
		c.err = constructionErrorf("Case", "Else result is nil")
	}
	c.elseExpr = result
	return c
}

// Render emits CASE ... END.
func (c *Case) Render(env *Environment) (string, error) {
	if c.err != nil {
		return "", c.err
	}
	if len(c.whens) == 0 {
		return "", constructionErrorf("Case", "requires at least one When branch")
	}
	var b strings.Builder
	b.WriteString("CASE")
	if c.test != nil {
		text, err := c.test.Render(env)
		if err != nil {
			return "", err
		}
		b.WriteByte(' ')
		b.WriteString(text)
	}
	for _, w := range c.whens {
		when, err := w.when.Render(env)
		if err != nil {
			return "", err
		}
		then, err := w.then.Render(env)
		if err != nil {
			return "", err
		}
		b.WriteString(" WHEN ")
		b.WriteString(when)
		b.WriteString(" THEN ")
		b.WriteString(then)
	}
	if c.elseExpr != nil {
		text, err := c.elseExpr.Render(env)
		if err != nil {
			return "", err
		}
		b.WriteString(" ELSE ")
		b.WriteString(text)
	}
	b.WriteString(" END")
	return b.String(), nil
}
