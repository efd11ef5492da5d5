// Comparison operators for the Cypher query builder.
//
// Each constructor takes fully built operand expressions and renders the
// corresponding Cypher operator:
//
//	Eq, Gt, Gte, Lt, Lte      - infix =, >, >=, <, <=
//	In                        - infix IN
//	Contains, StartsWith,
//	EndsWith                  - infix string operators
//	Matches                   - infix =~ (regular expression)
//	IsNull, IsNotNull         - unary postfix IS NULL / IS NOT NULL
//
// Comparisons render without surrounding parentheses; the boolean
// combinators in operators.go add the parentheses that make nesting
// unambiguous.

package cypher

type comparison struct {
	left     Expression
	operator string
	right    Expression
	err      error
}

func newComparison(operator string, left, right Expression) *comparison {
	c := &comparison{left: left, operator: operator, right: right}
	if left == nil || right == nil {
		c.err = constructionErrorf("comparison", "%s requires two operands", operator)
	}
	return c
}

func (c *comparison) Render(env *Environment) (string, error) {
	if c.err != nil {
		return "", c.err
	}
	left, err := c.left.Render(env)
	if err != nil {
		return "", err
	}
	right, err := c.right.Render(env)
	if err != nil {
		return "", err
	}
	return left + " " + c.operator + " " + right, nil
}

// Eq renders left = right.
func Eq(left, right Expression) Expression { return newComparison("=", left, right) }

// Gt renders left > right.
func Gt(left, right Expression) Expression { return newComparison(">", left, right) }

// Gte renders left >= right.
func Gte(left, right Expression) Expression { return newComparison(">=", left, right) }

// Lt renders left < right.
func Lt(left, right Expression) Expression { return newComparison("<", left, right) }

// Lte renders left <= right.
func Lte(left, right Expression) Expression { return newComparison("<=", left, right) }

// In renders left IN right, where right is a list expression.
func In(left, right Expression) Expression { return newComparison("IN", left, right) }

// Contains renders left CONTAINS right.
func Contains(left, right Expression) Expression { return newComparison("CONTAINS", left, right) }

// StartsWith renders left STARTS WITH right.
func StartsWith(left, right Expression) Expression { return newComparison("STARTS WITH", left, right) }

// EndsWith renders left ENDS WITH right.
func EndsWith(left, right Expression) Expression { return newComparison("ENDS WITH", left, right) }

// Matches renders left =~ right, matching against a regular expression.
func Matches(left, right Expression) Expression { return newComparison("=~", left, right) }

type nullCheck struct {
	operand Expression
	negated bool
	err     error
}

func (c *nullCheck) Render(env *Environment) (string, error) {
	if c.err != nil {
		return "", c.err
	}
	operand, err := c.operand.Render(env)
	if err != nil {
		return "", err
	}
	if c.negated {
		return operand + " IS NOT NULL", nil
	}
	return operand + " IS NULL", nil
}

// IsNull renders operand IS NULL.
func IsNull(operand Expression) Expression {
	c := &nullCheck{operand: operand}
	if operand == nil {
		c.err = constructionErrorf("IsNull", "operand is nil")
	}
	return c
}

// IsNotNull renders operand IS NOT NULL.
func IsNotNull(operand Expression) Expression {
	c := &nullCheck{operand: operand, negated: true}
	if operand == nil {
		c.err = constructionErrorf("IsNotNull", "operand is nil")
	}
	return c
}
