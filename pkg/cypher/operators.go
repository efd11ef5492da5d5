// Boolean and arithmetic operators for the Cypher query builder.
//
// Boolean combinators parenthesize fully so that precedence is unambiguous
// at any nesting depth; the generated text never relies on Cypher's own
// operator precedence:
//
//	And(a, Or(b, c))  ->  (a AND (b OR c))
//	Not(a)            ->  NOT (a)

package cypher

import "strings"

type booleanOp struct {
	operator string
	operands []Expression
	err      error
}

func newBooleanOp(operator string, operands []Expression) *booleanOp {
	op := &booleanOp{operator: operator, operands: operands}
	if len(operands) == 0 {
		op.err = constructionErrorf(operator, "requires at least one operand")
	}
	for _, o := range operands {
		if o == nil {
			op.err = constructionErrorf(operator, "operand is nil")
			break
		}
	}
	return op
}

func (op *booleanOp) Render(env *Environment) (string, error) {
	if op.err != nil {
		return "", op.err
	}
	if len(op.operands) == 1 {
		return op.operands[0].Render(env)
	}
	parts := make([]string, len(op.operands))
	for i, o := range op.operands {
		text, err := o.Render(env)
		if err != nil {
			return "", err
		}
		parts[i] = text
	}
	return "(" + strings.Join(parts, " "+op.operator+" ") + ")", nil
}

// And combines predicates with AND, fully parenthesized. A single operand
// passes through unchanged.
func And(operands ...Expression) Expression { return newBooleanOp("AND", operands) }

// Or combines predicates with OR, fully parenthesized.
func Or(operands ...Expression) Expression { return newBooleanOp("OR", operands) }

// Xor combines predicates with XOR, fully parenthesized.
func Xor(operands ...Expression) Expression { return newBooleanOp("XOR", operands) }

type notOp struct {
	operand Expression
	err     error
}

func (op *notOp) Render(env *Environment) (string, error) {
	if op.err != nil {
		return "", op.err
	}
	text, err := op.operand.Render(env)
	if err != nil {
		return "", err
	}
	return "NOT (" + text + ")", nil
}

// Not negates a predicate, parenthesizing the operand.
func Not(operand Expression) Expression {
	op := &notOp{operand: operand}
	if operand == nil {
		op.err = constructionErrorf("NOT", "operand is nil")
	}
	return op
}

type mathOp struct {
	operator    string
	left, right Expression
	err         error
}

func (op *mathOp) Render(env *Environment) (string, error) {
	if op.err != nil {
		return "", op.err
	}
	left, err := op.left.Render(env)
	if err != nil {
		return "", err
	}
	right, err := op.right.Render(env)
	if err != nil {
		return "", err
	}
	return "(" + left + " " + op.operator + " " + right + ")", nil
}

func newMathOp(operator string, left, right Expression) *mathOp {
	op := &mathOp{operator: operator, left: left, right: right}
	if left == nil || right == nil {
		op.err = constructionErrorf(operator, "requires two operands")
	}
	return op
}

// Plus renders (left + right). Cypher also uses + for string and list
// concatenation, so operands are not restricted to numerics.
func Plus(left, right Expression) Expression { return newMathOp("+", left, right) }

// Minus renders (left - right).
func Minus(left, right Expression) Expression { return newMathOp("-", left, right) }
