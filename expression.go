// Package exprschnell evaluates arithmetic expressions supplied as text
// without a general-purpose interpreter. The grammar is closed over decimal
// numbers, the operators + - * / and parentheses, so nothing beyond basic
// arithmetic can ever execute.
package exprschnell

import "fmt"

// Operand is one side of a binary operation: either a Literal or a nested
// *Expression. The interface is sealed so the evaluator only ever sees these
// two shapes.
type Operand interface {
	// Calculate evaluates the operand. It is pure and idempotent.
	Calculate() (Value, error)
	// String renders the operand back into expression syntax.
	String() string

	operandNode()
}

// Literal is a numeric leaf. It is also the degenerate result of building an
// input that consists of a single number with no operator.
type Literal struct {
	value Value
}

// NewLiteral wraps a Value as an Operand.
func NewLiteral(v Value) Literal {
	return Literal{value: v}
}

// Value returns the wrapped number.
func (l Literal) Value() Value {
	return l.value
}

// Calculate returns the literal's value. It never fails.
func (l Literal) Calculate() (Value, error) {
	return l.value, nil
}

func (l Literal) String() string {
	return l.value.String()
}

func (l Literal) operandNode() {}

// Expression is an immutable binary tree node. Fields are set once at
// construction and never change, so a tree is safe to share across
// goroutines and to evaluate repeatedly.
type Expression struct {
	left  Operand
	op    Operator
	right Operand
}

// NewExpression constructs a node from already-built operands. No precedence
// reasoning happens here; the builder has resolved grouping before this
// point.
func NewExpression(left Operand, op Operator, right Operand) *Expression {
	return &Expression{left: left, op: op, right: right}
}

// ParseExpression builds a node from three already-identified parts. Operands
// may be strings holding signed decimal numbers, Values, Literals or nested
// Expressions; the operator may be a symbol string or an Operator.
func ParseExpression(left, operator, right interface{}) (*Expression, error) {
	l, err := coerceOperand(left)
	if err != nil {
		return nil, fmt.Errorf("left operand: %w", err)
	}
	op, err := coerceOperator(operator)
	if err != nil {
		return nil, err
	}
	r, err := coerceOperand(right)
	if err != nil {
		return nil, fmt.Errorf("right operand: %w", err)
	}
	return NewExpression(l, op, r), nil
}

func coerceOperand(v interface{}) (Operand, error) {
	switch t := v.(type) {
	case string:
		val, err := ParseValue(t)
		if err != nil {
			return nil, err
		}
		return NewLiteral(val), nil
	case Value:
		return NewLiteral(t), nil
	case Literal:
		return t, nil
	case *Expression:
		if t == nil {
			return nil, fmt.Errorf("%w: nil expression", ErrInvalidOperand)
		}
		return t, nil
	case Operand:
		return t, nil
	default:
		return nil, fmt.Errorf("%w: unsupported operand type %T", ErrInvalidOperand, v)
	}
}

func coerceOperator(v interface{}) (Operator, error) {
	switch t := v.(type) {
	case string:
		return OperatorFromSymbol(t)
	case Operator:
		return t, nil
	default:
		return 0, fmt.Errorf("%w: unsupported operator type %T", ErrUnknownOperator, v)
	}
}

// Left returns the left operand.
func (e *Expression) Left() Operand {
	return e.left
}

// Op returns the operator.
func (e *Expression) Op() Operator {
	return e.op
}

// Right returns the right operand.
func (e *Expression) Right() Operand {
	return e.right
}

// Calculate evaluates the tree in post order: left subtree, right subtree,
// then the operator. A division by zero anywhere in the tree aborts the whole
// call.
func (e *Expression) Calculate() (Value, error) {
	left, err := e.left.Calculate()
	if err != nil {
		return Value{}, err
	}
	right, err := e.right.Calculate()
	if err != nil {
		return Value{}, err
	}
	return e.op.Apply(left, right)
}

// String renders the expression, parenthesizing children that bind less
// tightly than this node (and right children that bind equally, preserving
// left associativity on a rebuild).
func (e *Expression) String() string {
	left := e.left.String()
	if operandPrecedence(e.left) < e.op.Precedence() {
		left = "(" + left + ")"
	}
	right := e.right.String()
	if operandPrecedence(e.right) <= e.op.Precedence() {
		right = "(" + right + ")"
	}
	return left + " " + e.op.Symbol() + " " + right
}

func (e *Expression) operandNode() {}

// literalPrecedence ranks above every operator so literals never get wrapped.
const literalPrecedence = 3

func operandPrecedence(o Operand) int {
	if e, ok := o.(*Expression); ok {
		return e.op.Precedence()
	}
	return literalPrecedence
}
