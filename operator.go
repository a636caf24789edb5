package exprschnell

import "fmt"

// Operator is one of the four supported arithmetic operators. The set is
// closed and exhaustively matched wherever an operator is applied, which is
// what makes evaluation safe: no operation outside this enumeration can run.
type Operator int

const (
	// OpAdd is the + operator.
	OpAdd Operator = iota
	// OpSubtract is the - operator.
	OpSubtract
	// OpMultiply is the * operator.
	OpMultiply
	// OpDivide is the / operator.
	OpDivide
)

// OperatorFromSymbol resolves one of + - * / to its Operator.
func OperatorFromSymbol(s string) (Operator, error) {
	switch s {
	case "+":
		return OpAdd, nil
	case "-":
		return OpSubtract, nil
	case "*":
		return OpMultiply, nil
	case "/":
		return OpDivide, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownOperator, s)
	}
}

// Precedence returns the binding strength: 2 for * and /, 1 for + and -.
// Higher binds tighter.
func (op Operator) Precedence() int {
	switch op {
	case OpMultiply, OpDivide:
		return 2
	default:
		return 1
	}
}

// Symbol returns the display symbol of the operator.
func (op Operator) Symbol() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSubtract:
		return "-"
	case OpMultiply:
		return "*"
	case OpDivide:
		return "/"
	default:
		return "?"
	}
}

func (op Operator) String() string {
	return op.Symbol()
}

// Apply computes the binary operation. Division by an exactly-zero divisor
// returns ErrDivisionByZero; division always produces a float, the other
// operators keep integer operands integral.
func (op Operator) Apply(a, b Value) (Value, error) {
	switch op {
	case OpAdd:
		if a.IsInt() && b.IsInt() {
			return IntValue(a.Int() + b.Int()), nil
		}
		return FloatValue(a.Float() + b.Float()), nil
	case OpSubtract:
		if a.IsInt() && b.IsInt() {
			return IntValue(a.Int() - b.Int()), nil
		}
		return FloatValue(a.Float() - b.Float()), nil
	case OpMultiply:
		if a.IsInt() && b.IsInt() {
			return IntValue(a.Int() * b.Int()), nil
		}
		return FloatValue(a.Float() * b.Float()), nil
	case OpDivide:
		if b.IsZero() {
			return Value{}, fmt.Errorf("%w: %s / %s", ErrDivisionByZero, a, b)
		}
		return FloatValue(a.Float() / b.Float()), nil
	default:
		return Value{}, fmt.Errorf("%w: %d", ErrUnknownOperator, int(op))
	}
}
