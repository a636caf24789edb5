package exprschnell

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by parsing and evaluation. All of them describe
// recoverable conditions: the caller can report the problem and ask for
// corrected input.
var (
	// ErrLex indicates a character outside the supported grammar.
	ErrLex = errors.New("unrecognized character")
	// ErrUnknownOperator indicates a token that is not one of + - * /.
	ErrUnknownOperator = errors.New("unknown operator")
	// ErrInvalidOperand indicates a literal that is not a valid number.
	ErrInvalidOperand = errors.New("invalid operand")
	// ErrUnmatchedParenthesis indicates unbalanced parenthesis nesting.
	ErrUnmatchedParenthesis = errors.New("unmatched parenthesis")
	// ErrEmptyExpression indicates input that contains no operands.
	ErrEmptyExpression = errors.New("empty expression")
	// ErrMalformedExpression indicates inconsistent operand/operator counts.
	ErrMalformedExpression = errors.New("malformed expression")
	// ErrDivisionByZero indicates a division whose divisor is exactly zero.
	ErrDivisionByZero = errors.New("division by zero")
	// ErrNestingTooDeep indicates parenthesis nesting beyond the configured limit.
	ErrNestingTooDeep = errors.New("expression nesting too deep")
)

// SyntaxError wraps a sentinel error with the byte position in the input
// where the problem was detected. errors.Is matches the wrapped sentinel.
type SyntaxError struct {
	Pos    int
	Detail string
	Err    error
}

func (e *SyntaxError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%v at position %d: %s", e.Err, e.Pos, e.Detail)
	}
	return fmt.Sprintf("%v at position %d", e.Err, e.Pos)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

func syntaxErr(err error, pos int, format string, args ...interface{}) error {
	return &SyntaxError{Pos: pos, Detail: fmt.Sprintf(format, args...), Err: err}
}
