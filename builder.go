package exprschnell

import (
	"github.com/codefionn/exprschnell/internal/consts"
)

// BuildOption adjusts a single build call.
type BuildOption func(*buildOptions)

type buildOptions struct {
	maxDepth int
}

// WithMaxDepth overrides the maximum parenthesis nesting depth for one build.
func WithMaxDepth(n int) BuildOption {
	return func(o *buildOptions) {
		if n > 0 {
			o.maxDepth = n
		}
	}
}

// Build parses an arithmetic expression into an immutable tree. The result is
// a *Expression, or a Literal when the whole input is a single number. The
// builder's state lives only for the duration of the call, so concurrent
// builds need no coordination.
func Build(input string, opts ...BuildOption) (Operand, error) {
	options := buildOptions{maxDepth: consts.DefaultMaxNestingDepth}
	for _, opt := range opts {
		opt(&options)
	}

	b := &builder{
		lex:      lexer{input: input},
		maxDepth: options.maxDepth,
	}
	return b.build()
}

// Eval is a convenience that builds and immediately calculates.
func Eval(input string, opts ...BuildOption) (Value, error) {
	operand, err := Build(input, opts...)
	if err != nil {
		return Value{}, err
	}
	return operand.Calculate()
}

// stack entry kinds for the operator stack
type entryKind int

const (
	entryOperator entryKind = iota
	entryParen              // open parenthesis grouping marker
	entryNegate             // unary minus applied to a parenthesized group
)

type stackEntry struct {
	kind entryKind
	op   Operator
	pos  int
}

// builder holds the transient two-stack shunting-yard state of one Build
// call: an operand stack of numbers and finished subtrees, and an operator
// stack of pending operators and grouping markers.
type builder struct {
	lex      lexer
	operands []Operand
	ops      []stackEntry
	maxDepth int
	depth    int
}

func (b *builder) build() (Operand, error) {
	sawToken := false
	expectOperand := true

	for {
		tok, err := b.lex.next(expectOperand)
		if err != nil {
			return nil, err
		}
		if tok.kind == tokenEOF {
			break
		}
		sawToken = true

		switch tok.kind {
		case tokenNumber:
			if !expectOperand {
				return nil, syntaxErr(ErrMalformedExpression, tok.pos, "operand %s follows another operand", tok.value)
			}
			b.operands = append(b.operands, NewLiteral(tok.value))
			expectOperand = false

		case tokenOperator:
			if expectOperand {
				return nil, syntaxErr(ErrMalformedExpression, tok.pos, "operator %s where an operand is expected", tok.op)
			}
			if err := b.pushOperator(tok.op, tok.pos); err != nil {
				return nil, err
			}
			expectOperand = true

		case tokenLParen, tokenNegParen:
			if !expectOperand {
				return nil, syntaxErr(ErrMalformedExpression, tok.pos, "group opens right after an operand")
			}
			b.depth++
			if b.depth > b.maxDepth {
				return nil, syntaxErr(ErrNestingTooDeep, tok.pos, "nesting exceeds %d levels", b.maxDepth)
			}
			if tok.kind == tokenNegParen {
				b.ops = append(b.ops, stackEntry{kind: entryNegate, pos: tok.pos})
			}
			b.ops = append(b.ops, stackEntry{kind: entryParen, pos: tok.pos})

		case tokenRParen:
			if expectOperand {
				if len(b.ops) > 0 && b.ops[len(b.ops)-1].kind == entryParen {
					return nil, syntaxErr(ErrEmptyExpression, tok.pos, "parentheses enclose nothing")
				}
				return nil, syntaxErr(ErrMalformedExpression, tok.pos, "group closes without a final operand")
			}
			if err := b.closeGroup(tok.pos); err != nil {
				return nil, err
			}
			b.depth--
		}
	}

	if !sawToken {
		return nil, syntaxErr(ErrEmptyExpression, 0, "input contains no tokens")
	}
	if expectOperand {
		return nil, syntaxErr(ErrMalformedExpression, b.lex.pos, "input ends after an operator")
	}

	// Reduce everything that is still pending. A leftover grouping marker
	// means an open parenthesis was never closed.
	for len(b.ops) > 0 {
		top := b.ops[len(b.ops)-1]
		if top.kind != entryOperator {
			return nil, syntaxErr(ErrUnmatchedParenthesis, top.pos, "parenthesis is never closed")
		}
		if err := b.reduce(); err != nil {
			return nil, err
		}
	}

	switch len(b.operands) {
	case 0:
		return nil, syntaxErr(ErrEmptyExpression, b.lex.pos, "input reduces to no operands")
	case 1:
		return b.operands[0], nil
	default:
		return nil, syntaxErr(ErrMalformedExpression, b.lex.pos, "%d operands remain after reduction", len(b.operands))
	}
}

// pushOperator reduces while the stack top is an operator that binds at least
// as tightly as op (popping on ties keeps equal-precedence chains
// left-associative), then pushes op.
func (b *builder) pushOperator(op Operator, pos int) error {
	for len(b.ops) > 0 {
		top := b.ops[len(b.ops)-1]
		if top.kind != entryOperator || top.op.Precedence() < op.Precedence() {
			break
		}
		if err := b.reduce(); err != nil {
			return err
		}
	}
	b.ops = append(b.ops, stackEntry{kind: entryOperator, op: op, pos: pos})
	return nil
}

// reduce pops one operator and two operands and pushes the combined node.
// The first pop is the right operand, the second the left.
func (b *builder) reduce() error {
	top := b.ops[len(b.ops)-1]
	b.ops = b.ops[:len(b.ops)-1]

	if len(b.operands) < 2 {
		return syntaxErr(ErrMalformedExpression, top.pos, "operator %s is missing an operand", top.op)
	}
	right := b.operands[len(b.operands)-1]
	left := b.operands[len(b.operands)-2]
	b.operands = b.operands[:len(b.operands)-2]
	b.operands = append(b.operands, NewExpression(left, top.op, right))
	return nil
}

// closeGroup reduces down to the matching open parenthesis, discards the
// marker, and applies a pending unary minus to the finished group.
func (b *builder) closeGroup(pos int) error {
	for {
		if len(b.ops) == 0 {
			return syntaxErr(ErrUnmatchedParenthesis, pos, "closing parenthesis has no match")
		}
		top := b.ops[len(b.ops)-1]
		if top.kind == entryParen {
			b.ops = b.ops[:len(b.ops)-1]
			break
		}
		if err := b.reduce(); err != nil {
			return err
		}
	}

	if len(b.operands) == 0 {
		return syntaxErr(ErrEmptyExpression, pos, "parentheses enclose nothing")
	}

	if len(b.ops) > 0 && b.ops[len(b.ops)-1].kind == entryNegate {
		b.ops = b.ops[:len(b.ops)-1]
		group := b.operands[len(b.operands)-1]
		b.operands[len(b.operands)-1] = negateOperand(group)
	}
	return nil
}

// negateOperand flips a literal in place; anything else becomes 0 - group so
// the negation survives in the tree.
func negateOperand(o Operand) Operand {
	if lit, ok := o.(Literal); ok {
		return NewLiteral(lit.Value().Negate())
	}
	return NewExpression(NewLiteral(IntValue(0)), OpSubtract, o)
}
