package exprschnell

import (
	"math/rand"
	"strconv"
	"strings"

	"github.com/codefionn/exprschnell/internal/consts"
)

// Generator produces random expression trees. The zero value uses the shared
// math/rand source; set Rand for reproducible output.
type Generator struct {
	Rand *rand.Rand

	// MaxLiteral bounds random literals to [0, MaxLiteral). Zero means 10.
	MaxLiteral int64
}

func (g *Generator) intn(n int) int {
	if g.Rand != nil {
		return g.Rand.Intn(n)
	}
	return rand.Intn(n)
}

func (g *Generator) float() float64 {
	if g.Rand != nil {
		return g.Rand.Float64()
	}
	return rand.Float64()
}

func (g *Generator) maxLiteral() int64 {
	if g.MaxLiteral > 0 {
		return g.MaxLiteral
	}
	return 10
}

var generatorOperators = []Operator{OpAdd, OpSubtract, OpMultiply, OpDivide}

// Generate returns a random tree with at most maxDepth levels of nesting.
// At maxDepth 0 the result is always a bare literal.
func (g *Generator) Generate(maxDepth int) Operand {
	if maxDepth <= 0 || g.intn(maxDepth+1) == 0 {
		return NewLiteral(IntValue(int64(g.intn(int(g.maxLiteral())))))
	}
	op := generatorOperators[g.intn(len(generatorOperators))]
	return NewExpression(g.Generate(maxDepth-1), op, g.Generate(maxDepth-1))
}

// FromDigits writes the given digits in order into a random expression:
// random operators between them, random balanced parentheses around them.
// The string is then parsed through the regular builder, so the result is a
// well-formed tree by construction.
func (g *Generator) FromDigits(digits []int64) (Operand, error) {
	if len(digits) == 0 {
		return nil, syntaxErr(ErrEmptyExpression, 0, "no digits given")
	}

	var sb strings.Builder
	openBrackets := 0
	for i, digit := range digits {
		if g.float() < 0.3 {
			sb.WriteByte('(')
			openBrackets++
		}
		sb.WriteString(strconv.FormatInt(digit, 10))
		if openBrackets > 0 && g.float() > 0.5 {
			sb.WriteByte(')')
			openBrackets--
		}
		if i+1 < len(digits) {
			sb.WriteString(generatorOperators[g.intn(len(generatorOperators))].Symbol())
		}
	}
	for openBrackets > 0 {
		sb.WriteByte(')')
		openBrackets--
	}

	return Build(sb.String())
}

// SolveDigits searches for an expression over the digits (in order) that
// evaluates to goal. Division-by-zero candidates are skipped. It reports
// false when no match is found within the attempt budget; attempts <= 0 uses
// the default budget.
func (g *Generator) SolveDigits(digits []int64, goal Value, attempts int) (Operand, bool) {
	if attempts <= 0 {
		attempts = consts.DefaultPuzzleAttempts
	}
	for i := 0; i < attempts; i++ {
		candidate, err := g.FromDigits(digits)
		if err != nil {
			continue
		}
		result, err := candidate.Calculate()
		if err != nil {
			continue
		}
		if result.Equal(goal) {
			return candidate, true
		}
	}
	return nil, false
}
