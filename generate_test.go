package exprschnell

import (
	"errors"
	"math/rand"
	"testing"
)

func TestGeneratorGenerateDepthZeroIsLiteral(t *testing.T) {
	g := &Generator{Rand: rand.New(rand.NewSource(1))}
	for i := 0; i < 20; i++ {
		if _, ok := g.Generate(0).(Literal); !ok {
			t.Fatalf("Generate(0) must return a literal")
		}
	}
}

func TestGeneratorGenerateRoundTrips(t *testing.T) {
	g := &Generator{Rand: rand.New(rand.NewSource(42))}

	for i := 0; i < 100; i++ {
		tree := g.Generate(4)

		want, err := tree.Calculate()
		if err != nil {
			// Random division by zero is expected occasionally.
			if !errors.Is(err, ErrDivisionByZero) {
				t.Fatalf("Calculate failed with unexpected error: %v", err)
			}
			continue
		}

		rebuilt, err := Build(tree.String())
		if err != nil {
			t.Fatalf("rendered tree %q does not parse: %v", tree.String(), err)
		}
		got, err := rebuilt.Calculate()
		if err != nil {
			t.Fatalf("rebuilt tree for %q failed to evaluate: %v", tree.String(), err)
		}
		if !want.Equal(got) {
			t.Fatalf("round trip of %q changed the value: %v != %v", tree.String(), want, got)
		}
	}
}

func TestGeneratorFromDigits(t *testing.T) {
	g := &Generator{Rand: rand.New(rand.NewSource(7))}
	digits := []int64{5, 5, 5, 5, 5}

	for i := 0; i < 50; i++ {
		tree, err := g.FromDigits(digits)
		if err != nil {
			t.Fatalf("FromDigits returned unexpected error: %v", err)
		}
		if tree == nil {
			t.Fatalf("FromDigits returned a nil tree")
		}
	}
}

func TestGeneratorFromDigitsEmpty(t *testing.T) {
	g := &Generator{}
	if _, err := g.FromDigits(nil); !errors.Is(err, ErrEmptyExpression) {
		t.Fatalf("FromDigits(nil) = %v, want ErrEmptyExpression", err)
	}
}

func TestGeneratorSolveDigitsTrivial(t *testing.T) {
	g := &Generator{Rand: rand.New(rand.NewSource(3))}

	// A single digit always evaluates to itself, so any attempt succeeds.
	solution, ok := g.SolveDigits([]int64{5}, IntValue(5), 10)
	if !ok {
		t.Fatalf("SolveDigits could not solve the trivial puzzle")
	}
	got, err := solution.Calculate()
	if err != nil {
		t.Fatalf("solution failed to evaluate: %v", err)
	}
	if !got.Equal(IntValue(5)) {
		t.Fatalf("solution = %v, want 5", got)
	}
}

func TestGeneratorSolveDigitsUnreachableGoal(t *testing.T) {
	g := &Generator{Rand: rand.New(rand.NewSource(9))}

	// A single 5 can never become 7 regardless of grouping.
	if _, ok := g.SolveDigits([]int64{5}, IntValue(7), 25); ok {
		t.Fatalf("SolveDigits found a solution that cannot exist")
	}
}
