package exprschnell

import (
	"errors"
	"math"
	"testing"
)

func TestBuildRespectsPrecedence(t *testing.T) {
	cases := []struct {
		expr     string
		expected float64
	}{
		{"2 + 3 * 4", 14},
		{"10 + 5 * 2", 20},
		{"8 - 2 * 3", 2},
		{"18 / 3 + 2", 8},
		{"1 + 2 * 3 - 4", 3},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.expr, func(t *testing.T) {
			t.Parallel()
			got, err := Eval(tc.expr)
			if err != nil {
				t.Fatalf("Eval(%q) returned unexpected error: %v", tc.expr, err)
			}
			if diff := math.Abs(got.Float() - tc.expected); diff > 1e-9 {
				t.Fatalf("Eval(%q) = %v, want %v", tc.expr, got, tc.expected)
			}
		})
	}
}

func TestBuildLeftAssociativity(t *testing.T) {
	cases := []struct {
		expr     string
		expected float64
	}{
		{"10 - 3 - 2", 5},
		{"100 / 10 / 2", 5},
		{"1 - 2 + 3", 2},
		{"2 * 6 / 4", 3},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.expr, func(t *testing.T) {
			t.Parallel()
			got, err := Eval(tc.expr)
			if err != nil {
				t.Fatalf("Eval(%q) returned unexpected error: %v", tc.expr, err)
			}
			if diff := math.Abs(got.Float() - tc.expected); diff > 1e-9 {
				t.Fatalf("Eval(%q) = %v, want %v", tc.expr, got, tc.expected)
			}
		})
	}
}

func TestBuildHandlesParentheses(t *testing.T) {
	cases := []struct {
		expr     string
		expected float64
	}{
		{"(2 + 3) * 4", 20},
		{"(8 - 2) * (5 - 3)", 12},
		{"(10 + 5) / (3 + 2)", 3},
		{"((1 + 2) * (3 + 4))", 21},
		{"2 * (3 + 4 * (5 - 3))", 22},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.expr, func(t *testing.T) {
			t.Parallel()
			got, err := Eval(tc.expr)
			if err != nil {
				t.Fatalf("Eval(%q) returned unexpected error: %v", tc.expr, err)
			}
			if diff := math.Abs(got.Float() - tc.expected); diff > 1e-9 {
				t.Fatalf("Eval(%q) = %v, want %v", tc.expr, got, tc.expected)
			}
		})
	}
}

func TestBuildUnarySigns(t *testing.T) {
	cases := []struct {
		expr     string
		expected float64
	}{
		{"-3 + 4", 1},
		{"+3 + 4", 7},
		{"1 + +2", 3},
		{"1 - -2", 3},
		{"2 * -3", -6},
		{"-(2 + 3) * 4", -20},
		{"+(2 + 3) * 4", 20},
		{"-(5)", -5},
		{"-0.5 * 4", -2},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.expr, func(t *testing.T) {
			t.Parallel()
			got, err := Eval(tc.expr)
			if err != nil {
				t.Fatalf("Eval(%q) returned unexpected error: %v", tc.expr, err)
			}
			if diff := math.Abs(got.Float() - tc.expected); diff > 1e-9 {
				t.Fatalf("Eval(%q) = %v, want %v", tc.expr, got, tc.expected)
			}
		})
	}
}

func TestBuildNumericPolicy(t *testing.T) {
	t.Run("integer operands stay integral", func(t *testing.T) {
		got, err := Eval("1 + 2")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !got.IsInt() || got.Int() != 3 {
			t.Fatalf("Eval(\"1 + 2\") = %v, want int 3", got)
		}
	})

	t.Run("addition is commutative", func(t *testing.T) {
		a, err := Eval("1+2")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		b, err := Eval("2+1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !a.Equal(b) {
			t.Fatalf("1+2 = %v but 2+1 = %v", a, b)
		}
	})

	t.Run("division always yields a float", func(t *testing.T) {
		got, err := Eval("4 / 2")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.IsInt() {
			t.Fatalf("Eval(\"4 / 2\") = %v, want a float", got)
		}
		if got.Float() != 2 {
			t.Fatalf("Eval(\"4 / 2\") = %v, want 2", got)
		}
	})

	t.Run("float operand promotes the result", func(t *testing.T) {
		got, err := Eval("1.5 + 2")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.IsInt() || got.Float() != 3.5 {
			t.Fatalf("Eval(\"1.5 + 2\") = %v, want 3.5", got)
		}
	})

	t.Run("exponent literals parse as floats", func(t *testing.T) {
		got, err := Eval("1e3 + 1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.IsInt() || got.Float() != 1001 {
			t.Fatalf("Eval(\"1e3 + 1\") = %v, want 1001", got)
		}
	})
}

func TestBuildBareLiteral(t *testing.T) {
	operand, err := Build("42")
	if err != nil {
		t.Fatalf("Build(\"42\") returned unexpected error: %v", err)
	}
	lit, ok := operand.(Literal)
	if !ok {
		t.Fatalf("Build(\"42\") returned %T, want Literal", operand)
	}
	if !lit.Value().IsInt() || lit.Value().Int() != 42 {
		t.Fatalf("Build(\"42\") = %v, want int 42", lit.Value())
	}
}

func TestBuildErrors(t *testing.T) {
	cases := []struct {
		name string
		expr string
		want error
	}{
		{"empty input", "", ErrEmptyExpression},
		{"whitespace only", "   \t ", ErrEmptyExpression},
		{"empty group", "()", ErrEmptyExpression},
		{"unclosed parenthesis", "(1 + 2", ErrUnmatchedParenthesis},
		{"stray closing parenthesis", "1 + 2)", ErrUnmatchedParenthesis},
		{"consecutive operators", "1 + + 2", ErrMalformedExpression},
		{"consecutive operands", "1 2 +", ErrMalformedExpression},
		{"trailing operator", "1 +", ErrMalformedExpression},
		{"leading binary operator", "* 2", ErrMalformedExpression},
		{"operand before group", "2 (3 + 4)", ErrMalformedExpression},
		{"sign before operator", "1 + -* 2", ErrMalformedExpression},
		{"unsupported character", "2 $ 3", ErrLex},
		{"caret is not supported", "2 ^ 3", ErrLex},
		{"letters are rejected", "two + 2", ErrLex},
		{"bare dot", ". + 1", ErrInvalidOperand},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := Build(tc.expr)
			if err == nil {
				t.Fatalf("Build(%q) succeeded, want %v", tc.expr, tc.want)
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("Build(%q) = %v, want %v", tc.expr, err, tc.want)
			}
		})
	}
}

func TestBuildDivisionByZero(t *testing.T) {
	cases := []string{
		"5 / 0",
		"1 + (5 / 0)",
		"(3 - 3) / (2 - 2)",
		"1 / (2 - 2)",
	}

	for _, expr := range cases {
		expr := expr
		t.Run(expr, func(t *testing.T) {
			t.Parallel()
			operand, err := Build(expr)
			if err != nil {
				t.Fatalf("Build(%q) returned unexpected error: %v", expr, err)
			}
			if _, err := operand.Calculate(); !errors.Is(err, ErrDivisionByZero) {
				t.Fatalf("Calculate(%q) = %v, want ErrDivisionByZero", expr, err)
			}
		})
	}
}

func TestBuildNestingDepthLimit(t *testing.T) {
	t.Run("within limit", func(t *testing.T) {
		if _, err := Build("((1 + 2))", WithMaxDepth(2)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("beyond limit", func(t *testing.T) {
		_, err := Build("(((1 + 2)))", WithMaxDepth(2))
		if !errors.Is(err, ErrNestingTooDeep) {
			t.Fatalf("got %v, want ErrNestingTooDeep", err)
		}
	})
}

func TestBuildReportsPosition(t *testing.T) {
	_, err := Build("1 + $")
	var syntaxError *SyntaxError
	if !errors.As(err, &syntaxError) {
		t.Fatalf("Build returned %T, want *SyntaxError", err)
	}
	if syntaxError.Pos != 4 {
		t.Fatalf("error position = %d, want 4", syntaxError.Pos)
	}
	if !errors.Is(err, ErrLex) {
		t.Fatalf("error %v does not match ErrLex", err)
	}
}

func TestCalculateIsIdempotent(t *testing.T) {
	operand, err := Build("3 + 4 * (2 - 1)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first, err := operand.Calculate()
	if err != nil {
		t.Fatalf("first Calculate failed: %v", err)
	}
	second, err := operand.Calculate()
	if err != nil {
		t.Fatalf("second Calculate failed: %v", err)
	}
	if !first.Equal(second) {
		t.Fatalf("Calculate is not idempotent: %v then %v", first, second)
	}
}

func TestBuildStringRoundTrip(t *testing.T) {
	cases := []string{
		"2 + 3 * 4",
		"(2 + 3) * 4",
		"10 - 3 - 2",
		"10 - (3 - 2)",
		"1 + 2 / 4",
		"-(2 + 3) * 4",
		"2 * -3",
	}

	for _, expr := range cases {
		expr := expr
		t.Run(expr, func(t *testing.T) {
			t.Parallel()
			operand, err := Build(expr)
			if err != nil {
				t.Fatalf("Build(%q) returned unexpected error: %v", expr, err)
			}
			want, err := operand.Calculate()
			if err != nil {
				t.Fatalf("Calculate failed: %v", err)
			}

			rebuilt, err := Build(operand.String())
			if err != nil {
				t.Fatalf("Build(%q) of rendered form failed: %v", operand.String(), err)
			}
			got, err := rebuilt.Calculate()
			if err != nil {
				t.Fatalf("Calculate of rebuilt tree failed: %v", err)
			}
			if !want.Equal(got) {
				t.Fatalf("round trip through %q changed the value: %v != %v", operand.String(), want, got)
			}
		})
	}
}

func TestBuildConcurrent(t *testing.T) {
	// Builders are per-call, so parallel builds need no coordination.
	exprs := []string{"1 + 2", "3 * (4 - 1)", "10 / 4", "-(5) + 6"}
	done := make(chan error, len(exprs)*8)

	for i := 0; i < 8; i++ {
		for _, expr := range exprs {
			go func(expr string) {
				_, err := Eval(expr)
				done <- err
			}(expr)
		}
	}

	for i := 0; i < len(exprs)*8; i++ {
		if err := <-done; err != nil {
			t.Fatalf("concurrent Eval failed: %v", err)
		}
	}
}
