package tibasic

import (
	"testing"
)

func TestPreprocessImplicitMultiplication(t *testing.T) {
	cases := map[string]string{
		"2A":       "2 * A",
		"AB":       "A * B",
		"2(3)":     "2 * ( 3 )",
		"(1)(2)":   "( 1 ) * ( 2 )",
		"3+2i":     "3 + 2 * i",
		"2sin(A)":  "2 * sin( A )",
		"A²B":      "A ² * B",
		"2‾3":      "2 * ‾ 3",
		"2∟A":      "2 * ∟A",
		"{1,2}{3,4}": "{ 1 , 2 } * { 3 , 4 }",
		"Ans π":    "Ans * π",
		"A-B":      "A - B",
		"Disp A,B": "Disp A , B",
	}
	for input, want := range cases {
		got, err := Preprocess(input)
		if err != nil {
			t.Errorf("Preprocess(%q) error: %v", input, err)
			continue
		}
		if got != want {
			t.Errorf("Preprocess(%q): want %q, got %q", input, want, got)
		}
	}
}

func TestPreprocessClosesOpenBrackets(t *testing.T) {
	cases := map[string]string{
		"{1,2,3":        "{ 1 , 2 , 3 }",
		"√(4":           "√( 4 )",
		"2(3→A":         "2 * ( 3 ) → A",
		"{1,(2}":        "{ 1 , ( 2 ) }",
		"sin(1:cos(2":   "sin( 1 ):cos( 2 )",
		"If A:Then":     "If A:Then",
		"L₁+1":          "∟₁ + 1",
		"5->A\n\"HI":    "5 → A:\"HI\"",
	}
	for input, want := range cases {
		got, err := Preprocess(input)
		if err != nil {
			t.Errorf("Preprocess(%q) error: %v", input, err)
			continue
		}
		if got != want {
			t.Errorf("Preprocess(%q): want %q, got %q", input, want, got)
		}
	}
}

func TestPreprocessErrors(t *testing.T) {
	cases := map[string]string{
		"∟1":        "∟1",
		"∟ABCDEF":   "∟ABCDEF",
		"∟":         "list name is empty",
		"{1,{2}}":   "nested list literal",
		"{1,∟A}":    "list variable inside a list literal",
		"1)":        "unmatched closing parenthesis",
		"{1)":       "unmatched closing parenthesis",
		"1}":        "unmatched closing brace",
	}
	for input, substr := range cases {
		_, err := Preprocess(input)
		wantReason(t, err, ErrPreprocess)
		wantErrContains(t, err, substr)
	}
}

func TestPreprocessErrorNamesPosition(t *testing.T) {
	_, err := Preprocess("1+1\n2∟1")
	wantReason(t, err, ErrPreprocess)
	wantErrContains(t, err, "[2:2]")
}

func TestPreprocessIsIdempotent(t *testing.T) {
	for _, input := range []string{"2A(B+1)²", "{1,2}→∟X:Disp ∟X", "If A≤3:prgmFOO"} {
		once, err := Preprocess(input)
		if err != nil {
			t.Errorf("Preprocess(%q) error: %v", input, err)
			continue
		}
		twice, err := Preprocess(once)
		if err != nil {
			t.Fatalf("Preprocess(%q) error: %v", once, err)
		}
		if once != twice {
			t.Errorf("Preprocess not idempotent: %q then %q", once, twice)
		}
	}
}
