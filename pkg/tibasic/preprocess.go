package tibasic

import (
	"fmt"
	"strings"
)

func endsValue(k Kind) bool {
	switch k {
	case NumberLiteral, ImaginaryUnit, PiConstant, EConstant, Variable, ListVariable,
		AnsKeyword, RightParen, RightBrace, SquareOp, InverseOp, FactorialOp:
		return true
	default:
		return false
	}
}

func startsValue(k Kind) bool {
	switch k {
	case NumberLiteral, ImaginaryUnit, PiConstant, EConstant, Variable, ListVariable,
		AnsKeyword, LeftParen, LeftBrace, FunctionCall, NegationOp:
		return true
	default:
		return false
	}
}

// Preprocess normalizes raw program text for the parser. It makes implicit
// multiplication explicit, validates list names, rejects nested list
// literals and closes brackets left open at the end of a statement. It never
// evaluates anything.
//
// The result has its tokens separated by single spaces and its statements
// joined by ':'.
func Preprocess(text string) (string, error) {
	tokens, err := Tokenize(text, false)
	if err != nil {
		return "", err
	}

	normalized, err := preprocessTokens(tokens)
	if err != nil {
		return "", err
	}

	statements := [][]string{{}}
	for _, tok := range normalized {
		if tok.kind == Separator {
			statements = append(statements, []string{})
			continue
		}
		last := len(statements) - 1
		statements[last] = append(statements[last], tok.Text())
	}

	lines := make([]string, len(statements))
	for i, stmt := range statements {
		lines[i] = strings.Join(stmt, " ")
	}
	return strings.Join(lines, ":"), nil
}

func preprocessErr(tok Tok, format string, args ...interface{}) error {
	return Err{
		ErrPreprocess,
		fmt.Sprintf("%s: %s [%s]", fmt.Sprintf(format, args...), tok.Text(), tok.position),
	}
}

func preprocessTokens(tokens []Tok) ([]Tok, error) {
	out := make([]Tok, 0, len(tokens))
	// open brackets, innermost last
	open := make([]Tok, 0)

	braceOpen := func() bool {
		for _, tok := range open {
			if tok.kind == LeftBrace {
				return true
			}
		}
		return false
	}
	closeAll := func(pos position) {
		for i := len(open) - 1; i >= 0; i-- {
			closer := RightParen
			if open[i].kind == LeftBrace {
				closer = RightBrace
			}
			out = append(out, Tok{kind: closer, position: pos})
		}
		open = open[:0]
	}

	for _, tok := range tokens {
		if len(out) > 0 {
			prev := out[len(out)-1]
			if endsValue(prev.kind) && startsValue(tok.kind) &&
				!(prev.kind == NumberLiteral && tok.kind == NumberLiteral) {
				out = append(out, Tok{kind: MultiplyOp, position: tok.position})
			}
		}

		switch tok.kind {
		case ListVariable:
			if err := ValidateListName(tok.str); err != nil {
				return nil, preprocessErr(tok, "%s", err)
			}
			if braceOpen() {
				return nil, preprocessErr(tok, "list variable inside a list literal")
			}

		case LeftBrace:
			if braceOpen() {
				return nil, preprocessErr(tok, "nested list literal")
			}
			open = append(open, tok)

		case LeftParen, FunctionCall:
			open = append(open, tok)

		case RightParen:
			if len(open) == 0 || open[len(open)-1].kind == LeftBrace {
				return nil, preprocessErr(tok, "unmatched closing parenthesis")
			}
			open = open[:len(open)-1]

		case RightBrace:
			if !braceOpen() {
				return nil, preprocessErr(tok, "unmatched closing brace")
			}
			// parentheses still open inside the literal close with it
			for open[len(open)-1].kind != LeftBrace {
				out = append(out, Tok{kind: RightParen, position: tok.position})
				open = open[:len(open)-1]
			}
			open = open[:len(open)-1]

		case StoreOp, Separator:
			closeAll(tok.position)
		}

		out = append(out, tok)
	}

	if len(tokens) > 0 {
		closeAll(tokens[len(tokens)-1].position)
	}
	return out, nil
}
