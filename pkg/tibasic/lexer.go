package tibasic

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Kind is the sum type of all possible types of tokens in a program
type Kind int

const (
	Separator Kind = iota
	Comma

	LeftParen
	RightParen
	LeftBrace
	RightBrace

	NumberLiteral
	ImaginaryUnit
	PiConstant
	EConstant
	StringLiteral
	Variable
	ListVariable
	AnsKeyword
	FunctionCall
	ProgramCall

	StoreOp
	AddOp
	SubtractOp
	MultiplyOp
	DivideOp
	PowerOp
	NegationOp
	SquareOp
	InverseOp
	FactorialOp
	EqualOp
	NotEqualOp
	LessThanOp
	GreaterThanOp
	LessEqualOp
	GreaterEqualOp
	AndOp
	OrOp
	XorOp

	IfKeyword
	ThenKeyword
	ElseKeyword
	WhileKeyword
	RepeatKeyword
	EndKeyword
	StopKeyword
	ReturnKeyword
	DispKeyword
	InputKeyword
	PromptKeyword
)

var kindNames = map[Kind]string{
	Separator:      "':'",
	Comma:          "','",
	LeftParen:      "'('",
	RightParen:     "')'",
	LeftBrace:      "'{'",
	RightBrace:     "'}'",
	NumberLiteral:  "number literal",
	ImaginaryUnit:  "'i'",
	PiConstant:     "'π'",
	EConstant:      "'e'",
	StringLiteral:  "string literal",
	Variable:       "variable",
	ListVariable:   "list variable",
	AnsKeyword:     "'Ans'",
	FunctionCall:   "function",
	ProgramCall:    "program call",
	StoreOp:        "'→'",
	AddOp:          "'+'",
	SubtractOp:     "'-'",
	MultiplyOp:     "'*'",
	DivideOp:       "'/'",
	PowerOp:        "'^'",
	NegationOp:     "'‾'",
	SquareOp:       "'²'",
	InverseOp:      "'⁻¹'",
	FactorialOp:    "'!'",
	EqualOp:        "'='",
	NotEqualOp:     "'≠'",
	LessThanOp:     "'<'",
	GreaterThanOp:  "'>'",
	LessEqualOp:    "'≤'",
	GreaterEqualOp: "'≥'",
	AndOp:          "'and'",
	OrOp:           "'or'",
	XorOp:          "'xor'",
	IfKeyword:      "'If'",
	ThenKeyword:    "'Then'",
	ElseKeyword:    "'Else'",
	WhileKeyword:   "'While'",
	RepeatKeyword:  "'Repeat'",
	EndKeyword:     "'End'",
	StopKeyword:    "'Stop'",
	ReturnKeyword:  "'Return'",
	DispKeyword:    "'Disp'",
	InputKeyword:   "'Input'",
	PromptKeyword:  "'Prompt'",
}

func (i Kind) String() string {
	if name, ok := kindNames[i]; ok {
		return name
	}
	return "unknown token"
}

type position struct {
	line int
	col  int
}

func (p position) String() string {
	return fmt.Sprintf("%d:%d", p.line, p.col)
}

// Position lets statement nodes satisfy Statement by embedding a position.
func (p position) Position() position {
	return p
}

// Tok is the monomorphic struct representing all tokens
type Tok struct {
	kind Kind
	// str holds the name of variables, lists, functions and programs,
	// the content of strings and the source text of number literals
	str string
	num float64
	position
}

func (tok Tok) String() string {
	switch tok.kind {
	case NumberLiteral, StringLiteral, Variable, ListVariable, FunctionCall, ProgramCall:
		return fmt.Sprintf("%s %s [%s]", tok.kind, tok.Text(), tok.position)
	default:
		return fmt.Sprintf("%s [%s]", tok.kind, tok.position)
	}
}

// Text renders the token back to canonical program text.
func (tok Tok) Text() string {
	switch tok.kind {
	case NumberLiteral:
		return tok.str
	case StringLiteral:
		return "\"" + tok.str + "\""
	case Variable:
		return tok.str
	case ListVariable:
		return string(ListMarker) + tok.str
	case FunctionCall:
		return tok.str + "("
	case ProgramCall:
		return "prgm" + tok.str
	}
	for _, entry := range tokenTable {
		if entry.kind == tok.kind && entry.canonical {
			return entry.text
		}
	}
	return strings.Trim(tok.kind.String(), "'")
}

type tableEntry struct {
	text      string
	kind      Kind
	canonical bool
}

// tokens matched by longest prefix; function names carry their paren
var tokenTable = []tableEntry{
	{":", Separator, true},
	{"\n", Separator, false},
	{",", Comma, true},
	{"(", LeftParen, true},
	{")", RightParen, true},
	{"{", LeftBrace, true},
	{"}", RightBrace, true},
	{"i", ImaginaryUnit, true},
	{"π", PiConstant, true},
	{"e", EConstant, true},
	{"Ans", AnsKeyword, true},
	{"→", StoreOp, true},
	{"->", StoreOp, false},
	{"+", AddOp, true},
	{"-", SubtractOp, true},
	{"*", MultiplyOp, true},
	{"×", MultiplyOp, false},
	{"/", DivideOp, true},
	{"÷", DivideOp, false},
	{"^", PowerOp, true},
	{"‾", NegationOp, true},
	{"⁻", NegationOp, false},
	{"²", SquareOp, true},
	{"⁻¹", InverseOp, true},
	{"!", FactorialOp, true},
	{"=", EqualOp, true},
	{"≠", NotEqualOp, true},
	{"!=", NotEqualOp, false},
	{"<", LessThanOp, true},
	{">", GreaterThanOp, true},
	{"≤", LessEqualOp, true},
	{"<=", LessEqualOp, false},
	{"≥", GreaterEqualOp, true},
	{">=", GreaterEqualOp, false},
	{"and", AndOp, true},
	{"or", OrOp, true},
	{"xor", XorOp, true},
	{"If", IfKeyword, true},
	{"Then", ThenKeyword, true},
	{"Else", ElseKeyword, true},
	{"While", WhileKeyword, true},
	{"Repeat", RepeatKeyword, true},
	{"End", EndKeyword, true},
	{"Stop", StopKeyword, true},
	{"Return", ReturnKeyword, true},
	{"Disp", DispKeyword, true},
	{"Input", InputKeyword, true},
	{"Prompt", PromptKeyword, true},
}

// FunctionNames lists every function token, without its opening paren.
var FunctionNames = []string{
	"√", "abs", "sin", "cos", "tan", "sin⁻¹", "cos⁻¹", "tan⁻¹",
	"ln", "log", "e^", "int", "iPart", "fPart", "real", "imag",
	"conj", "angle", "not", "round", "dim", "sum", "prod", "min", "max",
}

func init() {
	for _, name := range FunctionNames {
		tokenTable = append(tokenTable, tableEntry{name + "(", FunctionCall, false})
	}
}

func matchTable(input string) (tableEntry, bool) {
	var best tableEntry
	found := false
	for _, entry := range tokenTable {
		if strings.HasPrefix(input, entry.text) && len(entry.text) > len(best.text) {
			best = entry
			found = true
		}
	}
	return best, found
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// Tokenize splits program text into tokens. Whitespace other than line
// breaks is insignificant.
func Tokenize(input string, debugLexer bool) ([]Tok, error) {
	tokens := make([]Tok, 0)
	line, col := 1, 1
	idx := 0

	emit := func(tok Tok) {
		if debugLexer {
			LogDebug("lex ->", tok.String())
		}
		tokens = append(tokens, tok)
	}

	for idx < len(input) {
		r, size := utf8.DecodeRuneInString(input[idx:])
		pos := position{line, col}
		rest := input[idx:]

		// advance moves past n bytes of input, tracking columns in runes
		advance := func(n int) {
			col += utf8.RuneCountInString(input[idx : idx+n])
			idx += n
		}

		switch {
		case r == ' ' || r == '\t' || r == '\r':
			advance(size)
			continue

		case r == '\n':
			emit(Tok{kind: Separator, position: pos})
			idx += size
			line++
			col = 1
			continue

		case r == '"':
			end := idx + size
			for end < len(input) {
				c, s := utf8.DecodeRuneInString(input[end:])
				if c == '"' || c == '\n' || c == '→' {
					break
				}
				end += s
			}
			str := input[idx+size : end]
			if end < len(input) && input[end] == '"' {
				end++
			}
			emit(Tok{kind: StringLiteral, str: str, position: pos})
			advance(end - idx)
			continue

		case isDigit(r) || (r == '.' && len(rest) > 1 && isDigit(rune(rest[1]))):
			n, text, err := scanNumber(rest)
			if err != nil {
				return nil, Err{ErrSyntax, fmt.Sprintf("%s [%s]", err, pos)}
			}
			emit(Tok{kind: NumberLiteral, str: text, num: n, position: pos})
			advance(len(text))
			continue

		case r == ListMarker:
			name := scanListName(rest[size:])
			emit(Tok{kind: ListVariable, str: name, position: pos})
			advance(size + len(name))
			continue

		case r == 'L' && len(rest) > size:
			if sub, subSize := utf8.DecodeRuneInString(rest[size:]); isDefaultListName(sub) {
				emit(Tok{kind: ListVariable, str: string(sub), position: pos})
				advance(size + subSize)
				continue
			}
			// ASCII L1..L6, unless more digits follow (L12 is L*12)
			if d := rest[size]; d >= '1' && d <= '6' &&
				(len(rest) == size+1 || !(isDigit(rune(rest[size+1])) || rest[size+1] == '.')) {
				emit(Tok{kind: ListVariable, str: string('₁' + rune(d-'1')), position: pos})
				advance(size + 1)
				continue
			}
		}

		if strings.HasPrefix(rest, "prgm") {
			name := scanProgramName(rest[len("prgm"):])
			if name == "" {
				return nil, Err{ErrSyntax, fmt.Sprintf("missing program name after prgm [%s]", pos)}
			}
			emit(Tok{kind: ProgramCall, str: name, position: pos})
			advance(len("prgm") + len(name))
			continue
		}

		if entry, ok := matchTable(rest); ok {
			tok := Tok{kind: entry.kind, position: pos}
			if entry.kind == FunctionCall {
				tok.str = strings.TrimSuffix(entry.text, "(")
			}
			emit(tok)
			if entry.kind == Separator && entry.text == "\n" {
				idx += len(entry.text)
				line++
				col = 1
			} else {
				advance(len(entry.text))
			}
			continue
		}

		if v, ok := NumberVariableOf(r); ok {
			emit(Tok{kind: Variable, str: v.String(), position: pos})
			advance(size)
			continue
		}

		return nil, Err{ErrSyntax, fmt.Sprintf("unexpected character %q [%s]", r, pos)}
	}

	return tokens, nil
}

// scanNumber reads a decimal literal with an optional ᴇ exponent.
func scanNumber(input string) (float64, string, error) {
	end := 0
	seenDot := false
	for end < len(input) {
		c := input[end]
		if isDigit(rune(c)) {
			end++
		} else if c == '.' && !seenDot {
			seenDot = true
			end++
		} else {
			break
		}
	}
	mantissa := input[:end]
	text := mantissa
	normalized := mantissa

	if strings.HasPrefix(input[end:], "ᴇ") {
		expStart := end + len("ᴇ")
		expEnd := expStart
		sign := ""
		for _, neg := range []string{"‾", "⁻", "-"} {
			if strings.HasPrefix(input[expEnd:], neg) {
				sign = "-"
				expEnd += len(neg)
				break
			}
		}
		digitsStart := expEnd
		for expEnd < len(input) && isDigit(rune(input[expEnd])) {
			expEnd++
		}
		if expEnd == digitsStart {
			return 0, "", fmt.Errorf("malformed exponent in number %s", input[:expEnd])
		}
		text = input[:expEnd]
		normalized = mantissa + "e" + sign + input[digitsStart:expEnd]
	}

	n, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return 0, "", fmt.Errorf("malformed number %s", text)
	}
	return n, text, nil
}

// scanListName reads the raw name following a list marker. Validation is
// left to the preprocessor so it can report the offending token.
func scanListName(input string) string {
	r, size := utf8.DecodeRuneInString(input)
	if isDefaultListName(r) {
		return input[:size]
	}
	end := 0
	for end < len(input) {
		c, s := utf8.DecodeRuneInString(input[end:])
		if !isListNameChar(c) {
			break
		}
		end += s
	}
	return input[:end]
}

func scanProgramName(input string) string {
	end := 0
	for end < len(input) {
		c, s := utf8.DecodeRuneInString(input[end:])
		if !isListNameChar(c) {
			break
		}
		end += s
	}
	return input[:end]
}
