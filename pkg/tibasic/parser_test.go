package tibasic

import (
	"testing"
)

func parseExpr(t *testing.T, input string) Node {
	t.Helper()
	tokens, err := Tokenize(input, false)
	if err != nil {
		t.Fatalf("Tokenize(%q) error: %v", input, err)
	}
	node, err := ParseExpression(tokens)
	if err != nil {
		t.Fatalf("ParseExpression(%q) error: %v", input, err)
	}
	return node
}

func TestParsePrecedence(t *testing.T) {
	cases := map[string]string{
		"1+2*3":  "Binary (Number 1) '+' (Binary (Number 2) '*' (Number 3))",
		"1*2+3":  "Binary (Binary (Number 1) '*' (Number 2)) '+' (Number 3)",
		"2^3^2":  "Binary (Binary (Number 2) '^' (Number 3)) '^' (Number 2)",
		"‾2^2":   "Unary '‾' (Binary (Number 2) '^' (Number 2))",
		"-A":     "Unary '‾' (Variable A)",
		"A²":     "Unary '²' (Variable A)",
		"1<2 and 3=3": "Binary (Binary (Number 1) '<' (Number 2)) 'and' (Binary (Number 3) '=' (Number 3))",
		"1 or 0 and 0": "Binary (Number 1) 'or' (Binary (Number 0) 'and' (Number 0))",
	}
	for input, want := range cases {
		if got := parseExpr(t, input).String(); got != want {
			t.Errorf("parse %q:\nwant %s\ngot  %s", input, want, got)
		}
	}
}

func TestParseCallsAndLists(t *testing.T) {
	node := parseExpr(t, "max({1,2},3)")
	call, ok := node.(FunctionCallNode)
	if !ok {
		t.Fatalf("want function call, got %s", node)
	}
	if call.function != "max" || len(call.arguments) != 2 {
		t.Fatalf("want max with 2 arguments, got %s", call)
	}
	if list, ok := call.arguments[0].(ListLiteralNode); !ok || len(list.vals) != 2 {
		t.Fatalf("want a two element list literal, got %s", call.arguments[0])
	}

	empty := parseExpr(t, "{}")
	if list, ok := empty.(ListLiteralNode); !ok || len(list.vals) != 0 {
		t.Fatalf("want empty list literal, got %s", empty)
	}
}

func TestParseStatements(t *testing.T) {
	tokens, err := Tokenize(`:If A:Then:Disp 1,"X":Else:Input "N?",B:Prompt C,∟D:End:While 0:End:Repeat 1:End:prgmSUB:Stop:Return:5→E`, false)
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}
	statements, err := Parse(tokens, false)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	want := []Statement{
		IfNode{}, ThenNode{}, DispNode{}, ElseNode{}, InputNode{}, PromptNode{}, EndNode{},
		WhileNode{}, EndNode{}, RepeatNode{}, EndNode{}, ProgramCallNode{}, StopNode{}, ReturnNode{},
		ExpressionStatementNode{},
	}
	if len(statements) != len(want) {
		t.Fatalf("want %d statements, got %d: %v", len(want), len(statements), statements)
	}
	for i := range want {
		if gotType, wantType := typeName(statements[i]), typeName(want[i]); gotType != wantType {
			t.Fatalf("statement %d: want %s, got %s", i, wantType, gotType)
		}
	}

	input := statements[4].(InputNode)
	if input.text != "N?" {
		t.Fatalf("want Input prompt N?, got %q", input.text)
	}
	prompt := statements[5].(PromptNode)
	if len(prompt.targets) != 2 {
		t.Fatalf("want 2 Prompt targets, got %d", len(prompt.targets))
	}
	store := statements[14].(ExpressionStatementNode)
	if target, ok := store.target.(VariableNode); !ok || target.variable != 'E' {
		t.Fatalf("want store into E, got %v", store.target)
	}
}

func typeName(s Statement) string {
	switch s.(type) {
	case IfNode:
		return "If"
	case ThenNode:
		return "Then"
	case ElseNode:
		return "Else"
	case WhileNode:
		return "While"
	case RepeatNode:
		return "Repeat"
	case EndNode:
		return "End"
	case StopNode:
		return "Stop"
	case ReturnNode:
		return "Return"
	case DispNode:
		return "Disp"
	case InputNode:
		return "Input"
	case PromptNode:
		return "Prompt"
	case ProgramCallNode:
		return "prgm"
	case ExpressionStatementNode:
		return "expression"
	}
	return "unknown"
}

func TestParseSyntaxErrors(t *testing.T) {
	for _, input := range []string{"1+", "Then 1", "End A", "1→2", "If", "(1", "max(1,", "Prompt 1", "Input \"X\"", "1 2"} {
		tokens, err := Tokenize(input, false)
		if err != nil {
			t.Fatalf("Tokenize(%q) error: %v", input, err)
		}
		_, err = Parse(tokens, false)
		wantReason(t, err, ErrSyntax)
	}
}
