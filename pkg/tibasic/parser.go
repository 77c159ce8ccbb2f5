package tibasic

import (
	"fmt"
	"math"
	"strings"
)

// Node represents an expression in the abstract syntax tree (AST) of a
// program.
type Node interface {
	String() string
	Position() position
	Eval(*Interpreter) (Value, error)
}

// Statement is one entry of a program's flat statement sequence.
type Statement interface {
	String() string
	Position() position
}

// a string representation of the Position of a given node,
//	appropriate for an error message
func poss(n Statement) string {
	return n.Position().String()
}

func operatorSymbol(k Kind) string {
	return Tok{kind: k}.Text()
}

type UnaryExprNode struct {
	operator Kind
	operand  Node
	position
}

func (n UnaryExprNode) String() string {
	return fmt.Sprintf("Unary %s (%s)", n.operator, n.operand)
}

func (n UnaryExprNode) Position() position {
	return n.position
}

type BinaryExprNode struct {
	operator     Kind
	leftOperand  Node
	rightOperand Node
	position
}

func (n BinaryExprNode) String() string {
	return fmt.Sprintf("Binary (%s) %s (%s)", n.leftOperand, n.operator, n.rightOperand)
}

func (n BinaryExprNode) Position() position {
	return n.position
}

type FunctionCallNode struct {
	function  string
	arguments []Node
	position
}

func (n FunctionCallNode) String() string {
	args := make([]string, len(n.arguments))
	for i, a := range n.arguments {
		args[i] = a.String()
	}
	return fmt.Sprintf("Call (%s) on (%s)", n.function, strings.Join(args, ", "))
}

func (n FunctionCallNode) Position() position {
	return n.position
}

type NumberLiteralNode struct {
	val complex128
	position
}

func (n NumberLiteralNode) String() string {
	return fmt.Sprintf("Number %s", NumberValue(n.val))
}

func (n NumberLiteralNode) Position() position {
	return n.position
}

type StringLiteralNode struct {
	val string
	position
}

func (n StringLiteralNode) String() string {
	return fmt.Sprintf("String %q", n.val)
}

func (n StringLiteralNode) Position() position {
	return n.position
}

type ListLiteralNode struct {
	vals []Node
	position
}

func (n ListLiteralNode) String() string {
	vals := make([]string, len(n.vals))
	for i, v := range n.vals {
		vals[i] = v.String()
	}
	return fmt.Sprintf("List [%s]", strings.Join(vals, ", "))
}

func (n ListLiteralNode) Position() position {
	return n.position
}

type VariableNode struct {
	variable NumberVariable
	position
}

func (n VariableNode) String() string {
	return fmt.Sprintf("Variable %s", n.variable)
}

func (n VariableNode) Position() position {
	return n.position
}

type ListVariableNode struct {
	name string
	position
}

func (n ListVariableNode) String() string {
	return fmt.Sprintf("List variable %c%s", ListMarker, n.name)
}

func (n ListVariableNode) Position() position {
	return n.position
}

type AnsNode struct {
	position
}

func (n AnsNode) String() string {
	return "Ans"
}

func (n AnsNode) Position() position {
	return n.position
}

// Statements

type IfNode struct {
	condition Node
	position
}

func (n IfNode) String() string {
	return fmt.Sprintf("If (%s)", n.condition)
}

type ThenNode struct{ position }

func (n ThenNode) String() string { return "Then" }

type ElseNode struct{ position }

func (n ElseNode) String() string { return "Else" }

type WhileNode struct {
	condition Node
	position
}

func (n WhileNode) String() string {
	return fmt.Sprintf("While (%s)", n.condition)
}

type RepeatNode struct {
	condition Node
	position
}

func (n RepeatNode) String() string {
	return fmt.Sprintf("Repeat (%s)", n.condition)
}

type EndNode struct{ position }

func (n EndNode) String() string { return "End" }

type StopNode struct{ position }

func (n StopNode) String() string { return "Stop" }

type ReturnNode struct{ position }

func (n ReturnNode) String() string { return "Return" }

type DispNode struct {
	arguments []Node
	position
}

func (n DispNode) String() string {
	args := make([]string, len(n.arguments))
	for i, a := range n.arguments {
		args[i] = a.String()
	}
	return fmt.Sprintf("Disp (%s)", strings.Join(args, ", "))
}

// InputNode reads one value into target, after printing its prompt text.
type InputNode struct {
	text   string
	target Node
	position
}

func (n InputNode) String() string {
	return fmt.Sprintf("Input %q (%s)", n.text, n.target)
}

type PromptNode struct {
	targets []Node
	position
}

func (n PromptNode) String() string {
	targets := make([]string, len(n.targets))
	for i, t := range n.targets {
		targets[i] = t.String()
	}
	return fmt.Sprintf("Prompt (%s)", strings.Join(targets, ", "))
}

type ProgramCallNode struct {
	name string
	position
}

func (n ProgramCallNode) String() string {
	return fmt.Sprintf("Program call %s", n.name)
}

// ExpressionStatementNode evaluates an expression and optionally stores the
// result in a variable.
type ExpressionStatementNode struct {
	expr   Node
	target Node
	position
}

func (n ExpressionStatementNode) String() string {
	if n.target != nil {
		return fmt.Sprintf("(%s) → (%s)", n.expr, n.target)
	}
	return n.expr.String()
}

// Program is a named, parsed sequence of statements.
type Program struct {
	Name       string
	Source     string
	Statements []Statement
}

func guardUnexpectedInputEnd(tokens []Tok, idx int) error {
	if idx >= len(tokens) {
		if len(tokens) > 0 {
			return Err{
				ErrSyntax,
				fmt.Sprintf("unexpected end of input at %s", tokens[len(tokens)-1]),
			}
		}
		return Err{ErrSyntax, "unexpected end of input"}
	}
	return nil
}

func unexpectedTokenErr(tok Tok) error {
	return Err{ErrSyntax, fmt.Sprintf("unexpected token %s", tok)}
}

// Parse builds the statement sequence of a program from its tokens. Empty
// statements are dropped.
func Parse(tokens []Tok, debugParser bool) ([]Statement, error) {
	statements := make([]Statement, 0)

	start := 0
	for i := 0; i <= len(tokens); i++ {
		if i < len(tokens) && tokens[i].kind != Separator {
			continue
		}
		if i > start {
			stmt, err := parseStatement(tokens[start:i])
			if err != nil {
				return nil, err
			}
			if debugParser {
				LogDebug("parse ->", stmt.String())
			}
			statements = append(statements, stmt)
		}
		start = i + 1
	}

	return statements, nil
}

// ParseExpression parses tokens that must form exactly one expression.
func ParseExpression(tokens []Tok) (Node, error) {
	if err := guardUnexpectedInputEnd(tokens, 0); err != nil {
		return nil, err
	}
	node, idx, err := parseExpression(tokens)
	if err != nil {
		return nil, err
	}
	if idx < len(tokens) {
		return nil, unexpectedTokenErr(tokens[idx])
	}
	return node, nil
}

// ParseProgram preprocesses, tokenizes and parses a program's source text.
func ParseProgram(name, source string, debug DebugConfig) (*Program, error) {
	normalized, err := Preprocess(source)
	if err != nil {
		return nil, err
	}
	if debug.Preprocess {
		LogDebugf("preprocess %s -> %s", name, normalized)
	}

	tokens, err := Tokenize(normalized, debug.Lex)
	if err != nil {
		return nil, err
	}
	statements, err := Parse(tokens, debug.Parse)
	if err != nil {
		return nil, err
	}

	return &Program{
		Name:       name,
		Source:     source,
		Statements: statements,
	}, nil
}

// expectEnd fails if a keyword statement carries trailing tokens.
func expectEnd(tokens []Tok, idx int) error {
	if idx < len(tokens) {
		return unexpectedTokenErr(tokens[idx])
	}
	return nil
}

func parseCondition(tokens []Tok) (Node, error) {
	if err := guardUnexpectedInputEnd(tokens, 1); err != nil {
		return nil, err
	}
	return ParseExpression(tokens[1:])
}

func parseStatement(tokens []Tok) (Statement, error) {
	tok := tokens[0]
	pos := tok.position

	switch tok.kind {
	case IfKeyword:
		cond, err := parseCondition(tokens)
		if err != nil {
			return nil, err
		}
		return IfNode{condition: cond, position: pos}, nil
	case WhileKeyword:
		cond, err := parseCondition(tokens)
		if err != nil {
			return nil, err
		}
		return WhileNode{condition: cond, position: pos}, nil
	case RepeatKeyword:
		cond, err := parseCondition(tokens)
		if err != nil {
			return nil, err
		}
		return RepeatNode{condition: cond, position: pos}, nil
	case ThenKeyword:
		return ThenNode{pos}, expectEnd(tokens, 1)
	case ElseKeyword:
		return ElseNode{pos}, expectEnd(tokens, 1)
	case EndKeyword:
		return EndNode{pos}, expectEnd(tokens, 1)
	case StopKeyword:
		return StopNode{pos}, expectEnd(tokens, 1)
	case ReturnKeyword:
		return ReturnNode{pos}, expectEnd(tokens, 1)
	case ProgramCall:
		return ProgramCallNode{name: tok.str, position: pos}, expectEnd(tokens, 1)
	case DispKeyword:
		args, err := parseArgumentList(tokens[1:])
		if err != nil {
			return nil, err
		}
		return DispNode{arguments: args, position: pos}, nil
	case PromptKeyword:
		return parsePrompt(tokens)
	case InputKeyword:
		return parseInput(tokens)
	}

	expr, idx, err := parseExpression(tokens)
	if err != nil {
		return nil, err
	}
	stmt := ExpressionStatementNode{expr: expr, position: pos}
	if idx < len(tokens) && tokens[idx].kind == StoreOp {
		target, err := parseStoreTarget(tokens, idx+1)
		if err != nil {
			return nil, err
		}
		stmt.target = target
		idx += 2
	}
	if err := expectEnd(tokens, idx); err != nil {
		return nil, err
	}
	return stmt, nil
}

func parseStoreTarget(tokens []Tok, idx int) (Node, error) {
	if err := guardUnexpectedInputEnd(tokens, idx); err != nil {
		return nil, err
	}
	tok := tokens[idx]
	switch tok.kind {
	case Variable:
		v, _ := NumberVariableOf([]rune(tok.str)[0])
		return VariableNode{variable: v, position: tok.position}, nil
	case ListVariable:
		return ListVariableNode{name: tok.str, position: tok.position}, nil
	}
	return nil, Err{ErrSyntax, fmt.Sprintf("cannot store into %s", tok)}
}

// parseArgumentList parses comma separated expressions spanning all of
// tokens. No tokens means no arguments.
func parseArgumentList(tokens []Tok) ([]Node, error) {
	args := make([]Node, 0)
	idx := 0
	for idx < len(tokens) {
		arg, incr, err := parseExpression(tokens[idx:])
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		idx += incr

		if idx == len(tokens) {
			break
		}
		if tokens[idx].kind != Comma {
			return nil, unexpectedTokenErr(tokens[idx])
		}
		idx++
		if err := guardUnexpectedInputEnd(tokens, idx); err != nil {
			return nil, err
		}
	}
	return args, nil
}

func parsePrompt(tokens []Tok) (Statement, error) {
	targets := make([]Node, 0)
	idx := 1
	for {
		target, err := parseStoreTarget(tokens, idx)
		if err != nil {
			return nil, err
		}
		targets = append(targets, target)
		idx++

		if idx == len(tokens) {
			break
		}
		if tokens[idx].kind != Comma {
			return nil, unexpectedTokenErr(tokens[idx])
		}
		idx++
	}
	return PromptNode{targets: targets, position: tokens[0].position}, nil
}

func parseInput(tokens []Tok) (Statement, error) {
	node := InputNode{text: "?", position: tokens[0].position}
	idx := 1
	if idx < len(tokens) && tokens[idx].kind == StringLiteral {
		node.text = tokens[idx].str
		idx++
		if err := guardUnexpectedInputEnd(tokens, idx); err != nil {
			return nil, err
		}
		if tokens[idx].kind != Comma {
			return nil, unexpectedTokenErr(tokens[idx])
		}
		idx++
	}

	target, err := parseStoreTarget(tokens, idx)
	if err != nil {
		return nil, err
	}
	node.target = target
	return node, expectEnd(tokens, idx+1)
}

const negationPriority = 60

func getOpPriority(t Tok) int {
	switch t.kind {
	case OrOp, XorOp:
		return 10
	case AndOp:
		return 20
	case EqualOp, NotEqualOp, LessThanOp, GreaterThanOp, LessEqualOp, GreaterEqualOp:
		return 30
	case AddOp, SubtractOp:
		return 40
	case MultiplyOp, DivideOp:
		return 50
	case PowerOp:
		return 70
	default:
		return -1
	}
}

func isBinaryOp(t Tok) bool {
	return getOpPriority(t) > 0
}

func isPostfixOp(t Tok) bool {
	switch t.kind {
	case SquareOp, InverseOp, FactorialOp:
		return true
	default:
		return false
	}
}

func parseBinaryExpression(
	leftOperand Node,
	operator Tok,
	tokens []Tok,
	previousPriority int,
) (Node, int, error) {
	if err := guardUnexpectedInputEnd(tokens, 0); err != nil {
		return nil, 0, err
	}
	rightAtom, idx, err := parseAtom(tokens)
	if err != nil {
		return nil, 0, err
	}
	incr := 0

	ops := make([]Tok, 1)
	nodes := make([]Node, 2)
	ops[0] = operator
	nodes[0] = leftOperand
	nodes[1] = rightAtom

	// build up a list of binary operations, with tree nodes
	//	where there are higher-priority binary ops
	for len(tokens) > idx && isBinaryOp(tokens[idx]) {
		if previousPriority >= getOpPriority(tokens[idx]) {
			// Priority is lower than the calling function's last op,
			//  so return control to the parent binary op
			break
		} else if getOpPriority(ops[len(ops)-1]) >= getOpPriority(tokens[idx]) {
			// Priority is lower than the previous op (but higher than parent),
			//	so it's ok to be left-heavy in this tree
			ops = append(ops, tokens[idx])
			idx++

			err := guardUnexpectedInputEnd(tokens, idx)
			if err != nil {
				return nil, 0, err
			}

			rightAtom, incr, err = parseAtom(tokens[idx:])
			if err != nil {
				return nil, 0, err
			}
			nodes = append(nodes, rightAtom)
			idx += incr
		} else {
			err := guardUnexpectedInputEnd(tokens, idx+1)
			if err != nil {
				return nil, 0, err
			}

			// Priority is higher than previous ops,
			//	so make it a right-heavy tree
			subtree, incr, err := parseBinaryExpression(
				nodes[len(nodes)-1],
				tokens[idx],
				tokens[idx+1:],
				getOpPriority(ops[len(ops)-1]),
			)
			if err != nil {
				return nil, 0, err
			}
			nodes[len(nodes)-1] = subtree
			idx += incr + 1
		}
	}

	// ops, nodes -> left-biased binary expression tree
	tree := nodes[0]
	nodes = nodes[1:]
	for len(ops) > 0 {
		tree = BinaryExprNode{
			operator:     ops[0].kind,
			leftOperand:  tree,
			rightOperand: nodes[0],
			position:     ops[0].position,
		}
		ops = ops[1:]
		nodes = nodes[1:]
	}

	return tree, idx, nil
}

func parseExpression(tokens []Tok) (Node, int, error) {
	atom, idx, err := parseAtom(tokens)
	if err != nil {
		return nil, 0, err
	}

	if idx < len(tokens) && isBinaryOp(tokens[idx]) {
		expr, incr, err := parseBinaryExpression(atom, tokens[idx], tokens[idx+1:], -1)
		if err != nil {
			return nil, 0, err
		}
		return expr, idx + incr + 1, nil
	}
	return atom, idx, nil
}

func parseAtom(tokens []Tok) (Node, int, error) {
	if err := guardUnexpectedInputEnd(tokens, 0); err != nil {
		return nil, 0, err
	}

	tok, idx := tokens[0], 1

	if tok.kind == NegationOp || tok.kind == SubtractOp {
		if err := guardUnexpectedInputEnd(tokens, idx); err != nil {
			return nil, 0, err
		}
		operand, incr, err := parseAtom(tokens[idx:])
		if err != nil {
			return nil, 0, err
		}
		idx += incr

		// negation binds looser than exponentiation
		for idx < len(tokens) && tokens[idx].kind == PowerOp {
			operand, incr, err = parseBinaryExpression(operand, tokens[idx], tokens[idx+1:], negationPriority)
			if err != nil {
				return nil, 0, err
			}
			idx += incr + 1
		}

		return UnaryExprNode{
			operator: NegationOp,
			operand:  operand,
			position: tok.position,
		}, idx, nil
	}

	var atom Node
	switch tok.kind {
	case NumberLiteral:
		atom = NumberLiteralNode{complex(tok.num, 0), tok.position}
	case ImaginaryUnit:
		atom = NumberLiteralNode{1i, tok.position}
	case PiConstant:
		atom = NumberLiteralNode{complex(math.Pi, 0), tok.position}
	case EConstant:
		atom = NumberLiteralNode{complex(math.E, 0), tok.position}
	case StringLiteral:
		atom = StringLiteralNode{tok.str, tok.position}
	case AnsKeyword:
		atom = AnsNode{tok.position}
	case Variable, ListVariable:
		target, err := parseStoreTarget(tokens, 0)
		if err != nil {
			return nil, 0, err
		}
		atom = target
	case LeftParen:
		if err := guardUnexpectedInputEnd(tokens, idx); err != nil {
			return nil, 0, err
		}
		inner, incr, err := parseExpression(tokens[idx:])
		if err != nil {
			return nil, 0, err
		}
		idx += incr
		if err := guardUnexpectedInputEnd(tokens, idx); err != nil {
			return nil, 0, err
		}
		if tokens[idx].kind != RightParen {
			return nil, 0, unexpectedTokenErr(tokens[idx])
		}
		idx++
		atom = inner
	case LeftBrace:
		vals, incr, err := parseDelimited(tokens[idx:], RightBrace)
		if err != nil {
			return nil, 0, err
		}
		idx += incr
		atom = ListLiteralNode{vals, tok.position}
	case FunctionCall:
		args, incr, err := parseDelimited(tokens[idx:], RightParen)
		if err != nil {
			return nil, 0, err
		}
		idx += incr
		atom = FunctionCallNode{tok.str, args, tok.position}
	default:
		return nil, 0, unexpectedTokenErr(tok)
	}

	for idx < len(tokens) && isPostfixOp(tokens[idx]) {
		atom = UnaryExprNode{
			operator: tokens[idx].kind,
			operand:  atom,
			position: tokens[idx].position,
		}
		idx++
	}

	return atom, idx, nil
}

// parseDelimited parses comma separated expressions up to and including
// the closing token.
func parseDelimited(tokens []Tok, closer Kind) ([]Node, int, error) {
	nodes := make([]Node, 0)
	idx := 0

	if err := guardUnexpectedInputEnd(tokens, idx); err != nil {
		return nil, 0, err
	}
	if tokens[idx].kind == closer {
		return nodes, idx + 1, nil
	}

	for {
		node, incr, err := parseExpression(tokens[idx:])
		if err != nil {
			return nil, 0, err
		}
		nodes = append(nodes, node)
		idx += incr

		if err := guardUnexpectedInputEnd(tokens, idx); err != nil {
			return nil, 0, err
		}
		switch tokens[idx].kind {
		case closer:
			return nodes, idx + 1, nil
		case Comma:
			idx++
			if err := guardUnexpectedInputEnd(tokens, idx); err != nil {
				return nil, 0, err
			}
		default:
			return nil, 0, unexpectedTokenErr(tokens[idx])
		}
	}
}
