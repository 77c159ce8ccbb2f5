package tibasic

import (
	"errors"
	"fmt"
	"io"
)

// MaxCallDepth bounds how deeply programs may call each other.
const MaxCallDepth = 255

// Signal reports how a program finished when it did not fail. Stop and
// Return are cooperative signals, never errors.
type Signal int

const (
	// SignalNone means the program ran off its last statement.
	SignalNone Signal = iota
	// SignalStop ends the running program and every program that called it.
	SignalStop
	// SignalReturn ends the running program only.
	SignalReturn
)

func (s Signal) String() string {
	switch s {
	case SignalStop:
		return "stop"
	case SignalReturn:
		return "return"
	default:
		return "none"
	}
}

// ProgramStore resolves the programs a running program may call.
type ProgramStore interface {
	Program(name string) (*Program, bool)
}

type frameKind int

const (
	ifFrame frameKind = iota
	whileFrame
	repeatFrame
)

func (k frameKind) String() string {
	switch k {
	case whileFrame:
		return "While"
	case repeatFrame:
		return "Repeat"
	default:
		return "If"
	}
}

// frame is one open If/Then, While or Repeat block. header indexes the
// statement that opened it.
type frame struct {
	kind   frameKind
	header int
	inElse bool
}

// Interpreter walks the statements of a program within the Environment it
// is bound to.
type Interpreter struct {
	env      *Environment
	programs ProgramStore
	depth    int
}

// NewInterpreter creates an interpreter that resolves program calls in
// programs, which may be nil when no program calls are expected.
func NewInterpreter(programs ProgramStore) *Interpreter {
	return &Interpreter{programs: programs}
}

func (interp *Interpreter) setEnvironment(env *Environment) {
	interp.env = env
}

func controlFlowErr(stmt Statement, format string, args ...interface{}) error {
	return Err{
		ErrControlFlow,
		fmt.Sprintf("%s [%s]", fmt.Sprintf(format, args...), poss(stmt)),
	}
}

func isThen(stmts []Statement, idx int) bool {
	if idx >= len(stmts) {
		return false
	}
	_, ok := stmts[idx].(ThenNode)
	return ok
}

// skipBlock finds the End closing the block whose body starts at from, or
// with allowElse an Else at the same depth. It returns len(stmts) when the
// block is never closed.
func skipBlock(stmts []Statement, from int, allowElse bool) (int, error) {
	depth := 0
	for i := from; i < len(stmts); i++ {
		switch stmt := stmts[i].(type) {
		case IfNode:
			if isThen(stmts, i+1) {
				depth++
				i++
			}
		case WhileNode, RepeatNode:
			depth++
		case ElseNode:
			if depth == 0 {
				if allowElse {
					return i, nil
				}
				return 0, controlFlowErr(stmt, "Else without matching If-Then")
			}
		case EndNode:
			if depth == 0 {
				return i, nil
			}
			depth--
		}
	}
	return len(stmts), nil
}

func (interp *Interpreter) condition(n Node) (bool, error) {
	v, err := n.Eval(interp)
	if err != nil {
		return false, err
	}
	return Truthy(v)
}

// Execute runs program to completion. Open blocks left at the end of the
// program are discarded silently.
func (interp *Interpreter) Execute(program *Program) (Signal, error) {
	if interp.env == nil {
		return SignalNone, Err{ErrAssert, "interpreter is not bound to an environment"}
	}
	if interp.depth >= MaxCallDepth {
		return SignalNone, Err{
			ErrSystem,
			fmt.Sprintf("memory: program calls nested deeper than %d", MaxCallDepth),
		}
	}
	interp.depth++
	defer func() { interp.depth-- }()

	logger.Debug().Str("program", program.Name).Int("depth", interp.depth).Msg("executing program")

	stmts := program.Statements
	frames := make([]frame, 0)
	pc := 0

	for pc < len(stmts) {
		stmt := stmts[pc]
		logger.Trace().Str("program", program.Name).Int("pc", pc).Int("frames", len(frames)).
			Msg(stmt.String())

		switch s := stmt.(type) {
		case IfNode:
			ok, err := interp.condition(s.condition)
			if err != nil {
				return SignalNone, err
			}

			if !isThen(stmts, pc+1) {
				// single statement form
				if ok {
					pc++
				} else {
					pc += 2
				}
				continue
			}

			if ok {
				frames = append(frames, frame{kind: ifFrame, header: pc})
				pc += 2
				continue
			}
			target, err := skipBlock(stmts, pc+2, true)
			if err != nil {
				return SignalNone, err
			}
			if target < len(stmts) {
				if _, isElse := stmts[target].(ElseNode); isElse {
					frames = append(frames, frame{kind: ifFrame, header: pc, inElse: true})
				}
			}
			pc = target + 1

		case ThenNode:
			return SignalNone, controlFlowErr(s, "Then without If")

		case ElseNode:
			if len(frames) == 0 {
				return SignalNone, controlFlowErr(s, "Else without matching If-Then")
			}
			top := frames[len(frames)-1]
			if top.kind != ifFrame || top.inElse {
				return SignalNone, controlFlowErr(s, "Else without matching If-Then")
			}
			// the Then branch ran; skip the Else branch
			target, err := skipBlock(stmts, pc+1, false)
			if err != nil {
				return SignalNone, err
			}
			frames = frames[:len(frames)-1]
			pc = target + 1

		case WhileNode:
			if isThen(stmts, pc+1) {
				return SignalNone, controlFlowErr(s, "While cannot be followed by Then")
			}
			ok, err := interp.condition(s.condition)
			if err != nil {
				return SignalNone, err
			}
			if ok {
				frames = append(frames, frame{kind: whileFrame, header: pc})
				pc++
				continue
			}
			target, err := skipBlock(stmts, pc+1, false)
			if err != nil {
				return SignalNone, err
			}
			pc = target + 1

		case RepeatNode:
			if isThen(stmts, pc+1) {
				return SignalNone, controlFlowErr(s, "Repeat cannot be followed by Then")
			}
			frames = append(frames, frame{kind: repeatFrame, header: pc})
			pc++

		case EndNode:
			if len(frames) == 0 {
				return SignalNone, controlFlowErr(s, "End without open block")
			}
			top := frames[len(frames)-1]
			frames = frames[:len(frames)-1]

			switch top.kind {
			case whileFrame:
				// re-test at the header
				pc = top.header
			case repeatFrame:
				done, err := interp.condition(stmts[top.header].(RepeatNode).condition)
				if err != nil {
					return SignalNone, err
				}
				if done {
					pc++
				} else {
					frames = append(frames, top)
					pc = top.header + 1
				}
			default:
				pc++
			}

		case StopNode:
			logger.Debug().Str("program", program.Name).Int("frames", len(frames)).Msg("stop")
			return SignalStop, nil

		case ReturnNode:
			return SignalReturn, nil

		case ProgramCallNode:
			sig, err := interp.call(s)
			if err != nil {
				return SignalNone, err
			}
			if sig == SignalStop {
				return SignalStop, nil
			}
			pc++

		case DispNode:
			args, err := evalAll(interp, s.arguments)
			if err != nil {
				return SignalNone, err
			}
			if _, err := interp.env.RunRegisteredCommand(DisplayCommandName, args...); err != nil {
				return SignalNone, err
			}
			pc++

		case PromptNode:
			for _, target := range s.targets {
				if err := interp.readInto(target, targetName(target)+"=?"); err != nil {
					return SignalNone, err
				}
			}
			pc++

		case InputNode:
			if err := interp.readInto(s.target, s.text); err != nil {
				return SignalNone, err
			}
			pc++

		case ExpressionStatementNode:
			v, err := s.expr.Eval(interp)
			if err != nil {
				return SignalNone, err
			}
			if s.target != nil {
				if err := interp.store(s.target, v); err != nil {
					return SignalNone, err
				}
			}
			interp.env.writableMemory().SetLastResult(v)
			pc++

		default:
			return SignalNone, Err{ErrAssert, fmt.Sprintf("unknown statement %s [%s]", stmt, poss(stmt))}
		}
	}

	if len(frames) > 0 {
		logger.Trace().Str("program", program.Name).Int("frames", len(frames)).Msg("program ended with open blocks")
	}
	return SignalNone, nil
}

func (interp *Interpreter) call(n ProgramCallNode) (Signal, error) {
	if interp.programs == nil {
		return SignalNone, Err{ErrUndefined, fmt.Sprintf("program %s is not defined [%s]", n.name, poss(n))}
	}
	program, ok := interp.programs.Program(n.name)
	if !ok {
		return SignalNone, Err{ErrUndefined, fmt.Sprintf("program %s is not defined [%s]", n.name, poss(n))}
	}
	return interp.Execute(program)
}

func targetName(target Node) string {
	switch t := target.(type) {
	case VariableNode:
		return t.variable.String()
	case ListVariableNode:
		return string(ListMarker) + t.name
	}
	return target.String()
}

// store writes v into a variable. Memory enforces the value types.
func (interp *Interpreter) store(target Node, v Value) error {
	mem := interp.env.writableMemory()
	switch t := target.(type) {
	case VariableNode:
		return mem.SetNumberVariable(t.variable, v)
	case ListVariableNode:
		return mem.SetListVariable(t.name, v)
	}
	return Err{ErrAssert, fmt.Sprintf("cannot store into %s", target)}
}

// readInto prints prompt, reads an expression from the I/O channel,
// evaluates it and stores it in target.
func (interp *Interpreter) readInto(target Node, prompt string) error {
	calcIO := interp.env.IO()
	if err := calcIO.PrintLine(prompt); err != nil {
		return Err{ErrSystem, fmt.Sprintf("could not print prompt: %s", err)}
	}

	line, err := calcIO.ReadInput()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Err{ErrSystem, "input closed while waiting for a value"}
		}
		return Err{ErrSystem, fmt.Sprintf("could not read input: %s", err)}
	}

	v, err := interp.EvalText(line)
	if err != nil {
		return err
	}
	return interp.store(target, v)
}

// EvalText preprocesses, parses and evaluates a single expression.
func (interp *Interpreter) EvalText(text string) (Value, error) {
	normalized, err := Preprocess(text)
	if err != nil {
		return nil, err
	}
	tokens, err := Tokenize(normalized, false)
	if err != nil {
		return nil, err
	}
	node, err := ParseExpression(tokens)
	if err != nil {
		return nil, err
	}
	return node.Eval(interp)
}
