package tibasic

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// MaxProgramNameLength is the longest program name.
const MaxProgramNameLength = 8

// DebugConfig defines any debugging flags referenced at runtime
type DebugConfig struct {
	Lex        bool
	Preprocess bool
	Parse      bool
	Dump       bool
}

// Calculator is a complete interpreter session: one Environment with all
// builtins loaded, the programs stored in it and the interpreter that runs
// them.
//
// A single program runs within a Calculator at any given moment.
type Calculator struct {
	Debug DebugConfig

	env      *Environment
	interp   *Interpreter
	programs map[string]*Program
}

// NewCalculator creates a calculator over memory and io with every builtin
// command registered.
func NewCalculator(memory Memory, io CalculatorIO) (*Calculator, error) {
	calc := &Calculator{
		env:      NewEnvironment(memory, io),
		programs: make(map[string]*Program),
	}
	calc.interp = NewInterpreter(calc)

	if err := LoadBuiltins(calc.env); err != nil {
		return nil, err
	}
	return calc, nil
}

// Environment returns the environment programs run in.
func (calc *Calculator) Environment() *Environment {
	return calc.env
}

// Memory returns read access to the calculator's variables.
func (calc *Calculator) Memory() ReadOnlyMemory {
	return calc.env.Memory()
}

// ValidateProgramName checks a program name: 1 to 8 characters, a letter
// or θ first, then letters, digits or θ.
func ValidateProgramName(name string) error {
	count := utf8.RuneCountInString(name)
	if count == 0 || count > MaxProgramNameLength {
		return Err{ErrArgument, fmt.Sprintf("invalid program name %q: must be 1 to %d characters", name, MaxProgramNameLength)}
	}
	first, _ := utf8.DecodeRuneInString(name)
	if !isListNameStart(first) {
		return Err{ErrArgument, fmt.Sprintf("invalid program name %q: must start with a letter or θ", name)}
	}
	for _, r := range name {
		if !isListNameChar(r) {
			return Err{ErrArgument, fmt.Sprintf("invalid program name %q: illegal character %q", name, r)}
		}
	}
	return nil
}

// LoadProgram preprocesses and parses text and stores it under name,
// replacing any program of the same name.
func (calc *Calculator) LoadProgram(name, text string) error {
	if err := ValidateProgramName(name); err != nil {
		return err
	}
	program, err := ParseProgram(name, text, calc.Debug)
	if err != nil {
		return err
	}

	calc.programs[name] = program
	logger.Debug().Str("program", name).Int("statements", len(program.Statements)).Msg("loaded program")
	return nil
}

// Program implements ProgramStore.
func (calc *Calculator) Program(name string) (*Program, bool) {
	program, ok := calc.programs[name]
	return program, ok
}

// ProgramNames lists the loaded programs, sorted.
func (calc *Calculator) ProgramNames() []string {
	names := make([]string, 0, len(calc.programs))
	for name := range calc.programs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ExecuteProgram runs a loaded program and returns the value of Ans
// afterwards.
func (calc *Calculator) ExecuteProgram(name string) (Value, error) {
	program, ok := calc.programs[name]
	if !ok {
		return nil, Err{ErrUndefined, fmt.Sprintf("program %s is not defined", name)}
	}
	return calc.run(program)
}

// Interpret runs one line of program text and returns the value of Ans
// afterwards.
func (calc *Calculator) Interpret(line string) (Value, error) {
	program, err := ParseProgram("", line, calc.Debug)
	if err != nil {
		return nil, err
	}
	return calc.run(program)
}

func (calc *Calculator) run(program *Program) (Value, error) {
	sig, err := calc.env.Run(program, calc.interp)
	if calc.Debug.Dump {
		calc.Dump()
	}
	if err != nil {
		return nil, err
	}

	logger.Trace().Str("program", program.Name).Str("signal", sig.String()).Msg("program finished")
	return calc.env.Memory().LastResult(), nil
}

// Dump logs every variable holding a value other than its default.
func (calc *Calculator) Dump() {
	mem := calc.env.Memory()
	entries := make([]string, 0)
	for _, v := range NumberVariables() {
		if n := mem.NumberVariable(v); n != 0 {
			entries = append(entries, fmt.Sprintf("%s=%s", v, n))
		}
	}
	for _, name := range mem.ListNames() {
		list, err := mem.ListVariable(name)
		if err != nil {
			continue
		}
		entries = append(entries, fmt.Sprintf("%c%s=%s", ListMarker, name, list))
	}
	entries = append(entries, fmt.Sprintf("Ans=%s", nilSafe(mem.LastResult())))

	logger.Info().Str("memory", strings.Join(entries, " ")).Msg("memory dump")
}
