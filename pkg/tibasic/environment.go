package tibasic

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// Environment is where programs and commands get executed. It owns one
// Memory, one I/O channel and the registry of commands callable by name.
//
// Only a single program may run within an Environment at any moment;
// nothing in it is safe for concurrent use.
type Environment struct {
	id       uuid.UUID
	memory   Memory
	io       CalculatorIO
	commands map[string]Command
}

// NewEnvironment creates an environment without any registered commands.
func NewEnvironment(memory Memory, io CalculatorIO) *Environment {
	return &Environment{
		id:       uuid.New(),
		memory:   memory,
		io:       io,
		commands: make(map[string]Command),
	}
}

// ID uniquely identifies the environment; commands are tagged with the ID
// of the environment that owns them.
func (env *Environment) ID() uuid.UUID {
	return env.id
}

// IO returns the I/O channel of the environment.
func (env *Environment) IO() CalculatorIO {
	return env.io
}

// Memory returns read access to the environment's memory. The result cannot
// be type asserted back to a writable Memory.
func (env *Environment) Memory() ReadOnlyMemory {
	return readOnlyView{env.memory}
}

type readOnlyView struct {
	m Memory
}

func (v readOnlyView) NumberVariable(nv NumberVariable) NumberValue { return v.m.NumberVariable(nv) }
func (v readOnlyView) ListVariable(name string) (ListValue, error)  { return v.m.ListVariable(name) }
func (v readOnlyView) ListNames() []string                          { return v.m.ListNames() }
func (v readOnlyView) LastResult() Value                            { return v.m.LastResult() }

// writableMemory is reserved to the interpreter, so that stores always pass
// through its type checks.
func (env *Environment) writableMemory() Memory {
	return env.memory
}

// RegisterCommand makes cmd callable under name by every program running in
// this environment. A name may be registered once, and a command instance
// may only ever belong to one environment.
func (env *Environment) RegisterCommand(name string, cmd Command) error {
	if _, ok := env.commands[name]; ok {
		return Err{ErrDuplicateCommand, fmt.Sprintf("command already exists: %s", name)}
	}
	if owner := cmd.Environment(); owner != nil {
		return Err{
			ErrDuplicateCommand,
			fmt.Sprintf("command instance for %s is already registered in environment %s", name, owner.ID()),
		}
	}

	cmd.setEnvironment(env)
	env.commands[name] = cmd
	logger.Trace().Str("env", env.id.String()).Str("command", name).Msg("registered command")
	return nil
}

// HasCommand reports whether name is registered.
func (env *Environment) HasCommand(name string) bool {
	_, ok := env.commands[name]
	return ok
}

// CommandNames lists all registered command names, sorted.
func (env *Environment) CommandNames() []string {
	names := make([]string, 0, len(env.commands))
	for name := range env.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RunRegisteredCommand validates the arguments of a registered command and
// executes it. Errors from validation and execution are returned unchanged.
// The returned Value is nil for commands that produce no result.
func (env *Environment) RunRegisteredCommand(name string, args ...Value) (Value, error) {
	cmd, ok := env.commands[name]
	if !ok {
		return nil, Err{ErrCommandNotFound, fmt.Sprintf("command not found: %s", name)}
	}

	if err := CheckArguments(name, cmd, args); err != nil {
		logger.Trace().Str("command", name).Str("args", describeArgs(args)).Err(err).Msg("rejected arguments")
		return nil, err
	}
	return cmd.Execute(args)
}

// Run binds interp to this environment and executes program.
func (env *Environment) Run(program *Program, interp *Interpreter) (Signal, error) {
	interp.setEnvironment(env)
	return interp.Execute(program)
}
