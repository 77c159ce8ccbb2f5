package tibasic

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Command is a unit of executable functionality. A command belongs to at
// most one Environment, set when it is registered there. Implementations
// outside this package embed BaseCommand.
type Command interface {
	// HasValidNumberOfArguments reports whether n arguments satisfy the
	// command's arity.
	HasValidNumberOfArguments(n int) bool
	// HasValidArgumentValues returns an error describing the first argument
	// that violates the command's type contract. It is only called with an
	// accepted number of arguments.
	HasValidArgumentValues(args []Value) error
	// Execute runs the command on already validated arguments. Commands that
	// only have a side effect return a nil Value.
	Execute(args []Value) (Value, error)

	Environment() *Environment
	setEnvironment(env *Environment)
}

// BaseCommand holds the owning environment of a command.
type BaseCommand struct {
	env *Environment
}

// Environment returns the environment the command is registered in, or nil.
func (c *BaseCommand) Environment() *Environment {
	return c.env
}

// Owner returns the ID of the owning environment, uuid.Nil while unregistered.
func (c *BaseCommand) Owner() uuid.UUID {
	if c.env == nil {
		return uuid.Nil
	}
	return c.env.ID()
}

func (c *BaseCommand) setEnvironment(env *Environment) {
	c.env = env
}

// CheckArguments validates args against the arity and then the type
// contract of cmd. Arity failures are reported before type failures.
func CheckArguments(name string, cmd Command, args []Value) error {
	if !cmd.HasValidNumberOfArguments(len(args)) {
		return arityErr(name, args)
	}
	return cmd.HasValidArgumentValues(args)
}

// BinaryFunc is the pure value transform behind a binary operator.
type BinaryFunc func(left, right Value) (Value, error)

// BinaryCommand is the generic implementation of operators with two
// operands like + , - , * and /.
type BinaryCommand struct {
	BaseCommand
	symbol string
	fn     BinaryFunc
}

// NewBinaryCommand creates an operator command; symbol tags it in logs.
func NewBinaryCommand(symbol string, fn BinaryFunc) *BinaryCommand {
	return &BinaryCommand{symbol: symbol, fn: fn}
}

func (c *BinaryCommand) HasValidNumberOfArguments(n int) bool {
	return n == 2
}

// HasValidArgumentValues checks that both sides are numeric and, for two
// lists, that their lengths match.
func (c *BinaryCommand) HasValidArgumentValues(args []Value) error {
	lhs, rhs := args[0], args[1]
	if lhs == nil || !IsNumeric(lhs) {
		return typeMismatchErr(LeftSide, NumberType, nilSafe(lhs))
	}
	if rhs == nil || !IsNumeric(rhs) {
		return typeMismatchErr(RightSide, NumberType, nilSafe(rhs))
	}
	if l, ok := lhs.(ListValue); ok {
		if r, ok := rhs.(ListValue); ok && len(l) != len(r) {
			return dimensionMismatchErr(l, r)
		}
	}
	return nil
}

func (c *BinaryCommand) Execute(args []Value) (Value, error) {
	lhs, rhs := args[0], args[1]
	result, err := c.fn(lhs, rhs)
	if err != nil {
		return nil, err
	}

	logger.Debug().Msgf("(%s) %s %s -> %s", c.symbol, lhs, rhs, result)
	return result, nil
}

// UnaryFunc is applied to a number, or to each element of a list.
type UnaryFunc func(c complex128) (complex128, error)

// UnaryCommand is the generic implementation of one-argument functions and
// prefix/postfix operators that work elementwise.
type UnaryCommand struct {
	BaseCommand
	symbol string
	fn     UnaryFunc
}

func NewUnaryCommand(symbol string, fn UnaryFunc) *UnaryCommand {
	return &UnaryCommand{symbol: symbol, fn: fn}
}

func (c *UnaryCommand) HasValidNumberOfArguments(n int) bool {
	return n == 1
}

func (c *UnaryCommand) HasValidArgumentValues(args []Value) error {
	if args[0] == nil || !IsNumeric(args[0]) {
		return typeMismatchErr(NoSide, NumberType, nilSafe(args[0]))
	}
	return nil
}

func (c *UnaryCommand) Execute(args []Value) (Value, error) {
	result, err := mapNumbers(args[0], c.fn)
	if err != nil {
		return nil, err
	}

	logger.Debug().Msgf("(%s) %s -> %s", c.symbol, args[0], result)
	return result, nil
}

// FunctionCommand carries its arity and per-argument types as data next to
// the function that executes it.
type FunctionCommand struct {
	BaseCommand
	minArgs, maxArgs int
	// accepted types per argument position; the last entry repeats
	accepts [][]Type
	fn      func(args []Value) (Value, error)
}

func NewFunctionCommand(minArgs, maxArgs int, accepts [][]Type, fn func(args []Value) (Value, error)) *FunctionCommand {
	return &FunctionCommand{
		minArgs: minArgs,
		maxArgs: maxArgs,
		accepts: accepts,
		fn:      fn,
	}
}

func (c *FunctionCommand) HasValidNumberOfArguments(n int) bool {
	return n >= c.minArgs && n <= c.maxArgs
}

func (c *FunctionCommand) HasValidArgumentValues(args []Value) error {
	for i, arg := range args {
		if len(c.accepts) == 0 {
			break
		}
		accepted := c.accepts[len(c.accepts)-1]
		if i < len(c.accepts) {
			accepted = c.accepts[i]
		}

		arg = nilSafe(arg)
		ok := false
		for _, t := range accepted {
			if arg.Type() == t {
				ok = true
				break
			}
		}
		if !ok {
			return typeMismatchErr(NoSide, accepted[0], arg)
		}
	}
	return nil
}

func (c *FunctionCommand) Execute(args []Value) (Value, error) {
	return c.fn(args)
}

// DisplayCommand prints each argument on its own line through the I/O
// channel of its environment. It produces no value.
type DisplayCommand struct {
	BaseCommand
}

func (c *DisplayCommand) HasValidNumberOfArguments(n int) bool {
	return n >= 0
}

func (c *DisplayCommand) HasValidArgumentValues(args []Value) error {
	for _, arg := range args {
		if arg == nil {
			return typeMismatchErr(NoSide, NumberType, nilSafe(arg))
		}
	}
	return nil
}

func (c *DisplayCommand) Execute(args []Value) (Value, error) {
	if c.env == nil {
		return nil, Err{ErrAssert, "Disp executed outside of an environment"}
	}
	for _, arg := range args {
		if err := c.env.IO().PrintLine(arg.String()); err != nil {
			return nil, Err{ErrSystem, fmt.Sprintf("could not display %s: %s", arg, err)}
		}
	}
	return nil, nil
}

// placeholder for a missing argument so type errors can still name it
type noValue struct{}

func (noValue) String() string    { return "nothing" }
func (noValue) Type() Type        { return NoType }
func (noValue) Equals(Value) bool { return false }

func nilSafe(v Value) Value {
	if v == nil {
		return noValue{}
	}
	return v
}

func describeArgs(args []Value) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = nilSafe(a).String()
	}
	return strings.Join(parts, ", ")
}
