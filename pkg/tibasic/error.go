package tibasic

import (
	"errors"
	"fmt"
)

// Error reasons are enumerated here to be used in the Err struct,
// the error type shared across all interpreter APIs. Reasons double
// as process exit codes for fatal errors.
const (
	ErrUnknown          = 0
	ErrSyntax           = 1
	ErrPreprocess       = 2
	ErrArgument         = 3
	ErrType             = 4
	ErrDomain           = 5
	ErrControlFlow      = 6
	ErrCommandNotFound  = 7
	ErrDuplicateCommand = 8
	ErrUndefined        = 9
	ErrSystem           = 40
	ErrAssert           = 100
)

func reasonString(reason int) string {
	switch reason {
	case ErrSyntax:
		return "syntax error"
	case ErrPreprocess:
		return "preprocessing error"
	case ErrArgument:
		return "argument error"
	case ErrType:
		return "type error"
	case ErrDomain:
		return "domain error"
	case ErrControlFlow:
		return "illegal control flow"
	case ErrCommandNotFound:
		return "command not found"
	case ErrDuplicateCommand:
		return "duplicate command"
	case ErrUndefined:
		return "undefined"
	case ErrSystem:
		return "system error"
	case ErrAssert:
		return "invariant violation"
	default:
		return "error"
	}
}

// Err is returned by every interpreter operation that fails for a reason
// the language itself defines.
type Err struct {
	reason  int
	message string
}

func (e Err) Error() string {
	return e.message
}

// Reason returns one of the Err* reason constants.
func (e Err) Reason() int {
	return e.reason
}

// Side names the operand of a command that failed its type contract.
type Side int

const (
	NoSide Side = iota
	LeftSide
	RightSide
)

func (s Side) String() string {
	switch s {
	case LeftSide:
		return "left"
	case RightSide:
		return "right"
	default:
		return "none"
	}
}

// ArgumentErr is an Err raised when a command receives the wrong number
// or the wrong kind of arguments.
type ArgumentErr struct {
	Err
	Side      Side
	Expected  Type
	Actual    Type
	Arguments []Value
}

func arityErr(name string, args []Value) *ArgumentErr {
	return &ArgumentErr{
		Err: Err{
			ErrArgument,
			fmt.Sprintf("invalid number of arguments for %s: %d", name, len(args)),
		},
		Expected:  NoType,
		Actual:    NoType,
		Arguments: args,
	}
}

func typeMismatchErr(side Side, expected Type, actual Value) *ArgumentErr {
	prefix := "Argument"
	switch side {
	case LeftSide:
		prefix = "Left hand side of expression"
	case RightSide:
		prefix = "Right hand side of expression"
	}
	return &ArgumentErr{
		Err: Err{
			ErrArgument,
			fmt.Sprintf("%s is not a %s: %s", prefix, expected, actual),
		},
		Side:      side,
		Expected:  expected,
		Actual:    actual.Type(),
		Arguments: []Value{actual},
	}
}

func dimensionMismatchErr(left, right ListValue) *ArgumentErr {
	return &ArgumentErr{
		Err: Err{
			ErrArgument,
			fmt.Sprintf("dimension mismatch: %d and %d elements", len(left), len(right)),
		},
		Expected:  ListType,
		Actual:    ListType,
		Arguments: []Value{left, right},
	}
}

// Reason classifies any error. Errors that did not originate from the
// interpreter report ErrUnknown.
func Reason(err error) int {
	var r interface{ Reason() int }
	if errors.As(err, &r) {
		return r.Reason()
	}
	return ErrUnknown
}

// IsReason reports whether err carries the given reason.
func IsReason(err error, reason int) bool {
	return err != nil && Reason(err) == reason
}
