package tibasic

import (
	"fmt"
	"math"
	"math/cmplx"
)

// DisplayCommandName is the registered name of the Disp command.
const DisplayCommandName = "Disp"

// MaxFactorialArgument is the largest n for which n! is defined.
const MaxFactorialArgument = 69

// LoadBuiltins registers all built-in operators and functions in env.
func LoadBuiltins(env *Environment) error {
	loader := builtinLoader{env: env}

	// operators
	loader.binary("+", Add)
	loader.binary("-", Subtract)
	loader.binary("*", Multiply)
	loader.binary("/", Divide)
	loader.binary("^", Power)
	loader.binary("=", Equal)
	loader.binary("≠", NotEqual)
	loader.binary("<", Less)
	loader.binary(">", Greater)
	loader.binary("≤", LessEqual)
	loader.binary("≥", GreaterEqual)
	loader.binary("and", And)
	loader.binary("or", Or)
	loader.binary("xor", Xor)

	loader.unary("‾", tiNegate)
	loader.unary("²", tiSquare)
	loader.unary("⁻¹", tiInverse)
	loader.unary("!", tiFactorial)

	// math
	loader.unary("√", tiSqrt)
	loader.unary("abs", tiAbs)
	loader.unary("sin", realOrComplex(math.Sin, cmplx.Sin))
	loader.unary("cos", realOrComplex(math.Cos, cmplx.Cos))
	loader.unary("tan", tiTan)
	loader.unary("sin⁻¹", tiArcSine(math.Asin, cmplx.Asin))
	loader.unary("cos⁻¹", tiArcSine(math.Acos, cmplx.Acos))
	loader.unary("tan⁻¹", realOrComplex(math.Atan, cmplx.Atan))
	loader.unary("ln", tiLog(math.Log, cmplx.Log))
	loader.unary("log", tiLog(math.Log10, cmplx.Log10))
	loader.unary("e^", realOrComplex(math.Exp, cmplx.Exp))
	loader.unary("int", partwise(math.Floor))
	loader.unary("iPart", partwise(math.Trunc))
	loader.unary("fPart", partwise(func(x float64) float64 { return x - math.Trunc(x) }))
	loader.unary("real", tiReal)
	loader.unary("imag", tiImag)
	loader.unary("conj", tiConj)
	loader.unary("angle", tiAngle)
	loader.unary("not", tiNot)

	// lists
	loader.function("dim", 1, 1, [][]Type{{ListType}}, tiDim)
	loader.function("sum", 1, 1, [][]Type{{ListType}}, tiSum)
	loader.function("prod", 1, 1, [][]Type{{ListType}}, tiProd)
	loader.function("min", 1, 2, [][]Type{{NumberType, ListType}}, tiExtremum("min", func(x, y float64) bool { return x < y }))
	loader.function("max", 1, 2, [][]Type{{NumberType, ListType}}, tiExtremum("max", func(x, y float64) bool { return x > y }))
	loader.function("round", 1, 2, [][]Type{{NumberType, ListType}, {NumberType}}, tiRound)

	// I/O
	loader.load(DisplayCommandName, &DisplayCommand{})

	return loader.err
}

// builtinLoader keeps the first registration error so the table above
// reads as a flat list.
type builtinLoader struct {
	env *Environment
	err error
}

func (l *builtinLoader) load(name string, cmd Command) {
	if l.err != nil {
		return
	}
	if err := l.env.RegisterCommand(name, cmd); err != nil {
		l.err = fmt.Errorf("loading builtin %s: %w", name, err)
	}
}

func (l *builtinLoader) binary(symbol string, fn BinaryFunc) {
	l.load(symbol, NewBinaryCommand(symbol, fn))
}

func (l *builtinLoader) unary(symbol string, fn UnaryFunc) {
	l.load(symbol, NewUnaryCommand(symbol, fn))
}

func (l *builtinLoader) function(name string, minArgs, maxArgs int, accepts [][]Type, fn func([]Value) (Value, error)) {
	l.load(name, NewFunctionCommand(minArgs, maxArgs, accepts, fn))
}

func isReal(c complex128) bool {
	return imag(c) == 0
}

func domainErr(format string, args ...interface{}) error {
	return Err{ErrDomain, fmt.Sprintf(format, args...)}
}

// realOrComplex keeps real arguments on the float64 path so results like
// sin(0) stay exactly real.
func realOrComplex(r func(float64) float64, c func(complex128) complex128) UnaryFunc {
	return func(x complex128) (complex128, error) {
		if isReal(x) {
			return complex(r(real(x)), 0), nil
		}
		return c(x), nil
	}
}

func partwise(fn func(float64) float64) UnaryFunc {
	return func(x complex128) (complex128, error) {
		return complex(fn(real(x)), fn(imag(x))), nil
	}
}

// 0-x keeps a zero imaginary part positive, so cmplx branch cuts see
// ‾4 as -4+0i.
func tiNegate(x complex128) (complex128, error) {
	return 0 - x, nil
}

func tiSquare(x complex128) (complex128, error) {
	return x * x, nil
}

func tiInverse(x complex128) (complex128, error) {
	if x == 0 {
		return 0, divisionByZero()
	}
	return 1 / x, nil
}

func tiFactorial(x complex128) (complex128, error) {
	n := real(x)
	if !isReal(x) || n < 0 || n != math.Trunc(n) || n > MaxFactorialArgument {
		return 0, domainErr("factorial is defined for integers 0 to %d, got %s", MaxFactorialArgument, NumberValue(x))
	}
	result := 1.0
	for i := 2.0; i <= n; i++ {
		result *= i
	}
	return complex(result, 0), nil
}

func tiSqrt(x complex128) (complex128, error) {
	if isReal(x) {
		if r := real(x); r < 0 {
			return complex(0, math.Sqrt(-r)), nil
		}
		return complex(math.Sqrt(real(x)), 0), nil
	}
	return cmplx.Sqrt(x), nil
}

func tiAbs(x complex128) (complex128, error) {
	return complex(cmplx.Abs(x), 0), nil
}

func tiTan(x complex128) (complex128, error) {
	if isReal(x) {
		if math.Cos(real(x)) == 0 {
			return 0, domainErr("tan is undefined at %s", NumberValue(x))
		}
		return complex(math.Tan(real(x)), 0), nil
	}
	return cmplx.Tan(x), nil
}

// arcsine and arccosine leave the real line outside [-1, 1]
func tiArcSine(r func(float64) float64, c func(complex128) complex128) UnaryFunc {
	return func(x complex128) (complex128, error) {
		if isReal(x) && math.Abs(real(x)) <= 1 {
			return complex(r(real(x)), 0), nil
		}
		return c(x), nil
	}
}

func tiLog(r func(float64) float64, c func(complex128) complex128) UnaryFunc {
	return func(x complex128) (complex128, error) {
		if x == 0 {
			return 0, domainErr("logarithm of zero")
		}
		if isReal(x) {
			if real(x) > 0 {
				return complex(r(real(x)), 0), nil
			}
			return c(complex(real(x), 0)), nil
		}
		return c(x), nil
	}
}

func tiReal(x complex128) (complex128, error) {
	return complex(real(x), 0), nil
}

func tiImag(x complex128) (complex128, error) {
	return complex(imag(x), 0), nil
}

func tiConj(x complex128) (complex128, error) {
	return cmplx.Conj(x), nil
}

func tiAngle(x complex128) (complex128, error) {
	return complex(cmplx.Phase(x), 0), nil
}

func tiNot(x complex128) (complex128, error) {
	return boolToComplex(x == 0), nil
}

func tiDim(args []Value) (Value, error) {
	return NumberValue(complex(float64(len(args[0].(ListValue))), 0)), nil
}

func tiSum(args []Value) (Value, error) {
	var total complex128
	for _, c := range args[0].(ListValue) {
		total += c
	}
	return NumberValue(total), nil
}

func tiProd(args []Value) (Value, error) {
	var total complex128 = 1
	for _, c := range args[0].(ListValue) {
		total *= c
	}
	return NumberValue(total), nil
}

// tiExtremum picks the element of one list, or pairs up two arguments
// elementwise, keeping the value for which better holds.
func tiExtremum(name string, better func(x, y float64) bool) func([]Value) (Value, error) {
	pick := func(a, b complex128) (complex128, error) {
		if !isReal(a) || !isReal(b) {
			return 0, domainErr("%s needs real numbers", name)
		}
		if better(real(b), real(a)) {
			return b, nil
		}
		return a, nil
	}

	return func(args []Value) (Value, error) {
		if len(args) == 2 {
			return broadcast(args[0], args[1], pick)
		}

		list, ok := args[0].(ListValue)
		if !ok {
			return nil, typeMismatchErr(NoSide, ListType, args[0])
		}
		if len(list) == 0 {
			return nil, Err{ErrArgument, fmt.Sprintf("invalid dimension: %s of an empty list", name)}
		}
		result := list[0]
		for _, c := range list[1:] {
			var err error
			if result, err = pick(result, c); err != nil {
				return nil, err
			}
		}
		return NumberValue(result), nil
	}
}

func tiRound(args []Value) (Value, error) {
	digits := 9.0
	if len(args) == 2 {
		d := complex128(args[1].(NumberValue))
		digits = real(d)
		if !isReal(d) || digits != math.Trunc(digits) || digits < 0 || digits > 9 {
			return nil, domainErr("round needs 0 to 9 decimal places, got %s", args[1])
		}
	}

	scale := math.Pow(10, digits)
	roundPart := func(x float64) float64 {
		return math.Round(x*scale) / scale
	}
	return mapNumbers(args[0], partwise(roundPart))
}
