package tibasic

import (
	"fmt"
	"math"
	"math/cmplx"
	"strconv"
	"strings"
)

// MaxListLength is the largest number of elements a list may hold.
const MaxListLength = 999

// Type identifies the variant of a Value.
type Type int

const (
	NoType Type = iota
	NumberType
	ListType
	StringType
)

func (t Type) String() string {
	switch t {
	case NumberType:
		return "Number"
	case ListType:
		return "List"
	case StringType:
		return "String"
	default:
		return "None"
	}
}

// Value represents any value a program can produce: a (complex) number,
// a list of numbers or a string.
type Value interface {
	String() string
	Type() Type
	// Equals reports whether the given value holds the same data as the
	// receiving value. It does not compare references.
	Equals(Value) bool
}

// IsNumeric reports whether v can take part in arithmetic.
func IsNumeric(v Value) bool {
	switch v.(type) {
	case NumberValue, ListValue:
		return true
	default:
		return false
	}
}

// formats a real number the way the home screen shows it: ten significant
// digits, exponent marker ᴇ for very large or small magnitudes
func formatReal(f float64) string {
	if f == 0 {
		return "0"
	}
	s := strconv.FormatFloat(f, 'g', 10, 64)
	if strings.ContainsRune(s, 'e') {
		s = strings.Replace(s, "e+", "ᴇ", 1)
		s = strings.Replace(s, "e-", "ᴇ-", 1)
		if idx := strings.Index(s, "ᴇ"); idx >= 0 {
			mantissa, exp := s[:idx], s[idx+len("ᴇ"):]
			exp = strings.TrimLeft(exp, "0")
			if strings.HasPrefix(exp, "-") {
				exp = "-" + strings.TrimLeft(exp[1:], "0")
			}
			s = mantissa + "ᴇ" + exp
		}
	}
	return s
}

func formatComplex(c complex128) string {
	re, im := real(c), imag(c)
	if im == 0 {
		return formatReal(re)
	}

	imStr := formatReal(math.Abs(im))
	if imStr == "1" {
		imStr = ""
	}
	imStr += "i"

	if re == 0 {
		if im < 0 {
			return "-" + imStr
		}
		return imStr
	}
	if im < 0 {
		return formatReal(re) + "-" + imStr
	}
	return formatReal(re) + "+" + imStr
}

// NumberValue is a complex number. Real numbers have a zero imaginary part.
type NumberValue complex128

func (v NumberValue) String() string {
	return formatComplex(complex128(v))
}

func (v NumberValue) Type() Type {
	return NumberType
}

func (v NumberValue) Equals(other Value) bool {
	if ov, ok := other.(NumberValue); ok {
		return v == ov
	}
	return false
}

// ListValue is an ordered, fixed-length sequence of complex numbers.
type ListValue []complex128

func (v ListValue) String() string {
	entries := make([]string, len(v))
	for i, c := range v {
		entries[i] = formatComplex(c)
	}
	return "{" + strings.Join(entries, " ") + "}"
}

func (v ListValue) Type() Type {
	return ListType
}

func (v ListValue) Equals(other Value) bool {
	ov, ok := other.(ListValue)
	if !ok || len(v) != len(ov) {
		return false
	}
	for i := range v {
		if v[i] != ov[i] {
			return false
		}
	}
	return true
}

// StringValue is a sequence of characters. Strings never take part
// in arithmetic.
type StringValue string

func (v StringValue) String() string {
	return string(v)
}

func (v StringValue) Type() Type {
	return StringType
}

func (v StringValue) Equals(other Value) bool {
	if ov, ok := other.(StringValue); ok {
		return v == ov
	}
	return false
}

func checkListLength(n int) error {
	if n > MaxListLength {
		return Err{
			ErrArgument,
			fmt.Sprintf("invalid dimension: lists hold at most %d elements, got %d", MaxListLength, n),
		}
	}
	return nil
}

// Truthy coerces a value used as a condition: a number is true when either
// of its parts is nonzero. Lists and strings are not valid conditions.
func Truthy(v Value) (bool, error) {
	if n, ok := v.(NumberValue); ok {
		return n != 0, nil
	}
	return false, Err{
		ErrType,
		fmt.Sprintf("%s %s is not a valid condition", v.Type(), v),
	}
}

func boolToComplex(b bool) complex128 {
	if b {
		return 1
	}
	return 0
}

type numberFunc func(a, b complex128) (complex128, error)

// broadcast applies fn to a pair of numbers, elementwise to a pair of
// equally long lists, or to every element of a list paired with a number.
func broadcast(left, right Value, fn numberFunc) (Value, error) {
	switch l := left.(type) {
	case NumberValue:
		switch r := right.(type) {
		case NumberValue:
			v, err := fn(complex128(l), complex128(r))
			if err != nil {
				return nil, err
			}
			return NumberValue(v), nil
		case ListValue:
			out := make(ListValue, len(r))
			for i, rc := range r {
				v, err := fn(complex128(l), rc)
				if err != nil {
					return nil, err
				}
				out[i] = v
			}
			return out, nil
		}
		return nil, typeMismatchErr(RightSide, NumberType, right)
	case ListValue:
		switch r := right.(type) {
		case NumberValue:
			out := make(ListValue, len(l))
			for i, lc := range l {
				v, err := fn(lc, complex128(r))
				if err != nil {
					return nil, err
				}
				out[i] = v
			}
			return out, nil
		case ListValue:
			if len(l) != len(r) {
				return nil, dimensionMismatchErr(l, r)
			}
			out := make(ListValue, len(l))
			for i := range l {
				v, err := fn(l[i], r[i])
				if err != nil {
					return nil, err
				}
				out[i] = v
			}
			return out, nil
		}
		return nil, typeMismatchErr(RightSide, NumberType, right)
	}
	return nil, typeMismatchErr(LeftSide, NumberType, left)
}

// mapNumbers applies fn to a number or to every element of a list.
func mapNumbers(v Value, fn func(complex128) (complex128, error)) (Value, error) {
	switch n := v.(type) {
	case NumberValue:
		c, err := fn(complex128(n))
		if err != nil {
			return nil, err
		}
		return NumberValue(c), nil
	case ListValue:
		out := make(ListValue, len(n))
		for i, c := range n {
			r, err := fn(c)
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return out, nil
	}
	return nil, typeMismatchErr(NoSide, NumberType, v)
}

func divisionByZero() error {
	return Err{ErrDomain, "division by zero"}
}

// Add, Subtract, Multiply and Divide implement complex arithmetic with
// list broadcasting.
func Add(left, right Value) (Value, error) {
	return broadcast(left, right, func(a, b complex128) (complex128, error) {
		return a + b, nil
	})
}

func Subtract(left, right Value) (Value, error) {
	return broadcast(left, right, func(a, b complex128) (complex128, error) {
		return a - b, nil
	})
}

func Multiply(left, right Value) (Value, error) {
	return broadcast(left, right, func(a, b complex128) (complex128, error) {
		return a * b, nil
	})
}

func Divide(left, right Value) (Value, error) {
	return broadcast(left, right, func(a, b complex128) (complex128, error) {
		if b == 0 {
			return 0, divisionByZero()
		}
		return a / b, nil
	})
}

func power(a, b complex128) (complex128, error) {
	if a == 0 {
		if b == 0 || real(b) <= 0 {
			return 0, Err{ErrDomain, "zero raised to a non-positive power"}
		}
		return 0, nil
	}
	if imag(a) == 0 && imag(b) == 0 {
		ra, rb := real(a), real(b)
		if ra > 0 || rb == math.Trunc(rb) {
			return complex(math.Pow(ra, rb), 0), nil
		}
		// negative base, fractional exponent: principal root
		return cmplx.Pow(complex(ra, 0), complex(rb, 0)), nil
	}
	return cmplx.Pow(a, b), nil
}

// Power raises left to the power right.
func Power(left, right Value) (Value, error) {
	return broadcast(left, right, power)
}

func compareReal(a, b complex128, cmp func(x, y float64) bool) (complex128, error) {
	if imag(a) != 0 || imag(b) != 0 {
		return 0, Err{ErrDomain, "cannot order non-real numbers"}
	}
	return boolToComplex(cmp(real(a), real(b))), nil
}

// Equal, NotEqual, Less, Greater, LessEqual and GreaterEqual produce 1
// for true and 0 for false, elementwise over lists.
func Equal(left, right Value) (Value, error) {
	return broadcast(left, right, func(a, b complex128) (complex128, error) {
		return boolToComplex(a == b), nil
	})
}

func NotEqual(left, right Value) (Value, error) {
	return broadcast(left, right, func(a, b complex128) (complex128, error) {
		return boolToComplex(a != b), nil
	})
}

func Less(left, right Value) (Value, error) {
	return broadcast(left, right, func(a, b complex128) (complex128, error) {
		return compareReal(a, b, func(x, y float64) bool { return x < y })
	})
}

func Greater(left, right Value) (Value, error) {
	return broadcast(left, right, func(a, b complex128) (complex128, error) {
		return compareReal(a, b, func(x, y float64) bool { return x > y })
	})
}

func LessEqual(left, right Value) (Value, error) {
	return broadcast(left, right, func(a, b complex128) (complex128, error) {
		return compareReal(a, b, func(x, y float64) bool { return x <= y })
	})
}

func GreaterEqual(left, right Value) (Value, error) {
	return broadcast(left, right, func(a, b complex128) (complex128, error) {
		return compareReal(a, b, func(x, y float64) bool { return x >= y })
	})
}

// And, Or and Xor treat any nonzero number as true.
func And(left, right Value) (Value, error) {
	return broadcast(left, right, func(a, b complex128) (complex128, error) {
		return boolToComplex(a != 0 && b != 0), nil
	})
}

func Or(left, right Value) (Value, error) {
	return broadcast(left, right, func(a, b complex128) (complex128, error) {
		return boolToComplex(a != 0 || b != 0), nil
	})
}

func Xor(left, right Value) (Value, error) {
	return broadcast(left, right, func(a, b complex128) (complex128, error) {
		return boolToComplex((a != 0) != (b != 0)), nil
	})
}
