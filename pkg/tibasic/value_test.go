package tibasic

import (
	"math"
	"testing"
)

func TestComplexArithmetic(t *testing.T) {
	a, b := NumberValue(1+2i), NumberValue(3+4i)

	sum, err := Add(a, b)
	if err != nil {
		t.Fatalf("Add error: %v", err)
	}
	wantNumber(t, sum, 4+6i)

	diff, err := Subtract(a, b)
	if err != nil {
		t.Fatalf("Subtract error: %v", err)
	}
	wantNumber(t, diff, -2-2i)

	prod, err := Multiply(a, b)
	if err != nil {
		t.Fatalf("Multiply error: %v", err)
	}
	wantNumber(t, prod, -5+10i)

	quot, err := Divide(a, b)
	if err != nil {
		t.Fatalf("Divide error: %v", err)
	}
	wantNumber(t, quot, 0.44+0.08i)
}

func TestDivisionByZeroIsDomainError(t *testing.T) {
	_, err := Divide(NumberValue(1+1i), NumberValue(0))
	wantReason(t, err, ErrDomain)

	_, err = Divide(ListValue{1, 2}, ListValue{1, 0})
	wantReason(t, err, ErrDomain)
}

func TestListBroadcasting(t *testing.T) {
	v, err := Add(ListValue{1, 2, 3}, NumberValue(1))
	if err != nil {
		t.Fatalf("Add error: %v", err)
	}
	wantList(t, v, 2, 3, 4)

	v, err = Multiply(NumberValue(2), ListValue{1, 2i})
	if err != nil {
		t.Fatalf("Multiply error: %v", err)
	}
	wantList(t, v, 2, 4i)

	v, err = Subtract(ListValue{5, 5}, ListValue{1, 2})
	if err != nil {
		t.Fatalf("Subtract error: %v", err)
	}
	wantList(t, v, 4, 3)
}

func TestListLengthMismatch(t *testing.T) {
	_, err := Add(ListValue{1}, ListValue{1, 2})
	wantReason(t, err, ErrArgument)
	argErr := wantArgumentErr(t, err)
	if argErr.Expected != ListType || argErr.Actual != ListType {
		t.Fatalf("want List/List mismatch, got %s/%s", argErr.Expected, argErr.Actual)
	}
	wantErrContains(t, err, "dimension mismatch")
}

func TestTypeMismatchNamesSide(t *testing.T) {
	_, err := Add(StringValue("HI"), NumberValue(1))
	argErr := wantArgumentErr(t, err)
	if argErr.Side != LeftSide {
		t.Fatalf("want left side, got %s", argErr.Side)
	}
	if argErr.Expected != NumberType || argErr.Actual != StringType {
		t.Fatalf("want Number expected and String actual, got %s and %s", argErr.Expected, argErr.Actual)
	}
	wantErrContains(t, err, "Left hand side")

	_, err = Multiply(NumberValue(1), StringValue("HI"))
	if argErr := wantArgumentErr(t, err); argErr.Side != RightSide {
		t.Fatalf("want right side, got %s", argErr.Side)
	}
}

func TestPower(t *testing.T) {
	v, err := Power(NumberValue(2), NumberValue(10))
	if err != nil {
		t.Fatalf("Power error: %v", err)
	}
	wantNumber(t, v, 1024)

	v, err = Power(NumberValue(-2), NumberValue(3))
	if err != nil {
		t.Fatalf("Power error: %v", err)
	}
	wantNumber(t, v, -8)

	v, err = Power(NumberValue(-4), NumberValue(0.5))
	if err != nil {
		t.Fatalf("Power error: %v", err)
	}
	wantNumber(t, v, 2i)

	_, err = Power(NumberValue(0), NumberValue(0))
	wantReason(t, err, ErrDomain)
}

func TestComparisons(t *testing.T) {
	v, err := Less(ListValue{1, 5}, NumberValue(3))
	if err != nil {
		t.Fatalf("Less error: %v", err)
	}
	wantList(t, v, 1, 0)

	v, err = Equal(NumberValue(1i), NumberValue(1i))
	if err != nil {
		t.Fatalf("Equal error: %v", err)
	}
	wantNumber(t, v, 1)

	_, err = Less(NumberValue(1i), NumberValue(1))
	wantReason(t, err, ErrDomain)
}

func TestLogicalOperators(t *testing.T) {
	cases := []struct {
		fn   BinaryFunc
		l, r complex128
		want complex128
	}{
		{And, 2, 1i, 1},
		{And, 2, 0, 0},
		{Or, 0, 0, 0},
		{Or, 0, 3, 1},
		{Xor, 1, 1, 0},
		{Xor, 0, 1, 1},
	}
	for i, c := range cases {
		v, err := c.fn(NumberValue(c.l), NumberValue(c.r))
		if err != nil {
			t.Fatalf("case %d error: %v", i, err)
		}
		wantNumber(t, v, c.want)
	}
}

func TestValueStrings(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{NumberValue(0), "0"},
		{NumberValue(2.5), "2.5"},
		{NumberValue(-3), "-3"},
		{NumberValue(3 + 2i), "3+2i"},
		{NumberValue(1 - 2i), "1-2i"},
		{NumberValue(1i), "i"},
		{NumberValue(-1i), "-i"},
		{NumberValue(1e20), "1ᴇ20"},
		{NumberValue(1.5e-12), "1.5ᴇ-12"},
		{NumberValue(0.1 + 0.2), "0.3"},
		{ListValue{1, 2 + 1i}, "{1 2+i}"},
		{ListValue{}, "{}"},
		{StringValue("HELLO"), "HELLO"},
	}
	for _, c := range cases {
		if got := c.v.String(); got != c.want {
			t.Errorf("String() of %#v: want %q, got %q", c.v, c.want, got)
		}
	}
}

func TestEqualsComparesData(t *testing.T) {
	if !(ListValue{1, 2}).Equals(ListValue{1, 2}) {
		t.Fatal("equal lists should be Equal")
	}
	if (ListValue{1, 2}).Equals(ListValue{1}) {
		t.Fatal("lists of different lengths should not be Equal")
	}
	if NumberValue(1).Equals(ListValue{1}) {
		t.Fatal("a number should never equal a list")
	}
	if !StringValue("A").Equals(StringValue("A")) {
		t.Fatal("equal strings should be Equal")
	}
}

func TestTruthy(t *testing.T) {
	for _, c := range []struct {
		v    Value
		want bool
	}{
		{NumberValue(0), false},
		{NumberValue(1), true},
		{NumberValue(-0.5), true},
		{NumberValue(1i), true},
	} {
		got, err := Truthy(c.v)
		if err != nil {
			t.Fatalf("Truthy(%s) error: %v", c.v, err)
		}
		if got != c.want {
			t.Errorf("Truthy(%s): want %v, got %v", c.v, c.want, got)
		}
	}

	_, err := Truthy(ListValue{1})
	wantReason(t, err, ErrType)
	_, err = Truthy(StringValue("1"))
	wantReason(t, err, ErrType)
}

func TestNegationKeepsImaginaryZeroPositive(t *testing.T) {
	for _, x := range []complex128{4, 0, 2.5} {
		n, err := tiNegate(x)
		if err != nil {
			t.Fatalf("tiNegate(%v) error: %v", x, err)
		}
		if math.Signbit(imag(n)) {
			t.Errorf("tiNegate(%v): want +0 imaginary part, got %v", x, n)
		}
	}

	root, err := tiSqrt(-9)
	if err != nil {
		t.Fatalf("tiSqrt error: %v", err)
	}
	wantNumber(t, NumberValue(root), 3i)

	v, err := Power(NumberValue(complex(-4, math.Copysign(0, -1))), NumberValue(0.5))
	if err != nil {
		t.Fatalf("Power error: %v", err)
	}
	wantNumber(t, v, 2i)
}
