package tibasic

import (
	"errors"
	"io"
	"math/cmplx"
	"strings"
	"testing"
)

// recordingMemory remembers every value written to Ans.
type recordingMemory struct {
	*DefaultMemory
	results []Value
}

func newRecordingMemory() *recordingMemory {
	return &recordingMemory{DefaultMemory: NewMemory()}
}

func (m *recordingMemory) SetLastResult(v Value) {
	m.results = append(m.results, v)
	m.DefaultMemory.SetLastResult(v)
}

// scriptedIO feeds prepared input lines and records printed lines.
type scriptedIO struct {
	inputs  []string
	printed []string
	readErr error
}

func (s *scriptedIO) ReadInput() (string, error) {
	if s.readErr != nil {
		return "", s.readErr
	}
	if len(s.inputs) == 0 {
		return "", io.EOF
	}
	line := s.inputs[0]
	s.inputs = s.inputs[1:]
	return line, nil
}

func (s *scriptedIO) PrintLine(text string) error {
	s.printed = append(s.printed, text)
	return nil
}

func newTestCalculator(t *testing.T, inputs ...string) (*Calculator, *recordingMemory, *scriptedIO) {
	t.Helper()
	mem := newRecordingMemory()
	sio := &scriptedIO{inputs: inputs}
	calc, err := NewCalculator(mem, sio)
	if err != nil {
		t.Fatalf("NewCalculator error: %v", err)
	}
	return calc, mem, sio
}

func mustInterpret(t *testing.T, calc *Calculator, line string) Value {
	t.Helper()
	v, err := calc.Interpret(line)
	if err != nil {
		t.Fatalf("Interpret(%q) error: %v", line, err)
	}
	return v
}

func wantReason(t *testing.T, err error, reason int) {
	t.Helper()
	if err == nil {
		t.Fatalf("want %s, got no error", reasonString(reason))
	}
	if got := Reason(err); got != reason {
		t.Fatalf("want %s, got %s: %v", reasonString(reason), reasonString(got), err)
	}
}

func wantErrContains(t *testing.T, err error, substr string) {
	t.Helper()
	if err == nil {
		t.Fatalf("want error containing %q, got nil", substr)
	}
	if !strings.Contains(err.Error(), substr) {
		t.Fatalf("want error containing %q, got %q", substr, err.Error())
	}
}

func wantArgumentErr(t *testing.T, err error) *ArgumentErr {
	t.Helper()
	var argErr *ArgumentErr
	if !errors.As(err, &argErr) {
		t.Fatalf("want *ArgumentErr, got %T: %v", err, err)
	}
	return argErr
}

const tolerance = 1e-9

func wantNumber(t *testing.T, v Value, want complex128) {
	t.Helper()
	n, ok := v.(NumberValue)
	if !ok {
		t.Fatalf("want Number %v, got %s %v", want, nilSafe(v).Type(), v)
	}
	if cmplx.Abs(complex128(n)-want) > tolerance {
		t.Fatalf("want %v, got %v", want, complex128(n))
	}
}

func wantList(t *testing.T, v Value, want ...complex128) {
	t.Helper()
	list, ok := v.(ListValue)
	if !ok {
		t.Fatalf("want List %v, got %s %v", want, nilSafe(v).Type(), v)
	}
	if len(list) != len(want) {
		t.Fatalf("want %d elements %v, got %d elements %v", len(want), want, len(list), list)
	}
	for i := range want {
		if cmplx.Abs(list[i]-want[i]) > tolerance {
			t.Fatalf("element %d: want %v, got %v (list %v)", i, want[i], list[i], list)
		}
	}
}
