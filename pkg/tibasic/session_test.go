package tibasic

import (
	"errors"
	"testing"
)

func runSession(t *testing.T, inputs ...string) (*scriptedIO, error) {
	t.Helper()
	calc, _, sio := newTestCalculator(t, inputs...)
	return sio, RunSession(calc, sio)
}

func wantPrinted(t *testing.T, sio *scriptedIO, want ...string) {
	t.Helper()
	if len(sio.printed) != len(want) {
		t.Fatalf("want printed %q, got %q", want, sio.printed)
	}
	for i := range want {
		if sio.printed[i] != want[i] {
			t.Fatalf("want printed %q, got %q", want, sio.printed)
		}
	}
}

func TestSessionPrintsResultsAndErrors(t *testing.T) {
	sio, err := runSession(t, "1+1", "1/0", "Ans*3", "", "{1}+{1,2}", "  EXIT  ", "99")
	if err != nil {
		t.Fatalf("RunSession error: %v", err)
	}
	wantPrinted(t, sio,
		"2",
		"ERR: division by zero",
		"6",
		"ERR: dimension mismatch: 1 and 2 elements",
	)
	if len(sio.inputs) != 1 {
		t.Fatalf("input after exit must not be read, %d lines left", len(sio.inputs))
	}
}

func TestSessionEndsAtEndOfInput(t *testing.T) {
	sio, err := runSession(t, "5→A", "Disp A")
	if err != nil {
		t.Fatalf("RunSession error: %v", err)
	}
	wantPrinted(t, sio, "5", "5", "5")
}

func TestSessionKeepsStateAcrossLines(t *testing.T) {
	sio, err := runSession(t, "0→A", "While A<3:A+1→A:End", "A", "exit")
	if err != nil {
		t.Fatalf("RunSession error: %v", err)
	}
	wantPrinted(t, sio, "0", "3", "3")
}

func TestSessionStopsOnInternalFailure(t *testing.T) {
	calc, _, sio := newTestCalculator(t)
	broken := errors.New("terminal gone")
	sio.readErr = broken

	err := RunSession(calc, sio)
	if !errors.Is(err, broken) {
		t.Fatalf("want wrapped read error, got %v", err)
	}
}
