package tibasic

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// ExitCommand ends an interactive session when entered on its own line,
// in any letter case.
const ExitCommand = "exit"

// ErrorPrefix starts every line reporting a failed statement.
const ErrorPrefix = "ERR: "

// RunSession reads lines from calcIO and interprets each one, printing Ans
// after every successful line and "ERR: <message>" after a failed one. It
// returns nil once the user exits or input runs out. Failures that are not
// language errors end the session and are returned.
func RunSession(calc *Calculator, calcIO CalculatorIO) error {
	logger.Info().Str("env", calc.env.ID().String()).Msg("session started")
	defer logger.Info().Str("env", calc.env.ID().String()).Msg("session ended")

	for {
		line, err := calcIO.ReadInput()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("session: reading input: %w", err)
		}

		trimmed := strings.TrimSpace(line)
		if strings.EqualFold(trimmed, ExitCommand) {
			return nil
		}
		if trimmed == "" {
			continue
		}

		result, err := calc.Interpret(line)
		if err != nil {
			reason := Reason(err)
			if reason == ErrUnknown || reason == ErrAssert {
				LogSafeErr(reason, err.Error())
				return err
			}

			logger.Debug().Str("kind", reasonString(reason)).Str("line", line).Msg(err.Error())
			if perr := calcIO.PrintLine(ErrorPrefix + err.Error()); perr != nil {
				return fmt.Errorf("session: printing error: %w", perr)
			}
			continue
		}

		if perr := calcIO.PrintLine(nilSafe(result).String()); perr != nil {
			return fmt.Errorf("session: printing result: %w", perr)
		}
	}
}
