package tibasic

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

const (
	ANSI_RESET = "\x1b[0;0m"
	ANSI_GREEN = "\x1b[32;22m"
	ANSI_RED   = "\x1b[31;22m"
)

var logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
	Level(zerolog.InfoLevel).
	With().Timestamp().Logger()

// NewLogger builds a logger writing to w at the named level ("trace",
// "debug", "info", ...). JSON output is used when json is set, a human
// readable console format otherwise.
func NewLogger(w io.Writer, level string, json bool) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("log: %w", err)
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	if !json {
		w = zerolog.ConsoleWriter{Out: w}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}

// SetLogger replaces the logger used by the interpreter.
func SetLogger(l zerolog.Logger) {
	logger = l
}

// Logger returns the logger used by the interpreter.
func Logger() *zerolog.Logger {
	return &logger
}

func LogDebug(args ...string) {
	logger.Debug().Msg(strings.Join(args, " "))
}

func LogDebugf(s string, args ...interface{}) {
	logger.Debug().Msgf(s, args...)
}

// LogInteractive prints a repl line, results in green and errors in red.
func LogInteractive(w io.Writer, args ...string) {
	line := strings.Join(args, " ")
	colour := ANSI_GREEN
	if strings.HasPrefix(line, ErrorPrefix) {
		colour = ANSI_RED
	}
	fmt.Fprintln(w, colour+line+ANSI_RESET)
}

func LogSafeErr(reason int, args ...string) {
	logger.Error().
		Int("reason", reason).
		Str("kind", reasonString(reason)).
		Msg(strings.Join(args, " "))
}

func LogErr(reason int, args ...string) {
	LogSafeErr(reason, args...)
	os.Exit(reason)
}

func LogErrf(reason int, s string, args ...interface{}) {
	LogErr(reason, fmt.Sprintf(s, args...))
}
