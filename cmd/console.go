package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/superloach/tibasic/pkg/tibasic"
)

// consoleIO is the terminal I/O channel: line editing and history come from
// liner, output goes to stdout.
type consoleIO struct {
	state       *liner.State
	prompt      string
	historyPath string
	color       bool
	out         io.Writer
}

func newConsoleIO(cfg tibasic.InteractiveConfig) *consoleIO {
	c := &consoleIO{
		state:       liner.NewLiner(),
		prompt:      cfg.Prompt,
		historyPath: expandHome(cfg.HistoryFile),
		color:       cfg.Color,
		out:         os.Stdout,
	}
	c.state.SetCtrlCAborts(true)

	if c.historyPath != "" {
		if f, err := os.Open(c.historyPath); err == nil {
			_, _ = c.state.ReadHistory(f)
			_ = f.Close()
		}
	}
	return c
}

func (c *consoleIO) ReadInput() (string, error) {
	line, err := c.state.Prompt(c.prompt)
	if errors.Is(err, liner.ErrPromptAborted) {
		return "", io.EOF
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(line) != "" {
		c.state.AppendHistory(line)
	}
	return line, nil
}

func (c *consoleIO) PrintLine(text string) error {
	if c.color {
		tibasic.LogInteractive(c.out, text)
		return nil
	}
	_, err := fmt.Fprintln(c.out, text)
	return err
}

// Close saves the history and restores the terminal.
func (c *consoleIO) Close() error {
	if c.historyPath != "" {
		if f, err := os.Create(c.historyPath); err == nil {
			_, _ = c.state.WriteHistory(f)
			_ = f.Close()
		}
	}
	return c.state.Close()
}

// expand out ~ for $HOME, which is not done by config files
func expandHome(path string) string {
	if strings.HasPrefix(path, "~"+string(os.PathSeparator)) {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
