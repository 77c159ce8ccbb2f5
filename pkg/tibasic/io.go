package tibasic

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// CalculatorIO is the channel through which programs talk to the user.
type CalculatorIO interface {
	// ReadInput blocks until a line of input is available. It returns
	// io.EOF when no more input will arrive.
	ReadInput() (string, error)
	PrintLine(text string) error
}

// StreamIO is a CalculatorIO over a plain reader/writer pair, used when
// no interactive terminal is attached.
type StreamIO struct {
	reader *bufio.Reader
	writer io.Writer
}

func NewStreamIO(r io.Reader, w io.Writer) *StreamIO {
	return &StreamIO{
		reader: bufio.NewReader(r),
		writer: w,
	}
}

func (s *StreamIO) ReadInput() (string, error) {
	line, err := s.reader.ReadString('\n')
	if err == io.EOF && line != "" {
		err = nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (s *StreamIO) PrintLine(text string) error {
	_, err := fmt.Fprintln(s.writer, text)
	return err
}
