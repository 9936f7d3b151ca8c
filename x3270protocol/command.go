package x3270protocol

import (
	"fmt"
	"log/slog"
	"strings"
)

// Command is one request/response exchange with the emulator. It is
// created right before sending, filled in by Execute and never reused.
type Command struct {
	Line       string   // Request line, without trailing newline
	StatusLine string   // Status line of the response, empty if none arrived
	Data       []string // Data lines of the response, in order

	parser *ResponseParser
}

// NewCommand creates a command for the given request line.
func NewCommand(line string) *Command {
	return newCommand(line, nil)
}

func newCommand(line string, logger *slog.Logger) *Command {
	return &Command{
		Line:   line,
		Data:   []string{},
		parser: NewResponseParser(logger),
	}
}

// Execute writes the command to t, reads the complete response and
// classifies its result. The status line and data lines are recorded on the
// Command even when the emulator reports an error.
func (c *Command) Execute(t Transport) error {
	if strings.ContainsAny(c.Line, "\r\n") {
		return fmt.Errorf("%w: %q", ErrEmbeddedNewline, c.Line)
	}

	if _, err := t.Write([]byte(c.Line + "\n")); err != nil {
		return err
	}

	resp, err := c.parser.Read(t)
	c.StatusLine = resp.StatusLine
	c.Data = append(c.Data, resp.Data...)
	if err != nil {
		return err
	}

	return resp.Classify(c.Line)
}
