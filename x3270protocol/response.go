package x3270protocol

import (
	"strings"
)

// Response is the framed reply to one command.
type Response struct {
	Data       []string // Payload lines, prefix stripped, in arrival order
	StatusLine string   // Raw status line without its line ending
	Result     string   // Result line, right-trimmed
}

// IsOK returns true if the emulator reported success.
func (r Response) IsOK() bool {
	return r.Result == ResultOK
}

// IsError returns true if the emulator reported a failure.
func (r Response) IsError() bool {
	return r.Result == ResultError
}

// ErrorMessage returns the concatenated data lines of an error response,
// or NoErrorMessage when there are none.
func (r Response) ErrorMessage() string {
	if len(r.Data) == 0 {
		return NoErrorMessage
	}
	return trimRightSpace(strings.Join(r.Data, ""))
}

// Classify turns the result line into the outcome of the command that
// produced it. Quit is allowed to answer with an empty result line.
func (r Response) Classify(command string) error {
	switch {
	case r.Result == "" && command == QuitCommand:
		return nil
	case r.IsOK():
		return nil
	case r.IsError():
		return &CommandError{Command: command, Message: r.ErrorMessage()}
	default:
		return newUnexpectedResultError(r.Result)
	}
}
