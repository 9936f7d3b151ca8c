package x3270protocol

import (
	"errors"
	"fmt"
)

// Sentinel errors for the scripting protocol.
var (
	// ErrNotConnected indicates the transport has no connection to the
	// emulator yet (wc3270 before its script port was dialed).
	ErrNotConnected = errors.New("not connected")

	// ErrNoHost indicates Reconnect was called before any Connect.
	ErrNoHost = errors.New("no previous host to reconnect to")

	// ErrEmbeddedNewline indicates a request line that would be split in two
	// on the wire.
	ErrEmbeddedNewline = errors.New("command contains a newline")

	// ErrExecutableNotFound indicates the emulator binary could not be located.
	ErrExecutableNotFound = errors.New("emulator executable not found")
)

// CommandError is returned when the emulator answers a command with an
// "error" result. Message is the concatenated data lines of the response.
type CommandError struct {
	Command string
	Message string
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	return e.Message
}

// ProtocolError represents a response that violates the framing contract.
type ProtocolError struct {
	Kind  ProtocolErrorKind
	Value string // The offending value
}

// ProtocolErrorKind categorizes protocol violations.
type ProtocolErrorKind int

const (
	// ErrKindUnexpectedResult indicates a result line other than ok/error.
	ErrKindUnexpectedResult ProtocolErrorKind = iota
	// ErrKindDataLineCount indicates a query returned the wrong number of
	// data lines.
	ErrKindDataLineCount
)

// Error implements the error interface.
func (e *ProtocolError) Error() string {
	switch e.Kind {
	case ErrKindUnexpectedResult:
		return fmt.Sprintf(`expected "ok" or "error" result, but received: %s`, e.Value)
	case ErrKindDataLineCount:
		return fmt.Sprintf("expected exactly one data line, but received: %s", e.Value)
	default:
		return fmt.Sprintf("protocol error: %s", e.Value)
	}
}

func newUnexpectedResultError(result string) error {
	return &ProtocolError{Kind: ErrKindUnexpectedResult, Value: result}
}

func newDataLineCountError(data []string) error {
	return &ProtocolError{Kind: ErrKindDataLineCount, Value: fmt.Sprintf("%d %q", len(data), data)}
}

// TerminatedError is returned by every operation on a terminated Emulator.
type TerminatedError struct{}

// Error implements the error interface.
func (e *TerminatedError) Error() string {
	return "this emulator instance has been terminated"
}

// KeyboardStateError is returned when the keyboard is still locked after a
// wait for an input field.
type KeyboardStateError struct {
	State string
}

// Error implements the error interface.
func (e *KeyboardStateError) Error() string {
	return fmt.Sprintf("keyboard not unlocked, state was: %s", e.State)
}

// FieldTruncateError is returned before any I/O when text would not fit in
// the target field.
type FieldTruncateError struct {
	Limit int
	Text  string
}

// Error implements the error interface.
func (e *FieldTruncateError) Error() string {
	return fmt.Sprintf("length limit %d, but got %q", e.Limit, e.Text)
}

// ConnectionError represents a failure to reach the emulator.
type ConnectionError struct {
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ConnectionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("connection failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("connection failed: %s", e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *ConnectionError) Unwrap() error {
	return e.Cause
}

// NewConnectionError creates a new connection error.
func NewConnectionError(message string, cause error) error {
	return &ConnectionError{Message: message, Cause: cause}
}
