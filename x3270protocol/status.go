package x3270protocol

import (
	"fmt"
	"strings"
)

// Status is a decoded status line. An empty field means the emulator did
// not report a value for it.
type Status struct {
	Raw string // The status line, right-trimmed

	Keyboard        string // U unlocked, L locked, E error
	ScreenFormat    string // F formatted, U unformatted
	FieldProtection string // P protected, U unprotected
	ConnectionState string // C(host) connected, N not connected
	EmulatorMode    string // I 3270, L NVT line, C NVT char, P unnegotiated, N not connected
	ModelNumber     string
	Rows            string
	Cols            string
	CursorRow       string
	CursorCol       string
	WindowID        string
	ExecTime        string
}

// ParseStatus decodes a status line. It never fails: an empty line decodes
// to a Status with every field absent, a line with fewer than
// StatusFieldCount fields is padded with absent fields and extra fields are
// ignored. Fields are split on single spaces, so consecutive spaces yield
// empty fields.
func ParseStatus(line string) Status {
	if line == "" {
		line = strings.Repeat(" ", StatusFieldCount)
	}

	parts := strings.Split(line, " ")
	if len(parts) < StatusFieldCount {
		parts = append(parts, make([]string, StatusFieldCount-len(parts))...)
	}

	return Status{
		Raw:             trimRightSpace(line),
		Keyboard:        parts[0],
		ScreenFormat:    parts[1],
		FieldProtection: parts[2],
		ConnectionState: parts[3],
		EmulatorMode:    parts[4],
		ModelNumber:     parts[5],
		Rows:            parts[6],
		Cols:            parts[7],
		CursorRow:       parts[8],
		CursorCol:       parts[9],
		WindowID:        parts[10],
		ExecTime:        parts[11],
	}
}

// Fields returns the twelve fields in wire order.
func (s Status) Fields() []string {
	return []string{
		s.Keyboard, s.ScreenFormat, s.FieldProtection, s.ConnectionState,
		s.EmulatorMode, s.ModelNumber, s.Rows, s.Cols,
		s.CursorRow, s.CursorCol, s.WindowID, s.ExecTime,
	}
}

// Connected reports whether the connection state is C(<host>).
func (s Status) Connected() bool {
	return strings.HasPrefix(s.ConnectionState, ConnectedPrefix)
}

// Host returns the host of a connected session, or "" when not connected.
func (s Status) Host() string {
	if !s.Connected() {
		return ""
	}
	return strings.TrimSuffix(strings.TrimPrefix(s.ConnectionState, ConnectedPrefix), ")")
}

// KeyboardUnlocked reports whether the keyboard accepts input.
func (s Status) KeyboardUnlocked() bool {
	return s.Keyboard == KeyboardUnlocked
}

// String implements fmt.Stringer.
func (s Status) String() string {
	return fmt.Sprintf("STATUS: %s", s.Raw)
}
