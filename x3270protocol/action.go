package x3270protocol

import (
	"fmt"
	"strings"
)

// ActionType represents a scripting-protocol action.
type ActionType int

const (
	// Connection actions
	ActConnect ActionType = iota
	ActDisconnect
	ActQuit
	ActQueryConnectionState

	// Synchronization
	ActWaitInputField

	// Cursor and keyboard input
	ActMoveCursor
	ActString
	ActEnter
	ActPF
	ActPA
	ActClear
	ActTab
	ActDeleteField
	ActEraseEOF

	// Screen queries
	ActAscii
	ActPrintText

	// ActRaw is an action line passed through verbatim.
	ActRaw
)

// QuoteEscaping selects how String() arguments are escaped.
type QuoteEscaping int

const (
	// QuoteEscapingBackslash escapes backslashes and double quotes so the
	// emulator receives the text unchanged.
	QuoteEscapingBackslash QuoteEscaping = iota

	// QuoteEscapingLegacy reproduces the historical behaviour of replacing
	// '"' with '"', which leaves embedded quotes unescaped.
	QuoteEscapingLegacy
)

// Escape returns text prepared for embedding in a quoted String() argument.
func (q QuoteEscaping) Escape(text string) string {
	if q == QuoteEscapingLegacy {
		return text
	}
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(text)
}

// Action is a single scripting command with its arguments.
// Use the constructor functions (NewConnectAction, NewMoveCursorAction, etc.)
// to create Action values. Coordinates held by an Action are 0-based, as the
// emulator expects them.
type Action struct {
	Type ActionType

	// Fields used by various actions (only relevant fields are populated)
	Host     string        // For connect
	Row      int           // For moveCursor, ascii
	Col      int           // For moveCursor, ascii
	Length   int           // For ascii
	Number   int           // For pf, pa
	Seconds  int           // For waitInputField
	Text     string        // For string (unescaped)
	Escaping QuoteEscaping // For string
	Path     string        // For printText
	Line     string        // For raw
}

// NewConnectAction creates a Connect(<host>) action.
func NewConnectAction(host string) Action {
	return Action{Type: ActConnect, Host: host}
}

// NewDisconnectAction creates a Disconnect action.
func NewDisconnectAction() Action {
	return Action{Type: ActDisconnect}
}

// NewQuitAction creates a Quit action.
func NewQuitAction() Action {
	return Action{Type: ActQuit}
}

// NewQueryConnectionStateAction creates a query whose only purpose is to
// refresh the status line.
func NewQueryConnectionStateAction() Action {
	return Action{Type: ActQueryConnectionState}
}

// NewWaitInputFieldAction creates a Wait(<seconds>, InputField) action.
func NewWaitInputFieldAction(seconds int) Action {
	return Action{Type: ActWaitInputField, Seconds: seconds}
}

// NewMoveCursorAction creates a MoveCursor action from 0-based coordinates.
func NewMoveCursorAction(row, col int) Action {
	return Action{Type: ActMoveCursor, Row: row, Col: col}
}

// NewStringAction creates a String("<text>") action.
func NewStringAction(text string, escaping QuoteEscaping) Action {
	return Action{Type: ActString, Text: text, Escaping: escaping}
}

// NewEnterAction creates an Enter action.
func NewEnterAction() Action {
	return Action{Type: ActEnter}
}

// NewPFAction creates a PF(<n>) action.
func NewPFAction(n int) Action {
	return Action{Type: ActPF, Number: n}
}

// NewPAAction creates a PA(<n>) action.
func NewPAAction(n int) Action {
	return Action{Type: ActPA, Number: n}
}

// NewClearAction creates a Clear action.
func NewClearAction() Action {
	return Action{Type: ActClear}
}

// NewTabAction creates a Tab action.
func NewTabAction() Action {
	return Action{Type: ActTab}
}

// NewDeleteFieldAction creates a DeleteField action.
func NewDeleteFieldAction() Action {
	return Action{Type: ActDeleteField}
}

// NewEraseEOFAction creates an EraseEOF action.
func NewEraseEOFAction() Action {
	return Action{Type: ActEraseEOF}
}

// NewAsciiAction creates an Ascii(<row>,<col>,<length>) action from 0-based
// coordinates.
func NewAsciiAction(row, col, length int) Action {
	return Action{Type: ActAscii, Row: row, Col: col, Length: length}
}

// NewPrintTextAction creates a PrintText(html,file,<path>) action.
func NewPrintTextAction(path string) Action {
	return Action{Type: ActPrintText, Path: path}
}

// NewRawAction wraps an already formatted action line.
func NewRawAction(line string) Action {
	return Action{Type: ActRaw, Line: line}
}

// Name returns the action name as it appears on the wire, used to label
// metrics and log records.
func (a Action) Name() string {
	switch a.Type {
	case ActConnect:
		return "Connect"
	case ActDisconnect:
		return "Disconnect"
	case ActQuit:
		return "Quit"
	case ActQueryConnectionState:
		return "Query"
	case ActWaitInputField:
		return "Wait"
	case ActMoveCursor:
		return "MoveCursor"
	case ActString:
		return "String"
	case ActEnter:
		return "Enter"
	case ActPF:
		return "PF"
	case ActPA:
		return "PA"
	case ActClear:
		return "Clear"
	case ActTab:
		return "Tab"
	case ActDeleteField:
		return "DeleteField"
	case ActEraseEOF:
		return "EraseEOF"
	case ActAscii:
		return "Ascii"
	case ActPrintText:
		return "PrintText"
	default:
		return actionName(a.Line)
	}
}

// Format returns the action formatted as a request line, without the
// trailing newline.
func (a Action) Format() string {
	switch a.Type {
	case ActConnect:
		return fmt.Sprintf("Connect(%s)", a.Host)
	case ActDisconnect:
		return "Disconnect"
	case ActQuit:
		return QuitCommand
	case ActQueryConnectionState:
		return "Query(ConnectionState)"
	case ActWaitInputField:
		return fmt.Sprintf("Wait(%d, InputField)", a.Seconds)
	case ActMoveCursor:
		return fmt.Sprintf("MoveCursor(%d, %d)", a.Row, a.Col)
	case ActString:
		return fmt.Sprintf(`String("%s")`, a.Escaping.Escape(a.Text))
	case ActEnter:
		return "Enter"
	case ActPF:
		return fmt.Sprintf("PF(%d)", a.Number)
	case ActPA:
		return fmt.Sprintf("PA(%d)", a.Number)
	case ActClear:
		return "Clear"
	case ActTab:
		return "Tab"
	case ActDeleteField:
		return "DeleteField"
	case ActEraseEOF:
		return "EraseEOF"
	case ActAscii:
		return fmt.Sprintf("Ascii(%d,%d,%d)", a.Row, a.Col, a.Length)
	case ActPrintText:
		return fmt.Sprintf("PrintText(html,file,%s)", a.Path)
	default:
		return a.Line
	}
}

// actionName extracts the action name from a raw request line: everything
// before the first '(' or space.
func actionName(line string) string {
	line = strings.TrimSpace(line)
	if i := strings.IndexAny(line, "( "); i >= 0 {
		line = line[:i]
	}
	if line == "" {
		return "unknown"
	}
	return line
}
