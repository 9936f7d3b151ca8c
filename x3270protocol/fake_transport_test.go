package x3270protocol

import (
	"io"
	"strings"
)

// testStatusConnected is a status line of a connected, unlocked session.
const testStatusConnected = "U F U C(localhost) I 4 24 80 0 0 0x0 -"

// testStatusDisconnected is a status line of a session without a host.
const testStatusDisconnected = "U U U N N 4 24 80 0 0 0x0 -"

// scriptedTransport is a Transport whose responses are produced by a
// handler for every written command.
type scriptedTransport struct {
	handler func(cmd string) []string

	written []string
	pending []string

	writeErr error
	readErr  error
	closed   bool
}

func newScriptedTransport(handler func(cmd string) []string) *scriptedTransport {
	if handler == nil {
		handler = defaultHandler
	}
	return &scriptedTransport{handler: handler}
}

func (t *scriptedTransport) Write(p []byte) (int, error) {
	if t.writeErr != nil {
		return 0, t.writeErr
	}
	cmd := strings.TrimSuffix(string(p), "\n")
	t.written = append(t.written, cmd)
	t.pending = append(t.pending, t.handler(cmd)...)
	return len(p), nil
}

func (t *scriptedTransport) ReadLine() (string, error) {
	if t.readErr != nil {
		return "", t.readErr
	}
	if len(t.pending) == 0 {
		return "", io.EOF
	}
	line := t.pending[0]
	t.pending = t.pending[1:]
	return line, nil
}

func (t *scriptedTransport) Close() error {
	t.closed = true
	return nil
}

// response builds the lines of a response with the given data lines.
func response(status, result string, data ...string) []string {
	lines := make([]string, 0, len(data)+2)
	for _, d := range data {
		lines = append(lines, "data: "+d+"\n")
	}
	return append(lines, status+"\n", result+"\n")
}

func defaultHandler(cmd string) []string {
	switch {
	case cmd == QuitCommand:
		return []string{"\n", "\n"}
	case strings.HasPrefix(cmd, "Ascii("):
		return response(testStatusConnected, ResultOK, "foobar")
	default:
		return response(testStatusConnected, ResultOK)
	}
}

// linesTransport replays a fixed list of lines regardless of what is
// written.
type linesTransport struct {
	written []string
	lines   []string
}

func (t *linesTransport) Write(p []byte) (int, error) {
	t.written = append(t.written, string(p))
	return len(p), nil
}

func (t *linesTransport) ReadLine() (string, error) {
	if len(t.lines) == 0 {
		return "", io.EOF
	}
	line := t.lines[0]
	t.lines = t.lines[1:]
	return line, nil
}

func (t *linesTransport) Close() error { return nil }
