package x3270protocol

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"net"
	"os"
	"strings"
	"sync"
	"syscall"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Config configures an Emulator.
type Config struct {
	// Timeout is the budget passed to Wait() commands. Zero means
	// DefaultTimeout. It is enforced by the emulator, not by this client.
	Timeout time.Duration

	// QuoteEscaping selects how SendString escapes its text.
	QuoteEscaping QuoteEscaping

	// Logger receives debug records for every exchange. Nil means
	// slog.Default().
	Logger *slog.Logger

	// Metrics is updated after every command when non-nil.
	Metrics *Metrics
}

// Emulator is a session with one x3270-family emulator.
//
// It sends one command at a time and blocks until its response is
// complete. Every command refreshes the cached Status. Once Terminate has
// succeeded every further operation fails with a *TerminatedError.
//
// Thread Safety:
// An Emulator serializes its operations with a mutex, so multi-command
// operations such as FillFieldAt are never interleaved with commands from
// other goroutines. The Transport must not be used by anything else.
type Emulator struct {
	mu sync.Mutex

	transport Transport
	cfg       Config
	id        string
	logger    *slog.Logger

	status     Status
	lastHost   string
	terminated bool
}

// NewEmulator creates a session over t.
func NewEmulator(t Transport, cfg Config) *Emulator {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	id := uuid.NewString()

	e := &Emulator{
		transport: t,
		cfg:       cfg,
		id:        id,
		logger:    logger.With("session_id", id),
		status:    ParseStatus(""),
	}
	cfg.Metrics.sessionStarted()
	return e
}

// ID returns the session id attached to the emulator's log records.
func (e *Emulator) ID() string {
	return e.id
}

// Status returns the status decoded from the most recent response.
func (e *Emulator) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

// LastHost returns the host passed to the last successful Connect.
func (e *Emulator) LastHost() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastHost
}

// Terminated reports whether Terminate has completed.
func (e *Emulator) Terminated() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.terminated
}

// Timeout returns the configured Wait() budget.
func (e *Emulator) Timeout() time.Duration {
	return e.cfg.Timeout
}

// Exec sends a raw command line and returns the completed exchange.
//
// The cached Status is replaced whenever a complete response arrived, so a
// command answered with "error" still updates it. Only transport failures
// leave the previous Status in place.
func (e *Emulator) Exec(line string) (*Command, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.exec(line, actionName(line))
}

// Do sends a.
func (e *Emulator) Do(a Action) (*Command, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.do(a)
}

// exec is the single path to the transport. The caller holds e.mu.
func (e *Emulator) exec(line, name string) (*Command, error) {
	if e.terminated {
		return nil, &TerminatedError{}
	}

	e.logger.Debug("sending command", "command", line)

	cmd := newCommand(line, e.logger)
	start := time.Now()
	err := cmd.Execute(e.transport)
	elapsed := time.Since(start)

	e.logger.Debug("elapsed execution", "command", name, "elapsed", elapsed)
	e.cfg.Metrics.observeCommand(name, err, elapsed)

	if err == nil || responseReceived(err) {
		e.status = ParseStatus(cmd.StatusLine)
	}
	return cmd, err
}

func (e *Emulator) do(a Action) (*Command, error) {
	return e.exec(a.Format(), a.Name())
}

// responseReceived reports whether err was produced after a complete
// response, so that its status line is trustworthy.
func responseReceived(err error) bool {
	var cmdErr *CommandError
	var protoErr *ProtocolError
	return errors.As(err, &cmdErr) || errors.As(err, &protoErr)
}

// Terminate quits the emulator and closes the transport. It is a no-op on
// a terminated emulator. Broken pipes and reset connections while quitting
// are expected, since the emulator may exit before answering. A transport
// that was never connected has nothing to quit and is just closed.
func (e *Emulator) Terminate() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.terminated {
		return nil
	}

	_, err := e.do(NewQuitAction())
	if err != nil && !isShutdownRace(err) {
		return err
	}

	e.terminated = true
	e.cfg.Metrics.sessionEnded()
	e.logger.Debug("terminal client terminated")

	if err := e.transport.Close(); err != nil {
		e.logger.Debug("transport close failed", "error", err)
		return err
	}
	return nil
}

// isShutdownRace reports whether err is a transport failure caused by the
// emulator going away while Quit was in flight.
func isShutdownRace(err error) bool {
	switch {
	case errors.Is(err, syscall.EPIPE),
		errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, io.EOF),
		errors.Is(err, io.ErrClosedPipe),
		errors.Is(err, net.ErrClosed),
		errors.Is(err, os.ErrClosed),
		errors.Is(err, ErrNotConnected):
		return true
	}
	// wc3270 closes its script socket before the reply can be read.
	return strings.Contains(err.Error(), "forcibly closed")
}

// IsConnected refreshes the status and reports whether the emulator is
// connected to a host. A transport that was never connected reports false.
func (e *Emulator) IsConnected() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, err := e.do(NewQueryConnectionStateAction())
	if errors.Is(err, ErrNotConnected) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return e.status.Connected(), nil
}

// Connect connects to host. Transports implementing Connector may connect
// on their own, in which case no Connect() command is sent.
func (e *Emulator) Connect(host string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.connect(host)
}

func (e *Emulator) connect(host string) error {
	if e.terminated {
		return &TerminatedError{}
	}

	if c, ok := e.transport.(Connector); ok {
		connected, err := c.Connect(host)
		if err != nil {
			return err
		}
		if connected {
			e.lastHost = host
			return nil
		}
	}

	if _, err := e.do(NewConnectAction(host)); err != nil {
		return err
	}
	e.lastHost = host
	return nil
}

// Reconnect disconnects and connects again to the last host.
func (e *Emulator) Reconnect() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.terminated {
		return &TerminatedError{}
	}
	if e.lastHost == "" {
		return ErrNoHost
	}

	if _, err := e.do(NewDisconnectAction()); err != nil {
		return err
	}
	return e.connect(e.lastHost)
}

// WaitForField waits until the screen is ready, the cursor is positioned on
// a modifiable field and the keyboard is unlocked.
//
// The server may unlock the keyboard before the screen is ready; reading or
// writing then leaves the keyboard in the E state. Waiting for an input
// field avoids that.
func (e *Emulator) WaitForField() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.do(NewWaitInputFieldAction(e.waitSeconds())); err != nil {
		return err
	}
	if !e.status.KeyboardUnlocked() {
		return &KeyboardStateError{State: e.status.Keyboard}
	}
	return nil
}

func (e *Emulator) waitSeconds() int {
	return int(math.Ceil(e.cfg.Timeout.Seconds()))
}

// MoveTo moves the cursor. Coordinates are 1-based, as shown in the status
// area of the terminal.
func (e *Emulator) MoveTo(row, col int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.moveTo(row, col)
}

func (e *Emulator) moveTo(row, col int) error {
	_, err := e.do(NewMoveCursorAction(row-1, col-1))
	return err
}

// SendString types text at the current cursor position.
func (e *Emulator) SendString(text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sendString(text)
}

// SendStringAt moves to the 1-based row and col, then types text.
func (e *Emulator) SendStringAt(text string, row, col int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.moveTo(row, col); err != nil {
		return err
	}
	return e.sendString(text)
}

func (e *Emulator) sendString(text string) error {
	_, err := e.do(NewStringAction(text, e.cfg.QuoteEscaping))
	return err
}

// StringGet reads length characters at the 1-based row and col.
func (e *Emulator) StringGet(row, col, length int) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stringGet(row, col, length)
}

func (e *Emulator) stringGet(row, col, length int) (string, error) {
	cmd, err := e.do(NewAsciiAction(row-1, col-1, length))
	if err != nil {
		return "", err
	}
	if len(cmd.Data) != 1 {
		return "", newDataLineCountError(cmd.Data)
	}
	return cmd.Data[0], nil
}

// StringFound reports whether text is on screen at the 1-based row and col.
func (e *Emulator) StringFound(row, col int, text string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	found, err := e.stringGet(row, col, utf8.RuneCountInString(text))
	if err != nil {
		return false, err
	}
	e.logger.Debug("string_found saw", "text", found)
	return found == text, nil
}

// FillField clears the field at the cursor and types text into it. It
// fails with a *FieldTruncateError, without sending anything, when text is
// longer than length.
func (e *Emulator) FillField(text string, length int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.fillField(text, length, nil)
}

// FillFieldAt is FillField after moving to the 1-based row and col.
func (e *Emulator) FillFieldAt(row, col int, text string, length int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.fillField(text, length, func() error { return e.moveTo(row, col) })
}

func (e *Emulator) fillField(text string, length int, move func() error) error {
	if utf8.RuneCountInString(text) > length {
		return &FieldTruncateError{Limit: length, Text: text}
	}
	if move != nil {
		if err := move(); err != nil {
			return err
		}
	}
	if _, err := e.do(NewDeleteFieldAction()); err != nil {
		return err
	}
	return e.sendString(text)
}

// DeleteField clears the field under the cursor and moves the cursor to
// its start.
func (e *Emulator) DeleteField() error {
	_, err := e.Do(NewDeleteFieldAction())
	return err
}

// SendEnter presses Enter.
func (e *Emulator) SendEnter() error {
	_, err := e.Do(NewEnterAction())
	return err
}

// SendPF presses program function key n.
func (e *Emulator) SendPF(n int) error {
	_, err := e.Do(NewPFAction(n))
	return err
}

// SendPA presses program attention key n.
func (e *Emulator) SendPA(n int) error {
	_, err := e.Do(NewPAAction(n))
	return err
}

// Clear presses Clear.
func (e *Emulator) Clear() error {
	_, err := e.Do(NewClearAction())
	return err
}

// Tab moves to the next input field.
func (e *Emulator) Tab() error {
	_, err := e.Do(NewTabAction())
	return err
}

// EraseEOF erases from the cursor to the end of the field.
func (e *Emulator) EraseEOF() error {
	_, err := e.Do(NewEraseEOFAction())
	return err
}

// Disconnect drops the host connection without terminating the emulator.
func (e *Emulator) Disconnect() error {
	_, err := e.Do(NewDisconnectAction())
	return err
}

// SaveScreen writes the screen as HTML to path.
func (e *Emulator) SaveScreen(path string) error {
	_, err := e.Do(NewPrintTextAction(path))
	return err
}
