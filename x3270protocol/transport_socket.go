package x3270protocol

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os/exec"
	"strconv"
	"strings"
	"syscall"
	"time"

	"golang.org/x/time/rate"
)

// SocketTransport drives wc3270, which only accepts scripts on a TCP port.
// The emulator is started by Connect with the host on its command line, so
// no Connect() command has to be sent afterwards.
type SocketTransport struct {
	cfg  TransportConfig
	port int

	conn   net.Conn
	reader *bufio.Reader
	proc   *exec.Cmd

	// launch starts the emulator; replaced in tests.
	launch func(host string) (*exec.Cmd, error)

	attempts int
	interval time.Duration
}

// Compile-time interface verification.
var (
	_ Transport = (*SocketTransport)(nil)
	_ Connector = (*SocketTransport)(nil)
)

// NewSocketTransport creates an unconnected wc3270 transport.
func NewSocketTransport(cfg TransportConfig) *SocketTransport {
	port := cfg.ScriptPort
	if port == 0 {
		port = DefaultScriptPort
	}
	t := &SocketTransport{
		cfg:      cfg,
		port:     port,
		attempts: ScriptPortDialAttempts,
		interval: ScriptPortDialInterval,
	}
	t.launch = t.launchEmulator
	return t
}

// Address returns the script port address the transport dials.
func (t *SocketTransport) Address() string {
	return net.JoinHostPort("127.0.0.1", strconv.Itoa(t.port))
}

// Connect implements Connector. It starts wc3270 for host and dials its
// script port.
func (t *SocketTransport) Connect(host string) (bool, error) {
	return t.ConnectContext(context.Background(), host)
}

// ConnectContext is Connect with a context bounding the dial loop.
func (t *SocketTransport) ConnectContext(ctx context.Context, host string) (bool, error) {
	if t.conn != nil {
		t.conn.Close()
		t.conn = nil
		t.reader = nil
	}
	t.releaseProcess()

	proc, err := t.launch(host)
	if err != nil {
		return false, err
	}
	t.proc = proc

	conn, err := t.dial(ctx)
	if err != nil {
		t.releaseProcess()
		return false, err
	}
	t.conn = conn
	t.reader = bufio.NewReader(conn)
	return true, nil
}

func (t *SocketTransport) launchEmulator(host string) (*exec.Cmd, error) {
	exePath, err := FindExecutable(t.cfg.executable())
	if err != nil {
		return nil, err
	}

	args := []string{"/C", "start", "/wait", exePath}
	args = append(args, t.cfg.args(exePath)...)
	args = append(args, "-scriptport", strconv.Itoa(t.port), host)

	cmd := exec.Command("cmd", args...)
	if err := cmd.Start(); err != nil {
		return nil, NewConnectionError(fmt.Sprintf("failed to launch %s", exePath), err)
	}
	return cmd, nil
}

// dial connects to the script port, retrying while the emulator is still
// starting up and refuses connections. Attempts are paced by a limiter.
func (t *SocketTransport) dial(ctx context.Context) (net.Conn, error) {
	limiter := rate.NewLimiter(rate.Every(t.interval), 1)
	var d net.Dialer
	var lastErr error

	for attempt := 0; attempt < t.attempts; attempt++ {
		if err := limiter.Wait(ctx); err != nil {
			return nil, NewConnectionError("script port dial cancelled", err)
		}
		conn, err := d.DialContext(ctx, "tcp", t.Address())
		if err == nil {
			return conn, nil
		}
		if !isConnectionRefused(err) {
			return nil, NewConnectionError("failed to dial script port", err)
		}
		lastErr = err
	}

	return nil, NewConnectionError(fmt.Sprintf("script port %s refused %d attempts", t.Address(), t.attempts), lastErr)
}

// Write implements Transport.
func (t *SocketTransport) Write(p []byte) (int, error) {
	if t.conn == nil {
		return 0, ErrNotConnected
	}
	return t.conn.Write(p)
}

// ReadLine implements Transport.
func (t *SocketTransport) ReadLine() (string, error) {
	if t.reader == nil {
		return "", ErrNotConnected
	}
	return readLine(t.reader)
}

// Close implements Transport.
func (t *SocketTransport) Close() error {
	var err error
	if t.conn != nil {
		err = t.conn.Close()
		t.conn = nil
		t.reader = nil
	}
	t.releaseProcess()
	return err
}

// releaseProcess drops the handle on the launched wc3270. It exits on Quit;
// waiting here could block on a window the user keeps open.
func (t *SocketTransport) releaseProcess() {
	if t.proc != nil && t.proc.Process != nil {
		t.proc.Process.Release()
	}
	t.proc = nil
}

func isConnectionRefused(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	// Windows reports WSAECONNREFUSED, which does not match ECONNREFUSED.
	return strings.Contains(err.Error(), "refused")
}
