package x3270protocol

import (
	"bufio"
	"errors"
	"io"
	"runtime"
	"sync"
)

// Transport is a byte stream to the emulator's scripting interface.
//
// Implementations are not safe for concurrent use; an Emulator owns its
// Transport exclusively.
type Transport interface {
	// Write sends raw bytes. The caller adds the trailing newline.
	Write(p []byte) (int, error)

	// ReadLine blocks until the next newline-terminated line is available
	// and returns it including its line ending.
	ReadLine() (string, error)

	// Close releases the stream and any process behind it.
	Close() error
}

// Connector is implemented by transports that establish the host
// connection themselves. Connect returns true when no Connect() command
// needs to be sent afterwards.
type Connector interface {
	Connect(host string) (bool, error)
}

// TransportConfig selects and configures a Transport.
type TransportConfig struct {
	// Visible selects the windowed emulator (x3270/wc3270) instead of the
	// headless one (s3270/ws3270).
	Visible bool

	// GOOS overrides runtime.GOOS for executable selection.
	GOOS string

	// Executable overrides the emulator binary name or path.
	Executable string

	// Args overrides the arguments returned by DefaultArgs.
	Args []string

	// ScriptPort is the wc3270 script port. Zero means DefaultScriptPort.
	ScriptPort int
}

// executable returns the binary selected by the configuration.
func (c TransportConfig) executable() string {
	if c.Executable != "" {
		return c.Executable
	}
	goos := c.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}
	switch {
	case goos == "windows" && c.Visible:
		return ExecutableWC3270
	case goos == "windows":
		return ExecutableWS3270
	case c.Visible:
		return ExecutableX3270
	default:
		return ExecutableS3270
	}
}

// args returns the arguments for the selected binary.
func (c TransportConfig) args(executable string) []string {
	if c.Args != nil {
		return c.Args
	}
	return DefaultArgs(baseName(executable))
}

// usesScriptPort reports whether the selected binary is driven over its
// script port rather than stdin/stdout.
func (c TransportConfig) usesScriptPort() bool {
	return baseName(c.executable()) == ExecutableWC3270
}

// NewTransport creates the Transport selected by cfg. Process-backed
// transports start their emulator immediately; the wc3270 socket transport
// starts it on Connect.
func NewTransport(cfg TransportConfig) (Transport, error) {
	if cfg.usesScriptPort() {
		return NewSocketTransport(cfg), nil
	}
	return StartProcessTransport(cfg)
}

// StreamTransport adapts an io.Reader/io.Writer pair into a Transport.
type StreamTransport struct {
	mu     sync.Mutex
	reader *bufio.Reader
	writer io.Writer
	closer io.Closer
}

// Compile-time interface verification.
var _ Transport = (*StreamTransport)(nil)

// NewStreamTransport creates a Transport over r and w. If w also implements
// io.Closer it is closed by Close.
func NewStreamTransport(r io.Reader, w io.Writer) *StreamTransport {
	t := &StreamTransport{
		reader: bufio.NewReader(r),
		writer: w,
	}
	if c, ok := w.(io.Closer); ok {
		t.closer = c
	}
	return t
}

// Write implements Transport.
func (t *StreamTransport) Write(p []byte) (int, error) {
	return t.writer.Write(p)
}

// ReadLine implements Transport.
func (t *StreamTransport) ReadLine() (string, error) {
	return readLine(t.reader)
}

// Close implements Transport.
func (t *StreamTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closer == nil {
		return nil
	}
	err := t.closer.Close()
	t.closer = nil
	return err
}

// readLine reads one line from r. A final line without a newline is
// returned without error; io.EOF is only reported once nothing is left.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return line, nil
		}
		return line, err
	}
	return line, nil
}
