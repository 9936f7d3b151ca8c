package x3270protocol

import (
	"bufio"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strings"
)

// ProcessTransport drives an emulator subprocess (x3270 -script, s3270 or
// ws3270) through its stdin and stdout.
type ProcessTransport struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader
}

// Compile-time interface verification.
var _ Transport = (*ProcessTransport)(nil)

// StartProcessTransport locates and starts the emulator selected by cfg.
func StartProcessTransport(cfg TransportConfig) (*ProcessTransport, error) {
	exePath, err := FindExecutable(cfg.executable())
	if err != nil {
		return nil, err
	}

	cmd := exec.Command(exePath, cfg.args(exePath)...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, NewConnectionError("failed to open stdin", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, NewConnectionError("failed to open stdout", err)
	}
	// stderr is discarded to keep the emulator's diagnostics out of the
	// protocol stream.
	cmd.Stderr = nil

	if err := cmd.Start(); err != nil {
		return nil, NewConnectionError(fmt.Sprintf("failed to launch %s", exePath), err)
	}

	return &ProcessTransport{
		cmd:    cmd,
		stdin:  stdin,
		stdout: bufio.NewReader(stdout),
	}, nil
}

// Pid returns the emulator's process id.
func (t *ProcessTransport) Pid() int {
	return t.cmd.Process.Pid
}

// Write implements Transport.
func (t *ProcessTransport) Write(p []byte) (int, error) {
	return t.stdin.Write(p)
}

// ReadLine implements Transport.
func (t *ProcessTransport) ReadLine() (string, error) {
	return readLine(t.stdout)
}

// Close implements Transport. It closes stdin, which makes the emulator
// exit, and reaps the process.
func (t *ProcessTransport) Close() error {
	if t.stdin == nil {
		return nil
	}
	t.stdin.Close()
	t.stdin = nil
	err := t.cmd.Wait()
	if _, ok := err.(*exec.ExitError); ok {
		// The emulator was stopped by Quit or by losing its stdin.
		return nil
	}
	return err
}

// baseName returns the executable name without directory or .exe suffix.
func baseName(executable string) string {
	return strings.TrimSuffix(filepath.Base(executable), ".exe")
}
