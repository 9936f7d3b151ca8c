// =============================================================================
// fakeemulator_test.go - In-Memory Emulator for CLI Tests
// =============================================================================
//
// fakeEmulator answers scripting commands over a pair of io.Pipes, so CLI
// tests drive a real x3270protocol.Emulator without starting s3270. Each
// command line the client writes is passed to a handler, whose returned
// lines are written back as the response.
//
// =============================================================================

package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/tn3270/x3270-go/x3270protocol"
)

const (
	statusConnected    = "U F U C(mainframe) I 4 24 80 0 0 0x0 -"
	statusDisconnected = "U U U N N 4 24 80 0 0 0x0 -"
	statusLocked       = "L F U C(mainframe) I 4 24 80 0 0 0x0 -"
)

// fakeEmulator records the commands it received.
type fakeEmulator struct {
	mu       sync.Mutex
	commands []string
	done     chan struct{}
}

// reply builds the response lines for one command.
func reply(status, result string, data ...string) []string {
	lines := make([]string, 0, len(data)+2)
	for _, d := range data {
		lines = append(lines, "data: "+d)
	}
	return append(lines, status, result)
}

// defaultFakeHandler behaves like s3270 connected to a host whose screen
// shows "HELLO" everywhere.
func defaultFakeHandler(cmd string) []string {
	switch {
	case cmd == x3270protocol.QuitCommand:
		return []string{"", ""}
	case strings.HasPrefix(cmd, "Ascii("):
		return reply(statusConnected, "ok", "HELLO")
	case cmd == "Disconnect":
		return reply(statusDisconnected, "ok")
	case cmd == "Bogus":
		return reply(statusConnected, "error", "Unknown action: Bogus")
	default:
		return reply(statusConnected, "ok")
	}
}

// startFakeEmulator returns an Emulator wired to a fake answering with
// handler. The emulator is terminated when the test ends.
func startFakeEmulator(t *testing.T, handler func(cmd string) []string) (*x3270protocol.Emulator, *fakeEmulator) {
	t.Helper()

	cmdR, cmdW := io.Pipe()
	respR, respW := io.Pipe()

	fake := &fakeEmulator{done: make(chan struct{})}
	go func() {
		defer close(fake.done)
		defer respW.Close()

		scanner := bufio.NewScanner(cmdR)
		for scanner.Scan() {
			cmd := scanner.Text()
			fake.mu.Lock()
			fake.commands = append(fake.commands, cmd)
			fake.mu.Unlock()

			for _, line := range handler(cmd) {
				if _, err := fmt.Fprintf(respW, "%s\n", line); err != nil {
					return
				}
			}
		}
	}()

	em := x3270protocol.NewEmulator(x3270protocol.NewStreamTransport(respR, cmdW), x3270protocol.Config{})
	t.Cleanup(func() {
		em.Terminate()
		cmdW.Close()
		<-fake.done
	})

	return em, fake
}

// received returns a copy of the commands received so far.
func (f *fakeEmulator) received() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.commands...)
}
