// =============================================================================
// session_test.go - Tests for Session Setup and Metrics (session.go)
// =============================================================================

package main

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/tn3270/x3270-go/x3270protocol"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOpenSessionMissingExecutable(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	s := resolveSettings(arguments{executable: "no-such-emulator-3270"}, fileConfig{})
	_, err := openSession(s, discardLogger(), prometheus.NewRegistry())
	if !errors.Is(err, x3270protocol.ErrExecutableNotFound) {
		t.Fatalf("err = %v, want ErrExecutableNotFound", err)
	}
	if !strings.Contains(err.Error(), "failed to start emulator") {
		t.Errorf("error %q lacks context", err.Error())
	}
}

// TestOpenSessionScriptPort uses the wc3270 configuration, which starts
// nothing until Connect, so the session can be opened on any platform.
func TestOpenSessionScriptPort(t *testing.T) {
	s := resolveSettings(arguments{timeout: 12 * time.Second}, fileConfig{})
	s.transport.GOOS = "windows"
	s.transport.Visible = true

	reg := prometheus.NewRegistry()
	em, err := openSession(s, discardLogger(), reg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if em.Timeout() != s.timeout {
		t.Errorf("Timeout() = %v, want %v", em.Timeout(), s.timeout)
	}
	if em.ID() == "" {
		t.Error("session should have an id")
	}

	connected, err := em.IsConnected()
	if err != nil {
		t.Fatalf("IsConnected: %v", err)
	}
	if connected {
		t.Error("unconnected script-port session reported connected")
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	found := false
	for _, mf := range families {
		if mf.GetName() == "x3270_active_sessions" {
			found = true
		}
	}
	if !found {
		t.Error("session metrics not registered")
	}
}

func TestMetricsHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := x3270protocol.NewMetrics(reg)
	em := x3270protocol.NewEmulator(
		x3270protocol.NewStreamTransport(strings.NewReader(statusConnected+"\nok\n"), io.Discard),
		x3270protocol.Config{Metrics: metrics},
	)
	if err := em.SendEnter(); err != nil {
		t.Fatalf("SendEnter: %v", err)
	}

	srv := httptest.NewServer(metricsHandler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL + metricsPath)
	if err != nil {
		t.Fatalf("GET %s: %v", metricsPath, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	for _, want := range []string{
		`x3270_commands_total{action="Enter",result="ok"} 1`,
		"x3270_active_sessions 1",
		"x3270_command_duration_seconds_bucket",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %q", want)
		}
	}

	resp404, err := http.Get(srv.URL + "/other")
	if err != nil {
		t.Fatalf("GET /other: %v", err)
	}
	resp404.Body.Close()
	if resp404.StatusCode != http.StatusNotFound {
		t.Errorf("status for /other = %d, want 404", resp404.StatusCode)
	}
}

func TestHomeDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	if got := homeDir(); got != home {
		t.Errorf("homeDir() = %q, want %q", got, home)
	}
	if got := defaultConfigPath(); got != filepath.Join(home, configFileName) {
		t.Errorf("defaultConfigPath() = %q", got)
	}
}
