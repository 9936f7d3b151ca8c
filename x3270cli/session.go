// =============================================================================
// session.go - Emulator Session and Metrics Endpoint
// =============================================================================
//
// Starts the emulator the settings ask for and wraps it in an
// x3270protocol.Emulator. Executable discovery (next to the CLI binary, then
// PATH, then common install locations) lives in the library's
// FindExecutable, so the CLI only decides WHICH emulator to run.
//
// Unlike a script, the CLI owns exactly one session and terminates it on
// exit, so there is no "connect to an already running emulator" path.
//
// =============================================================================

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tn3270/x3270-go/x3270protocol"
)

const (
	// historyFileName is the REPL history file, relative to the home directory.
	historyFileName = ".x3270_history"

	// metricsPath is where the Prometheus handler is mounted.
	metricsPath = "/metrics"
)

// openSession starts the emulator transport and returns a session over it.
// Collectors for the session are registered with reg.
func openSession(s settings, logger *slog.Logger, reg prometheus.Registerer) (*x3270protocol.Emulator, error) {
	t, err := x3270protocol.NewTransport(s.transport)
	if err != nil {
		return nil, fmt.Errorf("failed to start emulator: %w", err)
	}

	if p, ok := t.(*x3270protocol.ProcessTransport); ok {
		logger.Info("emulator started", "pid", p.Pid())
	}

	return x3270protocol.NewEmulator(t, x3270protocol.Config{
		Timeout:       s.timeout,
		QuoteEscaping: s.escaping,
		Logger:        logger,
		Metrics:       x3270protocol.NewMetrics(reg),
	}), nil
}

// metricsHandler serves the collectors registered with reg.
func metricsHandler(reg *prometheus.Registry) http.Handler {
	mux := http.NewServeMux()
	mux.Handle(metricsPath, promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	return mux
}

// startMetricsServer serves metrics on addr in the background. Listen
// failures are logged rather than fatal; the REPL is still useful without
// metrics.
func startMetricsServer(addr string, reg *prometheus.Registry, logger *slog.Logger) *http.Server {
	srv := &http.Server{Addr: addr, Handler: metricsHandler(reg)}

	go func() {
		logger.Info("serving metrics", "addr", addr, "path", metricsPath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "addr", addr, "error", err)
		}
	}()

	return srv
}

// historyPath returns the REPL history file in the home directory.
func historyPath() string {
	return filepath.Join(homeDir(), historyFileName)
}

// homeDir returns the current user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}
