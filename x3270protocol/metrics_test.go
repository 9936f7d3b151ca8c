package x3270protocol

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsRecordCommands(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)

	tr := newScriptedTransport(func(cmd string) []string {
		switch cmd {
		case "Enter":
			return response(testStatusConnected, ResultOK)
		case "PF(3)":
			return response(testStatusConnected, ResultError, "locked")
		case QuitCommand:
			return []string{"\n", "\n"}
		default:
			return response(testStatusConnected, "what")
		}
	})
	em := NewEmulator(tr, Config{Metrics: metrics})

	if got := testutil.ToFloat64(metrics.ActiveSessions); got != 1 {
		t.Errorf("ActiveSessions = %v, want 1", got)
	}

	em.SendEnter()
	em.SendEnter()
	em.SendPF(3)
	em.Exec("Bogus(1)")

	tests := []struct {
		action string
		result string
		want   float64
	}{
		{"Enter", resultLabelOK, 2},
		{"PF", resultLabelError, 1},
		{actionLabelRaw, resultLabelProtocol, 1},
	}
	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			got := testutil.ToFloat64(metrics.CommandsTotal.WithLabelValues(tt.action, tt.result))
			if got != tt.want {
				t.Errorf("commands_total{%s,%s} = %v, want %v", tt.action, tt.result, got, tt.want)
			}
		})
	}

	if n := testutil.CollectAndCount(metrics.CommandDuration); n != 3 {
		t.Errorf("duration series = %d, want 3", n)
	}

	if err := em.Terminate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := testutil.ToFloat64(metrics.ActiveSessions); got != 0 {
		t.Errorf("ActiveSessions = %v, want 0", got)
	}
}

// TestMetricsRawActionsShareOneLabel verifies that free-form command lines
// do not create a series each, while modelled actions keep their own name.
func TestMetricsRawActionsShareOneLabel(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	em := NewEmulator(newScriptedTransport(nil), Config{Metrics: metrics})

	for _, line := range []string{"a1", "b2", "c3", "PF(1)", "PF(2)"} {
		em.Exec(line)
	}
	em.Do(NewRawAction("Home"))

	if n := testutil.CollectAndCount(metrics.CommandDuration); n != 2 {
		t.Errorf("duration series = %d, want 2", n)
	}

	tests := []struct {
		action string
		want   float64
	}{
		{actionLabelRaw, 4},
		{"PF", 2},
	}
	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			var total float64
			for _, result := range []string{resultLabelOK, resultLabelError, resultLabelProtocol, resultLabelTransport} {
				total += testutil.ToFloat64(metrics.CommandsTotal.WithLabelValues(tt.action, result))
			}
			if total != tt.want {
				t.Errorf("commands_total{action=%q} = %v, want %v", tt.action, total, tt.want)
			}
		})
	}
}

func TestActionLabel(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Enter", "Enter"},
		{"MoveCursor", "MoveCursor"},
		{"Query", "Query"},
		{"Home", actionLabelRaw},
		{"unknown", actionLabelRaw},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := actionLabel(tt.name); got != tt.want {
				t.Errorf("actionLabel(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.observeCommand("Enter", nil, 0)
	m.sessionStarted()
	m.sessionEnded()
}
