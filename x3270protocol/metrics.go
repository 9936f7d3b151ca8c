package x3270protocol

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result labels recorded by Metrics.
const (
	resultLabelOK        = "ok"
	resultLabelError     = "error"
	resultLabelProtocol  = "protocol_error"
	resultLabelTransport = "transport_error"
)

// actionLabelRaw is the action label for every action this package does not
// model, so arbitrary Exec lines cannot grow the number of series.
const actionLabelRaw = "raw"

// actionLabels holds the names of the modelled actions.
var actionLabels = func() map[string]bool {
	labels := make(map[string]bool)
	for t := ActConnect; t < ActRaw; t++ {
		labels[Action{Type: t}.Name()] = true
	}
	return labels
}()

func actionLabel(name string) string {
	if actionLabels[name] {
		return name
	}
	return actionLabelRaw
}

// Metrics holds the Prometheus collectors updated by an Emulator. A nil
// *Metrics records nothing.
type Metrics struct {
	// CommandsTotal counts executed commands by action and result.
	CommandsTotal *prometheus.CounterVec

	// CommandDuration tracks the round-trip time of commands.
	CommandDuration *prometheus.HistogramVec

	// ActiveSessions tracks emulators that have not been terminated.
	ActiveSessions prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CommandsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "x3270_commands_total",
				Help: "Total number of scripting commands sent to the emulator",
			},
			[]string{"action", "result"},
		),
		CommandDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "x3270_command_duration_seconds",
				Help:    "Scripting command round-trip time in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30, 60},
			},
			[]string{"action"},
		),
		ActiveSessions: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "x3270_active_sessions",
				Help: "Number of emulator sessions not yet terminated",
			},
		),
	}
}

func (m *Metrics) observeCommand(action string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	action = actionLabel(action)
	m.CommandsTotal.WithLabelValues(action, resultLabel(err)).Inc()
	m.CommandDuration.WithLabelValues(action).Observe(elapsed.Seconds())
}

func (m *Metrics) sessionStarted() {
	if m == nil {
		return
	}
	m.ActiveSessions.Inc()
}

func (m *Metrics) sessionEnded() {
	if m == nil {
		return
	}
	m.ActiveSessions.Dec()
}

func resultLabel(err error) string {
	var cmdErr *CommandError
	var protoErr *ProtocolError
	switch {
	case err == nil:
		return resultLabelOK
	case errors.As(err, &cmdErr):
		return resultLabelError
	case errors.As(err, &protoErr):
		return resultLabelProtocol
	default:
		return resultLabelTransport
	}
}
