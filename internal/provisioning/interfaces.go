package provisioning

import "time"

// Phase defines the interface for a provisioning phase.
type Phase interface {
	// Name returns the human-readable name of this phase.
	Name() string

	// Provision executes the provisioning logic for this phase.
	Provision(ctx *Context) error
}

// Logger is the minimal printf-style logger used by phases.
type Logger interface {
	Printf(format string, v ...any)
}

// Metrics receives run measurements. Implemented by internal/metrics.Recorder.
type Metrics interface {
	// ObserveStage records how long a phase took and whether it succeeded.
	ObserveStage(stage, result string, d time.Duration)

	// ObservePoll records one cluster status check.
	ObservePoll(status string)

	// ObserveWarning records a non-fatal stage failure.
	ObserveWarning(stage string)
}

// NopMetrics discards all measurements.
type NopMetrics struct{}

func (NopMetrics) ObserveStage(string, string, time.Duration) {}
func (NopMetrics) ObservePoll(string)                         {}
func (NopMetrics) ObserveWarning(string)                      {}
