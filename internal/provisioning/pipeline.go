package provisioning

import (
	"fmt"
	"time"
)

// Stage results reported to Metrics.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// RunPhases executes all provisioning phases sequentially.
// The first error aborts the run; later phases are not started.
func RunPhases(ctx *Context, phases []Phase) error {
	start := time.Now()
	ctx.Observer.Printf("Starting provisioning with %d phases...", len(phases))

	for i, phase := range phases {
		phaseStart := time.Now()
		name := fmt.Sprintf("%s (%d/%d)", phase.Name(), i+1, len(phases))

		LogPhaseStart(ctx.Observer, name)

		if err := phase.Provision(ctx); err != nil {
			ctx.Metrics.ObserveStage(phase.Name(), ResultFailure, time.Since(phaseStart))
			LogPhaseFailed(ctx.Observer, name, err)
			return fmt.Errorf("%s phase failed: %w", phase.Name(), err)
		}

		ctx.Metrics.ObserveStage(phase.Name(), ResultSuccess, time.Since(phaseStart))
		LogPhaseComplete(ctx.Observer, name, time.Since(phaseStart))
	}

	ctx.Observer.Printf("Provisioning completed in %v", time.Since(start).Round(time.Millisecond))
	return nil
}
