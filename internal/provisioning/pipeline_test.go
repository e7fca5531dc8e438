package provisioning

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/dwhprov/internal/config"
)

type funcPhase struct {
	name string
	fn   func(*Context) error
}

func (f funcPhase) Name() string                 { return f.name }
func (f funcPhase) Provision(ctx *Context) error { return f.fn(ctx) }

func phaseFunc(name string, fn func(*Context) error) Phase {
	return funcPhase{name: name, fn: fn}
}

type stageCall struct {
	stage, result string
}

type recordingMetrics struct {
	NopMetrics
	stages []stageCall
}

func (r *recordingMetrics) ObserveStage(stage, result string, _ time.Duration) {
	r.stages = append(r.stages, stageCall{stage, result})
}

func newTestContext() (*Context, *MockObserver) {
	observer := NewMockObserver()
	ctx := NewContext(context.Background(), &config.ProvisioningConfig{}, config.Inputs{}, observer)
	return ctx, observer
}

func TestRunPhases_Success(t *testing.T) {
	t.Parallel()
	ctx, observer := newTestContext()
	var executed []string

	err := RunPhases(ctx, []Phase{
		phaseFunc("identity", func(_ *Context) error { executed = append(executed, "identity"); return nil }),
		phaseFunc("cluster", func(_ *Context) error { executed = append(executed, "cluster"); return nil }),
		phaseFunc("availability", func(_ *Context) error { executed = append(executed, "availability"); return nil }),
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"identity", "cluster", "availability"}, executed)
	assert.Equal(t, []EventType{
		EventPhaseStarted, EventPhaseCompleted,
		EventPhaseStarted, EventPhaseCompleted,
		EventPhaseStarted, EventPhaseCompleted,
	}, observer.eventTypes())
	assert.Equal(t, "identity (1/3)", observer.events[0].Phase)
}

func TestRunPhases_StopsOnError(t *testing.T) {
	t.Parallel()
	ctx, observer := newTestContext()
	metrics := &recordingMetrics{}
	ctx.Metrics = metrics
	var executed []string

	err := RunPhases(ctx, []Phase{
		phaseFunc("identity", func(_ *Context) error { executed = append(executed, "identity"); return nil }),
		phaseFunc("cluster", func(_ *Context) error { return errors.New("InvalidClusterSubnetGroupStateFault") }),
		phaseFunc("availability", func(_ *Context) error { executed = append(executed, "availability"); return nil }),
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "cluster phase failed")
	assert.Contains(t, err.Error(), "InvalidClusterSubnetGroupStateFault")
	assert.Equal(t, []string{"identity"}, executed)
	assert.Equal(t, EventPhaseFailed, observer.events[len(observer.events)-1].Type)
	assert.Equal(t, []stageCall{{"identity", ResultSuccess}, {"cluster", ResultFailure}}, metrics.stages)
}

func TestRunPhases_PreservesErrorType(t *testing.T) {
	t.Parallel()
	ctx, _ := newTestContext()
	want := &ClusterCreateError{Identifier: "dwh", Reason: "node count must be a number"}

	err := RunPhases(ctx, []Phase{
		phaseFunc("cluster", func(_ *Context) error { return want }),
	})

	var got *ClusterCreateError
	require.True(t, errors.As(err, &got))
	assert.Same(t, want, got)
}

func TestRunPhases_Empty(t *testing.T) {
	t.Parallel()
	ctx, _ := newTestContext()
	assert.NoError(t, RunPhases(ctx, nil))
}
