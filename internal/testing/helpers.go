package testing

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/imamik/dwhprov/internal/provisioning"
)

// TestContext returns a context with a reasonable timeout for tests.
func TestContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// FakeClock advances virtual time on Sleep instead of blocking.
type FakeClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
}

// NewFakeClock creates a clock starting at start.
func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{now: start}
}

// Now returns the current virtual time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Sleep records d and advances the clock. It fails only if ctx is already done.
func (c *FakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
	return nil
}

// Sleeps returns every duration passed to Sleep, in order.
func (c *FakeClock) Sleeps() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.sleeps...)
}

// RecordingObserver is a provisioning.Observer that keeps every event and message.
type RecordingObserver struct {
	mu       sync.Mutex
	Events   []provisioning.Event
	Messages []string
}

// NewRecordingObserver creates an empty observer.
func NewRecordingObserver() *RecordingObserver {
	return &RecordingObserver{}
}

// Printf records the format string.
func (o *RecordingObserver) Printf(format string, _ ...any) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Messages = append(o.Messages, format)
}

// Event records the event.
func (o *RecordingObserver) Event(event provisioning.Event) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Events = append(o.Events, event)
}

// WithFields returns the same observer; fields are not tracked.
func (o *RecordingObserver) WithFields(_ map[string]string) provisioning.Observer {
	return o
}

// EventsOfType returns recorded events with the given type.
func (o *RecordingObserver) EventsOfType(t provisioning.EventType) []provisioning.Event {
	o.mu.Lock()
	defer o.mu.Unlock()
	var out []provisioning.Event
	for _, e := range o.Events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}
