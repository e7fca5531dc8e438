package availability

import (
	"context"
	"time"

	"github.com/imamik/dwhprov/internal/util/retry"
)

// Clock supplies the current time and a cancellable sleep.
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	return retry.Sleep(ctx, d)
}

// RealClock returns a Clock backed by the system time.
func RealClock() Clock {
	return realClock{}
}
