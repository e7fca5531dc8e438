package aws

import (
	"context"

	"github.com/imamik/dwhprov/internal/util/retry"
)

// Call runs op with exponential backoff, retrying only throttled responses.
// Any other error is returned unwrapped on the first attempt so callers can
// classify it with IsAlreadyExists, IsNotFound and friends.
func Call(ctx context.Context, op func(context.Context) error, opts ...retry.Option) error {
	var last error
	err := retry.WithExponentialBackoff(ctx, func() error {
		last = op(ctx)
		if last != nil && !IsThrottled(last) {
			return retry.Fatal(last)
		}
		return last
	}, opts...)
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return err
	}
	return last
}
