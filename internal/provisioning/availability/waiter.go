package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/redshift"
	redshifttypes "github.com/aws/aws-sdk-go-v2/service/redshift/types"

	"github.com/imamik/dwhprov/internal/config"
	awsplatform "github.com/imamik/dwhprov/internal/platform/aws"
	"github.com/imamik/dwhprov/internal/provisioning"
	"github.com/imamik/dwhprov/internal/util/retry"
)

const phase = "availability"

// Interval returns the sleep after poll n with the default base interval.
func Interval(n int) time.Duration {
	return retry.Interval(config.DefaultPollInterval, n)
}

// pollFunc is called after every status check.
type pollFunc func(poll int, status string)

// Waiter polls the cluster status with exponential backoff.
type Waiter struct {
	redshift  awsplatform.RedshiftAPI
	clock     Clock
	base      time.Duration
	maxPolls  int
	maxWait   time.Duration
	retryOpts []retry.Option
}

// Option configures a Waiter.
type Option func(*Waiter)

// WithClock replaces the system clock.
func WithClock(c Clock) Option {
	return func(w *Waiter) {
		w.clock = c
	}
}

// WithTimeouts applies the poll interval and limits from t.
func WithTimeouts(t *config.Timeouts) Option {
	return func(w *Waiter) {
		if t.PollInterval > 0 {
			w.base = t.PollInterval
		}
		w.maxPolls = t.MaxPolls
		if t.MaxWait > 0 {
			w.maxWait = t.MaxWait
		}
	}
}

// WithRetryOptions sets the backoff used for throttled status requests.
func WithRetryOptions(opts ...retry.Option) Option {
	return func(w *Waiter) {
		w.retryOpts = append(w.retryOpts, opts...)
	}
}

// NewWaiter creates a waiter with the default interval and a 90 minute limit.
func NewWaiter(client awsplatform.RedshiftAPI, opts ...Option) *Waiter {
	w := &Waiter{
		redshift: client,
		clock:    RealClock(),
		base:     config.DefaultPollInterval,
		maxWait:  config.DefaultMaxWait,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Name implements the provisioning.Phase interface.
func (w *Waiter) Name() string {
	return phase
}

// Provision implements the provisioning.Phase interface.
func (w *Waiter) Provision(ctx *provisioning.Context) error {
	id := ctx.Config.Redshift.ClusterIdentifier
	ctx.Observer.Printf("[%s] Waiting for cluster %s to become available...", phase, id)

	record, err := w.wait(ctx, id, func(poll int, status string) {
		ctx.Metrics.ObservePoll(status)
		ctx.Observer.Event(provisioning.Event{
			Type:     provisioning.EventProgress,
			Phase:    phase,
			Resource: id,
			Message:  fmt.Sprintf("cluster status %s", status),
			Fields: map[string]string{
				"poll":   fmt.Sprint(poll + 1),
				"status": status,
			},
		})
	})
	if err != nil {
		return err
	}

	if ctx.State.Cluster != nil {
		record.Existed = ctx.State.Cluster.Existed
	}
	ctx.State.Cluster = record
	ctx.Config.Redshift.Endpoint = record.Endpoint
	ctx.Config.Redshift.VPCID = record.VPCID

	ctx.Observer.Printf("[%s] Cluster %s available at %s (VPC %s)", phase, id, record.Endpoint, record.VPCID)
	return nil
}

// Interval returns the sleep after poll n for this waiter.
func (w *Waiter) Interval(n int) time.Duration {
	return retry.Interval(w.base, n)
}

// Wait polls until the cluster is available. It returns a
// ClusterFailedError on a terminal status and an AvailabilityTimeoutError
// when a limit is reached or ctx is cancelled.
func (w *Waiter) Wait(ctx context.Context, identifier string) (*provisioning.ClusterRecord, error) {
	return w.wait(ctx, identifier, nil)
}

func (w *Waiter) wait(ctx context.Context, identifier string, onPoll pollFunc) (*provisioning.ClusterRecord, error) {
	start := w.clock.Now()
	lastStatus := string(provisioning.StatusCreating)

	timeout := func(polls int, err error) error {
		return &provisioning.AvailabilityTimeoutError{
			Identifier: identifier,
			LastStatus: lastStatus,
			Polls:      polls,
			Elapsed:    w.clock.Now().Sub(start),
			Err:        err,
		}
	}

	for poll := 0; ; poll++ {
		cluster, err := w.describe(ctx, identifier)
		switch {
		case err == nil:
			lastStatus = aws.ToString(cluster.ClusterStatus)
		case awsplatform.IsNotFound(err):
			lastStatus = NotFoundStatus
		case ctx.Err() != nil:
			return nil, timeout(poll, ctx.Err())
		default:
			return nil, fmt.Errorf("failed to describe cluster %s: %w", identifier, err)
		}
		if onPoll != nil {
			onPoll(poll, lastStatus)
		}

		switch Classify(lastStatus) {
		case provisioning.StatusAvailable:
			return availableRecord(identifier, cluster), nil
		case provisioning.StatusFailed:
			return nil, &provisioning.ClusterFailedError{Identifier: identifier, Status: lastStatus}
		}

		if w.maxPolls > 0 && poll+1 >= w.maxPolls {
			return nil, timeout(poll+1, nil)
		}
		remaining := w.maxWait - w.clock.Now().Sub(start)
		if remaining <= 0 {
			return nil, timeout(poll+1, nil)
		}
		delay := min(w.Interval(poll), remaining)
		if err := w.clock.Sleep(ctx, delay); err != nil {
			return nil, timeout(poll+1, err)
		}
	}
}

func (w *Waiter) describe(ctx context.Context, identifier string) (*redshifttypes.Cluster, error) {
	var out *redshift.DescribeClustersOutput
	err := awsplatform.Call(ctx, func(ctx context.Context) error {
		var callErr error
		out, callErr = w.redshift.DescribeClusters(ctx, &redshift.DescribeClustersInput{
			ClusterIdentifier: aws.String(identifier),
		})
		return callErr
	}, w.retryOpts...)
	if err != nil {
		return nil, err
	}
	if out == nil || len(out.Clusters) == 0 {
		return nil, &redshifttypes.ClusterNotFoundFault{Message: aws.String("no cluster in response")}
	}
	return &out.Clusters[0], nil
}

func availableRecord(identifier string, c *redshifttypes.Cluster) *provisioning.ClusterRecord {
	record := &provisioning.ClusterRecord{
		Identifier: identifier,
		Status:     provisioning.StatusAvailable,
		RawStatus:  aws.ToString(c.ClusterStatus),
		VPCID:      aws.ToString(c.VpcId),
	}
	if c.Endpoint != nil {
		record.Endpoint = aws.ToString(c.Endpoint.Address)
		record.Port = aws.ToInt32(c.Endpoint.Port)
	}
	return record
}
