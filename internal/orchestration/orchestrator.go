package orchestration

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"

	"github.com/imamik/dwhprov/internal/config"
	awsplatform "github.com/imamik/dwhprov/internal/platform/aws"
	"github.com/imamik/dwhprov/internal/provisioning"
	"github.com/imamik/dwhprov/internal/provisioning/access"
	"github.com/imamik/dwhprov/internal/provisioning/availability"
	"github.com/imamik/dwhprov/internal/provisioning/cluster"
	"github.com/imamik/dwhprov/internal/provisioning/identity"
	"github.com/imamik/dwhprov/internal/util/retry"
)

// Store loads and persists the provisioning document.
type Store interface {
	Load() (*config.ProvisioningConfig, error)
	Save(cfg *config.ProvisioningConfig) error
}

// ClientFactory builds the AWS clients for a region.
type ClientFactory func(ctx context.Context, region, accessKey, secretKey string) (*awsplatform.Clients, error)

// Orchestrator runs one provisioning pass from inputs to saved document.
type Orchestrator struct {
	store      Store
	newClients ClientFactory
	observer   provisioning.Observer
	metrics    provisioning.Metrics
	clock      availability.Clock
	maxWait    time.Duration
	maxPolls   int
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithClientFactory replaces the AWS client constructor.
func WithClientFactory(f ClientFactory) Option {
	return func(o *Orchestrator) {
		o.newClients = f
	}
}

// WithObserver sets where progress is reported.
func WithObserver(obs provisioning.Observer) Option {
	return func(o *Orchestrator) {
		o.observer = obs
	}
}

// WithMetrics sets the run metrics sink.
func WithMetrics(m provisioning.Metrics) Option {
	return func(o *Orchestrator) {
		o.metrics = m
	}
}

// WithClock replaces the clock used for waiting and retry backoff.
func WithClock(c availability.Clock) Option {
	return func(o *Orchestrator) {
		o.clock = c
	}
}

// WithMaxWait overrides wait.max_wait from the document for this run.
func WithMaxWait(d time.Duration) Option {
	return func(o *Orchestrator) {
		o.maxWait = d
	}
}

// WithMaxPolls overrides wait.max_polls from the document for this run.
func WithMaxPolls(n int) Option {
	return func(o *Orchestrator) {
		o.maxPolls = n
	}
}

// New creates an orchestrator that reads and writes the document through store.
func New(store Store, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		store:      store,
		newClients: awsplatform.NewClients,
		observer:   provisioning.NewLogrObserver(logr.Discard()),
		metrics:    provisioning.NopMetrics{},
		clock:      availability.RealClock(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run provisions the role, cluster and network access described by the
// document and saves the derived fields. The returned state is non-nil
// whenever phases ran, including on failure.
func (o *Orchestrator) Run(ctx context.Context, inputs config.Inputs) (*provisioning.State, error) {
	if err := inputs.Validate(); err != nil {
		return nil, err
	}

	cfg, err := o.store.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.ResolveSecrets(inputs); err != nil {
		return nil, err
	}

	pCtx := provisioning.NewContext(ctx, cfg, inputs, o.observer)
	pCtx.Metrics = o.metrics
	if o.maxWait > 0 {
		pCtx.Timeouts.MaxWait = o.maxWait
	}
	if o.maxPolls > 0 {
		pCtx.Timeouts.MaxPolls = o.maxPolls
	}

	clients, err := o.newClients(ctx, cfg.Redshift.Region, inputs.AccessKey, inputs.SecretKey)
	if err != nil {
		return nil, err
	}

	if err := provisioning.RunPhases(pCtx, o.phases(clients, pCtx.Timeouts)); err != nil {
		return pCtx.State, err
	}

	if err := o.store.Save(cfg); err != nil {
		return pCtx.State, fmt.Errorf("failed to save provisioning document: %w", err)
	}
	o.observer.Printf("Saved provisioning document with endpoint %s", cfg.Redshift.Endpoint)

	return pCtx.State, nil
}

func (o *Orchestrator) phases(clients *awsplatform.Clients, t *config.Timeouts) []provisioning.Phase {
	retryOpts := []retry.Option{
		retry.WithMaxRetries(t.RetryMaxAttempts),
		retry.WithInitialDelay(t.RetryInitialDelay),
		retry.WithSleep(o.clock.Sleep),
	}

	return []provisioning.Phase{
		provisioning.NewValidationPhase(),
		identity.NewProvisioner(clients.IAM, identity.WithRetryOptions(retryOpts...)),
		cluster.NewProvisioner(clients.Redshift, cluster.WithRetryOptions(retryOpts...)),
		availability.NewWaiter(clients.Redshift,
			availability.WithClock(o.clock),
			availability.WithTimeouts(t),
			availability.WithRetryOptions(retryOpts...)),
		access.NewManager(clients.EC2, access.WithRetryOptions(retryOpts...)),
	}
}
