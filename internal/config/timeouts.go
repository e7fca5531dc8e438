package config

import "time"

// Defaults for the availability wait loop and API retries.
const (
	DefaultPollInterval      = 60 * time.Second
	DefaultMaxWait           = 90 * time.Minute
	DefaultRetryMaxAttempts  = 5
	DefaultRetryInitialDelay = 1 * time.Second
)

// Timeouts holds the resolved wait and retry settings for one run.
type Timeouts struct {
	PollInterval      time.Duration // Base interval; poll n waits PollInterval * 2^n
	MaxWait           time.Duration // Total time allowed for the cluster to become available
	MaxPolls          int           // Maximum number of status checks, 0 for no limit
	RetryMaxAttempts  int           // Retries for throttled API calls
	RetryInitialDelay time.Duration // Initial delay between throttled retries
}

// Timeouts resolves the wait section against the defaults.
func (c *ProvisioningConfig) Timeouts() *Timeouts {
	t := &Timeouts{
		PollInterval:      DefaultPollInterval,
		MaxWait:           DefaultMaxWait,
		MaxPolls:          c.Wait.MaxPolls,
		RetryMaxAttempts:  DefaultRetryMaxAttempts,
		RetryInitialDelay: DefaultRetryInitialDelay,
	}
	if c.Wait.MaxWait > 0 {
		t.MaxWait = c.Wait.MaxWait
	}
	return t
}
