package provisioning

import (
	"context"

	"github.com/imamik/dwhprov/internal/config"
)

// Context wraps all dependencies and state needed for a provisioning phase.
type Context struct {
	context.Context
	Config   *config.ProvisioningConfig
	Inputs   config.Inputs
	State    *State
	Observer Observer
	Metrics  Metrics
	Timeouts *config.Timeouts
}

// NewContext creates a new provisioning context.
func NewContext(ctx context.Context, cfg *config.ProvisioningConfig, inputs config.Inputs, observer Observer) *Context {
	return &Context{
		Context:  ctx,
		Config:   cfg,
		Inputs:   inputs,
		State:    NewState(),
		Observer: observer,
		Metrics:  NopMetrics{},
		Timeouts: cfg.Timeouts(),
	}
}
