// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command definitions
// in the commands package. Handlers are framework-agnostic and can be tested
// independently of the CLI framework.
package handlers

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/imamik/dwhprov/internal/config"
	"github.com/imamik/dwhprov/internal/metrics"
	"github.com/imamik/dwhprov/internal/orchestration"
	"github.com/imamik/dwhprov/internal/provisioning"
	"github.com/imamik/dwhprov/internal/ui/summary"
)

// ApplyOptions holds the apply command flags.
type ApplyOptions struct {
	ConfigPath  string
	MaxWait     time.Duration
	MaxPolls    int
	MetricsFile string
	LogFormat   string
}

// Runner interface for testing - matches orchestration.Orchestrator.
type Runner interface {
	Run(ctx context.Context, inputs config.Inputs) (*provisioning.State, error)
}

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// lookupEnv reads the process environment.
	lookupEnv = os.LookupEnv

	// stdout receives the run summary.
	stdout io.Writer = os.Stdout

	// newObserver creates the progress logger for format.
	newObserver = func(format string) provisioning.Observer {
		return provisioning.NewConsoleObserver(os.Stderr, provisioning.DetectLogFormat(os.Stderr.Fd(), format))
	}

	// newRunner creates the provisioning orchestrator.
	newRunner = func(store orchestration.Store, opts ...orchestration.Option) Runner {
		return orchestration.New(store, opts...)
	}
)

// Apply provisions the warehouse described by the document at opts.ConfigPath.
//
// The workflow is:
//  1. Reads AWS_KEY, AWS_SECRET, IPV4_ADDRESS and DWH_DB_PASSWORD from the environment
//  2. Runs the orchestrator (role, cluster, wait, ingress) and saves the document
//  3. Prints a summary of created resources and warnings
//  4. Writes run metrics if --metrics-file is set, even when the run failed
func Apply(ctx context.Context, opts ApplyOptions) error {
	start := time.Now()
	inputs := config.InputsFromEnv(lookupEnv)
	store := config.NewFileStore(opts.ConfigPath)
	recorder := metrics.NewRecorder()
	observer := newObserver(logFormat(opts.LogFormat))

	runner := newRunner(store,
		orchestration.WithObserver(observer),
		orchestration.WithMetrics(recorder),
		orchestration.WithMaxWait(opts.MaxWait),
		orchestration.WithMaxPolls(opts.MaxPolls),
	)

	state, runErr := runner.Run(ctx, inputs)

	report := summary.Report{State: state, Err: runErr, Elapsed: time.Since(start)}
	if cfg, err := store.Load(); err == nil {
		report.Config = cfg
	}
	fmt.Fprint(stdout, summary.Render(report))

	if opts.MetricsFile != "" {
		if err := recorder.WriteTextfile(opts.MetricsFile); err != nil {
			observer.Printf("Warning: %v", err)
		}
	}

	if runErr != nil {
		return fmt.Errorf("apply failed: %w", runErr)
	}
	return nil
}

// logFormat returns the flag value, falling back to DWHPROV_LOG_FORMAT.
func logFormat(flag string) string {
	if flag != "" {
		return flag
	}
	v, _ := lookupEnv(config.EnvLogFormat)
	return v
}
