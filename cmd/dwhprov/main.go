// Package main is the entry point for the dwhprov CLI.
//
// dwhprov provisions an Amazon Redshift cluster for a data pipeline: it
// creates the service role, launches the cluster, waits for it to become
// available, opens the database port for the operator's address, and writes
// the derived connection details back to the provisioning document.
//
// Commands: apply, verify, version.
//
// For detailed usage information, run:
//
//	dwhprov --help
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/imamik/dwhprov/cmd/dwhprov/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
