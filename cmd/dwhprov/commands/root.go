// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing,
// flag binding, and validation. Command execution is delegated to handler
// functions in the handlers package.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the dwhprov CLI.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "dwhprov",
		Short:         "Provision an Amazon Redshift data warehouse",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(Apply())
	cmd.AddCommand(Verify())
	cmd.AddCommand(Version())

	return cmd
}
