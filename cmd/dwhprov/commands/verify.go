package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/dwhprov/cmd/dwhprov/handlers"
)

// Verify returns the command that checks a provisioned warehouse is reachable.
func Verify() *cobra.Command {
	var opts handlers.VerifyOptions

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check that the provisioned cluster is reachable",
		Long: `Check a cluster provisioned by apply.

Reads the endpoint from the provisioning document, checks that the security
group admits IPV4_ADDRESS on the database port, and opens a database
connection to the cluster.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Verify(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to provisioning document (default: dwh.yaml)")

	return cmd
}
