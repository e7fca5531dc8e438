package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/dwhprov/cmd/dwhprov/handlers"
)

// Apply returns the command that provisions the warehouse.
//
// Optional flags:
//
//	--config, -c: Path to the provisioning document (default: dwh.yaml)
//	--max-wait: Upper bound on waiting for the cluster (overrides wait.max_wait)
//	--max-polls: Upper bound on status checks (overrides wait.max_polls)
//	--metrics-file: Write Prometheus text-format metrics of the run to this file
//	--log-format: text or json (default: text on a terminal, json otherwise)
//
// Environment variables:
//
//	AWS_KEY, AWS_SECRET: AWS credentials (required)
//	IPV4_ADDRESS: Source CIDR allowed to reach the database (required)
//	DWH_DB_PASSWORD: Admin password (required unless set in the document)
func Apply() *cobra.Command {
	var opts handlers.ApplyOptions

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Provision the warehouse cluster",
		Long: `Provision the warehouse cluster described by the provisioning document.

The run creates the IAM service role, creates the Redshift cluster, waits
for it to become available, and opens the database port for IPV4_ADDRESS.
On success the document is rewritten with role_arn, endpoint and vpc_id.
On any fatal error the document is left untouched.

Examples:
  # Provision using dwh.yaml in the current directory
  dwhprov apply

  # Give up after 30 minutes and write run metrics
  dwhprov apply --max-wait 30m --metrics-file /var/lib/node_exporter/dwhprov.prom`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Apply(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to provisioning document (default: dwh.yaml)")
	cmd.Flags().DurationVar(&opts.MaxWait, "max-wait", 0, "Maximum time to wait for the cluster (default: wait.max_wait or 90m)")
	cmd.Flags().IntVar(&opts.MaxPolls, "max-polls", 0, "Maximum number of cluster status checks (default: wait.max_polls)")
	cmd.Flags().StringVar(&opts.MetricsFile, "metrics-file", "", "Write Prometheus metrics of the run to this file")
	cmd.Flags().StringVar(&opts.LogFormat, "log-format", "", "Log format: text or json")

	return cmd
}
