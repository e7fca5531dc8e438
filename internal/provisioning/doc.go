// Package provisioning provides shared types and interfaces for cluster provisioning.
//
// The provisioning domain is organized into focused subpackages, one per stage:
//   - identity/: IAM service role and read-only storage policy
//   - cluster/: Redshift cluster creation request
//   - availability/: polling until the cluster is available
//   - access/: ingress rule on the cluster's security group
//
// This root package contains the Phase interface, the pipeline runner, the
// typed stage outcomes collected in [State], and the error taxonomy that
// decides which failures abort a run and which are reported as warnings.
package provisioning
