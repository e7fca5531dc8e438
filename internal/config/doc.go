// Package config defines the provisioning document and the process inputs
// used by every provisioning stage.
//
// The [ProvisioningConfig] struct is the persisted YAML document. It holds
// the cluster parameters supplied by the operator and, after a successful
// run, the derived values (role ARN, cluster endpoint, VPC id) that the
// table-management tooling reads to open a database connection.
//
// [Inputs] carries the values taken from the process environment. It is
// built once at startup and handed to the orchestrator; no other package
// reads the environment.
package config
