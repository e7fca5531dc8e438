package config

import "time"

// ProvisioningConfig is the persisted provisioning document.
//
// Derived fields (IAM.RoleARN, Redshift.Endpoint, Redshift.VPCID) are
// filled in by the provisioning stages and written back once the run
// succeeds. Redshift.DBPassword is process-local and never persisted.
type ProvisioningConfig struct {
	Redshift RedshiftConfig `yaml:"redshift"`
	IAM      IAMConfig      `yaml:"iam"`
	Wait     WaitConfig     `yaml:"wait,omitempty"`
}

// RedshiftConfig holds the cluster parameters.
//
// Numeric fields are kept as strings so a malformed value surfaces as a
// cluster creation error instead of a document parse failure.
type RedshiftConfig struct {
	Region            string `yaml:"region"`
	ClusterType       string `yaml:"cluster_type"`
	NodeType          string `yaml:"node_type"`
	NumNodes          string `yaml:"num_nodes"`
	DBName            string `yaml:"db_name"`
	ClusterIdentifier string `yaml:"cluster_identifier"`
	DBUser            string `yaml:"db_user"`
	DBPassword        string `yaml:"db_password,omitempty"`
	DBPort            string `yaml:"db_port"`

	// Derived
	Endpoint string `yaml:"endpoint,omitempty"`
	VPCID    string `yaml:"vpc_id,omitempty"`
}

// IAMConfig holds the service role settings.
type IAMConfig struct {
	RoleName string `yaml:"role_name"`

	// Derived
	RoleARN string `yaml:"role_arn,omitempty"`
}

// WaitConfig bounds the availability wait loop.
// Zero values fall back to the defaults in timeouts.go.
type WaitConfig struct {
	MaxPolls int           `yaml:"max_polls,omitempty"`
	MaxWait  time.Duration `yaml:"max_wait,omitempty"`
}

// Cluster types accepted by the cluster provisioner.
const (
	ClusterTypeSingleNode = "single-node"
	ClusterTypeMultiNode  = "multi-node"
)

// DefaultDBPort is the Redshift listener port used when db_port is empty.
const DefaultDBPort = "5439"

// Sanitized returns a copy of the config that is safe to persist.
func (c *ProvisioningConfig) Sanitized() *ProvisioningConfig {
	out := *c
	out.Redshift.DBPassword = ""
	return &out
}
