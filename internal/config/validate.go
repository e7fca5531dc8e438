package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrConfigMissing is returned when a required environment variable or
// document field is absent. It is always fatal and is raised before any
// remote call is made.
var ErrConfigMissing = errors.New("required configuration missing")

// ErrConfigInvalid is returned when a value is present but unusable.
var ErrConfigInvalid = errors.New("invalid configuration")

// MissingError lists every absent field from one source.
type MissingError struct {
	Source string // "environment" or the document path
	Fields []string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("%s: missing %s", e.Source, strings.Join(e.Fields, ", "))
}

// Unwrap lets callers match with errors.Is(err, ErrConfigMissing).
func (e *MissingError) Unwrap() error {
	return ErrConfigMissing
}

// Validate checks that every required document field is present.
// The admin password is checked separately by ResolveSecrets because it
// may come from the environment.
func (c *ProvisioningConfig) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"redshift.region", c.Redshift.Region},
		{"redshift.cluster_type", c.Redshift.ClusterType},
		{"redshift.node_type", c.Redshift.NodeType},
		{"redshift.db_name", c.Redshift.DBName},
		{"redshift.cluster_identifier", c.Redshift.ClusterIdentifier},
		{"redshift.db_user", c.Redshift.DBUser},
		{"iam.role_name", c.IAM.RoleName},
	}

	var missing []string
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}

	// single-node clusters take no node count
	if c.Redshift.ClusterType != ClusterTypeSingleNode && strings.TrimSpace(c.Redshift.NumNodes) == "" {
		missing = append(missing, "redshift.num_nodes")
	}

	if len(missing) > 0 {
		return &MissingError{Source: "config", Fields: missing}
	}

	if c.Wait.MaxPolls < 0 {
		return fmt.Errorf("%w: wait.max_polls must not be negative", ErrConfigInvalid)
	}
	if c.Wait.MaxWait < 0 {
		return fmt.Errorf("%w: wait.max_wait must not be negative", ErrConfigInvalid)
	}

	return nil
}

// ResolveSecrets merges process-local secrets from the inputs into the
// config. A password from the environment wins over one in the document.
func (c *ProvisioningConfig) ResolveSecrets(in Inputs) error {
	if in.DBPassword != "" {
		c.Redshift.DBPassword = in.DBPassword
	}
	if c.Redshift.DBPassword == "" {
		return &MissingError{
			Source: "config",
			Fields: []string{"redshift.db_password (or " + EnvDBPassword + ")"},
		}
	}
	return nil
}
