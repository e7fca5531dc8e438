package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDocument = `redshift:
  region: us-west-2
  cluster_type: multi-node
  node_type: dc2.large
  num_nodes: 4
  db_name: sparkify
  cluster_identifier: sparkify-cluster
  db_user: awsuser
  db_password: Passw0rd-from-file
  db_port: 5439
iam:
  role_name: sparkify-redshift-role
wait:
  max_polls: 8
  max_wait: 45m
`

func writeDocument(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dwh.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestFileStore_Load(t *testing.T) {
	t.Parallel()
	path := writeDocument(t, sampleDocument)

	cfg, err := NewFileStore(path).Load()
	require.NoError(t, err)

	assert.Equal(t, "us-west-2", cfg.Redshift.Region)
	assert.Equal(t, "4", cfg.Redshift.NumNodes)
	assert.Equal(t, "5439", cfg.Redshift.DBPort)
	assert.Equal(t, "Passw0rd-from-file", cfg.Redshift.DBPassword)
	assert.Equal(t, "sparkify-redshift-role", cfg.IAM.RoleName)
	assert.Equal(t, 8, cfg.Wait.MaxPolls)
	assert.Equal(t, 45*time.Minute, cfg.Wait.MaxWait)
}

func TestFileStore_Load_MissingFields(t *testing.T) {
	t.Parallel()
	path := writeDocument(t, "redshift:\n  region: us-west-2\n  cluster_type: multi-node\n")

	_, err := NewFileStore(path).Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfigMissing))

	var missing *MissingError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, path, missing.Source)
	assert.Contains(t, missing.Fields, "redshift.node_type")
	assert.Contains(t, missing.Fields, "redshift.num_nodes")
	assert.Contains(t, missing.Fields, "iam.role_name")
	assert.NotContains(t, missing.Fields, "redshift.region")
}

func TestFileStore_Load_SingleNodeNeedsNoNodeCount(t *testing.T) {
	t.Parallel()
	path := writeDocument(t, `redshift:
  region: us-east-1
  cluster_type: single-node
  node_type: dc2.large
  db_name: dev
  cluster_identifier: dev-cluster
  db_user: admin
iam:
  role_name: dev-role
`)

	cfg, err := NewFileStore(path).Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.Redshift.NumNodes)
	assert.Equal(t, DefaultDBPort, cfg.Redshift.DBPort)
}

func TestFileStore_Load_FileNotFound(t *testing.T) {
	t.Parallel()
	_, err := NewFileStore(filepath.Join(t.TempDir(), "absent.yaml")).Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfigMissing))
}

func TestFileStore_Load_InvalidYAML(t *testing.T) {
	t.Parallel()
	path := writeDocument(t, "redshift: [unterminated\n")

	_, err := NewFileStore(path).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestFileStore_Save_NeverPersistsPassword(t *testing.T) {
	t.Parallel()
	path := writeDocument(t, sampleDocument)
	store := NewFileStore(path)

	cfg, err := store.Load()
	require.NoError(t, err)
	require.NotEmpty(t, cfg.Redshift.DBPassword)

	cfg.IAM.RoleARN = "arn:aws:iam::123456789012:role/sparkify-redshift-role"
	cfg.Redshift.Endpoint = "sparkify-cluster.abc123.us-west-2.redshift.amazonaws.com"
	cfg.Redshift.VPCID = "vpc-0a1b2c3d"

	require.NoError(t, store.Save(cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "db_password")
	assert.NotContains(t, string(data), "Passw0rd-from-file")

	// the in-memory config keeps its secret
	assert.Equal(t, "Passw0rd-from-file", cfg.Redshift.DBPassword)

	reloaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, cfg.IAM.RoleARN, reloaded.IAM.RoleARN)
	assert.Equal(t, cfg.Redshift.Endpoint, reloaded.Redshift.Endpoint)
	assert.Equal(t, cfg.Redshift.VPCID, reloaded.Redshift.VPCID)
	assert.Equal(t, "4", reloaded.Redshift.NumNodes)
	assert.Equal(t, 45*time.Minute, reloaded.Wait.MaxWait)
	assert.Empty(t, reloaded.Redshift.DBPassword)
}

func TestFileStore_Save_Permissions(t *testing.T) {
	t.Parallel()
	path := writeDocument(t, sampleDocument)
	store := NewFileStore(path)

	cfg, err := store.Load()
	require.NoError(t, err)
	require.NoError(t, store.Save(cfg))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file should not be left behind")
}

func TestNewFileStore_DefaultPath(t *testing.T) {
	t.Parallel()
	assert.Equal(t, DefaultConfigFilename, NewFileStore("").Path)
	assert.Equal(t, "custom.yaml", NewFileStore("custom.yaml").Path)
}
