package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFilename is the document read when no path is given.
const DefaultConfigFilename = "dwh.yaml"

// FileStore loads and saves the provisioning document at Path.
type FileStore struct {
	Path string
}

// NewFileStore returns a store for path, or DefaultConfigFilename if path is empty.
func NewFileStore(path string) *FileStore {
	if path == "" {
		path = DefaultConfigFilename
	}
	return &FileStore{Path: path}
}

// Load reads and validates the document.
func (s *FileStore) Load() (*ProvisioningConfig, error) {
	// #nosec G304
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &MissingError{Source: "config", Fields: []string{s.Path}}
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		var missing *MissingError
		if errors.As(err, &missing) {
			missing.Source = s.Path
		}
		return nil, err
	}

	return cfg, nil
}

// Parse decodes the document without validating it.
func Parse(data []byte) (*ProvisioningConfig, error) {
	var cfg ProvisioningConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if cfg.Redshift.DBPort == "" {
		cfg.Redshift.DBPort = DefaultDBPort
	}
	return &cfg, nil
}

// Save rewrites the whole document, replacing the file atomically.
// The admin password is never written.
func (s *FileStore) Save(cfg *ProvisioningConfig) error {
	data, err := yaml.Marshal(cfg.Sanitized())
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("# Provisioning document for dwhprov.\n")
	sb.WriteString("# endpoint, vpc_id and role_arn are written after a successful apply.\n")
	sb.WriteString("# The admin password is read from " + EnvDBPassword + " and is never stored here.\n")
	sb.Write(data)

	dir := filepath.Dir(s.Path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.Path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // no-op after a successful rename

	if _, err := tmp.WriteString(sb.String()); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to set config permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close config: %w", err)
	}
	if err := os.Rename(tmpName, s.Path); err != nil {
		return fmt.Errorf("failed to replace config file: %w", err)
	}
	return nil
}
