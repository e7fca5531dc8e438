package cluster

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/redshift"

	"github.com/imamik/dwhprov/internal/config"
	awsplatform "github.com/imamik/dwhprov/internal/platform/aws"
	"github.com/imamik/dwhprov/internal/provisioning"
	"github.com/imamik/dwhprov/internal/util/retry"
)

const phase = "cluster"

// Provisioner issues the cluster creation request.
type Provisioner struct {
	redshift  awsplatform.RedshiftAPI
	retryOpts []retry.Option
}

// Option configures a Provisioner.
type Option func(*Provisioner)

// WithRetryOptions sets the backoff used for throttled requests.
func WithRetryOptions(opts ...retry.Option) Option {
	return func(p *Provisioner) {
		p.retryOpts = append(p.retryOpts, opts...)
	}
}

// NewProvisioner creates a new cluster provisioner.
func NewProvisioner(client awsplatform.RedshiftAPI, opts ...Option) *Provisioner {
	p := &Provisioner{redshift: client}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return phase
}

// Provision implements the provisioning.Phase interface.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	rs := &ctx.Config.Redshift

	provisioning.LogResourceCreating(ctx.Observer, phase, "cluster", rs.ClusterIdentifier)
	record, err := p.CreateCluster(ctx, rs, ctx.Config.IAM.RoleARN)
	if err != nil {
		provisioning.LogResourceFailed(ctx.Observer, phase, "cluster", rs.ClusterIdentifier, err)
		return err
	}
	if record.Existed {
		provisioning.LogResourceExists(ctx.Observer, phase, "cluster", rs.ClusterIdentifier, rs.ClusterIdentifier)
	} else {
		provisioning.LogResourceCreated(ctx.Observer, phase, "cluster", rs.ClusterIdentifier, rs.ClusterIdentifier)
	}

	ctx.State.Cluster = record
	return nil
}

// CreateCluster sends one creation request and returns without waiting.
// A cluster with the same identifier left by an earlier run is reported
// with Existed set rather than as an error.
func (p *Provisioner) CreateCluster(ctx context.Context, cfg *config.RedshiftConfig, roleARN string) (*provisioning.ClusterRecord, error) {
	input, err := BuildInput(cfg, roleARN)
	if err != nil {
		return nil, err
	}

	err = awsplatform.Call(ctx, func(ctx context.Context) error {
		_, callErr := p.redshift.CreateCluster(ctx, input)
		return callErr
	}, p.retryOpts...)

	record := &provisioning.ClusterRecord{
		Identifier: cfg.ClusterIdentifier,
		Status:     provisioning.StatusCreating,
		Port:       aws.ToInt32(input.Port),
	}
	switch {
	case err == nil:
		return record, nil
	case awsplatform.IsAlreadyExists(err):
		record.Existed = true
		return record, nil
	default:
		return nil, &provisioning.ClusterCreateError{
			Identifier: cfg.ClusterIdentifier,
			Reason:     "request rejected",
			Err:        err,
		}
	}
}

// BuildInput converts the document section into a creation request.
// Single-node clusters omit the node count.
func BuildInput(cfg *config.RedshiftConfig, roleARN string) (*redshift.CreateClusterInput, error) {
	invalid := func(format string, args ...any) error {
		return &provisioning.ClusterCreateError{
			Identifier: cfg.ClusterIdentifier,
			Reason:     fmt.Sprintf(format, args...),
		}
	}

	if cfg.DBPassword == "" {
		return nil, invalid("missing admin password")
	}
	if roleARN == "" {
		return nil, invalid("missing role ARN")
	}

	port, err := parsePort(cfg.DBPort)
	if err != nil {
		return nil, invalid("invalid db_port %q", cfg.DBPort)
	}

	input := &redshift.CreateClusterInput{
		ClusterIdentifier:  aws.String(cfg.ClusterIdentifier),
		ClusterType:        aws.String(cfg.ClusterType),
		NodeType:           aws.String(cfg.NodeType),
		DBName:             aws.String(cfg.DBName),
		MasterUsername:     aws.String(cfg.DBUser),
		MasterUserPassword: aws.String(cfg.DBPassword),
		Port:               aws.Int32(port),
		IamRoles:           []string{roleARN},
	}

	switch cfg.ClusterType {
	case config.ClusterTypeSingleNode:
	case config.ClusterTypeMultiNode:
		n, err := strconv.ParseInt(cfg.NumNodes, 10, 32)
		if err != nil {
			return nil, invalid("num_nodes %q is not a number", cfg.NumNodes)
		}
		if n <= 0 {
			return nil, invalid("num_nodes must be positive, got %d", n)
		}
		input.NumberOfNodes = aws.Int32(int32(n))
	default:
		return nil, invalid("unknown cluster type %q", cfg.ClusterType)
	}

	return input, nil
}

func parsePort(s string) (int32, error) {
	if s == "" {
		s = config.DefaultDBPort
	}
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, err
	}
	if n <= 0 || n > 65535 {
		return 0, fmt.Errorf("port out of range")
	}
	return int32(n), nil
}
