package access

import (
	"context"
	"errors"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/imamik/dwhprov/internal/config"
	awsplatform "github.com/imamik/dwhprov/internal/platform/aws"
	"github.com/imamik/dwhprov/internal/provisioning"
	"github.com/imamik/dwhprov/internal/util/retry"
)

const (
	phase = "network"

	protocolTCP      = "tcp"
	protocolAll      = "-1"
	defaultGroupName = "default"
	ruleDescription  = "dwhprov database access"
)

// ErrNoSecurityGroup is returned when the VPC has no security group at all.
var ErrNoSecurityGroup = errors.New("no security group found in VPC")

// Manager opens and inspects inbound rules on the VPC's default security group.
type Manager struct {
	ec2       awsplatform.EC2API
	retryOpts []retry.Option
}

// Option configures a Manager.
type Option func(*Manager)

// WithRetryOptions sets the backoff used for throttled requests.
func WithRetryOptions(opts ...retry.Option) Option {
	return func(m *Manager) {
		m.retryOpts = append(m.retryOpts, opts...)
	}
}

// NewManager creates a new network access manager.
func NewManager(client awsplatform.EC2API, opts ...Option) *Manager {
	m := &Manager{ec2: client}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Name implements the provisioning.Phase interface.
func (m *Manager) Name() string {
	return phase
}

// Provision implements the provisioning.Phase interface. It never fails:
// a rule that cannot be opened becomes a warning on the run state.
func (m *Manager) Provision(ctx *provisioning.Context) error {
	vpcID := ctx.Config.Redshift.VPCID
	port := dbPort(ctx)
	cidr := SourceCIDR(ctx.Inputs.SourceCIDR)

	provisioning.LogResourceCreating(ctx.Observer, phase, "ingress rule", cidr)
	rule, err := m.OpenIngress(ctx, vpcID, port, cidr)
	if err != nil {
		provisioning.LogResourceFailed(ctx.Observer, phase, "ingress rule", cidr, err)
		ctx.State.AddWarning(phase, err)
		ctx.Metrics.ObserveWarning(phase)
		return nil
	}

	if rule.Existed {
		provisioning.LogResourceExists(ctx.Observer, phase, "ingress rule", cidr, rule.GroupID)
	} else {
		provisioning.LogResourceCreated(ctx.Observer, phase, "ingress rule", cidr, rule.GroupID)
	}
	ctx.State.Ingress = rule
	return nil
}

// OpenIngress authorizes inbound TCP on port from cidr. An identical rule
// that is already present counts as success with Existed set. Every failure
// is returned as a *provisioning.NetworkAccessError.
func (m *Manager) OpenIngress(ctx context.Context, vpcID string, port int32, cidr string) (*provisioning.IngressRule, error) {
	fail := func(err error) error {
		return &provisioning.NetworkAccessError{VPCID: vpcID, CIDR: cidr, Port: port, Err: err}
	}

	group, err := m.defaultGroup(ctx, vpcID)
	if err != nil {
		return nil, fail(err)
	}

	rule := &provisioning.IngressRule{
		GroupID:  aws.ToString(group.GroupId),
		Protocol: protocolTCP,
		Port:     port,
		CIDR:     cidr,
	}

	err = awsplatform.Call(ctx, func(ctx context.Context) error {
		_, callErr := m.ec2.AuthorizeSecurityGroupIngress(ctx, &ec2.AuthorizeSecurityGroupIngressInput{
			GroupId: group.GroupId,
			IpPermissions: []ec2types.IpPermission{{
				IpProtocol: aws.String(protocolTCP),
				FromPort:   aws.Int32(port),
				ToPort:     aws.Int32(port),
				IpRanges: []ec2types.IpRange{{
					CidrIp:      aws.String(cidr),
					Description: aws.String(ruleDescription),
				}},
			}},
		})
		return callErr
	}, m.retryOpts...)

	switch {
	case err == nil:
		return rule, nil
	case awsplatform.IsDuplicatePermission(err):
		rule.Existed = true
		return rule, nil
	default:
		return nil, fail(err)
	}
}

// IngressOpen reports whether the VPC's default security group already
// allows inbound TCP on port from cidr.
func (m *Manager) IngressOpen(ctx context.Context, vpcID string, port int32, cidr string) (bool, error) {
	group, err := m.defaultGroup(ctx, vpcID)
	if err != nil {
		return false, &provisioning.NetworkAccessError{VPCID: vpcID, CIDR: cidr, Port: port, Err: err}
	}
	for _, perm := range group.IpPermissions {
		if allows(perm, port, cidr) {
			return true, nil
		}
	}
	return false, nil
}

// defaultGroup returns the group named "default" in the VPC, falling back
// to the first group the VPC has.
func (m *Manager) defaultGroup(ctx context.Context, vpcID string) (*ec2types.SecurityGroup, error) {
	vpcFilter := ec2types.Filter{Name: aws.String("vpc-id"), Values: []string{vpcID}}

	groups, err := m.describeGroups(ctx, vpcFilter,
		ec2types.Filter{Name: aws.String("group-name"), Values: []string{defaultGroupName}})
	if err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		if groups, err = m.describeGroups(ctx, vpcFilter); err != nil {
			return nil, err
		}
	}
	if len(groups) == 0 {
		return nil, ErrNoSecurityGroup
	}
	return &groups[0], nil
}

func (m *Manager) describeGroups(ctx context.Context, filters ...ec2types.Filter) ([]ec2types.SecurityGroup, error) {
	var out *ec2.DescribeSecurityGroupsOutput
	err := awsplatform.Call(ctx, func(ctx context.Context) error {
		var callErr error
		out, callErr = m.ec2.DescribeSecurityGroups(ctx, &ec2.DescribeSecurityGroupsInput{Filters: filters})
		return callErr
	}, m.retryOpts...)
	if err != nil || out == nil {
		return nil, err
	}
	return out.SecurityGroups, nil
}

func allows(perm ec2types.IpPermission, port int32, cidr string) bool {
	switch aws.ToString(perm.IpProtocol) {
	case protocolAll:
	case protocolTCP:
		if aws.ToInt32(perm.FromPort) > port || aws.ToInt32(perm.ToPort) < port {
			return false
		}
	default:
		return false
	}
	for _, r := range perm.IpRanges {
		if aws.ToString(r.CidrIp) == cidr {
			return true
		}
	}
	return false
}

// SourceCIDR returns the canonical form of the operator's CIDR, or the
// input unchanged if it does not parse.
func SourceCIDR(raw string) string {
	prefix, err := config.ParseSourceCIDR(raw)
	if err != nil {
		return raw
	}
	return prefix.Masked().String()
}

func dbPort(ctx *provisioning.Context) int32 {
	if ctx.State.Cluster != nil && ctx.State.Cluster.Port > 0 {
		return ctx.State.Cluster.Port
	}
	port := ctx.Config.Redshift.DBPort
	if port == "" {
		port = config.DefaultDBPort
	}
	n, err := strconv.ParseInt(port, 10, 32)
	if err != nil {
		return 0
	}
	return int32(n)
}
