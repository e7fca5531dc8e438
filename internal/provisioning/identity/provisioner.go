package identity

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"

	awsplatform "github.com/imamik/dwhprov/internal/platform/aws"
	"github.com/imamik/dwhprov/internal/provisioning"
	"github.com/imamik/dwhprov/internal/util/retry"
)

const (
	phase = "identity"

	// ReadPolicyARN is the managed policy attached to the service role.
	ReadPolicyARN = "arn:aws:iam::aws:policy/AmazonS3ReadOnlyAccess"

	servicePrincipal = "redshift.amazonaws.com"
	roleDescription  = "Allows Redshift clusters to call AWS services on your behalf."
)

// Provisioner creates the service role and attaches its policy.
type Provisioner struct {
	iam       awsplatform.IAMAPI
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

// NewProvisioner creates a new identity provisioner.
func NewProvisioner(client awsplatform.IAMAPI, opts ...Option) *Provisioner {
	p := &Provisioner{iam: client}
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
	name := ctx.Config.IAM.RoleName

	provisioning.LogResourceCreating(ctx.Observer, phase, "role", name)
	role, err := p.CreateRole(ctx, name)
	if err != nil {
		provisioning.LogResourceFailed(ctx.Observer, phase, "role", name, err)
		return err
	}
	if role.Existed {
		provisioning.LogResourceExists(ctx.Observer, phase, "role", name, role.ARN)
	} else {
		provisioning.LogResourceCreated(ctx.Observer, phase, "role", name, role.ARN)
	}

	ctx.Observer.Printf("[%s] Attaching %s to %s...", phase, ReadPolicyARN, name)
	if err := p.AttachReadPolicy(ctx, name); err != nil {
		provisioning.LogResourceFailed(ctx.Observer, phase, "policy", ReadPolicyARN, err)
		return err
	}
	role.AttachedPolicies = append(role.AttachedPolicies, ReadPolicyARN)

	ctx.State.Role = role
	ctx.Config.IAM.RoleARN = role.ARN
	return nil
}

// CreateRole creates the service role. If a role with the same name is
// already present its ARN is fetched instead and Existed is set.
func (p *Provisioner) CreateRole(ctx context.Context, name string) (*provisioning.RoleRecord, error) {
	policy, err := trustPolicy()
	if err != nil {
		return nil, &provisioning.IdentityError{Op: "create role", Role: name, Err: err}
	}

	var out *iam.CreateRoleOutput
	err = awsplatform.Call(ctx, func(ctx context.Context) error {
		var callErr error
		out, callErr = p.iam.CreateRole(ctx, &iam.CreateRoleInput{
			RoleName:                 aws.String(name),
			Path:                     aws.String("/"),
			Description:              aws.String(roleDescription),
			AssumeRolePolicyDocument: aws.String(policy),
		})
		return callErr
	}, p.retryOpts...)

	switch {
	case err == nil:
		if out == nil || out.Role == nil {
			return nil, &provisioning.IdentityError{Op: "create role", Role: name, Err: fmt.Errorf("empty response")}
		}
		return &provisioning.RoleRecord{Name: name, ARN: aws.ToString(out.Role.Arn)}, nil
	case awsplatform.IsAlreadyExists(err):
		return p.existingRole(ctx, name)
	default:
		return nil, &provisioning.IdentityError{Op: "create role", Role: name, Err: err}
	}
}

func (p *Provisioner) existingRole(ctx context.Context, name string) (*provisioning.RoleRecord, error) {
	var out *iam.GetRoleOutput
	err := awsplatform.Call(ctx, func(ctx context.Context) error {
		var callErr error
		out, callErr = p.iam.GetRole(ctx, &iam.GetRoleInput{RoleName: aws.String(name)})
		return callErr
	}, p.retryOpts...)
	if err != nil {
		return nil, &provisioning.IdentityError{Op: "get role", Role: name, Err: err}
	}
	if out == nil || out.Role == nil {
		return nil, &provisioning.IdentityError{Op: "get role", Role: name, Err: fmt.Errorf("empty response")}
	}
	return &provisioning.RoleRecord{Name: name, ARN: aws.ToString(out.Role.Arn), Existed: true}, nil
}

// AttachReadPolicy attaches ReadPolicyARN to the role. Attaching a policy
// that is already attached succeeds.
func (p *Provisioner) AttachReadPolicy(ctx context.Context, roleName string) error {
	err := awsplatform.Call(ctx, func(ctx context.Context) error {
		_, callErr := p.iam.AttachRolePolicy(ctx, &iam.AttachRolePolicyInput{
			RoleName:  aws.String(roleName),
			PolicyArn: aws.String(ReadPolicyARN),
		})
		return callErr
	}, p.retryOpts...)
	if err != nil {
		return &provisioning.IdentityError{Op: "attach policy", Role: roleName, Err: err}
	}
	return nil
}

type policyDocument struct {
	Version   string            `json:"Version"`
	Statement []policyStatement `json:"Statement"`
}

type policyStatement struct {
	Effect    string            `json:"Effect"`
	Action    string            `json:"Action"`
	Principal map[string]string `json:"Principal"`
}

// trustPolicy lets the warehouse service assume the role.
func trustPolicy() (string, error) {
	doc := policyDocument{
		Version: "2012-10-17",
		Statement: []policyStatement{{
			Effect:    "Allow",
			Action:    "sts:AssumeRole",
			Principal: map[string]string{"Service": servicePrincipal},
		}},
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
