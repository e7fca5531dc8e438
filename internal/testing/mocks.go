package testing

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/redshift"
	"github.com/stretchr/testify/mock"
)

// MockIAM is a mock implementation of aws.IAMAPI.
type MockIAM struct {
	mock.Mock
}

// CreateRole records the call and returns the configured output.
func (m *MockIAM) CreateRole(ctx context.Context, in *iam.CreateRoleInput, _ ...func(*iam.Options)) (*iam.CreateRoleOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*iam.CreateRoleOutput), args.Error(1)
}

// GetRole records the call and returns the configured output.
func (m *MockIAM) GetRole(ctx context.Context, in *iam.GetRoleInput, _ ...func(*iam.Options)) (*iam.GetRoleOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*iam.GetRoleOutput), args.Error(1)
}

// AttachRolePolicy records the call and returns the configured output.
func (m *MockIAM) AttachRolePolicy(ctx context.Context, in *iam.AttachRolePolicyInput, _ ...func(*iam.Options)) (*iam.AttachRolePolicyOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*iam.AttachRolePolicyOutput), args.Error(1)
}

// MockRedshift is a mock implementation of aws.RedshiftAPI.
type MockRedshift struct {
	mock.Mock
}

// CreateCluster records the call and returns the configured output.
func (m *MockRedshift) CreateCluster(ctx context.Context, in *redshift.CreateClusterInput, _ ...func(*redshift.Options)) (*redshift.CreateClusterOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*redshift.CreateClusterOutput), args.Error(1)
}

// DescribeClusters records the call and returns the configured output.
func (m *MockRedshift) DescribeClusters(ctx context.Context, in *redshift.DescribeClustersInput, _ ...func(*redshift.Options)) (*redshift.DescribeClustersOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*redshift.DescribeClustersOutput), args.Error(1)
}

// MockEC2 is a mock implementation of aws.EC2API.
type MockEC2 struct {
	mock.Mock
}

// DescribeSecurityGroups records the call and returns the configured output.
func (m *MockEC2) DescribeSecurityGroups(ctx context.Context, in *ec2.DescribeSecurityGroupsInput, _ ...func(*ec2.Options)) (*ec2.DescribeSecurityGroupsOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ec2.DescribeSecurityGroupsOutput), args.Error(1)
}

// AuthorizeSecurityGroupIngress records the call and returns the configured output.
func (m *MockEC2) AuthorizeSecurityGroupIngress(ctx context.Context, in *ec2.AuthorizeSecurityGroupIngressInput, _ ...func(*ec2.Options)) (*ec2.AuthorizeSecurityGroupIngressOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ec2.AuthorizeSecurityGroupIngressOutput), args.Error(1)
}
