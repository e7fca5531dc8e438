package testing

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"
	"github.com/aws/aws-sdk-go-v2/service/redshift"
	redshifttypes "github.com/aws/aws-sdk-go-v2/service/redshift/types"
	"github.com/stretchr/testify/mock"

	awsplatform "github.com/imamik/dwhprov/internal/platform/aws"
)

// AWSFixture provides pre-configured AWS mocks for common test scenarios.
type AWSFixture struct {
	IAM      *MockIAM
	Redshift *MockRedshift
	EC2      *MockEC2
}

// NewAWSFixture creates a fixture with empty mocks.
func NewAWSFixture() *AWSFixture {
	return &AWSFixture{
		IAM:      &MockIAM{},
		Redshift: &MockRedshift{},
		EC2:      &MockEC2{},
	}
}

// Clients returns the mocks as platform clients.
func (f *AWSFixture) Clients() *awsplatform.Clients {
	return &awsplatform.Clients{
		IAM:      f.IAM,
		Redshift: f.Redshift,
		EC2:      f.EC2,
		Region:   DefaultRegion,
	}
}

// RoleCreated makes CreateRole succeed and AttachRolePolicy succeed.
func (f *AWSFixture) RoleCreated(arn string) *AWSFixture {
	f.IAM.On("CreateRole", mock.Anything, mock.Anything).
		Return(&iam.CreateRoleOutput{Role: &iamtypes.Role{Arn: aws.String(arn)}}, nil)
	f.IAM.On("AttachRolePolicy", mock.Anything, mock.Anything).
		Return(&iam.AttachRolePolicyOutput{}, nil)
	return f
}

// RoleExists makes CreateRole fail with EntityAlreadyExists and GetRole return arn.
func (f *AWSFixture) RoleExists(arn string) *AWSFixture {
	f.IAM.On("CreateRole", mock.Anything, mock.Anything).
		Return(nil, &iamtypes.EntityAlreadyExistsException{Message: aws.String("Role with name already exists.")})
	f.IAM.On("GetRole", mock.Anything, mock.Anything).
		Return(&iam.GetRoleOutput{Role: &iamtypes.Role{Arn: aws.String(arn)}}, nil)
	f.IAM.On("AttachRolePolicy", mock.Anything, mock.Anything).
		Return(&iam.AttachRolePolicyOutput{}, nil)
	return f
}

// ClusterCreated makes CreateCluster succeed.
func (f *AWSFixture) ClusterCreated() *AWSFixture {
	f.Redshift.On("CreateCluster", mock.Anything, mock.Anything).
		Return(&redshift.CreateClusterOutput{}, nil)
	return f
}

// ClusterStatuses queues one DescribeClusters response per status, in order.
// The "available" response carries DefaultEndpoint and DefaultVPCID.
func (f *AWSFixture) ClusterStatuses(statuses ...string) *AWSFixture {
	for _, status := range statuses {
		f.Redshift.On("DescribeClusters", mock.Anything, mock.Anything).
			Return(DescribeOutput(status), nil).Once()
	}
	return f
}

// IngressOpened makes the default security group lookup and authorization succeed.
func (f *AWSFixture) IngressOpened() *AWSFixture {
	f.EC2.On("DescribeSecurityGroups", mock.Anything, mock.Anything).
		Return(&ec2.DescribeSecurityGroupsOutput{
			SecurityGroups: []ec2types.SecurityGroup{{
				GroupId:   aws.String(DefaultGroupID),
				GroupName: aws.String("default"),
				VpcId:     aws.String(DefaultVPCID),
			}},
		}, nil)
	f.EC2.On("AuthorizeSecurityGroupIngress", mock.Anything, mock.Anything).
		Return(&ec2.AuthorizeSecurityGroupIngressOutput{Return: aws.Bool(true)}, nil)
	return f
}

// SuccessfulProvisioning configures every call for a first-poll-available run.
func (f *AWSFixture) SuccessfulProvisioning() *AWSFixture {
	return f.RoleCreated(DefaultRoleARN).
		ClusterCreated().
		ClusterStatuses("available").
		IngressOpened()
}

// DescribeOutput builds a DescribeClusters response for status.
func DescribeOutput(status string) *redshift.DescribeClustersOutput {
	cluster := redshifttypes.Cluster{
		ClusterIdentifier: aws.String(DefaultIdentifier),
		ClusterStatus:     aws.String(status),
	}
	if status == "available" {
		cluster.Endpoint = &redshifttypes.Endpoint{
			Address: aws.String(DefaultEndpoint),
			Port:    aws.Int32(5439),
		}
		cluster.VpcId = aws.String(DefaultVPCID)
	}
	return &redshift.DescribeClustersOutput{Clusters: []redshifttypes.Cluster{cluster}}
}
