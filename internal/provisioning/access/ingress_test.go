package access

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/imamik/dwhprov/internal/provisioning"
	testutil "github.com/imamik/dwhprov/internal/testing"
)

func hasFilter(in *ec2.DescribeSecurityGroupsInput, name string) bool {
	for _, f := range in.Filters {
		if aws.ToString(f.Name) == name {
			return true
		}
	}
	return false
}

func groupsOutput(groups ...ec2types.SecurityGroup) *ec2.DescribeSecurityGroupsOutput {
	return &ec2.DescribeSecurityGroupsOutput{SecurityGroups: groups}
}

func TestManager_Name(t *testing.T) {
	assert.Equal(t, "network", NewManager(nil).Name())
}

func TestOpenIngress_Success(t *testing.T) {
	t.Parallel()

	fixture := testutil.NewAWSFixture().IngressOpened()

	rule, err := NewManager(fixture.EC2).OpenIngress(context.Background(), testutil.DefaultVPCID, 5439, testutil.DefaultSourceCIDR)
	require.NoError(t, err)
	assert.Equal(t, testutil.DefaultGroupID, rule.GroupID)
	assert.Equal(t, "tcp", rule.Protocol)
	assert.Equal(t, int32(5439), rule.Port)
	assert.False(t, rule.Existed)

	fixture.EC2.AssertCalled(t, "AuthorizeSecurityGroupIngress", mock.Anything,
		mock.MatchedBy(func(in *ec2.AuthorizeSecurityGroupIngressInput) bool {
			perm := in.IpPermissions[0]
			return aws.ToString(in.GroupId) == testutil.DefaultGroupID &&
				aws.ToString(perm.IpProtocol) == "tcp" &&
				aws.ToInt32(perm.FromPort) == 5439 &&
				aws.ToInt32(perm.ToPort) == 5439 &&
				aws.ToString(perm.IpRanges[0].CidrIp) == testutil.DefaultSourceCIDR
		}))
}

func TestOpenIngress_DuplicateIsSuccess(t *testing.T) {
	t.Parallel()

	client := &testutil.MockEC2{}
	client.On("DescribeSecurityGroups", mock.Anything, mock.Anything).
		Return(groupsOutput(ec2types.SecurityGroup{GroupId: aws.String("sg-1")}), nil)
	client.On("AuthorizeSecurityGroupIngress", mock.Anything, mock.Anything).
		Return(nil, &smithy.GenericAPIError{Code: "InvalidPermission.Duplicate", Message: "already exists"})

	rule, err := NewManager(client).OpenIngress(context.Background(), "vpc-1", 5439, "10.0.0.1/32")
	require.NoError(t, err)
	assert.True(t, rule.Existed)
}

func TestOpenIngress_FallsBackToFirstGroup(t *testing.T) {
	t.Parallel()

	client := &testutil.MockEC2{}
	client.On("DescribeSecurityGroups", mock.Anything, mock.MatchedBy(func(in *ec2.DescribeSecurityGroupsInput) bool {
		return hasFilter(in, "group-name")
	})).Return(groupsOutput(), nil)
	client.On("DescribeSecurityGroups", mock.Anything, mock.MatchedBy(func(in *ec2.DescribeSecurityGroupsInput) bool {
		return !hasFilter(in, "group-name")
	})).Return(groupsOutput(
		ec2types.SecurityGroup{GroupId: aws.String("sg-first")},
		ec2types.SecurityGroup{GroupId: aws.String("sg-second")},
	), nil)
	client.On("AuthorizeSecurityGroupIngress", mock.Anything, mock.Anything).
		Return(&ec2.AuthorizeSecurityGroupIngressOutput{}, nil)

	rule, err := NewManager(client).OpenIngress(context.Background(), "vpc-1", 5439, "10.0.0.1/32")
	require.NoError(t, err)
	assert.Equal(t, "sg-first", rule.GroupID)
}

func TestOpenIngress_Failures(t *testing.T) {
	t.Parallel()

	t.Run("no groups", func(t *testing.T) {
		t.Parallel()

		client := &testutil.MockEC2{}
		client.On("DescribeSecurityGroups", mock.Anything, mock.Anything).Return(groupsOutput(), nil)

		_, err := NewManager(client).OpenIngress(context.Background(), "vpc-1", 5439, "10.0.0.1/32")

		var netErr *provisioning.NetworkAccessError
		require.ErrorAs(t, err, &netErr)
		assert.ErrorIs(t, err, ErrNoSecurityGroup)
		assert.True(t, provisioning.IsNonFatal(err))
	})

	t.Run("authorize rejected", func(t *testing.T) {
		t.Parallel()

		client := &testutil.MockEC2{}
		client.On("DescribeSecurityGroups", mock.Anything, mock.Anything).
			Return(groupsOutput(ec2types.SecurityGroup{GroupId: aws.String("sg-1")}), nil)
		client.On("AuthorizeSecurityGroupIngress", mock.Anything, mock.Anything).
			Return(nil, &smithy.GenericAPIError{Code: "UnauthorizedOperation"})

		_, err := NewManager(client).OpenIngress(context.Background(), "vpc-1", 5439, "10.0.0.1/32")

		var netErr *provisioning.NetworkAccessError
		require.ErrorAs(t, err, &netErr)
		assert.Equal(t, "vpc-1", netErr.VPCID)
		assert.Equal(t, int32(5439), netErr.Port)
	})
}

func TestIngressOpen(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		perm ec2types.IpPermission
		want bool
	}{
		{
			name: "exact rule",
			perm: ec2types.IpPermission{IpProtocol: aws.String("tcp"), FromPort: aws.Int32(5439), ToPort: aws.Int32(5439),
				IpRanges: []ec2types.IpRange{{CidrIp: aws.String("10.0.0.1/32")}}},
			want: true,
		},
		{
			name: "port range covers",
			perm: ec2types.IpPermission{IpProtocol: aws.String("tcp"), FromPort: aws.Int32(5000), ToPort: aws.Int32(6000),
				IpRanges: []ec2types.IpRange{{CidrIp: aws.String("10.0.0.1/32")}}},
			want: true,
		},
		{
			name: "all traffic",
			perm: ec2types.IpPermission{IpProtocol: aws.String("-1"),
				IpRanges: []ec2types.IpRange{{CidrIp: aws.String("10.0.0.1/32")}}},
			want: true,
		},
		{
			name: "other cidr",
			perm: ec2types.IpPermission{IpProtocol: aws.String("tcp"), FromPort: aws.Int32(5439), ToPort: aws.Int32(5439),
				IpRanges: []ec2types.IpRange{{CidrIp: aws.String("10.0.0.2/32")}}},
			want: false,
		},
		{
			name: "udp",
			perm: ec2types.IpPermission{IpProtocol: aws.String("udp"), FromPort: aws.Int32(5439), ToPort: aws.Int32(5439),
				IpRanges: []ec2types.IpRange{{CidrIp: aws.String("10.0.0.1/32")}}},
			want: false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := &testutil.MockEC2{}
			client.On("DescribeSecurityGroups", mock.Anything, mock.Anything).
				Return(groupsOutput(ec2types.SecurityGroup{
					GroupId:       aws.String("sg-1"),
					IpPermissions: []ec2types.IpPermission{tt.perm},
				}), nil)

			open, err := NewManager(client).IngressOpen(context.Background(), "vpc-1", 5439, "10.0.0.1/32")
			require.NoError(t, err)
			assert.Equal(t, tt.want, open)
		})
	}
}

func TestSourceCIDR(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "203.0.113.0/24", SourceCIDR("203.0.113.9/24"))
	assert.Equal(t, "203.0.113.7/32", SourceCIDR("203.0.113.7/32"))
	assert.Equal(t, "garbage", SourceCIDR("garbage"))
}

type warningRecorder struct {
	provisioning.NopMetrics
	stages []string
}

func (r *warningRecorder) ObserveWarning(stage string) { r.stages = append(r.stages, stage) }

func TestProvision_FailureBecomesWarning(t *testing.T) {
	t.Parallel()

	client := &testutil.MockEC2{}
	client.On("DescribeSecurityGroups", mock.Anything, mock.Anything).
		Return(nil, &smithy.GenericAPIError{Code: "InvalidVpcID.NotFound"})

	cfg := testutil.NewConfigBuilder().WithEndpoint(testutil.DefaultEndpoint, "vpc-missing").Build()
	metrics := &warningRecorder{}
	ctx := provisioning.NewContext(testutil.TestContext(t), cfg, testutil.ValidInputs(), testutil.NewRecordingObserver())
	ctx.Metrics = metrics

	require.NoError(t, NewManager(client).Provision(ctx))
	require.Len(t, ctx.State.Warnings, 1)
	assert.Equal(t, "network", ctx.State.Warnings[0].Phase)
	assert.True(t, provisioning.IsNonFatal(ctx.State.Warnings[0].Err))
	assert.Nil(t, ctx.State.Ingress)
	assert.Equal(t, []string{"network"}, metrics.stages)
}

func TestProvision_RecordsRule(t *testing.T) {
	t.Parallel()

	fixture := testutil.NewAWSFixture().IngressOpened()
	cfg := testutil.NewConfigBuilder().WithEndpoint(testutil.DefaultEndpoint, testutil.DefaultVPCID).Build()
	ctx := provisioning.NewContext(testutil.TestContext(t), cfg, testutil.ValidInputs(), testutil.NewRecordingObserver())
	ctx.State.Cluster = &provisioning.ClusterRecord{Port: 5440}

	require.NoError(t, NewManager(fixture.EC2).Provision(ctx))
	require.NotNil(t, ctx.State.Ingress)
	assert.Equal(t, int32(5440), ctx.State.Ingress.Port)
	assert.Empty(t, ctx.State.Warnings)
}
