package aws

import (
	"errors"

	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"
	redshifttypes "github.com/aws/aws-sdk-go-v2/service/redshift/types"
	"github.com/aws/smithy-go"
)

// EC2 reports errors by code only; it has no modeled exception types.
const (
	codeDuplicatePermission = "InvalidPermission.Duplicate"
	codeGroupNotFound       = "InvalidGroup.NotFound"
	codeVPCNotFound         = "InvalidVpcID.NotFound"
)

var throttleCodes = []string{
	"Throttling",
	"ThrottlingException",
	"ThrottledException",
	"RequestLimitExceeded",
	"RequestThrottled",
	"RequestThrottledException",
	"TooManyRequestsException",
}

// IsAlreadyExists checks if the error says the IAM entity or cluster is already there.
func IsAlreadyExists(err error) bool {
	if err == nil {
		return false
	}

	var entityExists *iamtypes.EntityAlreadyExistsException
	if errors.As(err, &entityExists) {
		return true
	}

	var clusterExists *redshifttypes.ClusterAlreadyExistsFault
	if errors.As(err, &clusterExists) {
		return true
	}

	return hasErrorCode(err, "EntityAlreadyExists", "ClusterAlreadyExists")
}

// IsNotFound checks if the error says the role, cluster, group or VPC does not exist.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}

	var noEntity *iamtypes.NoSuchEntityException
	if errors.As(err, &noEntity) {
		return true
	}

	var noCluster *redshifttypes.ClusterNotFoundFault
	if errors.As(err, &noCluster) {
		return true
	}

	return hasErrorCode(err, "NoSuchEntity", "ClusterNotFound", codeGroupNotFound, codeVPCNotFound)
}

// IsDuplicatePermission checks if an ingress rule with the same parameters already exists.
func IsDuplicatePermission(err error) bool {
	return hasErrorCode(err, codeDuplicatePermission)
}

// IsThrottled checks if the request was rejected by rate limiting and may be retried.
func IsThrottled(err error) bool {
	return hasErrorCode(err, throttleCodes...)
}

// ErrorCode returns the API error code, or "" if err is not an API error.
func ErrorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}

func hasErrorCode(err error, codes ...string) bool {
	code := ErrorCode(err)
	if code == "" {
		return false
	}
	for _, c := range codes {
		if code == c {
			return true
		}
	}
	return false
}
