// Package aws wires the AWS SDK clients used by the provisioning stages.
//
// Each service is exposed through a narrow interface ([IAMAPI],
// [RedshiftAPI], [EC2API]) holding only the calls the stages make, so
// tests can substitute fakes. errors.go classifies service errors into the
// outcomes the stages care about: already exists, not found, duplicate
// rule, and throttled.
package aws
