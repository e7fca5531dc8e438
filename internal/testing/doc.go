// Package testing provides test utilities, builders, and fixtures for unit tests.
//
// This package centralizes common testing patterns to avoid duplication across test files:
//   - ConfigBuilder: Fluent builder for creating provisioning documents
//   - AWSFixture: Pre-configured AWS API mocks for common scenarios
//   - MockIAM, MockRedshift, MockEC2: testify mocks of the narrow AWS interfaces
//   - FakeClock: records sleeps instead of blocking
//   - RecordingObserver: captures provisioning events
//
// Usage:
//
//	cfg := testing.NewConfigBuilder().
//	    WithClusterIdentifier("dwh").
//	    Build()
//
//	fixture := testing.NewAWSFixture().SuccessfulProvisioning(cfg)
package testing
