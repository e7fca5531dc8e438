// Package cluster sends the warehouse cluster creation request.
//
// The request is validated locally first, so malformed parameters never
// reach the service. Creation is asynchronous; the availability package
// waits for the result.
package cluster
