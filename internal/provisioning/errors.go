package provisioning

import (
	"errors"
	"fmt"
	"time"
)

// IdentityError is a fatal failure creating the service role or attaching
// its policy. "Already exists" outcomes never produce an IdentityError.
type IdentityError struct {
	Op   string // "create role", "get role" or "attach policy"
	Role string
	Err  error
}

func (e *IdentityError) Error() string {
	return fmt.Sprintf("identity: %s %s: %v", e.Op, e.Role, e.Err)
}

func (e *IdentityError) Unwrap() error { return e.Err }

// ClusterCreateError is a fatal failure building or sending the cluster
// creation request.
type ClusterCreateError struct {
	Identifier string
	Reason     string
	Err        error
}

func (e *ClusterCreateError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("create cluster %s: %s", e.Identifier, e.Reason)
	}
	return fmt.Sprintf("create cluster %s: %s: %v", e.Identifier, e.Reason, e.Err)
}

func (e *ClusterCreateError) Unwrap() error { return e.Err }

// ClusterFailedError is returned when the cluster reaches a terminal
// failure status or disappears while waiting.
type ClusterFailedError struct {
	Identifier string
	Status     string
}

func (e *ClusterFailedError) Error() string {
	return fmt.Sprintf("cluster %s entered terminal status %q", e.Identifier, e.Status)
}

// AvailabilityTimeoutError is returned when the wait loop exceeds its poll
// count or duration limit, or is cancelled. LastStatus is the last status
// observed before giving up.
type AvailabilityTimeoutError struct {
	Identifier string
	LastStatus string
	Polls      int
	Elapsed    time.Duration
	Err        error // context error when cancelled, nil on limit
}

func (e *AvailabilityTimeoutError) Error() string {
	msg := fmt.Sprintf("cluster %s not available after %d polls (%v), last status %q",
		e.Identifier, e.Polls, e.Elapsed.Round(time.Second), e.LastStatus)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *AvailabilityTimeoutError) Unwrap() error { return e.Err }

// NetworkAccessError is a failed attempt to open the ingress rule. It is
// reported as a warning and does not abort the run.
type NetworkAccessError struct {
	VPCID string
	CIDR  string
	Port  int32
	Err   error
}

func (e *NetworkAccessError) Error() string {
	return fmt.Sprintf("open tcp/%d from %s in %s: %v", e.Port, e.CIDR, e.VPCID, e.Err)
}

func (e *NetworkAccessError) Unwrap() error { return e.Err }

// IsNonFatal reports whether err should be recorded as a warning instead
// of aborting the run.
func IsNonFatal(err error) bool {
	var netErr *NetworkAccessError
	return errors.As(err, &netErr)
}
