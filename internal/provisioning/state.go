package provisioning

import "slices"

// ClusterStatus is the coarse lifecycle state of the cluster as seen by the waiter.
type ClusterStatus string

const (
	StatusCreating  ClusterStatus = "creating"
	StatusAvailable ClusterStatus = "available"
	StatusFailed    ClusterStatus = "failed"
)

// RoleRecord describes the service role after the identity stage.
type RoleRecord struct {
	Name             string
	ARN              string
	AttachedPolicies []string
	Existed          bool // role was created by an earlier run
}

// HasPolicy reports whether policyARN was attached during this run.
// A role without its policy is incomplete, not failed.
func (r *RoleRecord) HasPolicy(policyARN string) bool {
	return slices.Contains(r.AttachedPolicies, policyARN)
}

// ClusterRecord is the in-process view of the remote cluster.
type ClusterRecord struct {
	Identifier string
	Status     ClusterStatus
	RawStatus  string // status string as reported by the service
	Endpoint   string
	Port       int32
	VPCID      string
	Existed    bool // cluster was created by an earlier run
}

// IngressRule describes the inbound rule opened for the operator.
type IngressRule struct {
	GroupID  string
	Protocol string
	Port     int32
	CIDR     string
	Existed  bool // an identical rule was already present
}

// Warning is a non-fatal stage failure surfaced to the operator.
type Warning struct {
	Phase string
	Err   error
}

func (w Warning) String() string {
	return w.Phase + ": " + w.Err.Error()
}

// State holds the typed results of provisioning phases.
// It is progressively populated as each phase completes and is passed
// to subsequent phases that need earlier results.
type State struct {
	Role     *RoleRecord
	Cluster  *ClusterRecord
	Ingress  *IngressRule
	Warnings []Warning
}

// NewState creates an empty provisioning state.
func NewState() *State {
	return &State{}
}

// AddWarning records a non-fatal failure for phase.
func (s *State) AddWarning(phase string, err error) {
	s.Warnings = append(s.Warnings, Warning{Phase: phase, Err: err})
}
