// Package access opens the database port on the cluster's security group
// for the operator's source address.
//
// Opening access is best-effort: failures are recorded as run warnings and
// never abort provisioning.
package access
