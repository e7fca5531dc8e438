// Package identity creates the service role the cluster assumes and grants
// it read access to object storage.
package identity
