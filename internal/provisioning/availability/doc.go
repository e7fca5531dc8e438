// Package availability polls the cluster until it is ready to accept
// connections.
//
// Poll n (zero-indexed) is followed by a sleep of 60s * 2^n. Waiting stops
// when the cluster is available, enters a terminal failure status, or a
// poll-count or total-duration limit is reached.
package availability
