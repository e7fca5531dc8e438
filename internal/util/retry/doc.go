// Package retry provides exponential backoff helpers.
//
// [WithExponentialBackoff] retries throttled AWS API calls with a capped,
// growing delay. [Interval] is the uncapped doubling schedule used by the
// cluster availability wait loop, and [Sleep] is the context-aware sleep
// both of them rely on.
package retry
