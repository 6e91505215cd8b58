// Package retry wraps fallible remote calls with bounded exponential backoff.
//
// Every call to [Do] starts from zero: there is no shared state and no
// circuit breaker. The delay before the n-th retry is
//
//	BaseDelay * 2^(n-1) * U[0,1)
//
// (full jitter), so retries from many signs restarting at once spread out
// rather than arriving together. An operation that never succeeds is invoked
// MaxAttempts+1 times in total and the last error is returned.
package retry
