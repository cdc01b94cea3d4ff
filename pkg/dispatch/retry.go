package dispatch

import "time"

// RetryPolicy controls re-attempts after both call paths fail. The
// default is single-shot: no retries.
type RetryPolicy struct {
	MaxRetries int
	Backoff    time.Duration
}

// DefaultRetryPolicy returns the single-shot policy.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: 0, Backoff: 500 * time.Millisecond}
}
