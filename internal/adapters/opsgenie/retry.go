package opsgenie

import (
	"context"
	"math"
	"net/http"
	"slices"
	"time"
)

// RetryPolicy governs how one alert lookup is retried
type RetryPolicy struct {
	// MaxAttempts bounds the total number of requests per lookup
	MaxAttempts int
	// BackoffFactor is raised to the 0-based attempt number to get the
	// rate-limit wait, in units of BackoffUnit
	BackoffFactor float64
	BackoffUnit   time.Duration
	// NetworkPause is the fixed wait after a transport failure
	NetworkPause time.Duration
	// RetryableStatus lists the statuses that are retried with backoff
	RetryableStatus []int
}

// DefaultRetryPolicy returns three attempts, 1s/2s/4s rate-limit backoff and
// a 2s pause after transport failures
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:     3,
		BackoffFactor:   2,
		BackoffUnit:     time.Second,
		NetworkPause:    2 * time.Second,
		RetryableStatus: []int{http.StatusTooManyRequests},
	}
}

// Backoff returns the wait before retrying a rate-limited attempt
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	return time.Duration(math.Pow(p.BackoffFactor, float64(attempt)) * float64(p.BackoffUnit))
}

// Retryable reports whether status is retried with backoff
func (p RetryPolicy) Retryable(status int) bool {
	return slices.Contains(p.RetryableStatus, status)
}

func (p RetryPolicy) attempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}

// sleep waits for d or until ctx is done, reporting whether the full wait elapsed
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
