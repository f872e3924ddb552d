package opsgenie

import (
	"context"
	"net/http"
	"testing"
	"time"
)

func TestRetryPolicy_Backoff(t *testing.T) {
	p := DefaultRetryPolicy()
	want := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}
	for attempt, w := range want {
		if got := p.Backoff(attempt); got != w {
			t.Errorf("Backoff(%d) = %v, want %v", attempt, got, w)
		}
	}
}

func TestRetryPolicy_Retryable(t *testing.T) {
	p := DefaultRetryPolicy()
	if !p.Retryable(http.StatusTooManyRequests) {
		t.Error("expected 429 to be retryable")
	}
	for _, status := range []int{http.StatusOK, http.StatusUnauthorized, http.StatusNotFound, http.StatusInternalServerError} {
		if p.Retryable(status) {
			t.Errorf("expected %d not to be retryable", status)
		}
	}
}

func TestRetryPolicy_Attempts(t *testing.T) {
	if got := (RetryPolicy{}).attempts(); got != 1 {
		t.Errorf("attempts of zero policy = %d, want 1", got)
	}
	if got := DefaultRetryPolicy().attempts(); got != 3 {
		t.Errorf("attempts of default policy = %d, want 3", got)
	}
}

func TestSleep(t *testing.T) {
	if !sleep(context.Background(), time.Millisecond) {
		t.Error("expected full wait")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if sleep(ctx, time.Hour) {
		t.Error("expected cancelled wait")
	}
	if sleep(ctx, 0) {
		t.Error("expected zero wait on a cancelled context to report false")
	}
}
