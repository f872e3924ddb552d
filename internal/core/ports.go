package core

import (
	"context"
	"time"
)

// MailboxDialer opens authenticated, mailbox-selected sessions
type MailboxDialer interface {
	// Open connects, logs in and selects the mailbox
	Open(ctx context.Context) (MailboxSession, error)
}

// MailboxSession is an open mailbox. Callers must Close it.
type MailboxSession interface {
	// Search returns every message whose subject contains subject and that was
	// received on or after the day of since. Failures yield an empty slice.
	Search(ctx context.Context, subject string, since time.Time) []RawEmail

	// Close logs out and releases the connection
	Close() error
}

// EmailParser extracts alert fields from a raw email
type EmailParser interface {
	Parse(raw RawEmail) ParsedEmailFields
}

// AlertClient fetches alert details from the alerting API
type AlertClient interface {
	// FetchDetail returns the alert detail, or nil when it cannot be resolved
	FetchDetail(ctx context.Context, alertID, apiKey string) *AlertDetail
}

// BatchScopedClient is an AlertClient whose cache can be scoped to one batch
type BatchScopedClient interface {
	AlertClient

	// ForBatch returns a client to use for the duration of one batch
	ForBatch() AlertClient
}

// CacheRepository defines the interface for caching alert details
type CacheRepository interface {
	// Get retrieves a cached entry for an alert
	Get(ctx context.Context, alertID string) (*CacheEntry, error)

	// Set stores a cache entry
	Set(ctx context.Context, entry *CacheEntry) error

	// Delete removes a cache entry
	Delete(ctx context.Context, alertID string) error

	// Cleanup removes expired entries
	Cleanup(ctx context.Context) error
}

// SenderPolicy decides whether an email sender is accepted for reporting
type SenderPolicy interface {
	IsAllowed(from string) bool
}
