package core

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

func strPtr(s string) *string { return &s }

func int64Ptr(v int64) *int64 { return &v }

// stubParser returns canned fields keyed by UID
type stubParser struct {
	fields map[uint32]ParsedEmailFields
	panics map[uint32]bool
}

func (p *stubParser) Parse(raw RawEmail) ParsedEmailFields {
	if p.panics[raw.UID] {
		panic("boom")
	}
	return p.fields[raw.UID]
}

// stubClient returns canned details keyed by alert id and counts calls
type stubClient struct {
	details map[string]*AlertDetail
	calls   atomic.Int32
	mu      sync.Mutex
	seen    []string
	delay   map[string]time.Duration
}

func (c *stubClient) FetchDetail(ctx context.Context, alertID, apiKey string) *AlertDetail {
	c.calls.Add(1)
	c.mu.Lock()
	c.seen = append(c.seen, alertID)
	c.mu.Unlock()
	if d := c.delay[alertID]; d > 0 {
		time.Sleep(d)
	}
	return c.details[alertID]
}

// scopedClient counts how many batch clients were handed out
type scopedClient struct {
	*stubClient
	batches atomic.Int32
}

func (c *scopedClient) ForBatch() AlertClient {
	c.batches.Add(1)
	return c.stubClient
}

type stubSession struct {
	emails      []RawEmail
	subject     string
	since       time.Time
	searchCalls int
	closed      bool
}

func (s *stubSession) Search(ctx context.Context, subject string, since time.Time) []RawEmail {
	s.searchCalls++
	s.subject = subject
	s.since = since
	return s.emails
}

func (s *stubSession) Close() error {
	s.closed = true
	return nil
}

type stubDialer struct {
	session *stubSession
	err     error
	opens   int
}

func (d *stubDialer) Open(ctx context.Context) (MailboxSession, error) {
	d.opens++
	if d.err != nil {
		return nil, d.err
	}
	return d.session, nil
}

var errDial = errors.New("dial failed")

type denyAll struct{}

func (denyAll) IsAllowed(string) bool { return false }
