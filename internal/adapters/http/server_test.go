package http

import (
	"context"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/mikey/alert-report/internal/core"
	"go.uber.org/zap"
)

type fakeReporter struct {
	mu    sync.Mutex
	dates []string
}

func (r *fakeReporter) Run(ctx context.Context, date string) core.BatchResult {
	r.mu.Lock()
	r.dates = append(r.dates, date)
	r.mu.Unlock()
	name := "FooAlert"
	return core.BatchResult{
		Records:               []core.EnrichedAlertRecord{{Date: "01-Jan-2024", AlertID: "abc123", AlertName: &name}},
		ProcessingTimeSeconds: 0.25,
		Count:                 1,
	}
}

func (r *fakeReporter) calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.dates...)
}

type fakeNotifier struct {
	sent chan string
}

func (n *fakeNotifier) Notify(ctx context.Context, date string, result core.BatchResult) error {
	n.sent <- date
	return nil
}

func newTestServer(reporter Reporter, notifier *fakeNotifier) *Server {
	var srv *Server
	if notifier != nil {
		srv = NewServer(reporter, notifier, "127.0.0.1:0", "*", zap.NewNop())
	} else {
		srv = NewServer(reporter, nil, "127.0.0.1:0", "*", zap.NewNop())
	}
	srv.now = func() time.Time { return time.Date(2024, 5, 6, 12, 0, 0, 0, time.UTC) }
	return srv
}

func doRequest(t *testing.T, srv *Server, req *nethttp.Request) (int, []byte, nethttp.Header) {
	t.Helper()
	resp, err := srv.App().Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	return resp.StatusCode, body, resp.Header
}

func TestHealth(t *testing.T) {
	srv := newTestServer(&fakeReporter{}, nil)
	status, body, _ := doRequest(t, srv, httptest.NewRequest(nethttp.MethodGet, "/health", nil))
	if status != nethttp.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if !strings.Contains(string(body), `"status":"ok"`) {
		t.Errorf("body = %s", body)
	}
}

func TestProcessAlerts_JSON(t *testing.T) {
	reporter := &fakeReporter{}
	srv := newTestServer(reporter, nil)

	req := httptest.NewRequest(nethttp.MethodPost, "/api/process_alerts", strings.NewReader(`{"date":"2024-01-01"}`))
	req.Header.Set("Content-Type", "application/json")
	status, body, headers := doRequest(t, srv, req)

	if status != nethttp.StatusOK {
		t.Fatalf("status = %d, body = %s", status, body)
	}
	if got := reporter.calls(); len(got) != 1 || got[0] != "2024-01-01" {
		t.Errorf("reporter dates = %v", got)
	}

	var result core.BatchResult
	if err := json.Unmarshal(body, &result); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if result.Count != 1 || len(result.Records) != 1 || result.Records[0].AlertID != "abc123" {
		t.Errorf("unexpected result: %+v", result)
	}
	for _, key := range []string{`"alerts"`, `"processing_time_seconds"`, `"count_alerts"`, `"Alert Name"`} {
		if !strings.Contains(string(body), key) {
			t.Errorf("body missing %s: %s", key, body)
		}
	}
	if headers.Get("X-Request-Id") == "" {
		t.Error("expected a request id header")
	}
}

func TestProcessAlerts_JSONWithoutDate(t *testing.T) {
	for _, payload := range []string{"", "{}", `{"date":""}`, "not json"} {
		reporter := &fakeReporter{}
		srv := newTestServer(reporter, nil)

		req := httptest.NewRequest(nethttp.MethodPost, "/api/process_alerts", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		status, body, _ := doRequest(t, srv, req)

		if status != nethttp.StatusBadRequest {
			t.Errorf("payload %q: status = %d, want 400", payload, status)
		}
		if !strings.Contains(string(body), errDateRequired) {
			t.Errorf("payload %q: body = %s", payload, body)
		}
		if len(reporter.calls()) != 0 {
			t.Errorf("payload %q: reporter was called", payload)
		}
	}
}

func TestProcessAlerts_Query(t *testing.T) {
	tests := []struct {
		target string
		want   string
	}{
		{"/api/process_alerts?date=2024-02-02", "2024-02-02"},
		{"/api/process_alerts", "2024-05-06"},
	}
	for _, tt := range tests {
		reporter := &fakeReporter{}
		srv := newTestServer(reporter, nil)
		status, _, _ := doRequest(t, srv, httptest.NewRequest(nethttp.MethodGet, tt.target, nil))
		if status != nethttp.StatusOK {
			t.Errorf("%s: status = %d", tt.target, status)
		}
		if got := reporter.calls(); len(got) != 1 || got[0] != tt.want {
			t.Errorf("%s: reporter dates = %v, want [%s]", tt.target, got, tt.want)
		}
	}
}

func TestProcessAlerts_Form(t *testing.T) {
	tests := []struct {
		form url.Values
		want string
	}{
		{url.Values{"date": {"2024-03-03"}}, "2024-03-03"},
		{url.Values{}, "2024-05-06"},
	}
	for _, tt := range tests {
		reporter := &fakeReporter{}
		srv := newTestServer(reporter, nil)

		req := httptest.NewRequest(nethttp.MethodPost, "/process_alerts", strings.NewReader(tt.form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		status, _, _ := doRequest(t, srv, req)

		if status != nethttp.StatusOK {
			t.Errorf("form %v: status = %d", tt.form, status)
		}
		if got := reporter.calls(); len(got) != 1 || got[0] != tt.want {
			t.Errorf("form %v: reporter dates = %v, want [%s]", tt.form, got, tt.want)
		}
	}
}

func TestProcessAlerts_NotifiesInBackground(t *testing.T) {
	notifier := &fakeNotifier{sent: make(chan string, 1)}
	srv := newTestServer(&fakeReporter{}, notifier)

	status, _, _ := doRequest(t, srv, httptest.NewRequest(nethttp.MethodGet, "/api/process_alerts?date=2024-01-01", nil))
	if status != nethttp.StatusOK {
		t.Fatalf("status = %d", status)
	}

	select {
	case date := <-notifier.sent:
		if date != "2024-01-01" {
			t.Errorf("notified date = %q", date)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("notifier was not called")
	}
}

func TestCORS(t *testing.T) {
	srv := newTestServer(&fakeReporter{}, nil)
	req := httptest.NewRequest(nethttp.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://dashboard.example.com")
	_, _, headers := doRequest(t, srv, req)
	if got := headers.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
}
