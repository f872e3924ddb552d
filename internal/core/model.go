package core

import (
	"time"
)

// RawEmail is a message as returned by the mailbox, headers and body included
type RawEmail struct {
	UID  uint32
	From string
	Raw  []byte
}

// ParsedEmailFields holds the fields extracted from an alert notification email.
// A nil field means the delimiter for it was not found.
type ParsedEmailFields struct {
	AlertName      *string
	Zone           *string
	Description    *string
	AlertDetailURL *string
}

// AlertReport is the report sub-object of an Opsgenie alert
type AlertReport struct {
	AckTime        *int64 `json:"ackTime,omitempty"`
	CloseTime      *int64 `json:"closeTime,omitempty"`
	AcknowledgedBy string `json:"acknowledgedBy,omitempty"`
	ClosedBy       string `json:"closedBy,omitempty"`
}

// AlertDetail is the authoritative alert record returned by the alerting API
type AlertDetail struct {
	ID             string            `json:"id"`
	TinyID         string            `json:"tinyId"`
	Alias          string            `json:"alias"`
	Message        string            `json:"message,omitempty"`
	Status         string            `json:"status"`
	Acknowledged   bool              `json:"acknowledged"`
	IsSeen         bool              `json:"isSeen"`
	Tags           []string          `json:"tags"`
	Count          int               `json:"count"`
	CreatedAt      string            `json:"createdAt"`
	UpdatedAt      string            `json:"updatedAt"`
	LastOccurredAt string            `json:"lastOccurredAt"`
	Source         string            `json:"source"`
	Owner          string            `json:"owner"`
	Priority       string            `json:"priority"`
	Report         AlertReport       `json:"report"`
	Details        map[string]string `json:"details"`
}

// Detail returns a value from the alert details map, or "" when absent
func (d *AlertDetail) Detail(key string) string {
	if d.Details == nil {
		return ""
	}
	return d.Details[key]
}

// EnrichedAlertRecord is one flat report row
type EnrichedAlertRecord struct {
	Date           string   `json:"Date"`
	TinyID         string   `json:"Tiny ID"`
	AlertID        string   `json:"Alert ID"`
	Alias          string   `json:"Alias"`
	AlertName      *string  `json:"Alert Name"`
	Description    *string  `json:"Description"`
	Priority       string   `json:"Priority"`
	Tags           []string `json:"Tags"`
	Zone           *string  `json:"Zone"`
	Cluster        string   `json:"Cluster"`
	Namespace      string   `json:"Namespace"`
	CreatedAt      string   `json:"Alert Creation Time"`
	UpdatedAt      string   `json:"Alert Last Updated At"`
	Count          int      `json:"Count"`
	IsSeen         bool     `json:"Is Seen"`
	Acknowledged   bool     `json:"Acknowledged"`
	LastOccurredAt string   `json:"Last Occurred At"`
	Source         string   `json:"Source"`
	Owner          string   `json:"Owner"`
	Severity       string   `json:"Severity"`
	Status         string   `json:"Status"`
	Service        string   `json:"Service"`
	Job            string   `json:"Job"`
	AckTime        *int64   `json:"Ack Time"`
	AcknowledgedBy string   `json:"Alert Ack By"`
	TimeToAck      *float64 `json:"Time To ACK"`
	TimeToClose    *float64 `json:"Time To Close"`
	CloseTime      *float64 `json:"Close Time"`
	ClosedBy       string   `json:"Closed By"`
	AlertLink      *string  `json:"Alert Link"`
	RunbookURL     string   `json:"Runbook"`
	PrometheusURL  string   `json:"Prometheus"`
	GrafanaURL     string   `json:"Grafana"`
	ContactMethod  string   `json:"Contact Method"`
	TimeDifference *float64 `json:"Time Diff"`
}

// BatchResult is the outcome of one report run
type BatchResult struct {
	Records               []EnrichedAlertRecord `json:"alerts"`
	ProcessingTimeSeconds float64               `json:"processing_time_seconds"`
	Count                 int                   `json:"count_alerts"`
}

// EmptyBatchResult returns a result with no records and zero time/count
func EmptyBatchResult() BatchResult {
	return BatchResult{Records: []EnrichedAlertRecord{}}
}

// CacheEntry is a cached alert detail
type CacheEntry struct {
	AlertID   string
	Detail    *AlertDetail
	CachedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the entry has passed its expiry. A zero ExpiresAt never expires.
func (e *CacheEntry) Expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt)
}
