package core

import (
	"context"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"
)

const (
	contactCall  = "Call"
	contactEmail = "Email"
)

// Enricher turns one alert email into a report record
type Enricher struct {
	parser EmailParser
	client AlertClient
	logger *zap.Logger
}

// NewEnricher creates a new alert enricher
func NewEnricher(parser EmailParser, client AlertClient, logger *zap.Logger) *Enricher {
	return &Enricher{
		parser: parser,
		client: client,
		logger: logger,
	}
}

// ForBatch returns an enricher whose alert lookups share a cache for one
// batch only. Clients without batch scoping are used as they are.
func (e *Enricher) ForBatch() *Enricher {
	scoped, ok := e.client.(BatchScopedClient)
	if !ok {
		return e
	}
	return NewEnricher(e.parser, scoped.ForBatch(), e.logger)
}

// AlertIDFromURL returns the final path segment of an alert detail URL
func AlertIDFromURL(detailURL string) string {
	trimmed := strings.TrimSpace(detailURL)
	return trimmed[strings.LastIndex(trimmed, "/")+1:]
}

// ContactMethod classifies the escalation channel for a priority code
func ContactMethod(priority string) string {
	switch strings.ToUpper(priority) {
	case "P1", "P2":
		return contactCall
	default:
		return contactEmail
	}
}

// Enrich parses the email, looks up its alert and assembles the report record.
// It returns nil when the email carries no detail link or the lookup fails.
func (e *Enricher) Enrich(ctx context.Context, raw RawEmail, apiKey, dateLabel string) (record *EnrichedAlertRecord) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("Failed to process email",
				zap.Uint32("uid", raw.UID),
				zap.String("panic", fmt.Sprint(r)))
			record = nil
		}
	}()

	fields := e.parser.Parse(raw)
	if fields.AlertDetailURL == nil || *fields.AlertDetailURL == "" {
		e.logger.Debug("Email has no alert link", zap.Uint32("uid", raw.UID))
		return nil
	}

	alertID := AlertIDFromURL(*fields.AlertDetailURL)
	if alertID == "" {
		e.logger.Debug("Alert link has no alert id",
			zap.Uint32("uid", raw.UID),
			zap.String("link", *fields.AlertDetailURL))
		return nil
	}

	detail := e.client.FetchDetail(ctx, alertID, apiKey)
	if detail == nil {
		return nil
	}

	return e.assemble(fields, detail, dateLabel)
}

func (e *Enricher) assemble(fields ParsedEmailFields, detail *AlertDetail, dateLabel string) *EnrichedAlertRecord {
	priority := strings.ToUpper(detail.Priority)

	tags := detail.Tags
	if tags == nil {
		tags = []string{}
	}

	record := &EnrichedAlertRecord{
		Date:           dateLabel,
		TinyID:         detail.TinyID,
		AlertID:        detail.ID,
		Alias:          detail.Alias,
		AlertName:      fields.AlertName,
		Description:    fields.Description,
		Priority:       priority,
		Tags:           tags,
		Zone:           fields.Zone,
		Cluster:        detail.Detail("cluster"),
		Namespace:      detail.Detail("namespace"),
		CreatedAt:      detail.CreatedAt,
		UpdatedAt:      detail.UpdatedAt,
		Count:          detail.Count,
		IsSeen:         detail.IsSeen,
		Acknowledged:   detail.Acknowledged,
		LastOccurredAt: detail.LastOccurredAt,
		Source:         detail.Source,
		Owner:          detail.Owner,
		Severity:       detail.Detail("severity"),
		Status:         detail.Status,
		Service:        detail.Detail("service"),
		Job:            detail.Detail("job"),
		AckTime:        detail.Report.AckTime,
		AcknowledgedBy: detail.Report.AcknowledgedBy,
		ClosedBy:       detail.Report.ClosedBy,
		AlertLink:      fields.AlertDetailURL,
		RunbookURL:     detail.Detail("runbook_url"),
		PrometheusURL:  detail.Detail("prometheus_url"),
		GrafanaURL:     detail.Detail("grafana_url"),
		ContactMethod:  ContactMethod(priority),
	}

	if detail.Report.CloseTime != nil {
		record.CloseTime = float64Ptr(round3(float64(*detail.Report.CloseTime) / 60000))
	}

	record.TimeToAck, record.TimeToClose, record.TimeDifference = e.timings(detail)
	return record
}

// timings derives time-to-ack, time-to-close and their difference, all in minutes.
// All three are nil unless both createdAt and updatedAt parse.
func (e *Enricher) timings(detail *AlertDetail) (toAck, toClose, diff *float64) {
	createdAt, ok := NormalizeTimestamp(detail.CreatedAt)
	if !ok {
		e.logger.Error("Failed to parse timestamp",
			zap.String("alert_id", detail.ID),
			zap.String("field", "createdAt"),
			zap.String("value", detail.CreatedAt))
		return nil, nil, nil
	}
	updatedAt, ok := NormalizeTimestamp(detail.UpdatedAt)
	if !ok {
		e.logger.Error("Failed to parse timestamp",
			zap.String("alert_id", detail.ID),
			zap.String("field", "updatedAt"),
			zap.String("value", detail.UpdatedAt))
		return nil, nil, nil
	}

	if detail.Report.AckTime != nil {
		toAck = float64Ptr(round3(float64(*detail.Report.AckTime) / 60000))
	}
	toClose = float64Ptr(round3(updatedAt.Sub(createdAt).Minutes()))

	if toAck != nil {
		diff = float64Ptr(round3(math.Abs(*toClose - *toAck)))
	}
	return toAck, toClose, diff
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func float64Ptr(v float64) *float64 {
	return &v
}
