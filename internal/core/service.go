package core

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// DateLayout is the layout of the date accepted by Run
	DateLayout = "2006-01-02"
	// DateLabelLayout is the layout of the record Date field and the IMAP SINCE date
	DateLabelLayout = "02-Jan-2006"
)

// ReportSettings holds the parameters of a report run
type ReportSettings struct {
	Subject     string
	APIKey      string
	Concurrency int
}

// ReportService is the core service that builds the alert report for a date
type ReportService struct {
	mailbox  MailboxDialer
	enricher *Enricher
	senders  SenderPolicy
	settings ReportSettings
	logger   *zap.Logger
}

// NewReportService creates a new report service
func NewReportService(
	mailbox MailboxDialer,
	enricher *Enricher,
	senders SenderPolicy,
	settings ReportSettings,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		mailbox:  mailbox,
		enricher: enricher,
		senders:  senders,
		settings: settings,
		logger:   logger,
	}
}

// Run fetches the alert emails received since date (YYYY-MM-DD), enriches them
// concurrently and returns the surviving records in mailbox order. It never
// fails; any top-level problem yields an empty result.
func (s *ReportService) Run(ctx context.Context, date string) (result BatchResult) {
	start := time.Now()
	logger := s.logger.With(zap.String("run_id", uuid.NewString()), zap.String("date", date))

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Failed to process alerts", zap.String("panic", fmt.Sprint(r)))
			result = EmptyBatchResult()
		}
	}()

	day, err := time.Parse(DateLayout, date)
	if err != nil {
		logger.Error("Invalid report date", zap.Error(err))
		return EmptyBatchResult()
	}
	dateLabel := day.Format(DateLabelLayout)

	session, err := s.mailbox.Open(ctx)
	if err != nil {
		logger.Error("Failed to open mailbox", zap.Error(err))
		return EmptyBatchResult()
	}
	defer func() {
		if err := session.Close(); err != nil {
			logger.Warn("Failed to close mailbox session", zap.Error(err))
		}
	}()

	emails := session.Search(ctx, s.settings.Subject, day)
	if len(emails) == 0 {
		logger.Info("No emails found for the given date")
		return EmptyBatchResult()
	}

	emails = s.acceptedSenders(emails, logger)
	records := s.enrichAll(ctx, s.enricher.ForBatch(), emails, dateLabel)

	elapsed := time.Since(start).Seconds()
	logger.Info("Processed alerts",
		zap.Int("emails", len(emails)),
		zap.Int("count", len(records)),
		zap.Float64("processing_time_seconds", elapsed))

	return BatchResult{
		Records:               records,
		ProcessingTimeSeconds: elapsed,
		Count:                 len(records),
	}
}

// acceptedSenders drops emails the sender policy rejects
func (s *ReportService) acceptedSenders(emails []RawEmail, logger *zap.Logger) []RawEmail {
	if s.senders == nil {
		return emails
	}

	accepted := make([]RawEmail, 0, len(emails))
	for _, raw := range emails {
		if !s.senders.IsAllowed(raw.From) {
			logger.Debug("Skipping email from unlisted sender",
				zap.Uint32("uid", raw.UID),
				zap.String("sender", raw.From))
			continue
		}
		accepted = append(accepted, raw)
	}
	return accepted
}

// enrichAll runs one enrichment per email and keeps positional order
func (s *ReportService) enrichAll(ctx context.Context, enricher *Enricher, emails []RawEmail, dateLabel string) []EnrichedAlertRecord {
	results := make([]*EnrichedAlertRecord, len(emails))

	var g errgroup.Group
	if s.settings.Concurrency > 0 {
		g.SetLimit(s.settings.Concurrency)
	}
	for i, raw := range emails {
		i, raw := i, raw
		g.Go(func() error {
			results[i] = enricher.Enrich(ctx, raw, s.settings.APIKey, dateLabel)
			return nil
		})
	}
	_ = g.Wait()

	records := make([]EnrichedAlertRecord, 0, len(results))
	for _, r := range results {
		if r != nil {
			records = append(records, *r)
		}
	}
	return records
}
