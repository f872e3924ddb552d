package mailbox

import (
	"context"
	"io"
	"time"

	"github.com/emersion/go-imap"
	"github.com/mikey/alert-report/internal/core"
	"go.uber.org/zap"
)

// fetchBatchSize bounds the number of UIDs requested per FETCH
const fetchBatchSize = 100

// Session is an authenticated, read-only view of one mailbox
type Session struct {
	client imapClient
	logger *zap.Logger
}

// Search returns every message whose subject contains subject and whose
// internal date is on or after the day of since, in search order. Failures
// are logged and yield an empty result.
func (s *Session) Search(ctx context.Context, subject string, since time.Time) []core.RawEmail {
	criteria := imap.NewSearchCriteria()
	criteria.Header.Add("Subject", subject)
	criteria.Since = time.Date(since.Year(), since.Month(), since.Day(), 0, 0, 0, 0, time.UTC)

	uids, err := s.client.UidSearch(criteria)
	if err != nil {
		s.logger.Error("Failed to search mailbox", zap.String("subject", subject), zap.Error(err))
		return []core.RawEmail{}
	}
	if len(uids) == 0 {
		return []core.RawEmail{}
	}

	s.logger.Debug("Mailbox search matched", zap.Int("count", len(uids)))

	fetched := make(map[uint32]core.RawEmail, len(uids))
	for start := 0; start < len(uids); start += fetchBatchSize {
		if err := ctx.Err(); err != nil {
			s.logger.Warn("Mailbox fetch cancelled", zap.Error(err))
			return []core.RawEmail{}
		}
		end := min(start+fetchBatchSize, len(uids))
		if err := s.fetch(uids[start:end], fetched); err != nil {
			s.logger.Error("Failed to fetch messages", zap.Int("count", end-start), zap.Error(err))
			return []core.RawEmail{}
		}
	}

	emails := make([]core.RawEmail, 0, len(uids))
	for _, uid := range uids {
		if email, ok := fetched[uid]; ok {
			emails = append(emails, email)
		}
	}
	return emails
}

// fetch retrieves the full body of each UID without marking it seen
func (s *Session) fetch(uids []uint32, into map[uint32]core.RawEmail) error {
	uidSet := new(imap.SeqSet)
	uidSet.AddNum(uids...)

	section := &imap.BodySectionName{Peek: true}
	items := []imap.FetchItem{imap.FetchUid, imap.FetchEnvelope, section.FetchItem()}

	messages := make(chan *imap.Message, len(uids))
	done := make(chan error, 1)
	go func() {
		done <- s.client.UidFetch(uidSet, items, messages)
	}()

	for msg := range messages {
		if msg == nil {
			continue
		}
		email := core.RawEmail{UID: msg.Uid, From: senderAddress(msg.Envelope)}
		for _, literal := range msg.Body {
			content, err := io.ReadAll(literal)
			if err != nil {
				s.logger.Warn("Failed to read message body", zap.Uint32("uid", msg.Uid), zap.Error(err))
				continue
			}
			if len(content) > 0 {
				email.Raw = content
			}
		}
		if email.Raw != nil {
			into[msg.Uid] = email
		}
	}

	return <-done
}

func senderAddress(envelope *imap.Envelope) string {
	if envelope == nil || len(envelope.From) == 0 || envelope.From[0] == nil {
		return ""
	}
	return envelope.From[0].Address()
}

// Close logs out and releases the connection
func (s *Session) Close() error {
	return s.client.Logout()
}
