// Package mailer e-mails finished alert reports over SMTP.
package mailer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/mikey/alert-report/internal/core"
	"github.com/mikey/alert-report/internal/utils"
	"go.uber.org/zap"
)

// ErrNoRecipients is returned when no recipient is configured or accepted
var ErrNoRecipients = errors.New("no report recipients")

// SMTPNotifier sends a plain-text report summary through an SMTP relay
type SMTPNotifier struct {
	address       string
	username      string
	password      string
	from          string
	to            []string
	maxBodySize   int
	textProcessor *utils.TextProcessor
	logger        *zap.Logger
}

// NewSMTPNotifier creates a new SMTP report notifier
func NewSMTPNotifier(
	address string,
	username string,
	password string,
	from string,
	to []string,
	maxBodySize int,
	textProcessor *utils.TextProcessor,
	logger *zap.Logger,
) *SMTPNotifier {
	return &SMTPNotifier{
		address:       address,
		username:      username,
		password:      password,
		from:          from,
		to:            to,
		maxBodySize:   maxBodySize,
		textProcessor: textProcessor,
		logger:        logger,
	}
}

// Notify e-mails the report for date to every configured recipient
func (n *SMTPNotifier) Notify(ctx context.Context, date string, result core.BatchResult) error {
	if len(n.to) == 0 {
		return ErrNoRecipients
	}

	message, err := n.compose(date, result)
	if err != nil {
		return err
	}

	if err := n.send(ctx, message); err != nil {
		return err
	}

	n.logger.Info("Sent alert report",
		zap.String("date", date),
		zap.Int("count_alerts", result.Count),
		zap.Strings("recipients", n.to))
	return nil
}

// compose renders the summary as an RFC 5322 message
func (n *SMTPNotifier) compose(date string, result core.BatchResult) ([]byte, error) {
	var h mail.Header
	h.SetDate(time.Now())
	h.SetSubject(fmt.Sprintf("Opsgenie alert report for %s (%d alerts)", date, result.Count))
	h.SetAddressList("From", []*mail.Address{{Address: n.from}})
	recipients := make([]*mail.Address, 0, len(n.to))
	for _, to := range n.to {
		recipients = append(recipients, &mail.Address{Address: to})
	}
	h.SetAddressList("To", recipients)
	h.SetContentType("text/plain", map[string]string{"charset": "utf-8"})

	var buf bytes.Buffer
	w, err := mail.CreateSingleInlineWriter(&buf, h)
	if err != nil {
		return nil, fmt.Errorf("failed to create message writer: %w", err)
	}

	body := n.textProcessor.TruncateText(Summary(date, result), n.maxBodySize)
	if _, err := w.Write([]byte(body)); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to write message body: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to close message writer: %w", err)
	}

	return buf.Bytes(), nil
}

// Summary renders a plain-text summary of a batch result
func Summary(date string, result core.BatchResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Alert report for %s\n", date)
	fmt.Fprintf(&b, "Alerts: %d\n", result.Count)
	fmt.Fprintf(&b, "Processing time: %.3fs\n", result.ProcessingTimeSeconds)

	if len(result.Records) > 0 {
		b.WriteString("\n")
	}
	for _, record := range result.Records {
		name := record.AlertID
		if record.AlertName != nil {
			name = *record.AlertName
		}
		fmt.Fprintf(&b, "[%s] %s (#%s) %s, contact %s",
			record.Priority, name, record.TinyID, record.Status, record.ContactMethod)
		if record.TimeToAck != nil {
			b.WriteString(", ack " + strconv.FormatFloat(*record.TimeToAck, 'f', -1, 64) + "m")
		}
		if record.TimeToClose != nil {
			b.WriteString(", close " + strconv.FormatFloat(*record.TimeToClose, 'f', -1, 64) + "m")
		}
		b.WriteString("\n")
	}

	return b.String()
}

// send delivers message over one SMTP transaction
func (n *SMTPNotifier) send(ctx context.Context, message []byte) error {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}

	dialer := &net.Dialer{Timeout: 10 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", n.address)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}

	// Set a deadline for the connection
	if err := conn.SetDeadline(time.Now().Add(30 * time.Second)); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set connection deadline: %w", err)
	}

	c := smtp.NewClient(conn)
	defer c.Close()

	if err := c.Hello(hostname); err != nil {
		return fmt.Errorf("EHLO failed: %w", err)
	}

	if n.username != "" {
		if err := c.Auth(sasl.NewPlainClient("", n.username, n.password)); err != nil {
			return fmt.Errorf("AUTH failed: %w", err)
		}
	}

	if err := c.Mail(n.from, nil); err != nil {
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}

	recipientOK := false
	for _, recipient := range n.to {
		if err := c.Rcpt(recipient, nil); err != nil {
			n.logger.Warn("RCPT TO failed for recipient",
				zap.String("recipient", recipient),
				zap.Error(err))
			continue
		}
		recipientOK = true
	}
	if !recipientOK {
		return ErrNoRecipients
	}

	wc, err := c.Data()
	if err != nil {
		return fmt.Errorf("DATA command failed: %w", err)
	}
	if _, err := wc.Write(message); err != nil {
		wc.Close()
		return fmt.Errorf("failed to send report data: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	if err := c.Quit(); err != nil {
		// The report has already been accepted
		n.logger.Warn("QUIT command failed", zap.Error(err))
	}

	return nil
}
