// Package mailbox searches an IMAP mailbox for alert notification emails.
package mailbox

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/mikey/alert-report/internal/core"
	"go.uber.org/zap"
)

// ErrMissingCredentials is returned when no username or password is configured
var ErrMissingCredentials = errors.New("mailbox credentials are not configured")

// imapClient is the subset of *client.Client a session uses
type imapClient interface {
	Login(username, password string) error
	Select(name string, readOnly bool) (*imap.MailboxStatus, error)
	UidSearch(criteria *imap.SearchCriteria) ([]uint32, error)
	UidFetch(seqset *imap.SeqSet, items []imap.FetchItem, ch chan *imap.Message) error
	Logout() error
}

// dialFunc connects to the server without authenticating
type dialFunc func(ctx context.Context) (imapClient, error)

// Dialer opens authenticated, read-only sessions on one mailbox
type Dialer struct {
	address  string
	username string
	password string
	mailbox  string
	dial     dialFunc
	logger   *zap.Logger
}

// NewDialer creates a new IMAP dialer
func NewDialer(address, username, password, mailbox string, useTLS bool, timeout time.Duration, logger *zap.Logger) *Dialer {
	d := &Dialer{
		address:  address,
		username: username,
		password: password,
		mailbox:  mailbox,
		logger:   logger,
	}
	d.dial = func(ctx context.Context) (imapClient, error) {
		c, err := connect(ctx, address, useTLS, timeout)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	return d
}

// connect dials the server, over TLS when useTLS is set
func connect(ctx context.Context, address string, useTLS bool, timeout time.Duration) (*client.Client, error) {
	netDialer := &net.Dialer{Timeout: timeout}

	var conn net.Conn
	var err error
	if useTLS {
		host, _, splitErr := net.SplitHostPort(address)
		if splitErr != nil {
			return nil, fmt.Errorf("invalid IMAP address %q: %w", address, splitErr)
		}
		tlsDialer := &tls.Dialer{NetDialer: netDialer, Config: &tls.Config{ServerName: host}}
		conn, err = tlsDialer.DialContext(ctx, "tcp", address)
	} else {
		conn, err = netDialer.DialContext(ctx, "tcp", address)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to IMAP server: %w", err)
	}

	c, err := client.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to start IMAP session: %w", err)
	}
	if timeout > 0 {
		c.Timeout = timeout
	}
	return c, nil
}

// Open connects, logs in and selects the mailbox read-only
func (d *Dialer) Open(ctx context.Context) (core.MailboxSession, error) {
	if d.username == "" || d.password == "" {
		return nil, ErrMissingCredentials
	}

	c, err := d.dial(ctx)
	if err != nil {
		return nil, err
	}

	if err := c.Login(d.username, d.password); err != nil {
		c.Logout()
		return nil, fmt.Errorf("failed to log in to IMAP server: %w", err)
	}

	if _, err := c.Select(d.mailbox, true); err != nil {
		c.Logout()
		return nil, fmt.Errorf("failed to select mailbox %q: %w", d.mailbox, err)
	}

	d.logger.Debug("Opened mailbox session",
		zap.String("address", d.address),
		zap.String("mailbox", d.mailbox))

	return &Session{client: c, logger: d.logger}, nil
}
