package mailbox

import (
	"github.com/mikey/alert-report/internal/config"
	"go.uber.org/zap"
)

// Factory creates mailbox dialers from configuration
type Factory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewFactory creates a new factory for Dialer instances
func NewFactory(cfg *config.Config, logger *zap.Logger) *Factory {
	return &Factory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateDialer creates a new Dialer
func (f *Factory) CreateDialer() *Dialer {
	imapCfg := f.cfg.GetIMAP()

	return NewDialer(
		imapCfg.Address,
		imapCfg.Username,
		imapCfg.Password,
		imapCfg.Mailbox,
		imapCfg.UseTLS,
		imapCfg.Timeout,
		f.logger.Named("mailbox"),
	)
}
