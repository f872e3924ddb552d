package mailer

import (
	"github.com/mikey/alert-report/internal/config"
	"github.com/mikey/alert-report/internal/utils"
	"go.uber.org/zap"
)

// Factory creates report notifiers from configuration
type Factory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewFactory creates a new factory for SMTPNotifier instances
func NewFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *Factory {
	return &Factory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateNotifier creates a new SMTPNotifier
func (f *Factory) CreateNotifier() *SMTPNotifier {
	notifyCfg := f.cfg.GetNotify()

	return NewSMTPNotifier(
		notifyCfg.SMTPAddress,
		notifyCfg.Username,
		notifyCfg.Password,
		notifyCfg.From,
		notifyCfg.To,
		notifyCfg.MaxBodySize,
		f.textProcessor,
		f.logger.Named("mailer"),
	)
}
