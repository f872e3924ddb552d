package factory

import (
	"github.com/mikey/alert-report/internal/adapters/http"
	"github.com/mikey/alert-report/internal/adapters/mailer"
	"github.com/mikey/alert-report/internal/config"
	"github.com/mikey/alert-report/internal/core"
	"github.com/mikey/alert-report/internal/ports"
	"github.com/mikey/alert-report/internal/utils"
	"go.uber.org/zap"
)

// FrontendFactory creates the report front end and notifier
type FrontendFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewFrontendFactory creates a new frontend factory
func NewFrontendFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *FrontendFactory {
	return &FrontendFactory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateNotifier creates the report notifier, or nil when notification is
// disabled and force is false
func (f *FrontendFactory) CreateNotifier(force bool) ports.ReportNotifier {
	if !force && !f.cfg.GetNotify().Enabled {
		return nil
	}
	return mailer.NewFactory(f.cfg, f.logger, f.textProcessor).CreateNotifier()
}

// CreateFrontend creates the HTTP front end for service
func (f *FrontendFactory) CreateFrontend(service *core.ReportService, notifier ports.ReportNotifier) ports.Frontend {
	serverCfg := f.cfg.GetServer()

	return http.NewServer(
		service,
		notifier,
		serverCfg.ListenAddress,
		serverCfg.CORSOrigins,
		f.logger.Named("http"),
	)
}
