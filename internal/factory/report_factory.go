package factory

import (
	"github.com/mikey/alert-report/internal/adapters/mailbox"
	"github.com/mikey/alert-report/internal/adapters/opsgenie"
	"github.com/mikey/alert-report/internal/config"
	"github.com/mikey/alert-report/internal/core"
	"github.com/mikey/alert-report/internal/utils"
	"github.com/mikey/alert-report/internal/whitelist"
	"go.uber.org/zap"
)

// ReportFactory wires the report service from configuration
type ReportFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textFactory   *TextFactory
	cacheFactory  *CacheFactory
	textProcessor *utils.TextProcessor
}

// NewReportFactory creates a new report factory
func NewReportFactory(
	cfg *config.Config,
	logger *zap.Logger,
	textFactory *TextFactory,
	cacheFactory *CacheFactory,
	textProcessor *utils.TextProcessor,
) *ReportFactory {
	return &ReportFactory{
		cfg:           cfg,
		logger:        logger,
		textFactory:   textFactory,
		cacheFactory:  cacheFactory,
		textProcessor: textProcessor,
	}
}

// CreateReportService creates the report service. cache is the process-wide
// cache and may be nil.
func (f *ReportFactory) CreateReportService(cache core.CacheRepository) *core.ReportService {
	imapCfg := f.cfg.GetIMAP()
	reportCfg := f.cfg.GetReport()

	dialer := mailbox.NewFactory(f.cfg, f.logger).CreateDialer()
	client := opsgenie.NewFactory(f.cfg, f.logger).CreateClient(cache)
	if f.cacheFactory.BatchScoped() {
		client.WithBatchCache(f.cacheFactory.CreateBatchCache)
	}
	parser := f.textFactory.CreateParser(f.textProcessor)
	enricher := core.NewEnricher(parser, client, f.logger.Named("enricher"))
	senders := whitelist.NewChecker(reportCfg.AllowedSenders, f.logger.Named("senders"))

	return core.NewReportService(
		dialer,
		enricher,
		senders,
		core.ReportSettings{
			Subject:     imapCfg.Subject,
			APIKey:      f.cfg.GetOpsgenie().APIKey,
			Concurrency: reportCfg.Concurrency,
		},
		f.logger.Named("report"),
	)
}
