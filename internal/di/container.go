package di

import (
	"go.uber.org/dig"

	"github.com/mikey/alert-report/internal/config"
	"github.com/mikey/alert-report/internal/core"
	"github.com/mikey/alert-report/internal/factory"
	"github.com/mikey/alert-report/internal/logging"
	"github.com/mikey/alert-report/internal/ports"
	"github.com/mikey/alert-report/internal/utils"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	if err := provideReport(container); err != nil {
		return nil, err
	}

	// Register notifier
	if err := container.Provide(func(f *factory.FrontendFactory) ports.ReportNotifier {
		return f.CreateNotifier(false)
	}); err != nil {
		return nil, err
	}

	// Register HTTP front end
	if err := container.Provide(func(
		f *factory.FrontendFactory,
		service *core.ReportService,
		notifier ports.ReportNotifier,
	) ports.Frontend {
		return f.CreateFrontend(service, notifier)
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// provideReport registers everything a report run needs once configuration
// and a logger are available
func provideReport(container *dig.Container) error {
	// Register factories
	if err := container.Provide(factory.NewTextFactory); err != nil {
		return err
	}
	if err := container.Provide(factory.NewCacheFactory); err != nil {
		return err
	}
	if err := container.Provide(factory.NewReportFactory); err != nil {
		return err
	}
	if err := container.Provide(factory.NewFrontendFactory); err != nil {
		return err
	}

	// Register text processor
	if err := container.Provide(func(f *factory.TextFactory) *utils.TextProcessor {
		return f.CreateTextProcessor()
	}); err != nil {
		return err
	}

	// Register cache repository
	if err := container.Provide(func(f *factory.CacheFactory) (core.CacheRepository, error) {
		return f.CreateCacheRepository()
	}); err != nil {
		return err
	}

	// Register report service
	if err := container.Provide(func(f *factory.ReportFactory, cache core.CacheRepository) *core.ReportService {
		return f.CreateReportService(cache)
	}); err != nil {
		return err
	}

	return nil
}
