package di

import (
	"flag"
	"time"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/alert-report/internal/config"
	"github.com/mikey/alert-report/internal/core"
	"github.com/mikey/alert-report/internal/factory"
	"github.com/mikey/alert-report/internal/logging"
	"github.com/mikey/alert-report/internal/ports"
)

// CLIFlags contains all command line flags for the CLI application
type CLIFlags struct {
	Date       string
	ConfigFile string
	Verbose    bool
	JSONLog    bool
	Notify     bool
}

// ParseFlags parses command line flags and returns a CLIFlags struct
func ParseFlags() *CLIFlags {
	flags := &CLIFlags{}

	flag.StringVar(&flags.Date, "date", time.Now().Format(core.DateLayout), "Report date (YYYY-MM-DD)")
	flag.StringVar(&flags.ConfigFile, "config", "", "Path to config file (default: search standard locations)")
	flag.BoolVar(&flags.Verbose, "verbose", false, "Enable verbose logging")
	flag.BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")
	flag.BoolVar(&flags.Notify, "notify", false, "E-mail the report to the configured recipients")

	flag.Parse()
	return flags
}

// BuildCLIContainer creates and configures a dependency injection container for the CLI application
func BuildCLIContainer(flags *CLIFlags) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *CLIFlags { return flags }); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(flags *CLIFlags) (*zap.Logger, error) {
		return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	}); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(func(flags *CLIFlags, logger *zap.Logger) (*config.Config, error) {
		cfg, err := config.NewWithFile(flags.ConfigFile)
		if err != nil {
			return nil, err
		}
		if used := cfg.GetViper().ConfigFileUsed(); used != "" {
			logger.Debug("Loaded configuration from file", zap.String("file", used))
		}
		return cfg, nil
	}); err != nil {
		return nil, err
	}

	if err := provideReport(container); err != nil {
		return nil, err
	}

	// Register notifier, forced on by -notify
	if err := container.Provide(func(f *factory.FrontendFactory, flags *CLIFlags) ports.ReportNotifier {
		return f.CreateNotifier(flags.Notify)
	}); err != nil {
		return nil, err
	}

	return container, nil
}
