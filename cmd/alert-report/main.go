package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/goccy/go-json"
	"github.com/mikey/alert-report/internal/core"
	"github.com/mikey/alert-report/internal/di"
	"github.com/mikey/alert-report/internal/ports"
	"go.uber.org/zap"
)

func main() {
	flags := di.ParseFlags()

	container, err := di.BuildCLIContainer(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	if err := container.Invoke(run); err != nil {
		fmt.Fprintf(os.Stderr, "Application error: %v\n", err)
		os.Exit(1)
	}
}

// run builds the report for the requested date and prints it as JSON
func run(
	flags *di.CLIFlags,
	logger *zap.Logger,
	service *core.ReportService,
	notifier ports.ReportNotifier,
	cacheRepo core.CacheRepository,
) error {
	defer logger.Sync()

	// Stop the cache if needed
	if stopper, ok := cacheRepo.(interface{ Stop() }); ok {
		defer stopper.Stop()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result := service.Run(ctx, flags.Date)

	if notifier != nil {
		if err := notifier.Notify(ctx, flags.Date, result); err != nil {
			logger.Error("Failed to send alert report", zap.String("date", flags.Date), zap.Error(err))
		}
	}

	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	fmt.Println(string(output))
	return nil
}
