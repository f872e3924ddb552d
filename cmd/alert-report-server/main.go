package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mikey/alert-report/internal/core"
	"github.com/mikey/alert-report/internal/di"
	"github.com/mikey/alert-report/internal/ports"
	"go.uber.org/zap"
)

func main() {
	// Build the dependency injection container
	container, err := di.BuildContainer()
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	logger *zap.Logger,
	frontend ports.Frontend,
	cacheRepo core.CacheRepository,
) error {
	defer logger.Sync()

	errCh := make(chan error, 1)
	go func() {
		errCh <- frontend.Start()
	}()

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		logger.Info("Shutting down...")
	case err := <-errCh:
		if err != nil {
			logger.Error("HTTP server stopped", zap.Error(err))
			stopCache(cacheRepo)
			return err
		}
	}

	// Stop the front end
	if err := frontend.Stop(); err != nil {
		logger.Error("Failed to stop HTTP server", zap.Error(err))
	}

	stopCache(cacheRepo)

	logger.Info("Shutdown complete")
	return nil
}

// stopCache stops the cache's background work if it has any
func stopCache(cacheRepo core.CacheRepository) {
	if stopper, ok := cacheRepo.(interface{ Stop() }); ok {
		stopper.Stop()
	}
}
