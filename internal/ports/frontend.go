package ports

import (
	"context"

	"github.com/mikey/alert-report/internal/core"
)

// Frontend defines the interface for a long-running report front end
type Frontend interface {
	// Start starts serving and blocks until the front end stops
	Start() error

	// Stop stops the front end
	Stop() error
}

// ReportNotifier delivers a finished batch report
type ReportNotifier interface {
	// Notify sends the report for date
	Notify(ctx context.Context, date string, result core.BatchResult) error
}
