package opsgenie

import (
	"net/http"

	"github.com/mikey/alert-report/internal/config"
	"github.com/mikey/alert-report/internal/core"
	"go.uber.org/zap"
)

// Factory creates Opsgenie clients from configuration
type Factory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewFactory creates a new factory for Client instances
func NewFactory(cfg *config.Config, logger *zap.Logger) *Factory {
	return &Factory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateClient creates a new Client that caches lookups in cache. A nil
// cache disables caching.
func (f *Factory) CreateClient(cache core.CacheRepository) *Client {
	opsgenieCfg := f.cfg.GetOpsgenie()
	cacheCfg := f.cfg.GetCache()

	policy := DefaultRetryPolicy()
	if opsgenieCfg.MaxAttempts > 0 {
		policy.MaxAttempts = opsgenieCfg.MaxAttempts
	}
	if opsgenieCfg.BackoffFactor > 0 {
		policy.BackoffFactor = opsgenieCfg.BackoffFactor
	}
	if opsgenieCfg.BackoffUnit > 0 {
		policy.BackoffUnit = opsgenieCfg.BackoffUnit
	}
	if opsgenieCfg.NetworkPause > 0 {
		policy.NetworkPause = opsgenieCfg.NetworkPause
	}

	breaker := DefaultBreakerSettings()
	if opsgenieCfg.BreakerFailures > 0 {
		breaker.ConsecutiveFailures = uint32(opsgenieCfg.BreakerFailures)
	}
	if opsgenieCfg.BreakerTimeout > 0 {
		breaker.OpenTimeout = opsgenieCfg.BreakerTimeout
	}

	return NewClient(
		opsgenieCfg.BaseURL,
		&http.Client{Timeout: opsgenieCfg.Timeout},
		policy,
		breaker,
		cache,
		cacheCfg.TTL,
		f.logger.Named("opsgenie"),
	)
}
