package factory

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mikey/alert-report/internal/adapters/cache"
	"github.com/mikey/alert-report/internal/config"
	"github.com/mikey/alert-report/internal/core"
	"go.uber.org/zap"
)

// CacheFactory creates cache repositories based on configuration
type CacheFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewCacheFactory creates a new cache factory
func NewCacheFactory(cfg *config.Config, logger *zap.Logger) *CacheFactory {
	return &CacheFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// BatchScoped reports whether each report run gets its own cache
func (f *CacheFactory) BatchScoped() bool {
	cacheCfg := f.cfg.GetCache()
	return cacheCfg.Enabled && cacheCfg.Scope == "batch"
}

// CreateBatchCache creates an empty in-memory cache for one report run
func (f *CacheFactory) CreateBatchCache() core.CacheRepository {
	return cache.NewMemoryCache(f.logger.Named("cache"), 0)
}

// CreateCacheRepository creates the process-wide cache repository based on
// the configuration. It returns nil when caching is disabled or batch scoped.
func (f *CacheFactory) CreateCacheRepository() (core.CacheRepository, error) {
	cacheCfg := f.cfg.GetCache()
	if !cacheCfg.Enabled {
		f.logger.Info("Alert detail cache disabled")
		return nil, nil
	}
	switch cacheCfg.Scope {
	case "batch":
		f.logger.Debug("Alert detail cache scoped to each report run")
		return nil, nil
	case "process":
	default:
		return nil, fmt.Errorf("unsupported cache scope: %s", cacheCfg.Scope)
	}

	// Expiry only matters when entries can expire
	cleanupFreq := cacheCfg.CleanupFrequency
	if cacheCfg.TTL <= 0 {
		cleanupFreq = 0
	}

	logger := f.logger.Named("cache")
	switch cacheCfg.Type {
	case "memory":
		return cache.NewMemoryCache(logger, cleanupFreq), nil
	case "sqlite":
		// Ensure directory exists
		if err := os.MkdirAll(filepath.Dir(cacheCfg.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
		}
		repo, err := cache.NewSQLiteCache(cacheCfg.SQLitePath, logger, cleanupFreq)
		if err != nil {
			return nil, err
		}
		return repo, nil
	case "mysql":
		repo, err := cache.NewMySQLCache(cacheCfg.MySQLDSN, logger, cleanupFreq)
		if err != nil {
			return nil, err
		}
		return repo, nil
	case "redis":
		repo, err := cache.NewRedisCache(cacheCfg.RedisAddr, cacheCfg.RedisPassword, cacheCfg.RedisDB, logger)
		if err != nil {
			return nil, err
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("unsupported cache type: %s", cacheCfg.Type)
	}
}
