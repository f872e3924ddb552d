package factory

import (
	"path/filepath"
	"testing"

	"github.com/mikey/alert-report/internal/adapters/cache"
	"github.com/mikey/alert-report/internal/config"
	"go.uber.org/zap"
)

func newTestConfig(values map[string]interface{}) *config.Config {
	v := config.NewEmptyViper()
	for key, value := range values {
		v.Set(key, value)
	}
	return config.NewFromViper(v)
}

func TestCacheFactory_BatchScopeByDefault(t *testing.T) {
	f := NewCacheFactory(newTestConfig(nil), zap.NewNop())

	if !f.BatchScoped() {
		t.Error("expected batch scope by default")
	}
	repo, err := f.CreateCacheRepository()
	if err != nil {
		t.Fatalf("CreateCacheRepository: %v", err)
	}
	if repo != nil {
		t.Errorf("expected no process-wide cache, got %T", repo)
	}

	first, second := f.CreateBatchCache(), f.CreateBatchCache()
	if first == second {
		t.Error("expected a fresh cache per batch")
	}
}

func TestCacheFactory_Disabled(t *testing.T) {
	f := NewCacheFactory(newTestConfig(map[string]interface{}{"cache.enabled": false}), zap.NewNop())
	if f.BatchScoped() {
		t.Error("a disabled cache is not batch scoped")
	}
	repo, err := f.CreateCacheRepository()
	if err != nil || repo != nil {
		t.Errorf("CreateCacheRepository() = %v, %v; want nil, nil", repo, err)
	}
}

func TestCacheFactory_ProcessScope(t *testing.T) {
	f := NewCacheFactory(newTestConfig(map[string]interface{}{"cache.scope": "process"}), zap.NewNop())
	repo, err := f.CreateCacheRepository()
	if err != nil {
		t.Fatalf("CreateCacheRepository: %v", err)
	}
	memory, ok := repo.(*cache.MemoryCache)
	if !ok {
		t.Fatalf("repo = %T, want *cache.MemoryCache", repo)
	}
	memory.Stop()

	path := filepath.Join(t.TempDir(), "nested", "alert_cache.db")
	f = NewCacheFactory(newTestConfig(map[string]interface{}{
		"cache.scope":       "process",
		"cache.type":        "sqlite",
		"cache.sqlite_path": path,
	}), zap.NewNop())
	repo, err = f.CreateCacheRepository()
	if err != nil {
		t.Fatalf("CreateCacheRepository sqlite: %v", err)
	}
	sqlite, ok := repo.(*cache.SQLiteCache)
	if !ok {
		t.Fatalf("repo = %T, want *cache.SQLiteCache", repo)
	}
	sqlite.Stop()
}

func TestCacheFactory_Unsupported(t *testing.T) {
	tests := []map[string]interface{}{
		{"cache.scope": "forever"},
		{"cache.scope": "process", "cache.type": "memcached"},
	}
	for _, values := range tests {
		f := NewCacheFactory(newTestConfig(values), zap.NewNop())
		repo, err := f.CreateCacheRepository()
		if err == nil {
			t.Errorf("%v: expected an error", values)
		}
		if repo != nil {
			t.Errorf("%v: expected a nil repository", values)
		}
	}
}
