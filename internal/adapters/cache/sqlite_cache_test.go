package cache

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newTestSQLiteCache(t *testing.T) *SQLiteCache {
	t.Helper()
	c, err := NewSQLiteCache(filepath.Join(t.TempDir(), "alert_cache.db"), zap.NewNop(), 0)
	if err != nil {
		t.Fatalf("NewSQLiteCache: %v", err)
	}
	t.Cleanup(c.Stop)
	return c
}

func TestSQLiteCache_RoundTrip(t *testing.T) {
	c := newTestSQLiteCache(t)
	ctx := context.Background()

	if _, err := c.Get(ctx, "a1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get on empty cache error = %v, want ErrNotFound", err)
	}

	if err := c.Set(ctx, testEntry("a1", time.Time{})); err != nil {
		t.Fatalf("Set: %v", err)
	}
	entry, err := c.Get(ctx, "a1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if entry.AlertID != "a1" || entry.Detail.TinyID != "7" {
		t.Errorf("unexpected entry: %+v", entry)
	}
	if entry.Detail.Report.AckTime == nil || *entry.Detail.Report.AckTime != 1800000 {
		t.Errorf("AckTime = %v, want 1800000", entry.Detail.Report.AckTime)
	}
	if !entry.ExpiresAt.IsZero() {
		t.Errorf("ExpiresAt = %v, want zero", entry.ExpiresAt)
	}

	// Replacing keeps a single row
	replacement := testEntry("a1", time.Time{})
	replacement.Detail.TinyID = "8"
	if err := c.Set(ctx, replacement); err != nil {
		t.Fatalf("Set replacement: %v", err)
	}
	entry, err = c.Get(ctx, "a1")
	if err != nil {
		t.Fatalf("Get replacement: %v", err)
	}
	if entry.Detail.TinyID != "8" {
		t.Errorf("TinyID = %q, want 8", entry.Detail.TinyID)
	}

	if err := c.Delete(ctx, "a1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := c.Get(ctx, "a1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete error = %v, want ErrNotFound", err)
	}
}

func TestSQLiteCache_Expiry(t *testing.T) {
	c := newTestSQLiteCache(t)
	ctx := context.Background()

	_ = c.Set(ctx, testEntry("old", time.Now().Add(-time.Hour)))
	_ = c.Set(ctx, testEntry("fresh", time.Now().Add(time.Hour)))

	if _, err := c.Get(ctx, "old"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get expired error = %v, want ErrNotFound", err)
	}
	if err := c.Cleanup(ctx); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}

	var rows int
	if err := c.db.QueryRow("SELECT COUNT(*) FROM alert_cache").Scan(&rows); err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if rows != 1 {
		t.Errorf("rows after cleanup = %d, want 1", rows)
	}
	if _, err := c.Get(ctx, "fresh"); err != nil {
		t.Errorf("Get fresh: %v", err)
	}
}
