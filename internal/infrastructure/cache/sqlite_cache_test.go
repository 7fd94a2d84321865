package cache

import (
	"context"
	"path/filepath"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"draftdesk/internal/infrastructure/persistence/sqlite/model"
)

func setupCache(t *testing.T) *SQLiteCache {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "cache.sqlite")
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	if err := db.AutoMigrate(&model.KV{}); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return NewSQLiteCache(db)
}

func TestCacheRoundTrip(t *testing.T) {
	c := setupCache(t)
	ctx := context.Background()

	if _, found, err := c.Get(ctx, "missing"); err != nil || found {
		t.Fatalf("Get(missing) = found=%v err=%v", found, err)
	}

	if err := c.Set(ctx, "ingest:last_run", `{"pages":2}`, 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	value, found, err := c.Get(ctx, "ingest:last_run")
	if err != nil || !found {
		t.Fatalf("Get() = found=%v err=%v", found, err)
	}
	if value != `{"pages":2}` {
		t.Fatalf("Get() = %q", value)
	}

	// Set on an existing key overwrites.
	if err := c.Set(ctx, "ingest:last_run", `{"pages":3}`, 0); err != nil {
		t.Fatalf("second Set() error = %v", err)
	}
	value, _, err = c.Get(ctx, "ingest:last_run")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if value != `{"pages":3}` {
		t.Fatalf("Get() after overwrite = %q", value)
	}

	if err := c.Delete(ctx, "ingest:last_run"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, found, _ := c.Get(ctx, "ingest:last_run"); found {
		t.Fatal("Get() after delete found = true")
	}
}

func TestCacheRejectsEmptyKey(t *testing.T) {
	c := setupCache(t)
	ctx := context.Background()

	if _, _, err := c.Get(ctx, "  "); err == nil {
		t.Fatal("Get(empty) error = nil")
	}
	if err := c.Set(ctx, "", "v", 0); err == nil {
		t.Fatal("Set(empty) error = nil")
	}
}
