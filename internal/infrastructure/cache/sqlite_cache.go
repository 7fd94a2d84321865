package cache

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"draftdesk/internal/errs"
	"draftdesk/internal/infrastructure/persistence/sqlite/model"
	"draftdesk/internal/ports"
)

// SQLiteCache backs ports.Cache with the draftdesk_kv table. TTL is accepted
// for interface compatibility and ignored; callers that need expiry encode a
// deadline in the value.
type SQLiteCache struct {
	db *gorm.DB
}

var _ ports.Cache = (*SQLiteCache)(nil)

func NewSQLiteCache(db *gorm.DB) *SQLiteCache {
	return &SQLiteCache{db: db}
}

func (c *SQLiteCache) Get(ctx context.Context, key string) (string, bool, error) {
	if ctx == nil {
		return "", false, errors.New("context is required")
	}

	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return "", false, errors.New("key is required")
	}

	var row model.KV
	if err := c.db.WithContext(ctx).Where("key = ?", trimmed).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, errs.Wrap(err, "query kv by key")
	}
	return row.Value, true, nil
}

func (c *SQLiteCache) Set(ctx context.Context, key string, value string, _ time.Duration) error {
	if ctx == nil {
		return errors.New("context is required")
	}

	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return errors.New("key is required")
	}

	row := model.KV{
		Key:       trimmed,
		Value:     value,
		UpdatedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}
	if err := c.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]any{
			"value":      row.Value,
			"updated_at": row.UpdatedAt,
		}),
	}).Create(&row).Error; err != nil {
		return errs.Wrap(err, "upsert kv key")
	}
	return nil
}

func (c *SQLiteCache) Delete(ctx context.Context, key string) error {
	if ctx == nil {
		return errors.New("context is required")
	}

	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return errors.New("key is required")
	}

	if err := c.db.WithContext(ctx).Where("key = ?", trimmed).Delete(&model.KV{}).Error; err != nil {
		return errs.Wrap(err, "delete kv key")
	}
	return nil
}
