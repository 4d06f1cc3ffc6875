package settings

import (
	"context"
	"database/sql"
	"errors"

	"github.com/purpose168/lightstyler/internal/db"
)

// LegacyStore 是旧版本地存储（扁平键值，不在命名空间内）。
type LegacyStore interface {
	GetItem(ctx context.Context, key string) (value string, ok bool, err error)
	RemoveItem(ctx context.Context, key string) error
}

// DBLegacyStore 以 SQLite local_storage 表实现 LegacyStore。
type DBLegacyStore struct {
	q db.Querier
}

var _ LegacyStore = (*DBLegacyStore)(nil)

// NewDBLegacyStore 返回基于 q 的旧版存储。
func NewDBLegacyStore(q db.Querier) *DBLegacyStore {
	return &DBLegacyStore{q: q}
}

// GetItem 实现 LegacyStore。
func (s *DBLegacyStore) GetItem(ctx context.Context, key string) (string, bool, error) {
	item, err := s.q.GetItem(ctx, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return item.Value, true, nil
}

// SetItem 写入一条记录。
func (s *DBLegacyStore) SetItem(ctx context.Context, key, value string) error {
	return s.q.SetItem(ctx, db.SetItemParams{Key: key, Value: value})
}

// RemoveItem 实现 LegacyStore。
func (s *DBLegacyStore) RemoveItem(ctx context.Context, key string) error {
	return s.q.RemoveItem(ctx, key)
}
