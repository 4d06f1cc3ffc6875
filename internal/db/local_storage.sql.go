// 由 sqlc 自动生成的代码。请勿编辑。
// 版本信息:
//   sqlc v1.30.0
// 源文件: local_storage.sql

package db

import (
	"context"
)

const getItem = `-- name: GetItem :one
SELECT key, value, updated_at
FROM local_storage
WHERE key = ? LIMIT 1
`

func (q *Queries) GetItem(ctx context.Context, key string) (LocalStorageItem, error) {
	row := q.queryRow(ctx, q.getItemStmt, getItem, key)
	var i LocalStorageItem
	err := row.Scan(&i.Key, &i.Value, &i.UpdatedAt)
	return i, err
}

const listItems = `-- name: ListItems :many
SELECT key, value, updated_at
FROM local_storage
ORDER BY key ASC
`

func (q *Queries) ListItems(ctx context.Context) ([]LocalStorageItem, error) {
	rows, err := q.query(ctx, q.listItemsStmt, listItems)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []LocalStorageItem{}
	for rows.Next() {
		var i LocalStorageItem
		if err := rows.Scan(&i.Key, &i.Value, &i.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const removeItem = `-- name: RemoveItem :exec
DELETE FROM local_storage
WHERE key = ?
`

func (q *Queries) RemoveItem(ctx context.Context, key string) error {
	_, err := q.exec(ctx, q.removeItemStmt, removeItem, key)
	return err
}

const setItem = `-- name: SetItem :exec
INSERT INTO local_storage (key, value, updated_at)
VALUES (?, ?, strftime('%s', 'now'))
ON CONFLICT (key) DO UPDATE SET
    value = excluded.value,
    updated_at = excluded.updated_at
`

// SetItemParams 写入记录的参数
type SetItemParams struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func (q *Queries) SetItem(ctx context.Context, arg SetItemParams) error {
	_, err := q.exec(ctx, q.setItemStmt, setItem, arg.Key, arg.Value)
	return err
}
