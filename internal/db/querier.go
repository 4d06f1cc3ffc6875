// 由 sqlc 自动生成的代码。请勿手动编辑。
// 版本信息:
//   sqlc v1.30.0

package db

import (
	"context"
)

// Querier 定义了数据库查询接口
type Querier interface {
	// GetItem 按键读取一条记录
	GetItem(ctx context.Context, key string) (LocalStorageItem, error)
	// ListItems 按键名顺序列出全部记录
	ListItems(ctx context.Context) ([]LocalStorageItem, error)
	// RemoveItem 删除一条记录
	RemoveItem(ctx context.Context, key string) error
	// SetItem 写入或覆盖一条记录
	SetItem(ctx context.Context, arg SetItemParams) error
}

var _ Querier = (*Queries)(nil)
