// 由 sqlc 自动生成的代码。请勿手动编辑。
// 版本信息:
//   sqlc v1.30.0

package db

// LocalStorageItem 是本地存储中的一条键值记录
type LocalStorageItem struct {
	Key       string `json:"key"`
	Value     string `json:"value"`
	UpdatedAt int64  `json:"updated_at"` // Unix时间戳
}
