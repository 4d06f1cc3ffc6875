package db

import "embed"

// FS 包含嵌入的 goose 迁移脚本。
//
//go:embed migrations/*.sql
var FS embed.FS
