package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/pressly/goose/v3"
)

// Connect 打开数据目录下的 SQLite 数据库并运行迁移。
func Connect(ctx context.Context, dataDir string) (*sql.DB, error) {
	if dataDir == "" {
		return nil, fmt.Errorf("data.dir 未设置")
	}
	return ConnectPath(ctx, filepath.Join(dataDir, "lightstyler.db"))
}

// ConnectPath 打开指定路径的 SQLite 数据库并运行迁移。
func ConnectPath(ctx context.Context, dbPath string) (*sql.DB, error) {
	db, err := openDB(dbPath)
	if err != nil {
		return nil, err
	}

	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	goose.SetBaseFS(FS)

	if err := goose.SetDialect("sqlite3"); err != nil {
		slog.Error("设置方言失败", "error", err)
		db.Close()
		return nil, fmt.Errorf("设置方言失败: %w", err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		slog.Error("应用迁移失败", "error", err)
		db.Close()
		return nil, fmt.Errorf("应用迁移失败: %w", err)
	}

	return db, nil
}
