// 由 sqlc 自动生成的代码。请勿编辑。
// 版本信息:
//   sqlc v1.30.0

package db

import (
	"context"
	"database/sql"
	"fmt"
)

// DBTX 封装了数据库连接和事务共有的方法
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	PrepareContext(context.Context, string) (*sql.Stmt, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

// New 返回不使用预编译语句的 Queries
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// Prepare 预编译所有查询并返回 Queries
func Prepare(ctx context.Context, db DBTX) (*Queries, error) {
	q := Queries{db: db}
	var err error
	if q.getItemStmt, err = db.PrepareContext(ctx, getItem); err != nil {
		return nil, fmt.Errorf("准备查询 GetItem 时出错: %w", err)
	}
	if q.listItemsStmt, err = db.PrepareContext(ctx, listItems); err != nil {
		return nil, fmt.Errorf("准备查询 ListItems 时出错: %w", err)
	}
	if q.removeItemStmt, err = db.PrepareContext(ctx, removeItem); err != nil {
		return nil, fmt.Errorf("准备查询 RemoveItem 时出错: %w", err)
	}
	if q.setItemStmt, err = db.PrepareContext(ctx, setItem); err != nil {
		return nil, fmt.Errorf("准备查询 SetItem 时出错: %w", err)
	}
	return &q, nil
}

// Close 关闭所有预编译语句
func (q *Queries) Close() error {
	var err error
	if q.getItemStmt != nil {
		if cerr := q.getItemStmt.Close(); cerr != nil {
			err = fmt.Errorf("关闭 getItemStmt 时出错: %w", cerr)
		}
	}
	if q.listItemsStmt != nil {
		if cerr := q.listItemsStmt.Close(); cerr != nil {
			err = fmt.Errorf("关闭 listItemsStmt 时出错: %w", cerr)
		}
	}
	if q.removeItemStmt != nil {
		if cerr := q.removeItemStmt.Close(); cerr != nil {
			err = fmt.Errorf("关闭 removeItemStmt 时出错: %w", cerr)
		}
	}
	if q.setItemStmt != nil {
		if cerr := q.setItemStmt.Close(); cerr != nil {
			err = fmt.Errorf("关闭 setItemStmt 时出错: %w", cerr)
		}
	}
	return err
}

func (q *Queries) exec(ctx context.Context, stmt *sql.Stmt, query string, args ...interface{}) (sql.Result, error) {
	switch {
	case stmt != nil && q.tx != nil:
		return q.tx.StmtContext(ctx, stmt).ExecContext(ctx, args...)
	case stmt != nil:
		return stmt.ExecContext(ctx, args...)
	default:
		return q.db.ExecContext(ctx, query, args...)
	}
}

func (q *Queries) query(ctx context.Context, stmt *sql.Stmt, query string, args ...interface{}) (*sql.Rows, error) {
	switch {
	case stmt != nil && q.tx != nil:
		return q.tx.StmtContext(ctx, stmt).QueryContext(ctx, args...)
	case stmt != nil:
		return stmt.QueryContext(ctx, args...)
	default:
		return q.db.QueryContext(ctx, query, args...)
	}
}

func (q *Queries) queryRow(ctx context.Context, stmt *sql.Stmt, query string, args ...interface{}) *sql.Row {
	switch {
	case stmt != nil && q.tx != nil:
		return q.tx.StmtContext(ctx, stmt).QueryRowContext(ctx, args...)
	case stmt != nil:
		return stmt.QueryRowContext(ctx, args...)
	default:
		return q.db.QueryRowContext(ctx, query, args...)
	}
}

// Queries 持有数据库连接和可选的预编译语句
type Queries struct {
	db             DBTX
	tx             *sql.Tx
	getItemStmt    *sql.Stmt
	listItemsStmt  *sql.Stmt
	removeItemStmt *sql.Stmt
	setItemStmt    *sql.Stmt
}

// WithTx 返回绑定到事务 tx 的 Queries
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{
		db:             tx,
		tx:             tx,
		getItemStmt:    q.getItemStmt,
		listItemsStmt:  q.listItemsStmt,
		removeItemStmt: q.removeItemStmt,
		setItemStmt:    q.setItemStmt,
	}
}
