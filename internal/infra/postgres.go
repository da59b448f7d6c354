package infra

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// NewPostgresDBは、PostgreSQLへの接続を確立してコネクションプールを設定します。
//
// args:
//
//	ctx: コンテキスト
//	dsn: 接続文字列
//
// return:
//
//	*sql.DB: 確立された接続
//	error: 失敗時のエラー
func NewPostgresDB(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("データベースのオープンに失敗しました: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("データベースへの接続確認に失敗しました: %w", err)
	}

	return db, nil
}
