package repository

import (
	"context"
	"time"

	"github.com/nrad-K/livehouse-crawler/internal/domain/model"
)

// CollectionLogRepositoryは、日次の収集結果ログを担うインターフェースです。
// 同じ日に成功済みのサイトを一括実行からスキップするために使います。
type CollectionLogRepository interface {
	// Markは、サイトURLに対するその日の収集結果を記録します。
	Mark(ctx context.Context, websiteURL string, day time.Time, state model.CollectionState, runID string) error
	// SucceededOnは、その日に収集が成功済みかを返します。
	SucceededOn(ctx context.Context, websiteURL string, day time.Time) (bool, error)
	// ClearDayは、指定した日の収集ログをすべて削除し、削除件数を返します。
	ClearDay(ctx context.Context, day time.Time) (int64, error)
}
