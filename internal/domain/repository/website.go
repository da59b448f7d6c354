package repository

import (
	"context"

	"github.com/nrad-K/livehouse-crawler/internal/domain/model"
)

// WebsiteRepositoryは、収集対象サイトの永続化を担うインターフェースです。
type WebsiteRepository interface {
	// Saveは、サイトを登録します。URLが重複する場合はエラーを返します。
	Save(ctx context.Context, website model.Website) (model.Website, error)
	// UpdateStatusは、収集処理の進行状態を更新します。
	UpdateStatus(ctx context.Context, id int64, status model.WebsiteStatus) error
	// FindByIDは、IDでサイトを取得します。
	FindByID(ctx context.Context, id int64) (model.Website, error)
	// FindListは、クローラーが割り当てられたサイトの一覧を返します。
	FindList(ctx context.Context) ([]model.Website, error)
}
