package repository

import (
	"context"
	"time"

	"github.com/nrad-K/livehouse-crawler/internal/domain/model"
)

// LiveHouseRepositoryは、会場レコードの永続化を担うインターフェースです。
type LiveHouseRepository interface {
	// Upsertは、WebsiteIDをキーに会場を作成または更新します。
	Upsert(ctx context.Context, liveHouse model.LiveHouse) (model.LiveHouse, error)
	// FindByWebsiteIDは、サイトIDに紐づく会場を返します。見つからない場合は第2戻り値がfalseになります。
	FindByWebsiteID(ctx context.Context, websiteID int64) (model.LiveHouse, bool, error)
	// FindByIDは、IDで会場を返します。見つからない場合は第2戻り値がfalseになります。
	FindByID(ctx context.Context, id int64) (model.LiveHouse, bool, error)
	// UpdateCollectionStateは、直近の収集結果と収集時刻を記録します。
	UpdateCollectionState(ctx context.Context, id int64, state model.CollectionState, collectedAt time.Time) error
	// FindAllは、登録済みの全会場を返します。
	FindAll(ctx context.Context) ([]model.LiveHouse, error)
}
