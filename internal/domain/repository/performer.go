package repository

import (
	"context"

	"github.com/nrad-K/livehouse-crawler/internal/domain/model"
)

// PerformerRepositoryは、出演者レコードの永続化を担うインターフェースです。
type PerformerRepository interface {
	// FindByNameは、表示名が一致する出演者を返します。見つからない場合は第2戻り値がfalseになります。
	FindByName(ctx context.Context, name string) (model.Performer, bool, error)
	// GetOrCreateByRomajiは、ローマ字表記をキーに出演者を取得または作成します。
	// 新規作成した場合は第2戻り値がtrueになります。
	GetOrCreateByRomaji(ctx context.Context, performer model.Performer) (model.Performer, bool, error)
	// SaveSocialLinksは、出演者のSNSリンクを保存します。同一URLは重複登録しません。
	SaveSocialLinks(ctx context.Context, performerID int64, links []model.SocialLink) error
	// Countは、登録済みの出演者数を返します。
	Count(ctx context.Context) (int, error)
}
