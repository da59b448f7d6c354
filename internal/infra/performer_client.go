package infra

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/nrad-K/livehouse-crawler/internal/domain/model"
	"github.com/nrad-K/livehouse-crawler/internal/domain/repository"
)

type performerClient struct {
	db *sql.DB
}

func NewPerformerClient(db *sql.DB) repository.PerformerRepository {
	return &performerClient{
		db: db,
	}
}

func (r *performerClient) FindByName(ctx context.Context, name string) (model.Performer, bool, error) {
	const query = `
		SELECT id, name, name_kana, name_romaji, website
		FROM performers
		WHERE name = $1`

	var performer model.Performer
	err := r.db.QueryRowContext(ctx, query, name).Scan(
		&performer.ID, &performer.Name, &performer.NameKana,
		&performer.NameRomaji, &performer.Website,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Performer{}, false, nil
	}
	if err != nil {
		return model.Performer{}, false, fmt.Errorf("出演者の取得に失敗しました: %w", err)
	}

	return performer, true, nil
}

func (r *performerClient) GetOrCreateByRomaji(ctx context.Context, performer model.Performer) (model.Performer, bool, error) {
	const insertQuery = `
		INSERT INTO performers (name, name_kana, name_romaji, website)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT DO NOTHING
		RETURNING id`

	err := r.db.QueryRowContext(ctx, insertQuery,
		performer.Name, performer.NameKana, performer.NameRomaji, performer.Website,
	).Scan(&performer.ID)
	if err == nil {
		return performer, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return model.Performer{}, false, fmt.Errorf("出演者の登録に失敗しました: %w", err)
	}

	// 同名か同一ローマ字表記の出演者が登録済みなので既存レコードを返す
	const selectQuery = `
		SELECT id, name, name_kana, name_romaji, website
		FROM performers
		WHERE name_romaji = $1 OR name = $2
		ORDER BY (name_romaji = $1) DESC
		LIMIT 1`

	var existing model.Performer
	if err := r.db.QueryRowContext(ctx, selectQuery, performer.NameRomaji, performer.Name).Scan(
		&existing.ID, &existing.Name, &existing.NameKana,
		&existing.NameRomaji, &existing.Website,
	); err != nil {
		return model.Performer{}, false, fmt.Errorf("既存出演者の取得に失敗しました: %w", err)
	}

	return existing, false, nil
}

func (r *performerClient) SaveSocialLinks(ctx context.Context, performerID int64, links []model.SocialLink) error {
	const query = `
		INSERT INTO social_links (performer_id, platform, platform_id, url)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (performer_id, platform, platform_id) DO NOTHING`

	for _, link := range links {
		if _, err := r.db.ExecContext(ctx, query,
			performerID, link.Platform, link.PlatformID, link.URL,
		); err != nil {
			return fmt.Errorf("SNSリンクの保存に失敗しました: %w", err)
		}
	}

	return nil
}

func (r *performerClient) Count(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM performers`

	var count int
	if err := r.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("出演者数の取得に失敗しました: %w", err)
	}

	return count, nil
}
