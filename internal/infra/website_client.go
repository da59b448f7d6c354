package infra

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nrad-K/livehouse-crawler/internal/domain/model"
	"github.com/nrad-K/livehouse-crawler/internal/domain/repository"
)

type websiteClient struct {
	db *sql.DB
}

func NewWebsiteClient(db *sql.DB) repository.WebsiteRepository {
	return &websiteClient{
		db: db,
	}
}

func (r *websiteClient) Save(ctx context.Context, website model.Website) (model.Website, error) {
	const query = `
		INSERT INTO websites (url, status, crawler_name)
		VALUES ($1, $2, $3)
		RETURNING id`

	if website.Status == "" {
		website.Status = model.WebsiteStatusNotStarted
	}

	if err := r.db.QueryRowContext(ctx, query, website.URL, website.Status, website.CrawlerName).Scan(&website.ID); err != nil {
		return model.Website{}, fmt.Errorf("サイトの登録に失敗しました: %w", err)
	}

	return website, nil
}

func (r *websiteClient) UpdateStatus(ctx context.Context, id int64, status model.WebsiteStatus) error {
	const query = `UPDATE websites SET status = $1 WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("サイトの状態更新に失敗しました: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("更新件数の取得に失敗しました: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("更新対象のサイトが見つかりません: id=%d", id)
	}

	return nil
}

func (r *websiteClient) FindByID(ctx context.Context, id int64) (model.Website, error) {
	const query = `SELECT id, url, status, crawler_name FROM websites WHERE id = $1`

	var website model.Website
	if err := r.db.QueryRowContext(ctx, query, id).Scan(
		&website.ID, &website.URL, &website.Status, &website.CrawlerName,
	); err != nil {
		return model.Website{}, fmt.Errorf("サイトの取得に失敗しました: %w", err)
	}

	return website, nil
}

func (r *websiteClient) FindList(ctx context.Context) ([]model.Website, error) {
	const query = `SELECT id, url, status, crawler_name FROM websites WHERE crawler_name <> '' ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("サイト一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var websites []model.Website
	for rows.Next() {
		var website model.Website
		if err := rows.Scan(&website.ID, &website.URL, &website.Status, &website.CrawlerName); err != nil {
			return nil, fmt.Errorf("サイト行の読み込みに失敗しました: %w", err)
		}
		websites = append(websites, website)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("サイト一覧の走査に失敗しました: %w", err)
	}

	return websites, nil
}
