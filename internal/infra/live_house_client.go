package infra

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/nrad-K/livehouse-crawler/internal/domain/model"
	"github.com/nrad-K/livehouse-crawler/internal/domain/repository"
)

type liveHouseClient struct {
	db *sql.DB
}

func NewLiveHouseClient(db *sql.DB) repository.LiveHouseRepository {
	return &liveHouseClient{
		db: db,
	}
}

func (r *liveHouseClient) Upsert(ctx context.Context, liveHouse model.LiveHouse) (model.LiveHouse, error) {
	const query = `
		INSERT INTO live_houses (
			website_id, name, name_kana, name_romaji, address,
			phone_number, capacity, opened_date, closed_date
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (website_id) DO UPDATE SET
			name         = EXCLUDED.name,
			name_kana    = EXCLUDED.name_kana,
			name_romaji  = EXCLUDED.name_romaji,
			address      = EXCLUDED.address,
			phone_number = EXCLUDED.phone_number,
			capacity     = EXCLUDED.capacity,
			opened_date  = EXCLUDED.opened_date,
			closed_date  = EXCLUDED.closed_date
		RETURNING id`

	if err := r.db.QueryRowContext(ctx, query,
		liveHouse.WebsiteID, liveHouse.Name, liveHouse.NameKana, liveHouse.NameRomaji,
		liveHouse.Address, liveHouse.PhoneNumber, liveHouse.Capacity,
		liveHouse.OpenedDate, liveHouse.ClosedDate,
	).Scan(&liveHouse.ID); err != nil {
		return model.LiveHouse{}, fmt.Errorf("会場の保存に失敗しました: %w", err)
	}

	return liveHouse, nil
}

func (r *liveHouseClient) FindByWebsiteID(ctx context.Context, websiteID int64) (model.LiveHouse, bool, error) {
	const query = selectLiveHouse + ` WHERE website_id = $1`
	return r.findOne(ctx, query, websiteID)
}

func (r *liveHouseClient) FindByID(ctx context.Context, id int64) (model.LiveHouse, bool, error) {
	const query = selectLiveHouse + ` WHERE id = $1`
	return r.findOne(ctx, query, id)
}

func (r *liveHouseClient) UpdateCollectionState(ctx context.Context, id int64, state model.CollectionState, collectedAt time.Time) error {
	const query = `
		UPDATE live_houses
		SET last_collection_state = $1, last_collected_at = $2
		WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, state, collectedAt, id)
	if err != nil {
		return fmt.Errorf("会場の収集状態更新に失敗しました: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("更新件数の取得に失敗しました: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("更新対象の会場が見つかりません: id=%d", id)
	}

	return nil
}

func (r *liveHouseClient) FindAll(ctx context.Context) ([]model.LiveHouse, error) {
	const query = selectLiveHouse + ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("会場一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var liveHouses []model.LiveHouse
	for rows.Next() {
		liveHouse, err := scanLiveHouse(rows)
		if err != nil {
			return nil, err
		}
		liveHouses = append(liveHouses, liveHouse)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("会場一覧の走査に失敗しました: %w", err)
	}

	return liveHouses, nil
}

const selectLiveHouse = `
	SELECT id, website_id, name, name_kana, name_romaji, address,
	       phone_number, capacity, opened_date, closed_date,
	       last_collected_at, last_collection_state
	FROM live_houses`

func (r *liveHouseClient) findOne(ctx context.Context, query string, arg any) (model.LiveHouse, bool, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return model.LiveHouse{}, false, fmt.Errorf("会場の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return model.LiveHouse{}, false, fmt.Errorf("会場の取得に失敗しました: %w", err)
		}
		return model.LiveHouse{}, false, nil
	}

	liveHouse, err := scanLiveHouse(rows)
	if err != nil {
		return model.LiveHouse{}, false, err
	}

	return liveHouse, true, nil
}

func scanLiveHouse(rows *sql.Rows) (model.LiveHouse, error) {
	var liveHouse model.LiveHouse
	var state sql.NullString
	if err := rows.Scan(
		&liveHouse.ID, &liveHouse.WebsiteID, &liveHouse.Name, &liveHouse.NameKana,
		&liveHouse.NameRomaji, &liveHouse.Address, &liveHouse.PhoneNumber, &liveHouse.Capacity,
		&liveHouse.OpenedDate, &liveHouse.ClosedDate,
		&liveHouse.LastCollectedAt, &state,
	); err != nil {
		return model.LiveHouse{}, fmt.Errorf("会場行の読み込みに失敗しました: %w", err)
	}

	if state.Valid {
		liveHouse.LastCollectionState = model.CollectionState(state.String)
	} else {
		liveHouse.LastCollectionState = model.CollectionStatePending
	}

	return liveHouse, nil
}
