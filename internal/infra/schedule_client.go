package infra

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/nrad-K/livehouse-crawler/internal/domain/model"
	"github.com/nrad-K/livehouse-crawler/internal/domain/repository"
)

type scheduleClient struct {
	db *sql.DB
}

func NewScheduleClient(db *sql.DB) repository.ScheduleRepository {
	return &scheduleClient{
		db: db,
	}
}

func (r *scheduleClient) GetOrCreate(ctx context.Context, schedule model.Schedule) (model.Schedule, bool, error) {
	const insertQuery = `
		INSERT INTO schedules (
			live_house_id, performance_name, date, open_time, start_time,
			presale_price, door_price
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (live_house_id, date, start_time) DO NOTHING
		RETURNING id`

	err := r.db.QueryRowContext(ctx, insertQuery,
		schedule.LiveHouseID, schedule.PerformanceName, schedule.Date,
		schedule.OpenTime, schedule.StartTime, schedule.PresalePrice, schedule.DoorPrice,
	).Scan(&schedule.ID)
	if err == nil {
		return schedule, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return model.Schedule{}, false, fmt.Errorf("公演の登録に失敗しました: %w", err)
	}

	// 同一の(会場, 日付, 開演時刻)が登録済みなので既存レコードを返す
	const selectQuery = `
		SELECT id, live_house_id, performance_name, date, open_time, start_time,
		       presale_price, door_price
		FROM schedules
		WHERE live_house_id = $1 AND date = $2 AND start_time = $3`

	var existing model.Schedule
	if err := r.db.QueryRowContext(ctx, selectQuery,
		schedule.LiveHouseID, schedule.Date, schedule.StartTime,
	).Scan(
		&existing.ID, &existing.LiveHouseID, &existing.PerformanceName, &existing.Date,
		&existing.OpenTime, &existing.StartTime, &existing.PresalePrice, &existing.DoorPrice,
	); err != nil {
		return model.Schedule{}, false, fmt.Errorf("既存公演の取得に失敗しました: %w", err)
	}

	return existing, false, nil
}

func (r *scheduleClient) AddPerformer(ctx context.Context, scheduleID, performerID int64) error {
	const query = `
		INSERT INTO schedule_performers (schedule_id, performer_id)
		VALUES ($1, $2)
		ON CONFLICT (schedule_id, performer_id) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, scheduleID, performerID); err != nil {
		return fmt.Errorf("公演と出演者の関連付けに失敗しました: %w", err)
	}

	return nil
}

func (r *scheduleClient) SaveTicketInfo(ctx context.Context, info model.TicketInfo) error {
	const query = `
		INSERT INTO ticket_infos (
			schedule_id, contact_email, contact_phone, url, price,
			sales_start_at, sales_end_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (schedule_id) DO UPDATE SET
			contact_email  = EXCLUDED.contact_email,
			contact_phone  = EXCLUDED.contact_phone,
			url            = EXCLUDED.url,
			price          = EXCLUDED.price,
			sales_start_at = EXCLUDED.sales_start_at,
			sales_end_at   = EXCLUDED.sales_end_at`

	if _, err := r.db.ExecContext(ctx, query,
		info.ScheduleID, info.ContactEmail, info.ContactPhone, info.URL,
		info.Price, info.SalesStartAt, info.SalesEndAt,
	); err != nil {
		return fmt.Errorf("チケット情報の保存に失敗しました: %w", err)
	}

	return nil
}

func (r *scheduleClient) Count(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM schedules`

	var count int
	if err := r.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("公演数の取得に失敗しました: %w", err)
	}

	return count, nil
}

func (r *scheduleClient) CountByLiveHouseMonth(ctx context.Context, liveHouseID int64, year int, month time.Month) (int, error) {
	const query = `
		SELECT COUNT(*)
		FROM schedules
		WHERE live_house_id = $1
		  AND EXTRACT(YEAR FROM date) = $2
		  AND EXTRACT(MONTH FROM date) = $3`

	var count int
	if err := r.db.QueryRowContext(ctx, query, liveHouseID, year, int(month)).Scan(&count); err != nil {
		return 0, fmt.Errorf("月別公演数の取得に失敗しました: %w", err)
	}

	return count, nil
}

func (r *scheduleClient) DeleteFromDate(ctx context.Context, liveHouseID int64, from time.Time) (int64, error) {
	const query = `DELETE FROM schedules WHERE live_house_id = $1 AND date >= $2`

	result, err := r.db.ExecContext(ctx, query, liveHouseID, from)
	if err != nil {
		return 0, fmt.Errorf("公演の削除に失敗しました: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("削除件数の取得に失敗しました: %w", err)
	}

	return deleted, nil
}
