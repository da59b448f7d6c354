package repository

import (
	"context"
	"time"

	"github.com/nrad-K/livehouse-crawler/internal/domain/model"
)

// ScheduleRepositoryは、公演レコードの永続化を担うインターフェースです。
type ScheduleRepository interface {
	// GetOrCreateは、(会場, 日付, 開演時刻)をキーに公演を取得または作成します。
	// 新規作成した場合は第2戻り値がtrueになります。
	GetOrCreate(ctx context.Context, schedule model.Schedule) (model.Schedule, bool, error)
	// AddPerformerは、公演と出演者を関連付けます。既に関連がある場合は何もしません。
	AddPerformer(ctx context.Context, scheduleID, performerID int64) error
	// SaveTicketInfoは、公演のチケット情報を作成または更新します。
	SaveTicketInfo(ctx context.Context, info model.TicketInfo) error
	// Countは、登録済みの公演数を返します。
	Count(ctx context.Context) (int, error)
	// CountByLiveHouseMonthは、会場と年月を指定して公演数を返します。
	CountByLiveHouseMonth(ctx context.Context, liveHouseID int64, year int, month time.Month) (int, error)
	// DeleteFromDateは、指定日以降の公演を会場単位で削除し、削除件数を返します。
	DeleteFromDate(ctx context.Context, liveHouseID int64, from time.Time) (int64, error)
}
