package model

import "time"

// Scheduleは、1公演を表すモデルです。
// 同一会場・同一日・同一開演時刻の組を自然キーとして重複登録を防ぎます。
type Schedule struct {
	ID              int64
	LiveHouseID     int64
	PerformanceName string
	Date            time.Time
	OpenTime        string // "HH:MM"
	StartTime       string // "HH:MM"
	PresalePrice    *int
	DoorPrice       *int
}

// TicketInfoは、公演に紐づくチケット・問い合わせ情報です。
type TicketInfo struct {
	ScheduleID   int64
	ContactEmail string
	ContactPhone string
	URL          string
	Price        *int
	SalesStartAt *time.Time
	SalesEndAt   *time.Time
}

// HasDataは、1つでも抽出できた項目があるかを返します。
// 何も取れなかったTicketInfoは保存しません。
func (t TicketInfo) HasData() bool {
	return t.ContactEmail != "" || t.ContactPhone != "" || t.URL != "" ||
		t.Price != nil || t.SalesStartAt != nil || t.SalesEndAt != nil
}

// ScheduleEntryは、クローラーがスケジュールページから抽出した1公演分のペイロードです。
// 出演者名は未検証の生文字列のまま保持し、検証と正規化は後段で行います。
type ScheduleEntry struct {
	Date            time.Time
	OpenTime        string
	StartTime       string
	PerformanceName string
	Performers      []string
	Context         string // チケット情報抽出用の周辺テキスト
}
