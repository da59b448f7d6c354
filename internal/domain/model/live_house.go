package model

import "time"

// CollectionStateは、会場ごとの直近の収集結果を表します。
type CollectionState string

const (
	CollectionStatePending CollectionState = "PENDING"
	CollectionStateSuccess CollectionState = "SUCCESS"
	CollectionStateError   CollectionState = "ERROR"
	CollectionStateTimeout CollectionState = "TIMEOUT"
)

// LiveHouseは、ライブハウス（会場）を表すモデルです。
// WebsiteIDごとに1レコードで、収集のたびに情報を補完していきます。
type LiveHouse struct {
	ID                  int64
	WebsiteID           int64
	Name                string
	NameKana            string
	NameRomaji          string
	Address             string
	PhoneNumber         string
	Capacity            int
	OpenedDate          *time.Time
	ClosedDate          *time.Time
	LastCollectedAt     *time.Time
	LastCollectionState CollectionState
}

// LiveHouseInfoは、サイトから抽出した会場情報のペイロードです。
// 空のフィールドは「抽出できなかった」ことを意味し、既存値を上書きしません。
type LiveHouseInfo struct {
	Name        string
	NameKana    string
	NameRomaji  string
	Address     string
	PhoneNumber string
	Capacity    int
	OpenedDate  *time.Time
}

// Mergeは、抽出結果のうち埋まっているフィールドだけを会場レコードへ反映します。
func (l *LiveHouse) Merge(info LiveHouseInfo) {
	if info.Name != "" {
		l.Name = info.Name
	}
	if info.NameKana != "" {
		l.NameKana = info.NameKana
	}
	if info.NameRomaji != "" {
		l.NameRomaji = info.NameRomaji
	}
	if info.Address != "" {
		l.Address = info.Address
	}
	if info.PhoneNumber != "" {
		l.PhoneNumber = info.PhoneNumber
	}
	if info.Capacity > 0 {
		l.Capacity = info.Capacity
	}
	if info.OpenedDate != nil {
		l.OpenedDate = info.OpenedDate
	}
}
