package model

// WebsiteStatusは、1つの公式サイトに対する収集処理の進行状態を表します。
type WebsiteStatus string

const (
	WebsiteStatusNotStarted WebsiteStatus = "NOT_STARTED"
	WebsiteStatusInProgress WebsiteStatus = "IN_PROGRESS"
	WebsiteStatusCompleted  WebsiteStatus = "COMPLETED"
	WebsiteStatusFailed     WebsiteStatus = "FAILED"
)

// Websiteは、ライブハウスの公式サイトを表すモデルです。
// CrawlerNameには、このサイトの抽出に使うクローラー実装のキーを設定します。
type Website struct {
	ID          int64
	URL         string
	Status      WebsiteStatus
	CrawlerName string
}
