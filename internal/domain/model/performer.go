package model

// Performerは、出演アーティストを表すモデルです。
// 表記ゆれを吸収するため、ローマ字表記（NameRomaji）を一意キーとして扱います。
type Performer struct {
	ID         int64
	Name       string
	NameKana   string
	NameRomaji string
	Website    string
}

// SocialLinkは、出演者のSNS・配信プラットフォーム上のプロフィールです。
type SocialLink struct {
	PerformerID int64
	Platform    string
	PlatformID  string
	URL         string
}
