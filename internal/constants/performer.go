package constants

// SocialPlatformDomainsは、出演者のオンラインプレゼンス確認に使う
// プラットフォーム名とドメインの対応表です。
var SocialPlatformDomains = map[string][]string{
	"twitter":     {"twitter.com", "x.com"},
	"instagram":   {"instagram.com"},
	"youtube":     {"youtube.com", "youtu.be"},
	"facebook":    {"facebook.com"},
	"bandcamp":    {"bandcamp.com"},
	"soundcloud":  {"soundcloud.com"},
	"spotify":     {"spotify.com"},
	"apple_music": {"music.apple.com"},
	"tiktok":      {"tiktok.com"},
	"discord":     {"discord.gg", "discord.com"},
	"twitch":      {"twitch.tv"},
	"reddit":      {"reddit.com"},
	"linkedin":    {"linkedin.com"},
	"vimeo":       {"vimeo.com"},
	"github":      {"github.com"},
	"patreon":     {"patreon.com"},
	"mastodon":    {"mastodon.social", "mastodon.online"},
}

// GenericWebsiteDomainsは、アーティスト個人のサイトとして扱わないドメインです。
var GenericWebsiteDomains = []string{
	"facebook.com",
	"twitter.com",
	"instagram.com",
	"venue.com",
	"livehouse.com",
	"event.com",
	"google.com",
	"yahoo.com",
	"example.com",
	"localhost",
	"127.0.0.1",
}

// SearchUserAgentは、検索エンジンへのリクエストに付与するUser-Agentです。
const SearchUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// ScheduleCSVHeadersは、収集結果エクスポートのCSVヘッダーです。
var ScheduleCSVHeaders = []string{
	"live_house",
	"date",
	"open_time",
	"start_time",
	"performance_name",
	"performers",
	"presale_price",
	"door_price",
}
