package performer

import (
	"context"
	"regexp"
	"strings"

	"github.com/nrad-K/livehouse-crawler/internal/constants"
	"github.com/nrad-K/livehouse-crawler/internal/domain/model"
)

const maxSocialLinks = 5

// SearchClientは、検索エンジンに問い合わせて結果ページのHTMLを返すインターフェースです。
type SearchClient interface {
	Search(ctx context.Context, query string) (string, error)
}

var (
	anyURLPattern = regexp.MustCompile(`https?://[^"\s<>]+`)

	websitePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(https?://[^/]*\.(?:com|net|org|jp|co\.jp)[^"\s]*)`),
		regexp.MustCompile(`(https?://[^/]*(?:bandcamp|soundcloud|spotify)\.com[^"\s]*)`),
	}
	websiteHints = []string{"official", "band", "music", "artist"}

	platformIDPatterns = map[string]*regexp.Regexp{
		"twitter":    regexp.MustCompile(`(?:twitter\.com|x\.com)/([^/?\s]+)`),
		"instagram":  regexp.MustCompile(`instagram\.com/([^/?\s]+)`),
		"youtube":    regexp.MustCompile(`youtube\.com/(?:c/|channel/|user/)?([^/?\s]+)`),
		"facebook":   regexp.MustCompile(`facebook\.com/([^/?\s]+)`),
		"bandcamp":   regexp.MustCompile(`bandcamp\.com/([^/?\s]+)`),
		"soundcloud": regexp.MustCompile(`soundcloud\.com/([^/?\s]+)`),
		"spotify":    regexp.MustCompile(`spotify\.com/([^/?\s]+)`),
		"tiktok":     regexp.MustCompile(`tiktok\.com/@?([^/?\s]+)`),
		"discord":    regexp.MustCompile(`discord\.(?:gg|com)/([^/?\s]+)`),
		"twitch":     regexp.MustCompile(`twitch\.tv/([^/?\s]+)`),
		"reddit":     regexp.MustCompile(`reddit\.com/(?:r/|u/|user/)?([^/?\s]+)`),
		"linkedin":   regexp.MustCompile(`linkedin\.com/([^/?\s]+)`),
		"vimeo":      regexp.MustCompile(`vimeo\.com/([^/?\s]+)`),
		"github":     regexp.MustCompile(`github\.com/([^/?\s]+)`),
		"patreon":    regexp.MustCompile(`patreon\.com/([^/?\s]+)`),
		"mastodon":   regexp.MustCompile(`mastodon\.(?:social|online)/(@?[^/?\s]+)`),
	}
)

// searchBandDetailsは、検索結果からアーティストの公式サイトらしいURLを探します。
func (v *Validator) searchBandDetails(ctx context.Context, name string) string {
	queries := []string{
		name + " バンド",
		name + " アーティスト",
		name + " 音楽",
		name + " band music",
	}

	for _, query := range queries {
		page, err := v.search.Search(ctx, query)
		if err != nil {
			v.logger.Warn("アーティスト情報の検索に失敗しました", "query", query, "error", err)
			continue
		}

		for _, pattern := range websitePatterns {
			for _, m := range pattern.FindAllStringSubmatch(page, -1) {
				candidate := m[1]
				if containsAnyHint(strings.ToLower(candidate), websiteHints) {
					return candidate
				}
			}
		}
	}

	return ""
}

// searchSocialLinksは、検索結果からSNSプロフィールのURLを集めます。
func (v *Validator) searchSocialLinks(ctx context.Context, name string) []model.SocialLink {
	query := name + " social media twitter instagram youtube"

	page, err := v.search.Search(ctx, query)
	if err != nil {
		v.logger.Warn("SNSリンクの検索に失敗しました", "query", query, "error", err)
		return nil
	}

	var links []model.SocialLink
	seen := make(map[string]bool)

	for _, rawURL := range anyURLPattern.FindAllString(page, -1) {
		lower := strings.ToLower(rawURL)

		for platform, domains := range constants.SocialPlatformDomains {
			if !containsAnyHint(lower, domains) {
				continue
			}

			platformID := extractPlatformID(rawURL, platform)
			if platformID == "" || seen[platform+":"+platformID] {
				break
			}
			seen[platform+":"+platformID] = true

			links = append(links, model.SocialLink{
				Platform:   platform,
				PlatformID: platformID,
				URL:        rawURL,
			})
			break
		}

		if len(links) >= maxSocialLinks {
			break
		}
	}

	return links
}

// extractPlatformIDは、SNSのURLからアカウントIDを取り出します。
// 抽出パターンの無いプラットフォームは空文字を返します。
func extractPlatformID(rawURL, platform string) string {
	pattern, ok := platformIDPatterns[platform]
	if !ok {
		return ""
	}
	if m := pattern.FindStringSubmatch(rawURL); m != nil {
		return m[1]
	}
	return ""
}

func containsAnyHint(s string, hints []string) bool {
	for _, hint := range hints {
		if strings.Contains(s, hint) {
			return true
		}
	}
	return false
}
