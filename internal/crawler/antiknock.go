package crawler

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/nrad-K/livehouse-crawler/internal/domain/model"
)

const (
	antiknockMaxEvents           = 30
	antiknockMaxPerformers       = 5
	antiknockMaxDetailPerformers = 10
)

var (
	antiknockEventHrefPattern = regexp.MustCompile(`/schedule/(\d{8})/?`)
	antiknockDatePattern      = regexp.MustCompile(`\d{2}/\d{2}`)
	antiknockWeekdayPattern   = regexp.MustCompile(`\b(SUN|MON|TUE|WED|THU|FRI|SAT)\b`)
	antiknockDayNightPattern  = regexp.MustCompile(`(?i)^(DAY|NIGHT)`)
	antiknockPresenterPattern = regexp.MustCompile(`(?i)[^/]+?(制作委員会|presents?|pre\.)[^【]*`)
	antiknockSelfPresents1    = regexp.MustCompile(`(?i)ANTIKNOCK\s+presents?:?`)
	antiknockSelfPresents2    = regexp.MustCompile(`(?i)shinjuku\s+ANTIKNOCK\s+presents?`)
	antiknockBracketPattern   = regexp.MustCompile(`【([^】]+)】`)
	antiknockLeadingJunk      = regexp.MustCompile(`^[^a-zA-Z\x{3040}-\x{309F}\x{30A0}-\x{30FF}\x{4E00}-\x{9FAF}]*`)
	antiknockTrailingPresents = regexp.MustCompile(`(?i)(制作委員会|presents?|pre\.).*`)
	antiknockJPLocationParen  = regexp.MustCompile(`\([^)]*[都府県][^)]*\)`)
	antiknockMetadataPattern  = regexp.MustCompile(`(?i)(TOUR|ツアー|ALBUM|アルバム|RELEASE|リリース|SHOW|ショー)`)
	antiknockBRPattern        = regexp.MustCompile(`(?i)<br\s*/?>`)

	// 出演者リストの区切り文字（長いものから試す）
	antiknockSeparators = []string{" / ", "/", "・", " × ", "×", " & ", "&", " + ", "+"}

	antiknockSkipWords       = []string{"antiknock", "shinjuku", "presents", "pre.", "制作委員会", "vol.", "tour", "ツアー"}
	antiknockDetailSkipWords = []string{"antiknock", "shinjuku", "information", "ticket", "open", "start", "adv", "door"}

	eventTitlePatterns = []*regexp.Regexp{
		regexp.MustCompile(`【([^】]+)】`),
		regexp.MustCompile(`「([^」]+)」`),
		regexp.MustCompile(`\[([^\]]+)\]`),
		regexp.MustCompile(`"([^"]+)"`),
		regexp.MustCompile(`'([^']+)'`),
	}

	alphanumericJapanese = regexp.MustCompile(`[a-zA-Z0-9\x{3040}-\x{309F}\x{30A0}-\x{30FF}\x{4E00}-\x{9FAF}]`)
)

// antiknockは、新宿ANTIKNOCKのサイト構造に特化したStrategyです。
// /schedule/YYYYMMDD/ 形式のイベントリンクからDAY/NIGHT公演を抽出します。
type antiknock struct {
	*generic
}

func newAntiknock(deps Deps) Strategy {
	return &antiknock{generic: &generic{deps: deps}}
}

func (a *antiknock) FindScheduleLink(_ *goquery.Document) (string, bool) {
	return resolveURL(a.deps.BaseURL, "/schedule/"), true
}

func (a *antiknock) ExtractSchedules(ctx context.Context, doc *goquery.Document) []model.ScheduleEntry {
	var entries []model.ScheduleEntry
	ref := a.deps.now()

	doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href := sel.AttrOr("href", "")

		m := antiknockEventHrefPattern.FindStringSubmatch(href)
		if m == nil {
			return true
		}

		date, ok := ParseYYYYMMDD(ref, m[1])
		if !ok {
			return true
		}

		eventText := strings.TrimSpace(sel.Text())
		upper := strings.ToUpper(eventText)

		// DAY公演は昼、NIGHT公演と無印は夜の時間帯にする
		openTime, startTime := "18:30", "19:00"
		if strings.Contains(upper, "NIGHT") {
			openTime, startTime = "18:30", "19:00"
		} else if strings.Contains(upper, "DAY") {
			openTime, startTime = "13:30", "14:00"
		}

		performers := a.extractPerformers(eventText)

		// 一覧で名前が省略されている場合は詳細ページから取り直す
		if len(performers) == 0 || hasTruncatedName(performers) {
			detailURL := resolveURL(a.deps.BaseURL, href)
			detailHTML, err := a.deps.Fetcher.Fetch(ctx, detailURL)
			if err != nil {
				a.deps.Logger.Warn("詳細ページの取得に失敗しました", "url", detailURL, "error", err)
			} else if detail := a.extractDetailPerformers(detailHTML); len(detail) > 0 {
				performers = detail
			}
		}

		if len(performers) == 0 {
			return true
		}

		entries = append(entries, model.ScheduleEntry{
			Date:            date,
			OpenTime:        openTime,
			StartTime:       startTime,
			PerformanceName: extractEventTitle(eventText),
			Performers:      performers,
			Context:         eventText,
		})

		return len(entries) < antiknockMaxEvents
	})

	return entries
}

// extractPerformersは、イベントの一覧テキストから出演者名を切り出します。
// 国名表記 "(UK)" などを保つため、クリーニングは最小限にとどめます。
func (a *antiknock) extractPerformers(eventText string) []string {
	text := strings.TrimSpace(eventText)
	text = antiknockDatePattern.ReplaceAllString(text, "")
	text = antiknockWeekdayPattern.ReplaceAllString(text, "")
	text = strings.TrimSpace(text)
	text = antiknockDayNightPattern.ReplaceAllString(text, "")
	text = antiknockPresenterPattern.ReplaceAllString(text, "")
	text = antiknockSelfPresents1.ReplaceAllString(text, "")
	text = antiknockSelfPresents2.ReplaceAllString(text, "")
	text = antiknockBracketPattern.ReplaceAllString(text, "")
	text = strings.TrimSpace(text)

	var performers []string
	for _, separator := range antiknockSeparators {
		if !strings.Contains(text, separator) {
			continue
		}
		for _, part := range strings.Split(text, separator) {
			if name, ok := a.cleanPerformerPart(part); ok {
				performers = append(performers, name)
			}
		}
		break
	}

	// 区切りが無ければ全体を1組として扱う
	if len(performers) == 0 {
		if name, ok := a.cleanPerformerPart(text); ok {
			performers = append(performers, name)
		}
	}

	var final []string
	for _, performer := range performers {
		if containsAny(strings.ToLower(performer), antiknockSkipWords) {
			continue
		}
		if n := utf8.RuneCountInString(performer); n >= 2 && n <= 50 {
			final = append(final, performer)
		}
	}

	if len(final) > antiknockMaxPerformers {
		final = final[:antiknockMaxPerformers]
	}
	return final
}

func (a *antiknock) cleanPerformerPart(part string) (string, bool) {
	part = strings.TrimSpace(part)
	part = antiknockLeadingJunk.ReplaceAllString(part, "")
	part = antiknockTrailingPresents.ReplaceAllString(part, "")
	part = antiknockJPLocationParen.ReplaceAllString(part, "")
	part = antiknockMetadataPattern.ReplaceAllString(part, "")

	name := MinimalCleanName(part)
	if name == "" || !IsValidName(name) {
		return "", false
	}
	if n := utf8.RuneCountInString(name); n < 2 || n > 50 {
		return "", false
	}
	return name, true
}

// extractDetailPerformersは、イベント詳細ページの div.artist から出演者名を取り出します。
func (a *antiknock) extractDetailPerformers(detailHTML string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(detailHTML))
	if err != nil {
		return nil
	}

	artistP := doc.Find("div.artist p").First()
	if artistP.Length() == 0 {
		return nil
	}

	raw, err := artistP.Html()
	if err != nil {
		return nil
	}

	// <br>区切りを改行に直してからテキスト化する
	raw = antiknockBRPattern.ReplaceAllString(raw, "\n")
	lineDoc, err := goquery.NewDocumentFromReader(strings.NewReader("<div>" + raw + "</div>"))
	if err != nil {
		return nil
	}

	var performers []string
	for _, line := range strings.Split(lineDoc.Text(), "\n") {
		name := MinimalCleanName(line)
		if name == "" {
			continue
		}
		if n := utf8.RuneCountInString(name); n < 2 || n > 50 {
			continue
		}
		if containsAny(strings.ToLower(name), antiknockDetailSkipWords) {
			continue
		}
		if !alphanumericJapanese.MatchString(name) {
			continue
		}

		performers = append(performers, name)
		if len(performers) >= antiknockMaxDetailPerformers {
			break
		}
	}

	return performers
}

// extractEventTitleは、括弧や引用符で囲まれたイベント名を取り出します。
func extractEventTitle(text string) string {
	for _, pattern := range eventTitlePatterns {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		title := strings.TrimSpace(m[1])
		if n := utf8.RuneCountInString(title); n > 2 && n <= 100 {
			return title
		}
	}
	return ""
}

func hasTruncatedName(performers []string) bool {
	for _, performer := range performers {
		if strings.Contains(performer, "…") {
			return true
		}
	}
	return false
}

func containsAny(s string, words []string) bool {
	for _, word := range words {
		if strings.Contains(s, word) {
			return true
		}
	}
	return false
}
