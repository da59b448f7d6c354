package crawler

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/nrad-K/livehouse-crawler/internal/domain/model"
)

const (
	malcolmMaxEvents     = 30
	malcolmMaxPerformers = 8
	malcolmMaxContent    = 1000
)

var (
	malcolmSchedulePatterns = []string{"schedule", "スケジュール", "event", "イベント"}

	malcolmDatePattern   = regexp.MustCompile(`(\d{1,2})/(\d{1,2})\s*\([^)]+\)`)
	malcolmSectionMarker = regexp.MustCompile(`(?i)-(LIVE|DJ)-`)
	malcolmLineSeparator = regexp.MustCompile(`[/／、・&×]`)
	malcolmQuotePatterns = []*regexp.Regexp{
		regexp.MustCompile(`『([^』]+)』`),
		regexp.MustCompile(`「([^」]+)」`),
		regexp.MustCompile(`"([^"]+)"`),
		regexp.MustCompile(`'([^']+)'`),
		regexp.MustCompile(`【([^】]+)】`),
	}

	malcolmNoisePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)OPEN\s+\d{1,2}:\d{2}`),
		regexp.MustCompile(`(?i)START\s+\d{1,2}:\d{2}`),
		regexp.MustCompile(`[¥￥]\s*\d+[,\d]*`),
		regexp.MustCompile(`(?i)1DRINK\s*[¥￥]\s*\d+`),
		regexp.MustCompile(`チケット.*`),
		regexp.MustCompile(`予約.*`),
		regexp.MustCompile(`問い合わせ.*`),
		regexp.MustCompile(`※.*`),
	}

	malcolmSkipPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^\d+$`),
		regexp.MustCompile(`^[¥￥]\d+`),
		regexp.MustCompile(`\d{1,2}:\d{2}`),
		regexp.MustCompile(`(?i)^(OPEN|START|CLOSE)$`),
		regexp.MustCompile(`(?i)^(チケット|ticket|予約|問い合わせ)$`),
		regexp.MustCompile(`(?i)^(※|注意|info|information).*`),
		regexp.MustCompile(`(?i)^(drink|1drink|食事|food)$`),
		regexp.MustCompile(`(?i)^(advance|当日|前売|door)$`),
		regexp.MustCompile(`(?i)^(問い合わせ|contact|tel|phone).*`),
		regexp.MustCompile(`対応できかねます`),
		regexp.MustCompile(`締めきりました`),
		regexp.MustCompile(`受付.*`),
		regexp.MustCompile(`合宿.*`),
		regexp.MustCompile(`初日.*`),
	}

	malcolmTimePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)OPEN\s+(\d{1,2}:\d{2})\s*/?\s*START\s+(\d{1,2}:\d{2})`),
		regexp.MustCompile(`開場\s+(\d{1,2}:\d{2})\s*/?\s*開演\s+(\d{1,2}:\d{2})`),
		regexp.MustCompile(`(\d{1,2}:\d{2})\s*/\s*(\d{1,2}:\d{2})`),
	}
)

// malcolmは、Club Malcolmのサイト構造に特化したStrategyです。
// M/D(曜日)形式の日付と -LIVE- / -DJ- セクションから公演を抽出します。
type malcolm struct {
	*generic
}

func newMalcolm(deps Deps) Strategy {
	return &malcolm{generic: &generic{deps: deps}}
}

func (m *malcolm) FindScheduleLink(doc *goquery.Document) (string, bool) {
	found := ""

	doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href := sel.AttrOr("href", "")
		text := strings.ToLower(sel.Text())

		for _, pattern := range malcolmSchedulePatterns {
			if strings.Contains(text, pattern) || strings.Contains(strings.ToLower(href), pattern) {
				found = resolveURL(m.deps.BaseURL, href)
				return false
			}
		}
		return true
	})
	if found != "" {
		return found, true
	}

	// スケジュールがトップページに載っていることも多い
	return m.deps.BaseURL, true
}

func (m *malcolm) ExtractSchedules(_ context.Context, doc *goquery.Document) []model.ScheduleEntry {
	text := doc.Text()
	ref := m.deps.now()

	matches := malcolmDatePattern.FindAllStringSubmatchIndex(text, -1)
	var entries []model.ScheduleEntry

	for i, loc := range matches {
		month, _ := strconv.Atoi(text[loc[2]:loc[3]])
		day, _ := strconv.Atoi(text[loc[4]:loc[5]])

		date, ok := ResolveMonthDay(ref, month, day)
		if !ok {
			continue
		}

		var eventContent string
		if i+1 < len(matches) {
			eventContent = text[loc[1]:matches[i+1][0]]
		} else {
			eventContent = truncateRunes(text[loc[1]:], malcolmMaxContent)
		}

		performers := m.extractPerformers(eventContent)
		if len(performers) == 0 {
			continue
		}

		openTime, startTime := "18:30", "19:00"
		for _, timePattern := range malcolmTimePatterns {
			if tm := timePattern.FindStringSubmatch(eventContent); tm != nil {
				openTime = PadTime(tm[1])
				startTime = PadTime(tm[2])
				break
			}
		}

		entries = append(entries, model.ScheduleEntry{
			Date:            date,
			OpenTime:        openTime,
			StartTime:       startTime,
			PerformanceName: m.extractEventName(eventContent),
			Performers:      performers,
		})

		if len(entries) >= malcolmMaxEvents {
			break
		}
	}

	return entries
}

// extractPerformersは、-LIVE- と -DJ- セクションの両方から出演者を拾います。
// DJも出演者として扱います。
func (m *malcolm) extractPerformers(eventText string) []string {
	var performers []string

	markers := malcolmSectionMarker.FindAllStringIndex(eventText, -1)
	for i, marker := range markers {
		end := len(eventText)
		if i+1 < len(markers) {
			end = markers[i+1][0]
		}
		performers = append(performers, m.parseSection(eventText[marker[1]:end])...)
	}

	// セクションが無ければ行単位で出演者らしいものを探す
	if len(performers) == 0 {
		for _, line := range strings.Split(eventText, "\n") {
			line = strings.TrimSpace(line)
			if line == "" || !m.isLikelyPerformer(line) {
				continue
			}
			name := CleanName(line)
			if name != "" && IsValidName(name) {
				performers = append(performers, name)
			}
		}
	}

	seen := make(map[string]bool)
	var unique []string
	for _, performer := range performers {
		lower := strings.ToLower(performer)
		if seen[lower] {
			continue
		}
		seen[lower] = true
		unique = append(unique, performer)
		if len(unique) >= malcolmMaxPerformers {
			break
		}
	}

	return unique
}

func (m *malcolm) parseSection(sectionText string) []string {
	text := strings.TrimSpace(sectionText)
	for _, pattern := range malcolmNoisePatterns {
		text = pattern.ReplaceAllString(text, "")
	}

	var performers []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || utf8.RuneCountInString(line) < 2 {
			continue
		}

		for _, part := range malcolmLineSeparator.Split(line, -1) {
			part = strings.TrimSpace(part)
			if !m.isLikelyPerformer(part) {
				continue
			}
			name := CleanName(part)
			if name != "" && IsValidName(name) && utf8.RuneCountInString(name) <= 100 {
				performers = append(performers, name)
			}
		}
	}

	return performers
}

func (m *malcolm) isLikelyPerformer(text string) bool {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) < 2 {
		return false
	}

	for _, pattern := range malcolmSkipPatterns {
		if pattern.MatchString(text) {
			return false
		}
	}

	return meaningfulCharPattern.MatchString(text)
}

func (m *malcolm) extractEventName(eventText string) string {
	for _, pattern := range malcolmQuotePatterns {
		if q := pattern.FindStringSubmatch(eventText); q != nil {
			title := strings.TrimSpace(q[1])
			if n := utf8.RuneCountInString(title); n > 2 && n <= 100 {
				return title
			}
		}
	}

	// 引用符が無ければ冒頭の行からタイトルらしいものを探す
	lines := strings.Split(eventText, "\n")
	if len(lines) > 5 {
		lines = lines[:5]
	}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		n := utf8.RuneCountInString(line)
		if line == "" || n <= 3 || n > 100 {
			continue
		}
		if clockPattern.MatchString(line) || pricePattern.MatchString(line) {
			continue
		}
		lower := strings.ToLower(line)
		if strings.Contains(lower, "live") || strings.Contains(lower, "dj") || strings.Contains(lower, "presents") {
			continue
		}
		return line
	}

	return ""
}
