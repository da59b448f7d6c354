package crawler

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/nrad-K/livehouse-crawler/internal/domain/model"
)

const (
	maxGenericSchedules   = 20
	maxContextPerformers  = 3
	contextRadius         = 200
	minTicketPrice        = 500
	maxTicketPrice        = 20000
	minLiveHouseCapacity  = 50
	maxLiveHouseCapacity  = 2000
	defaultGenericOpen    = "18:30"
	defaultGenericStart   = "19:00"
	fallbackPerformerName = "Live Event"
)

// スケジュールページへのリンクを探すときのキーワード
var scheduleKeywords = []string{
	"schedule",
	"スケジュール",
	"live",
	"ライブ",
	"event",
	"イベント",
	"calendar",
	"カレンダー",
}

// 翌月ナビゲーションのリンクテキスト・hrefに現れるパターン
var nextLinkKeywords = []string{
	"next",
	"次",
	"翌月",
	"来月",
	"→",
	"＞",
	">",
	">>",
	"›",
	"次へ",
	"次月",
	"next month",
	"forward",
}

var (
	navClassPattern      = regexp.MustCompile(`(?i)(menu|nav|header)`)
	monthNavClassPattern = regexp.MustCompile(`(?i)pag|nav|calendar|month`)

	fullDatePattern  = regexp.MustCompile(`(\d{4})[年/-](\d{1,2})[月/-](\d{1,2})日?`)
	shortDatePattern = regexp.MustCompile(`(\d{1,2})[月/-](\d{1,2})日?`)
	isoDatePattern   = regexp.MustCompile(`(\d{4})-(\d{1,2})-(\d{1,2})`)
	timePattern      = regexp.MustCompile(`(\d{1,2}):(\d{2})`)
	numericLine      = regexp.MustCompile(`^[\d\s/:.-]+$`)

	addressPostalPattern = regexp.MustCompile(`〒\s*(\d{3}-\d{4})\s*([^0-9\n]{10,50})`)
	addressLabelPatterns = []*regexp.Regexp{
		regexp.MustCompile(`住所[：:\s]*([^0-9\n]{10,50})`),
		regexp.MustCompile(`Address[：:\s]*([^0-9\n]{10,50})`),
	}
	addressTokyoPattern = regexp.MustCompile(`東京都[^0-9\n]{5,40}`)

	phonePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:電話|TEL|Phone)[：:\s]*(\d{2,4}[-‐]\d{3,4}[-‐]\d{3,4})`),
		regexp.MustCompile(`(\d{2,4}[-‐]\d{3,4}[-‐]\d{3,4})`),
	}

	capacityPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:キャパ|キャパシティ|収容)[：:\s]*(\d+)`),
		regexp.MustCompile(`(?i)capacity[：:\s]*(\d+)`),
		regexp.MustCompile(`(\d+)\s*(?:人|名|persons?)`),
	}

	ticketEmailPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:チケット|ticket|予約|reservation)[：:\s]*([a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,})`),
		regexp.MustCompile(`([a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,})`),
	}
	ticketPhonePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:チケット|ticket|予約|reservation)[：:\s]*(\d{2,4}[-‐]\d{3,4}[-‐]\d{3,4})`),
		regexp.MustCompile(`(?i)(?:連絡|contact|問合|お問い合わせ)[：:\s]*(\d{2,4}[-‐]\d{3,4}[-‐]\d{3,4})`),
	}
	ticketURLPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:チケット|ticket|予約|reservation)[：:\s]*(?:URL[：:\s]*)?(https?://[^\s)]+)`),
		regexp.MustCompile(`(?i)(https?://\S*(?:ticket|peatix|eventbrite|eplus|cnplayguide)\S*)`),
	}
	ticketPricePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:チケット|ticket|料金|price)[：:\s]*[¥￥]?\s*(\d{1,2},?\d{3})[円¥]?`),
		regexp.MustCompile(`(?i)(?:前売|advance)[：:\s]*[¥￥]?\s*(\d{1,2},?\d{3})[円¥]?`),
		regexp.MustCompile(`(?i)(?:当日|door)[：:\s]*[¥￥]?\s*(\d{1,2},?\d{3})[円¥]?`),
	}
	ticketSalesPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:発売|sale|販売)[：:\s]*(\d{4})[年/-](\d{1,2})[月/-](\d{1,2})日?`),
		regexp.MustCompile(`(?i)(?:受付|reception)[：:\s]*(\d{4})[年/-](\d{1,2})[月/-](\d{1,2})日?`),
	}

	// SNSの連絡先はチケット窓口として扱わない
	nonTicketEmailDomains = []string{"facebook", "twitter", "instagram", "youtube"}
)

// genericは、どの会場サイトにもあてはまる汎用抽出ロジックです。
// サイト固有のStrategyはこれを埋め込み、必要なメソッドだけを差し替えます。
type generic struct {
	deps Deps
}

func newGeneric(deps Deps) Strategy {
	return &generic{deps: deps}
}

func (g *generic) FindScheduleLink(doc *goquery.Document) (string, bool) {
	found := ""

	doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href := sel.AttrOr("href", "")
		text := strings.ToLower(sel.Text())

		for _, keyword := range scheduleKeywords {
			if strings.Contains(text, keyword) || strings.Contains(strings.ToLower(href), keyword) {
				found = resolveURL(g.deps.BaseURL, href)
				return false
			}
		}
		return true
	})
	if found != "" {
		return found, true
	}

	// ナビゲーションメニューの中も探す
	doc.Find("nav, ul, div").EachWithBreak(func(_ int, nav *goquery.Selection) bool {
		if !navClassPattern.MatchString(nav.AttrOr("class", "")) {
			return true
		}
		nav.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			href := sel.AttrOr("href", "")
			text := strings.ToLower(sel.Text())

			for _, keyword := range scheduleKeywords {
				if strings.Contains(text, keyword) {
					found = resolveURL(g.deps.BaseURL, href)
					return false
				}
			}
			return true
		})
		return found == ""
	})

	return found, found != ""
}

func (g *generic) ExtractLiveHouseInfo(doc *goquery.Document, existing model.LiveHouse) model.LiveHouseInfo {
	pageText := doc.Text()
	var info model.LiveHouseInfo

	if existing.Address == "" {
		if m := addressPostalPattern.FindStringSubmatch(pageText); m != nil {
			info.Address = strings.TrimSpace(m[2])
		} else {
			for _, pattern := range addressLabelPatterns {
				if m := pattern.FindStringSubmatch(pageText); m != nil {
					info.Address = strings.TrimSpace(m[1])
					break
				}
			}
			if info.Address == "" {
				if m := addressTokyoPattern.FindString(pageText); m != "" {
					info.Address = strings.TrimSpace(m)
				}
			}
		}
	}

	if existing.PhoneNumber == "" {
		for _, pattern := range phonePatterns {
			if m := pattern.FindStringSubmatch(pageText); m != nil {
				info.PhoneNumber = strings.TrimSpace(m[1])
				break
			}
		}
	}

	if existing.Capacity == 0 {
		normalized := NormalizeText(pageText)
		for _, pattern := range capacityPatterns {
			if m := pattern.FindStringSubmatch(normalized); m != nil {
				capacity, err := strconv.Atoi(m[1])
				if err != nil {
					continue
				}
				if capacity >= minLiveHouseCapacity && capacity <= maxLiveHouseCapacity {
					info.Capacity = capacity
					break
				}
			}
		}
	}

	return info
}

func (g *generic) ExtractSchedules(_ context.Context, doc *goquery.Document) []model.ScheduleEntry {
	text := doc.Text()
	ref := g.deps.now()

	var entries []model.ScheduleEntry
	seen := make(map[string]bool)

	patterns := []*regexp.Regexp{fullDatePattern, shortDatePattern, isoDatePattern}
	for _, pattern := range patterns {
		if len(entries) >= maxGenericSchedules {
			break
		}

		for _, loc := range pattern.FindAllStringSubmatchIndex(text, -1) {
			groups := pattern.NumSubexp()

			var date time.Time
			var ok bool
			if groups == 3 {
				year, _ := strconv.Atoi(text[loc[2]:loc[3]])
				month, _ := strconv.Atoi(text[loc[4]:loc[5]])
				day, _ := strconv.Atoi(text[loc[6]:loc[7]])
				date, ok = resolveFullDate(ref, year, month, day)
			} else {
				month, _ := strconv.Atoi(text[loc[2]:loc[3]])
				day, _ := strconv.Atoi(text[loc[4]:loc[5]])
				date, ok = ResolveMonthDay(ref, month, day)
			}
			if !ok {
				continue
			}

			key := date.Format("2006-01-02")
			if seen[key] {
				continue
			}
			seen[key] = true

			contextText := contextWindow(text, loc[0], loc[1], contextRadius)

			startTime := defaultGenericStart
			if m := timePattern.FindStringSubmatch(contextText); m != nil {
				startTime = PadTime(m[1] + ":" + m[2])
			}

			performers := performersFromContext(contextText)
			if len(performers) == 0 {
				performers = []string{fallbackPerformerName}
			}

			entries = append(entries, model.ScheduleEntry{
				Date:       date,
				OpenTime:   defaultGenericOpen,
				StartTime:  startTime,
				Performers: performers,
				Context:    contextText,
			})

			if len(entries) >= maxGenericSchedules {
				break
			}
		}
	}

	return entries
}

func (g *generic) FindNextMonthLink(doc *goquery.Document) (string, bool) {
	links := doc.Find("a[href]")
	found := ""

	links.EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href := sel.AttrOr("href", "")
		text := strings.ToLower(strings.TrimSpace(sel.Text()))

		if skipHref(href) {
			return true
		}

		for _, keyword := range nextLinkKeywords {
			if strings.Contains(text, strings.ToLower(keyword)) || strings.Contains(strings.ToLower(href), keyword) {
				found = resolveURL(g.deps.BaseURL, href)
				return false
			}
		}
		return true
	})
	if found != "" {
		return found, true
	}

	// 年をまたぐ場合も考慮した年月パターン
	nextYear, nextMonth := NextMonth(g.deps.now())
	monthPatterns := monthLinkPatterns(nextYear, nextMonth)

	for _, pattern := range monthPatterns {
		links.EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			href := sel.AttrOr("href", "")
			text := strings.TrimSpace(sel.Text())

			if skipHref(href) {
				return true
			}

			if strings.Contains(text, pattern) || strings.Contains(href, pattern) {
				found = resolveURL(g.deps.BaseURL, href)
				return false
			}
			return true
		})
		if found != "" {
			return found, true
		}
	}

	// ページネーションやカレンダー周辺のナビゲーションを探す
	doc.Find("nav, div, ul").EachWithBreak(func(_ int, nav *goquery.Selection) bool {
		if !monthNavClassPattern.MatchString(nav.AttrOr("class", "")) {
			return true
		}
		nav.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			href := sel.AttrOr("href", "")
			text := strings.ToLower(strings.TrimSpace(sel.Text()))

			if skipHref(href) {
				return true
			}

			for _, keyword := range nextLinkKeywords {
				if strings.Contains(text, strings.ToLower(keyword)) {
					found = resolveURL(g.deps.BaseURL, href)
					return false
				}
			}
			return true
		})
		return found == ""
	})

	return found, found != ""
}

func (g *generic) ExtractTicketInfo(text string) (model.TicketInfo, bool) {
	var info model.TicketInfo
	hasData := false

	for _, pattern := range ticketEmailPatterns {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		email := m[1]
		if isTicketEmail(email) {
			info.ContactEmail = email
			hasData = true
		}
		break
	}

	for _, pattern := range ticketPhonePatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			info.ContactPhone = m[1]
			hasData = true
			break
		}
	}

	for _, pattern := range ticketURLPatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			info.URL = strings.TrimRight(m[1], ".,;)")
			hasData = true
			break
		}
	}

	for _, pattern := range ticketPricePatterns {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		price, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
		if err != nil {
			continue
		}
		if price >= minTicketPrice && price <= maxTicketPrice {
			info.Price = &price
			hasData = true
			break
		}
	}

	ref := g.deps.now()
	for _, pattern := range ticketSalesPatterns {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		if date, ok := resolveFullDate(ref, year, month, day); ok {
			info.SalesStartAt = &date
			hasData = true
			break
		}
	}

	return info, hasData
}

// resolveFullDateは、年付きの日付を検証して返します。
// 基準日の前年から翌年までの範囲外は公演日として不正とみなします。
func resolveFullDate(ref time.Time, year, month, day int) (time.Time, bool) {
	if year < ref.Year()-1 || year > ref.Year()+1 {
		return time.Time{}, false
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}

	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
	if int(date.Month()) != month || date.Day() != day {
		return time.Time{}, false
	}
	return date, true
}

// contextWindowは、マッチ位置の前後radius文字分のテキストを返します。
func contextWindow(text string, start, end, radius int) string {
	left := start
	for i := 0; i < radius && left > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(text[:left])
		left -= size
	}

	right := end
	for i := 0; i < radius && right < len(text); i++ {
		_, size := utf8.DecodeRuneInString(text[right:])
		right += size
	}

	return text[left:right]
}

// performersFromContextは、日付の周辺テキストから出演者らしい行を拾います。
func performersFromContext(contextText string) []string {
	var performers []string

	for _, rawLine := range strings.Split(contextText, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" || numericLine.MatchString(line) || utf8.RuneCountInString(line) <= 2 {
			continue
		}

		performers = append(performers, truncateRunes(line, 50))
		if len(performers) >= maxContextPerformers {
			break
		}
	}

	return performers
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func monthLinkPatterns(year int, month time.Month) []string {
	m := int(month)
	return []string{
		strconv.Itoa(year) + "/" + pad2(m),
		strconv.Itoa(year) + "-" + pad2(m),
		strconv.Itoa(year) + "年" + strconv.Itoa(m) + "月",
		strconv.Itoa(m) + "月",
		pad2(m),
	}
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

func isTicketEmail(email string) bool {
	lower := strings.ToLower(email)
	for _, domain := range nonTicketEmailDomains {
		if strings.Contains(lower, domain) {
			return false
		}
	}
	return true
}
