package crawler

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/nrad-K/livehouse-crawler/internal/domain/model"
)

const (
	shelterMaxPerformers          = 5
	shelterMaxContent             = 500
	shelterDefaultOpen            = "18:00"
	shelterDefaultStart           = "18:30"
	shelterMaxPerformerNameLength = 100
)

var (
	shelterContainerClassPattern = regexp.MustCompile(`(?i)schedule|event|live|gig`)
	shelterScheduleHrefPattern   = regexp.MustCompile(`/schedule/`)
	shelterScheduleTextPattern   = regexp.MustCompile(`(?i)スケジュール|schedule|ライブ`)

	shelterDatePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(\d{4})\s*(\d{2})\s*(\d{2})`),
		regexp.MustCompile(`(\d{1,2})/(\d{1,2})`),
		regexp.MustCompile(`(\d{1,2})月(\d{1,2})日`),
	}

	shelterTimePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)OPEN\s*(\d{1,2}:\d{2})\s*/\s*START\s*(\d{1,2}:\d{2})`),
		regexp.MustCompile(`開場\s*(\d{1,2}:\d{2})\s*/\s*開演\s*(\d{1,2}:\d{2})`),
		regexp.MustCompile(`(\d{1,2}:\d{2})\s*/\s*(\d{1,2}:\d{2})`),
	}

	shelterLabelPatterns = struct {
		address, phone, capacity, opened *regexp.Regexp
	}{
		address:  regexp.MustCompile(`(?i)住所|所在地|address`),
		phone:    regexp.MustCompile(`(?i)TEL|電話`),
		capacity: regexp.MustCompile(`(?i)収容|キャパ|capacity`),
		opened:   regexp.MustCompile(`開店|開業|設立|オープン`),
	}

	shelterAddressValue  = regexp.MustCompile(`(東京都.*?[0-9-]+)`)
	shelterPhoneValue    = regexp.MustCompile(`(\d{2,4}-\d{2,4}-\d{4})`)
	shelterCapacityValue = regexp.MustCompile(`(\d{2,4})人?`)
	shelterOpenedValue   = regexp.MustCompile(`(\d{4})年(\d{1,2})月`)

	shelterWeekdayPattern = regexp.MustCompile(`(?i)\b(Monday|Tuesday|Wednesday|Thursday|Friday|Saturday|Sunday|月曜|火曜|水曜|木曜|金曜|土曜|日曜)\b`)
	shelterShortDate      = regexp.MustCompile(`\d{1,2}/\d{1,2}`)
	shelterTimeLabel      = regexp.MustCompile(`(?i)(OPEN|START|開場|開演)`)
	shelterVenueWords     = regexp.MustCompile(`(?i)(会場|料金|チケット|円|door|advance|drink)`)

	shelterNoisePatterns = []*regexp.Regexp{
		regexp.MustCompile(`"[^"]*"`),
		regexp.MustCompile(`(?i)presents?:?`),
		regexp.MustCompile(`(?i)(DAY|NIGHT)\s+EVENT`),
		regexp.MustCompile(`このイベントの予約は締めきりました。?`),
		regexp.MustCompile(`(?i)SOLD\s*OUT`),
		regexp.MustCompile(`チケット.*`),
		regexp.MustCompile(`予約.*`),
		regexp.MustCompile(`(?i)Release\s+Event`),
		regexp.MustCompile(`(?i)Digital\s+Single`),
		regexp.MustCompile(`(?i)1st\s+ALBUM`),
		regexp.MustCompile(`(?i)NEW\s+ALBUM`),
		regexp.MustCompile(`(?i)TOUR\s+\d{4}`),
		regexp.MustCompile(`(?i)vol\.\s*\d+`),
		regexp.MustCompile(`#\d+`),
	}

	shelterSeparatorPattern = regexp.MustCompile(`[\n/／、・&×+]`)
	shelterBracketPattern   = regexp.MustCompile(`[\[(（【].*?[\])）】]`)

	shelterSkipPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^(and|&|×|\+)$`),
		regexp.MustCompile(`(?i)^(presents?|pre\.)$`),
		regexp.MustCompile(`^\d+$`),
		regexp.MustCompile(`^[:\-/\\]+$`),
		regexp.MustCompile(`(?i)^(event|live|show|concert)$`),
		regexp.MustCompile(`(?i)^(day|night)$`),
		regexp.MustCompile(`(?i)^(open|start|door)$`),
		regexp.MustCompile(`(?i)^(advance|当日|前売)$`),
		regexp.MustCompile(`(?i)^(sold|out)$`),
		regexp.MustCompile(`(?i)^(release|tour)$`),
		regexp.MustCompile(`(?i)^vol\.$`),
		regexp.MustCompile(`(?i)chart|ranking|single|album`),
		regexp.MustCompile(`(?i)birthday|anniversary|記念`),
		regexp.MustCompile(`(?i)festival|フェス`),
		regexp.MustCompile(`(?i)limited|限定`),
	}
)

// shelterは、下北沢SHELTERのサイト構造に特化したStrategyです。
// ラベルの近くを探す会場情報抽出と、日付間のテキストを切り出す公演抽出を行います。
type shelter struct {
	*generic
}

func newShelter(deps Deps) Strategy {
	return &shelter{generic: &generic{deps: deps}}
}

func (s *shelter) ExtractLiveHouseInfo(doc *goquery.Document, _ model.LiveHouse) model.LiveHouseInfo {
	var info model.LiveHouseInfo

	title := doc.Find("title").First().Text()
	if strings.Contains(title, "SHELTER") {
		info.Name = "Shimokitazawa SHELTER"
		info.NameKana = "シモキタザワ シェルター"
		info.NameRomaji = "Shimokitazawa SHELTER"
	}

	if m := findNearLabel(doc, shelterLabelPatterns.address, shelterAddressValue); m != nil {
		info.Address = strings.TrimSpace(m[1])
	}
	if m := findNearLabel(doc, shelterLabelPatterns.phone, shelterPhoneValue); m != nil {
		info.PhoneNumber = m[1]
	}
	if m := findNearLabel(doc, shelterLabelPatterns.capacity, shelterCapacityValue); m != nil {
		if capacity, err := strconv.Atoi(m[1]); err == nil {
			info.Capacity = capacity
		}
	}
	if m := findNearLabel(doc, shelterLabelPatterns.opened, shelterOpenedValue); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		if month >= 1 && month <= 12 {
			opened := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
			info.OpenedDate = &opened
		}
	}

	return info
}

// findNearLabelは、ラベルを含む末端要素を探し、その親要素のテキストから値を抜き出します。
func findNearLabel(doc *goquery.Document, label, value *regexp.Regexp) []string {
	var found []string

	doc.Find("*").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if sel.Children().Length() > 0 || !label.MatchString(sel.Text()) {
			return true
		}

		parent := sel.Parent()
		if parent.Length() == 0 {
			return true
		}
		if m := value.FindStringSubmatch(parent.Text()); m != nil {
			found = m
			return false
		}
		return true
	})

	return found
}

func (s *shelter) FindScheduleLink(doc *goquery.Document) (string, bool) {
	// ベースURLがすでにスケジュールページを指していることが多い
	if strings.Contains(s.deps.BaseURL, "/schedule/") {
		return s.deps.BaseURL, true
	}

	found := ""
	doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href := sel.AttrOr("href", "")
		if shelterScheduleHrefPattern.MatchString(href) || shelterScheduleTextPattern.MatchString(sel.Text()) {
			found = resolveURL(s.deps.BaseURL, href)
			return false
		}
		return true
	})
	if found != "" {
		return found, true
	}

	return s.deps.BaseURL, true
}

func (s *shelter) ExtractSchedules(_ context.Context, doc *goquery.Document) []model.ScheduleEntry {
	var containers []string

	doc.Find("div, article, section").Each(func(_ int, sel *goquery.Selection) {
		if shelterContainerClassPattern.MatchString(sel.AttrOr("class", "")) {
			containers = append(containers, sel.Text())
		}
	})
	if len(containers) == 0 {
		containers = []string{doc.Text()}
	}

	var entries []model.ScheduleEntry
	for _, containerText := range containers {
		entries = append(entries, s.extractFromContainer(containerText)...)
	}

	return entries
}

func (s *shelter) extractFromContainer(containerText string) []model.ScheduleEntry {
	ref := s.deps.now()
	var entries []model.ScheduleEntry

	for _, pattern := range shelterDatePatterns {
		for _, loc := range pattern.FindAllStringSubmatchIndex(containerText, -1) {
			var date time.Time
			var ok bool
			if pattern.NumSubexp() == 3 {
				year, _ := strconv.Atoi(containerText[loc[2]:loc[3]])
				month, _ := strconv.Atoi(containerText[loc[4]:loc[5]])
				day, _ := strconv.Atoi(containerText[loc[6]:loc[7]])
				date, ok = resolveFullDate(ref, year, month, day)
			} else {
				month, _ := strconv.Atoi(containerText[loc[2]:loc[3]])
				day, _ := strconv.Atoi(containerText[loc[4]:loc[5]])
				date, ok = ResolveMonthDay(ref, month, day)
			}
			if !ok {
				continue
			}

			// この日付から次の日付までをイベント本文として切り出す
			rest := containerText[loc[1]:]
			if next := nextDateOffset(rest); next >= 0 {
				rest = rest[:next]
			} else {
				rest = truncateRunes(rest, shelterMaxContent)
			}
			eventText := strings.TrimSpace(rest)

			openTime, startTime := shelterDefaultOpen, shelterDefaultStart
			for _, timePattern := range shelterTimePatterns {
				if m := timePattern.FindStringSubmatch(eventText); m != nil {
					openTime = PadTime(m[1])
					startTime = PadTime(m[2])
					break
				}
			}

			performers := s.extractPerformers(eventText)
			if len(performers) == 0 {
				continue
			}

			entries = append(entries, model.ScheduleEntry{
				Date:       date,
				OpenTime:   openTime,
				StartTime:  startTime,
				Performers: performers,
			})
		}
	}

	return entries
}

// nextDateOffsetは、テキスト中で最初に現れる日付の位置を返します。無ければ-1です。
func nextDateOffset(text string) int {
	offset := -1
	for _, pattern := range shelterDatePatterns {
		if loc := pattern.FindStringIndex(text); loc != nil {
			if offset == -1 || loc[0] < offset {
				offset = loc[0]
			}
		}
	}
	return offset
}

func (s *shelter) extractPerformers(eventText string) []string {
	text := strings.TrimSpace(eventText)
	text = shelterWeekdayPattern.ReplaceAllString(text, "")
	text = shelterShortDate.ReplaceAllString(text, "")
	text = clockPattern.ReplaceAllString(text, "")
	text = shelterTimeLabel.ReplaceAllString(text, "")
	text = pricePattern.ReplaceAllString(text, "")
	text = shelterVenueWords.ReplaceAllString(text, "")
	for _, pattern := range shelterNoisePatterns {
		text = pattern.ReplaceAllString(text, "")
	}

	var performers []string
	seen := make(map[string]bool)

	for _, part := range shelterSeparatorPattern.Split(text, -1) {
		name := strings.TrimSpace(part)
		if name == "" || utf8.RuneCountInString(name) < 2 {
			continue
		}
		if isPunctuationOnly(name) {
			continue
		}

		name = strings.TrimSpace(shelterBracketPattern.ReplaceAllString(name, ""))

		skip := false
		for _, pattern := range shelterSkipPatterns {
			if pattern.MatchString(name) {
				skip = true
				break
			}
		}
		if skip {
			continue
		}

		name = CleanName(name)
		if name == "" || !IsValidName(name) || utf8.RuneCountInString(name) > shelterMaxPerformerNameLength {
			continue
		}

		lower := strings.ToLower(name)
		if seen[lower] {
			continue
		}
		seen[lower] = true

		performers = append(performers, name)
		if len(performers) >= shelterMaxPerformers {
			break
		}
	}

	return performers
}

func isPunctuationOnly(s string) bool {
	for _, r := range s {
		if !unicode.IsPunct(r) && !unicode.IsSymbol(r) && !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
