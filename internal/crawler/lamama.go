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

const laMamaMaxPerformers = 8

var (
	laMamaInfoClassPattern = regexp.MustCompile(`(?i)about|info|venue`)
	laMamaFooterIDPattern  = regexp.MustCompile(`(?i)footer|contact`)
	laMamaAddressPatterns  = []*regexp.Regexp{
		regexp.MustCompile(`(東京都.*?[0-9-]+)`),
		regexp.MustCompile(`(渋谷区.*?[0-9-]+)`),
	}
	laMamaPhonePattern    = regexp.MustCompile(`(\d{2,4}-\d{2,4}-\d{4})`)
	laMamaCapacityPattern = regexp.MustCompile(`(\d{2,4})\s*人|(\d{2,4})\s*名`)
	laMamaOpenedPattern   = regexp.MustCompile(`(?i)(?:since|創業|開店|オープン|設立)\D{0,20}(\d{4})`)

	laMamaMemberSeparator = regexp.MustCompile(`\s*/\s*`)
	laMamaBracketPatterns = []*regexp.Regexp{
		regexp.MustCompile(`【.*?】`),
		regexp.MustCompile(`\[.*?\]`),
		regexp.MustCompile(`\(.*?\)`),
		regexp.MustCompile(`（.*?）`),
	}
	laMamaWithPattern = regexp.MustCompile(`(?i)\s+with\s+.*`)
)

// laMamaは、渋谷La.mamaのサイト構造に特化したStrategyです。
// スケジュールURLは ?month=YYYY-MM 形式で月ごとに組み立てます。
type laMama struct {
	*generic
}

func newLaMama(deps Deps) Strategy {
	return &laMama{generic: &generic{deps: deps}}
}

func (l *laMama) FindScheduleLink(_ *goquery.Document) (string, bool) {
	now := l.deps.now()
	return l.monthURL(now.Year(), now.Month()), true
}

func (l *laMama) FindNextMonthLink(_ *goquery.Document) (string, bool) {
	year, month := NextMonth(l.deps.now())
	return l.monthURL(year, month), true
}

func (l *laMama) monthURL(year int, month time.Month) string {
	return resolveURL(l.deps.BaseURL, "/schedule/?month="+FormatMonth(year, month))
}

func (l *laMama) ExtractLiveHouseInfo(doc *goquery.Document, _ model.LiveHouse) model.LiveHouseInfo {
	var info model.LiveHouseInfo

	title := doc.Find("title").First().Text()
	if strings.Contains(title, "La.mama") || strings.Contains(title, "ラママ") {
		info.Name = "Shibuya La.mama"
		info.NameKana = "シブヤ ラママ"
		info.NameRomaji = "Shibuya La.mama"
	}

	doc.Find("div, section").Each(func(_ int, section *goquery.Selection) {
		if !laMamaInfoClassPattern.MatchString(section.AttrOr("class", "")) {
			return
		}
		sectionText := section.Text()

		if info.Address == "" {
			for _, pattern := range laMamaAddressPatterns {
				if m := pattern.FindStringSubmatch(sectionText); m != nil {
					info.Address = strings.TrimSpace(m[1])
					break
				}
			}
		}

		if info.PhoneNumber == "" {
			if m := laMamaPhonePattern.FindStringSubmatch(sectionText); m != nil {
				info.PhoneNumber = m[1]
			}
		}

		if info.Capacity == 0 {
			if m := laMamaCapacityPattern.FindStringSubmatch(sectionText); m != nil {
				capacityText := m[1]
				if capacityText == "" {
					capacityText = m[2]
				}
				if capacity, err := strconv.Atoi(capacityText); err == nil {
					info.Capacity = capacity
				}
			}
		}
	})

	// 電話番号はフッターにだけ載っていることがある
	if info.PhoneNumber == "" {
		doc.Find("footer, div").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			if !laMamaFooterIDPattern.MatchString(sel.AttrOr("id", "")) {
				return true
			}
			if m := laMamaPhonePattern.FindStringSubmatch(sel.Text()); m != nil {
				info.PhoneNumber = m[1]
				return false
			}
			return true
		})
	}

	if m := laMamaOpenedPattern.FindStringSubmatch(doc.Text()); m != nil {
		if year, err := strconv.Atoi(m[1]); err == nil {
			opened := time.Date(year, time.January, 1, 0, 0, 0, 0, time.Local)
			info.OpenedDate = &opened
		}
	}

	return info
}

func (l *laMama) ExtractSchedules(_ context.Context, doc *goquery.Document) []model.ScheduleEntry {
	var entries []model.ScheduleEntry

	doc.Find("a.pickup_btn.schedule").Each(func(_ int, event *goquery.Selection) {
		dateText := event.AttrOr("data-schedule", "")
		if dateText == "" {
			return
		}

		date, err := time.ParseInLocation("2006-01-02", dateText, time.Local)
		if err != nil {
			return
		}

		performanceName := strings.TrimSpace(event.Find("p.event").First().Text())

		var performers []string
		seen := make(map[string]bool)
		memberText := strings.TrimSpace(event.Find("p.member").First().Text())
		for _, rawPart := range laMamaMemberSeparator.Split(memberText, -1) {
			part := rawPart
			for _, pattern := range laMamaBracketPatterns {
				part = pattern.ReplaceAllString(part, "")
			}
			part = laMamaWithPattern.ReplaceAllString(part, "")
			part = strings.TrimSpace(part)

			if part == "" || utf8.RuneCountInString(part) < 2 || seen[part] {
				continue
			}
			seen[part] = true
			performers = append(performers, part)
		}

		if len(performers) == 0 {
			return
		}
		if len(performers) > laMamaMaxPerformers {
			performers = performers[:laMamaMaxPerformers]
		}

		entries = append(entries, model.ScheduleEntry{
			Date:            date,
			OpenTime:        "18:30",
			StartTime:       "19:00",
			PerformanceName: performanceName,
			Performers:      performers,
		})
	})

	return entries
}
