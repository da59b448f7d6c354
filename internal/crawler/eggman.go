package crawler

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/nrad-K/livehouse-crawler/internal/domain/model"
)

var (
	eggmanTitlePattern     = regexp.MustCompile(`(?i)([\w\x{3040}-\x{309F}\x{30A0}-\x{30FF}\x{4E00}-\x{9FAF}]+)\s*eggman`)
	eggmanMonthPattern     = regexp.MustCompile(`(\d{4})\.(\d{2})`)
	eggmanInfoClassPattern = regexp.MustCompile(`(?i)about|info|access|venue`)
	eggmanActPrefix50on    = regexp.MustCompile(`^\s*\(\s*50音順\s*\)\s*:\s*`)
	eggmanActPrefixLabel   = regexp.MustCompile(`(?i)^\s*ACT\s*:\s*`)
	eggmanActSeparator     = regexp.MustCompile(`\s*/\s*`)

	eggmanAddressPatterns = []*regexp.Regexp{
		regexp.MustCompile(`〒?\d{3}-?\d{4}\s*([^0-9\n]{5,50})`),
		regexp.MustCompile(`(東京都[^0-9\n]{5,40})`),
		regexp.MustCompile(`([\x{4E00}-\x{9FAF}]+[都道府県][^0-9\n]{5,40})`),
	}
)

// eggmanは、渋谷eggmanのサイト構造に特化したStrategyです。
// 月見出し(YYYY.MM)と article.scheduleList の組み合わせから公演を抽出します。
type eggman struct {
	*generic
}

func newEggman(deps Deps) Strategy {
	return &eggman{generic: &generic{deps: deps}}
}

func (e *eggman) FindScheduleLink(_ *goquery.Document) (string, bool) {
	return resolveURL(e.deps.BaseURL, "/schedule-cat/daytime/"), true
}

func (e *eggman) ExtractLiveHouseInfo(doc *goquery.Document, _ model.LiveHouse) model.LiveHouseInfo {
	info := model.LiveHouseInfo{
		Name:       "eggman",
		NameKana:   "エッグマン",
		NameRomaji: "eggman",
	}

	// タイトルに地名が付いていればそれを名前に反映する（例: Shibuya eggman）
	title := doc.Find("title").First().Text()
	if strings.Contains(strings.ToLower(title), "eggman") {
		if m := eggmanTitlePattern.FindStringSubmatch(title); m != nil {
			info.Name = m[1] + " eggman"
			info.NameRomaji = m[1] + " eggman"
		}
	}

	doc.Find("div, section").Each(func(_ int, section *goquery.Selection) {
		if !eggmanInfoClassPattern.MatchString(section.AttrOr("class", "")) {
			return
		}
		sectionText := section.Text()

		if info.Address == "" {
			for _, pattern := range eggmanAddressPatterns {
				if m := pattern.FindStringSubmatch(sectionText); m != nil {
					info.Address = strings.TrimSpace(m[1])
					break
				}
			}
		}

		if info.PhoneNumber == "" {
			for _, pattern := range phonePatterns {
				if m := pattern.FindStringSubmatch(sectionText); m != nil {
					info.PhoneNumber = strings.TrimSpace(m[1])
					break
				}
			}
		}

		if info.Capacity == 0 {
			normalized := NormalizeText(sectionText)
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
	})

	return info
}

func (e *eggman) ExtractSchedules(_ context.Context, doc *goquery.Document) []model.ScheduleEntry {
	ref := e.deps.now()
	year, month := ref.Year(), int(ref.Month())

	// 月見出し「2025.07」から対象の年月を決める
	header := doc.Find("div.monthHeader h1").First().Text()
	if m := eggmanMonthPattern.FindStringSubmatch(header); m != nil {
		year, _ = strconv.Atoi(m[1])
		month, _ = strconv.Atoi(m[2])
	}

	var entries []model.ScheduleEntry

	doc.Find("article.scheduleList").Each(func(_ int, article *goquery.Selection) {
		dayText := strings.TrimSpace(article.Find("time strong").First().Text())
		day, err := strconv.Atoi(dayText)
		if err != nil {
			return
		}

		date, ok := resolveFullDate(ref, year, month, day)
		if !ok {
			return
		}

		performanceName := strings.TrimSpace(article.Find("h1").First().Text())

		openTime, startTime := "18:30", "19:00"
		article.Find("div.scheListBody li").Each(func(_ int, li *goquery.Selection) {
			text := li.Text()
			m := timePattern.FindStringSubmatch(text)
			if m == nil {
				return
			}
			switch {
			case strings.Contains(text, "OPEN"):
				openTime = PadTime(m[1] + ":" + m[2])
			case strings.Contains(text, "START"):
				startTime = PadTime(m[1] + ":" + m[2])
			}
		})

		var performers []string
		actText := article.Find("div.act").First().Text()
		if actText != "" {
			actText = eggmanActPrefix50on.ReplaceAllString(actText, "")
			actText = eggmanActPrefixLabel.ReplaceAllString(actText, "")

			for _, part := range eggmanActSeparator.Split(actText, -1) {
				name := CleanName(strings.TrimSpace(part))
				if name != "" && IsValidName(name) {
					performers = append(performers, name)
				}
			}
		}

		if len(performers) == 0 && performanceName == "" {
			return
		}
		if len(performers) == 0 {
			performers = []string{performanceName}
		}

		entries = append(entries, model.ScheduleEntry{
			Date:            date,
			OpenTime:        openTime,
			StartTime:       startTime,
			PerformanceName: performanceName,
			Performers:      performers,
			Context:         article.Text(),
		})
	})

	return entries
}
