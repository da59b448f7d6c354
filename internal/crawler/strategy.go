package crawler

import (
	"context"
	"errors"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/nrad-K/livehouse-crawler/internal/domain/model"
	"github.com/nrad-K/livehouse-crawler/internal/logger"
)

// ErrUnknownCrawlerは、未登録のクローラー名が指定されたときに返されます。
var ErrUnknownCrawler = errors.New("未登録のクローラー名です")

// PageFetcherは、URLからHTMLを取得するインターフェースです。
type PageFetcher interface {
	Fetch(ctx context.Context, pageURL string) (string, error)
}

// Strategyは、会場サイトごとの抽出ロジックのインターフェースです。
// 汎用実装をベースに、サイト固有の構造を知っている実装が各メソッドを差し替えます。
type Strategy interface {
	// FindScheduleLinkは、トップページからスケジュールページへのURLを探します。
	FindScheduleLink(doc *goquery.Document) (string, bool)
	// ExtractLiveHouseInfoは、トップページから会場情報を抽出します。
	// existingには登録済みの会場レコードが渡され、欠けている項目だけを補完します。
	ExtractLiveHouseInfo(doc *goquery.Document, existing model.LiveHouse) model.LiveHouseInfo
	// ExtractSchedulesは、スケジュールページから公演の一覧を抽出します。
	ExtractSchedules(ctx context.Context, doc *goquery.Document) []model.ScheduleEntry
	// ExtractTicketInfoは、公演の周辺テキストからチケット情報を抽出します。
	ExtractTicketInfo(text string) (model.TicketInfo, bool)
	// FindNextMonthLinkは、翌月のスケジュールページへのURLを探します。
	FindNextMonthLink(doc *goquery.Document) (string, bool)
}

// Depsは、Strategyの構築に必要な依存をまとめた構造体です。
type Deps struct {
	BaseURL string
	Fetcher PageFetcher
	Logger  logger.AppLogger
	Now     func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// Factoryは、依存からStrategyを生成する関数です。
type Factory func(deps Deps) Strategy

var factories = map[string]Factory{
	"generic":   newGeneric,
	"antiknock": newAntiknock,
	"eggman":    newEggman,
	"lamama":    newLaMama,
	"shelter":   newShelter,
	"malcolm":   newMalcolm,
}

// Newは、登録済みのクローラー名からStrategyを生成します。
func New(name string, deps Deps) (Strategy, error) {
	factory, ok := factories[name]
	if !ok {
		return nil, ErrUnknownCrawler
	}
	return factory(deps), nil
}

// Namesは、登録済みのクローラー名を辞書順で返します。
func Names() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// resolveURLは、相対リンクをベースURL基準の絶対URLに解決します。
func resolveURL(base, href string) string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return href
	}
	hrefURL, err := url.Parse(href)
	if err != nil {
		return href
	}
	return baseURL.ResolveReference(hrefURL).String()
}

// skipHrefは、リンクとして辿る意味のないhrefを判定します。
func skipHref(href string) bool {
	return href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:")
}
