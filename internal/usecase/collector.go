package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"github.com/nrad-K/livehouse-crawler/internal/config"
	"github.com/nrad-K/livehouse-crawler/internal/crawler"
	"github.com/nrad-K/livehouse-crawler/internal/domain/model"
	"github.com/nrad-K/livehouse-crawler/internal/domain/repository"
	"github.com/nrad-K/livehouse-crawler/internal/infra"
	"github.com/nrad-K/livehouse-crawler/internal/logger"
	"github.com/nrad-K/livehouse-crawler/internal/performer"
)

// CollectorUseCaseは、スケジュール収集の実行ロジックを定義するインターフェースです。
type CollectorUseCase interface {
	Collect(ctx context.Context) error
	CollectWebsite(ctx context.Context, websiteID int64) error
}

// CollectorArgsは、収集ユースケースを構築するための引数を保持します。
type CollectorArgs struct {
	Cfg        *config.CollectorConfig
	Fetcher    crawler.PageFetcher
	Websites   repository.WebsiteRepository
	LiveHouses repository.LiveHouseRepository
	Schedules  repository.ScheduleRepository
	Performers repository.PerformerRepository
	Logs       repository.CollectionLogRepository
	Validator  performer.PerformerValidator
	Exporter   infra.FileExporter
	Logger     logger.AppLogger
}

// ScheduleCollectorUseCaseは、登録済みサイトを巡回して公演情報を収集するユースケースです。
type ScheduleCollectorUseCase struct {
	cfg        *config.CollectorConfig
	fetcher    crawler.PageFetcher
	websites   repository.WebsiteRepository
	liveHouses repository.LiveHouseRepository
	schedules  repository.ScheduleRepository
	performers repository.PerformerRepository
	logs       repository.CollectionLogRepository
	validator  performer.PerformerValidator
	exporter   infra.FileExporter
	logger     logger.AppLogger
}

// NewScheduleCollectorUseCaseは、ScheduleCollectorUseCaseの新しいインスタンスを作成します。
func NewScheduleCollectorUseCase(args CollectorArgs) *ScheduleCollectorUseCase {
	return &ScheduleCollectorUseCase{
		cfg:        args.Cfg,
		fetcher:    args.Fetcher,
		websites:   args.Websites,
		liveHouses: args.LiveHouses,
		schedules:  args.Schedules,
		performers: args.Performers,
		logs:       args.Logs,
		validator:  args.Validator,
		exporter:   args.Exporter,
		logger:     args.Logger,
	}
}

// Collectは、登録済みの全サイトを巡回するメイン実行ロジックです。
// 同じ日に成功済みのサイトはスキップし、実行結果の集計をログに出します。
func (u *ScheduleCollectorUseCase) Collect(ctx context.Context) error {
	websites, err := u.websites.FindList(ctx)
	if err != nil {
		return fmt.Errorf("サイト一覧の取得に失敗しました: %w", err)
	}

	runID := uuid.NewString()
	today := time.Now()
	u.logger.Info("スケジュール収集を開始します", "run_id", runID, "websites", len(websites))

	schedulesBefore, err := u.schedules.Count(ctx)
	if err != nil {
		return fmt.Errorf("公演数の取得に失敗しました: %w", err)
	}
	performersBefore, err := u.performers.Count(ctx)
	if err != nil {
		return fmt.Errorf("出演者数の取得に失敗しました: %w", err)
	}

	var successCount, failedCount, skippedCount int
	for i, website := range websites {
		if website.CrawlerName == "" {
			u.logger.Warn("抽出戦略が未設定のためスキップします", "url", website.URL)
			skippedCount++
			continue
		}

		succeeded, err := u.logs.SucceededOn(ctx, website.URL, today)
		if err != nil {
			u.logger.Warn("収集ログの確認に失敗しました", "url", website.URL, "error", err)
		}
		if succeeded {
			u.logger.Info("本日分は収集済みのためスキップします", "url", website.URL)
			skippedCount++
			continue
		}

		if i > 0 {
			time.Sleep(time.Duration(u.cfg.FetchSleepSeconds) * time.Second)
		}

		if err := u.collect(ctx, website, runID, today); err != nil {
			u.logger.Error("サイトの収集に失敗しました", "url", website.URL, "error", err)
			failedCount++
			continue
		}
		successCount++
	}

	schedulesAfter, err := u.schedules.Count(ctx)
	if err != nil {
		return fmt.Errorf("公演数の取得に失敗しました: %w", err)
	}
	performersAfter, err := u.performers.Count(ctx)
	if err != nil {
		return fmt.Errorf("出演者数の取得に失敗しました: %w", err)
	}

	u.logger.Info("スケジュール収集が完了しました",
		"run_id", runID,
		"success", successCount,
		"failed", failedCount,
		"skipped", skippedCount,
		"new_schedules", schedulesAfter-schedulesBefore,
		"new_performers", performersAfter-performersBefore,
	)

	if successCount == 0 && failedCount > 0 {
		return fmt.Errorf("すべてのサイトの収集に失敗しました")
	}

	return nil
}

// CollectWebsiteは、指定した1サイトだけを収集します。
func (u *ScheduleCollectorUseCase) CollectWebsite(ctx context.Context, websiteID int64) error {
	website, err := u.websites.FindByID(ctx, websiteID)
	if err != nil {
		return fmt.Errorf("サイトの取得に失敗しました: %w", err)
	}
	return u.collect(ctx, website, uuid.NewString(), time.Now())
}

// collectは、1サイト分の収集処理です。
// 会場情報の補完、当月と翌月の公演抽出、出演者の検証と永続化までを行います。
func (u *ScheduleCollectorUseCase) collect(ctx context.Context, website model.Website, runID string, today time.Time) error {
	if err := u.websites.UpdateStatus(ctx, website.ID, model.WebsiteStatusInProgress); err != nil {
		return err
	}

	liveHouse, err := u.collectLiveHouse(ctx, website)
	if err != nil {
		u.fail(ctx, website, liveHouse, runID, today, err)
		return err
	}

	if err := u.websites.UpdateStatus(ctx, website.ID, model.WebsiteStatusCompleted); err != nil {
		return err
	}

	now := time.Now()
	if err := u.liveHouses.UpdateCollectionState(ctx, liveHouse.ID, model.CollectionStateSuccess, now); err != nil {
		return err
	}
	if err := u.logs.Mark(ctx, website.URL, today, model.CollectionStateSuccess, runID); err != nil {
		u.logger.Warn("収集ログの記録に失敗しました", "url", website.URL, "error", err)
	}

	return nil
}

// failは、収集失敗時の状態記録をまとめて行います。記録自体の失敗は警告に留めます。
func (u *ScheduleCollectorUseCase) fail(ctx context.Context, website model.Website, liveHouse model.LiveHouse, runID string, today time.Time, cause error) {
	state := model.CollectionStateError
	if errors.Is(cause, infra.ErrFetchTimeout) || errors.Is(cause, context.DeadlineExceeded) {
		state = model.CollectionStateTimeout
	}

	if err := u.websites.UpdateStatus(ctx, website.ID, model.WebsiteStatusFailed); err != nil {
		u.logger.Warn("サイトの状態更新に失敗しました", "url", website.URL, "error", err)
	}
	if liveHouse.ID != 0 {
		if err := u.liveHouses.UpdateCollectionState(ctx, liveHouse.ID, state, time.Now()); err != nil {
			u.logger.Warn("会場の収集状態更新に失敗しました", "live_house_id", liveHouse.ID, "error", err)
		}
	}
	if err := u.logs.Mark(ctx, website.URL, today, state, runID); err != nil {
		u.logger.Warn("収集ログの記録に失敗しました", "url", website.URL, "error", err)
	}
}

// collectLiveHouseは、トップページから会場情報を補完し、公演の抽出と保存を行います。
func (u *ScheduleCollectorUseCase) collectLiveHouse(ctx context.Context, website model.Website) (model.LiveHouse, error) {
	liveHouse, found, err := u.liveHouses.FindByWebsiteID(ctx, website.ID)
	if err != nil {
		return model.LiveHouse{}, err
	}
	if !found {
		liveHouse = model.LiveHouse{WebsiteID: website.ID}
	}

	strategy, err := crawler.New(website.CrawlerName, crawler.Deps{
		BaseURL: website.URL,
		Fetcher: u.fetcher,
		Logger:  u.logger,
	})
	if err != nil {
		return liveHouse, fmt.Errorf("クローラーの生成に失敗しました: %w", err)
	}

	topDoc, err := u.fetchDocument(ctx, website.URL)
	if err != nil {
		return liveHouse, err
	}

	info := strategy.ExtractLiveHouseInfo(topDoc, liveHouse)
	liveHouse.Merge(info)
	liveHouse, err = u.liveHouses.Upsert(ctx, liveHouse)
	if err != nil {
		return liveHouse, err
	}

	// スケジュールリンクが見つからないサイトは会場情報の更新のみで終える
	link, ok := strategy.FindScheduleLink(topDoc)
	if !ok {
		u.logger.Warn("スケジュールページへのリンクが見つかりませんでした", "url", website.URL)
		return liveHouse, nil
	}

	scheduleDoc := topDoc
	if link != website.URL {
		doc, err := u.fetchDocument(ctx, link)
		if err != nil {
			return liveHouse, err
		}
		scheduleDoc = doc
	}

	entries := strategy.ExtractSchedules(ctx, scheduleDoc)

	// 翌月分はベストエフォートで取得する
	if nextLink, ok := strategy.FindNextMonthLink(scheduleDoc); ok {
		if nextDoc, err := u.fetchDocument(ctx, nextLink); err != nil {
			u.logger.Warn("翌月スケジュールの取得に失敗しました", "url", nextLink, "error", err)
		} else {
			entries = append(entries, strategy.ExtractSchedules(ctx, nextDoc)...)
		}
	}

	u.logger.Info("公演を抽出しました", "live_house", liveHouse.Name, "entries", len(entries))

	savedCount := 0
	for _, entry := range entries {
		saved, err := u.persistSchedule(ctx, liveHouse, entry, strategy)
		if err != nil {
			u.logger.Warn("公演の保存に失敗しました", "live_house", liveHouse.Name, "date", entry.Date.Format("2006-01-02"), "error", err)
			continue
		}
		if saved {
			savedCount++
		}
	}

	u.logger.Info("公演を保存しました", "live_house", liveHouse.Name, "saved", savedCount, "extracted", len(entries))

	return liveHouse, nil
}

// persistScheduleは、1公演分の検証と保存を行います。
// 検証を通過した出演者が1人もいない公演はノイズとみなして保存しません。
func (u *ScheduleCollectorUseCase) persistSchedule(ctx context.Context, liveHouse model.LiveHouse, entry model.ScheduleEntry, strategy crawler.Strategy) (bool, error) {
	type validated struct {
		performer model.Performer
		links     []model.SocialLink
	}

	var passed []validated
	for _, raw := range entry.Performers {
		name := crawler.CleanName(raw)
		if name == "" || !crawler.IsValidName(name) {
			u.logger.Info("出演者候補を除外しました", "raw", raw)
			continue
		}

		p, links, err := u.validator.Validate(ctx, name, liveHouse.Name, entry.Date)
		if err != nil {
			var verr *performer.ValidationError
			if errors.As(err, &verr) {
				u.logger.Info("出演者を除外しました", "name", name, "reason", verr.Reason)
			} else {
				u.logger.Warn("出演者の検証に失敗しました", "name", name, "error", err)
			}
			continue
		}
		passed = append(passed, validated{performer: p, links: links})
	}

	if len(passed) == 0 {
		u.logger.Info("有効な出演者がいないため公演を保存しません", "performance", entry.PerformanceName, "date", entry.Date.Format("2006-01-02"))
		return false, nil
	}

	schedule, created, err := u.schedules.GetOrCreate(ctx, model.Schedule{
		LiveHouseID:     liveHouse.ID,
		PerformanceName: entry.PerformanceName,
		Date:            entry.Date,
		OpenTime:        entry.OpenTime,
		StartTime:       entry.StartTime,
	})
	if err != nil {
		return false, err
	}

	performerNames := make([]string, 0, len(passed))
	for _, item := range passed {
		saved, _, err := u.performers.GetOrCreateByRomaji(ctx, item.performer)
		if err != nil {
			return created, err
		}
		if len(item.links) > 0 {
			if err := u.performers.SaveSocialLinks(ctx, saved.ID, item.links); err != nil {
				return created, err
			}
		}
		if err := u.schedules.AddPerformer(ctx, schedule.ID, saved.ID); err != nil {
			return created, err
		}
		performerNames = append(performerNames, saved.Name)
	}

	if entry.Context != "" {
		if info, ok := strategy.ExtractTicketInfo(entry.Context); ok && info.HasData() {
			info.ScheduleID = schedule.ID
			if err := u.schedules.SaveTicketInfo(ctx, info); err != nil {
				return created, err
			}
		}
	}

	if u.exporter != nil {
		row := infra.ScheduleRow{
			LiveHouseName: liveHouse.Name,
			Schedule:      schedule,
			Performers:    performerNames,
		}
		if err := u.exporter.Write(row); err != nil {
			u.logger.Warn("CSVへの書き込みに失敗しました", "performance", schedule.PerformanceName, "error", err)
		}
	}

	return created, nil
}

// fetchDocumentは、URLを取得してgoqueryドキュメントに変換します。
func (u *ScheduleCollectorUseCase) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, time.Duration(u.cfg.FetchTimeoutSeconds)*time.Second)
	defer cancel()

	html, err := u.fetcher.Fetch(ctxTimeout, pageURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("HTMLのパースに失敗しました: %w", err)
	}

	return doc, nil
}
