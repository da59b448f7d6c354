package cmd

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/nrad-K/livehouse-crawler/internal/config"
	"github.com/nrad-K/livehouse-crawler/internal/crawler"
	"github.com/nrad-K/livehouse-crawler/internal/infra"
	"github.com/nrad-K/livehouse-crawler/internal/logger"
	"github.com/nrad-K/livehouse-crawler/internal/performer"
	"github.com/nrad-K/livehouse-crawler/internal/usecase"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

var (
	collectWebsiteID int64
	exportCSV        bool
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "登録済みサイトを巡回して公演スケジュールを収集します",
	Long: `設定に基づき、登録済みのライブハウス公式サイトを巡回して公演スケジュールと
出演アーティストを抽出し、データベースに保存します。--website-idで1サイトだけを収集できます。`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		err := godotenv.Load()
		if err != nil {
			// build 時の時は何もしない
		}

		// 設定ファイル読み込み
		path := "settings/collector.yaml"
		cfg, err := config.LoadCollectorConfig(path)
		if err != nil {
			log.Fatalf("設定ファイルの読み込みに失敗: %v", err)
		}

		// logger初期化
		logHandler := slog.NewTextHandler(os.Stdout, nil)
		appLogger := logger.NewAppLogger(slog.New(logHandler))

		// Redisクライアント初期化
		rdb := redis.NewClient(&redis.Options{
			Addr:     os.Getenv("REDIS_ADDRESS"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       0,
		})
		// Redisへの接続を確認 (ping)
		if err := rdb.Ping(ctx).Err(); err != nil {
			appLogger.Error("Redisへの接続に失敗しました", "error", err)
			os.Exit(1)
		}
		appLogger.Info("Redisへの接続を確認しました")

		// PostgreSQL初期化
		db, err := infra.NewPostgresDB(ctx, os.Getenv("DATABASE_URL"))
		if err != nil {
			appLogger.Error("データベースへの接続に失敗しました", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		appLogger.Info("データベースへの接続を確認しました")

		// repository初期化
		websiteRepo := infra.NewWebsiteClient(db)
		liveHouseRepo := infra.NewLiveHouseClient(db)
		scheduleRepo := infra.NewScheduleClient(db)
		performerRepo := infra.NewPerformerClient(db)
		logRepo := infra.NewCollectionLogClient(rdb)

		// fetcher初期化（JavaScript描画が必要なサイトはブラウザを使う）
		var fetcher crawler.PageFetcher
		if cfg.Browser.Enabled {
			browserFetcher, err := infra.NewBrowserFetcher(&cfg)
			if err != nil {
				log.Fatalf("ブラウザクライアントの初期化に失敗: %v", err)
			}
			defer browserFetcher.Close()
			fetcher = browserFetcher
		} else {
			fetcher = infra.NewHTTPPageFetcher(&cfg)
		}

		// 出演者検証の初期化
		romanizer, err := performer.NewKagomeRomanizer()
		if err != nil {
			log.Fatalf("形態素解析器の初期化に失敗: %v", err)
		}
		validator := performer.NewValidator(performer.ValidatorArgs{
			Search:     infra.NewGoogleSearchClient(&cfg),
			Romanizer:  romanizer,
			Performers: performerRepo,
			Logger:     appLogger,
		})

		// CSVエクスポーター初期化
		var exporter infra.FileExporter
		if exportCSV {
			filename := fmt.Sprintf("schedules_%s.csv", time.Now().Format("20060102"))
			csvExporter, err := infra.NewCSVExporter(filepath.Join(cfg.ExportDir, filename))
			if err != nil {
				log.Fatalf("CSVエクスポーターの初期化に失敗: %v", err)
			}
			defer csvExporter.Close()
			exporter = csvExporter
		}

		collector := usecase.NewScheduleCollectorUseCase(usecase.CollectorArgs{
			Cfg:        &cfg,
			Fetcher:    fetcher,
			Websites:   websiteRepo,
			LiveHouses: liveHouseRepo,
			Schedules:  scheduleRepo,
			Performers: performerRepo,
			Logs:       logRepo,
			Validator:  validator,
			Exporter:   exporter,
			Logger:     appLogger,
		})

		if collectWebsiteID > 0 {
			appLogger.Info("サイトの収集を開始します", "website_id", collectWebsiteID)
			if err := collector.CollectWebsite(ctx, collectWebsiteID); err != nil {
				appLogger.Error("サイトの収集中にエラーが発生しました", "error", err)
				os.Exit(1)
			}
			appLogger.Info("サイトの収集が正常に完了しました")
			return
		}

		appLogger.Info("スケジュール収集を開始します")
		if err := collector.Collect(ctx); err != nil {
			appLogger.Error("スケジュール収集中にエラーが発生しました", "error", err)
			os.Exit(1)
		}
		appLogger.Info("スケジュール収集が正常に完了しました")
	},
}

func init() {
	rootCmd.AddCommand(collectCmd)
	collectCmd.Flags().Int64VarP(&collectWebsiteID, "website-id", "w", 0, "収集対象のサイトID（省略時は全サイト）")
	collectCmd.Flags().BoolVarP(&exportCSV, "export", "x", false, "収集結果をCSVにエクスポートします")
}
