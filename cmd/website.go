package cmd

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/nrad-K/livehouse-crawler/internal/crawler"
	"github.com/nrad-K/livehouse-crawler/internal/domain/model"
	"github.com/nrad-K/livehouse-crawler/internal/infra"
	"github.com/nrad-K/livehouse-crawler/internal/logger"
	"github.com/spf13/cobra"
)

var (
	websiteURL     string
	websiteCrawler string
	websiteList    bool
)

var websiteCmd = &cobra.Command{
	Use:   "website",
	Short: "収集対象のライブハウス公式サイトを管理します",
	Long: `収集対象のサイトを登録（--url と --crawler）、または登録済みサイトの一覧を
表示（--list）します。クローラー名には登録済みの実装キーを指定します。`,
	Run: func(cmd *cobra.Command, args []string) {
		if !websiteList && websiteURL == "" {
			cmd.Help()
			return
		}

		ctx := context.Background()

		err := godotenv.Load()
		if err != nil {
			// build 時の時は何もしない
		}

		// logger初期化
		logHandler := slog.NewTextHandler(os.Stdout, nil)
		appLogger := logger.NewAppLogger(slog.New(logHandler))

		// PostgreSQL初期化
		db, err := infra.NewPostgresDB(ctx, os.Getenv("DATABASE_URL"))
		if err != nil {
			log.Fatalf("データベースへの接続に失敗: %v", err)
		}
		defer db.Close()

		websiteRepo := infra.NewWebsiteClient(db)

		if websiteList {
			websites, err := websiteRepo.FindList(ctx)
			if err != nil {
				appLogger.Error("サイト一覧の取得に失敗しました", "error", err)
				os.Exit(1)
			}
			for _, website := range websites {
				fmt.Printf("%d\t%s\t%s\t%s\n", website.ID, website.Status, website.CrawlerName, website.URL)
			}
			return
		}

		if websiteCrawler == "" {
			websiteCrawler = "generic"
		}
		if _, err := crawler.New(websiteCrawler, crawler.Deps{BaseURL: websiteURL, Logger: appLogger}); err != nil {
			appLogger.Error("クローラー名が不正です", "crawler", websiteCrawler, "candidates", strings.Join(crawler.Names(), ", "))
			os.Exit(1)
		}

		saved, err := websiteRepo.Save(ctx, model.Website{
			URL:         websiteURL,
			Status:      model.WebsiteStatusNotStarted,
			CrawlerName: websiteCrawler,
		})
		if err != nil {
			appLogger.Error("サイトの登録に失敗しました", "url", websiteURL, "error", err)
			os.Exit(1)
		}
		appLogger.Info("サイトを登録しました", "id", saved.ID, "url", saved.URL, "crawler", saved.CrawlerName)
	},
}

func init() {
	rootCmd.AddCommand(websiteCmd)
	websiteCmd.Flags().StringVarP(&websiteURL, "url", "u", "", "登録するサイトのURL")
	websiteCmd.Flags().StringVarP(&websiteCrawler, "crawler", "c", "", "使用するクローラー名（省略時はgeneric）")
	websiteCmd.Flags().BoolVarP(&websiteList, "list", "l", false, "登録済みサイトの一覧を表示します")
}
