package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/nrad-K/livehouse-crawler/internal/infra"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "会場ごとの収集状況を表示します",
	Long: `登録済みの会場ごとに、直近の収集結果・収集時刻・当月の公演数を表示し、
最後に公演と出演者の総数を表示します。`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		err := godotenv.Load()
		if err != nil {
			// build 時の時は何もしない
		}

		// PostgreSQL初期化
		db, err := infra.NewPostgresDB(ctx, os.Getenv("DATABASE_URL"))
		if err != nil {
			log.Fatalf("データベースへの接続に失敗: %v", err)
		}
		defer db.Close()

		liveHouseRepo := infra.NewLiveHouseClient(db)
		scheduleRepo := infra.NewScheduleClient(db)
		performerRepo := infra.NewPerformerClient(db)

		liveHouses, err := liveHouseRepo.FindAll(ctx)
		if err != nil {
			log.Fatalf("会場一覧の取得に失敗: %v", err)
		}

		now := time.Now()
		for _, liveHouse := range liveHouses {
			count, err := scheduleRepo.CountByLiveHouseMonth(ctx, liveHouse.ID, now.Year(), now.Month())
			if err != nil {
				log.Fatalf("月別公演数の取得に失敗: %v", err)
			}

			collectedAt := "-"
			if liveHouse.LastCollectedAt != nil {
				collectedAt = liveHouse.LastCollectedAt.Format("2006-01-02 15:04")
			}
			name := liveHouse.Name
			if name == "" {
				name = fmt.Sprintf("(未収集: website_id=%d)", liveHouse.WebsiteID)
			}
			fmt.Printf("%d\t%-8s\t%s\t今月%d件\t%s\n", liveHouse.ID, liveHouse.LastCollectionState, collectedAt, count, name)
		}

		scheduleCount, err := scheduleRepo.Count(ctx)
		if err != nil {
			log.Fatalf("公演数の取得に失敗: %v", err)
		}
		performerCount, err := performerRepo.Count(ctx)
		if err != nil {
			log.Fatalf("出演者数の取得に失敗: %v", err)
		}
		fmt.Printf("合計: 会場%d件 / 公演%d件 / 出演者%d件\n", len(liveHouses), scheduleCount, performerCount)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
