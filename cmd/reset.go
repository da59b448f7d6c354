package cmd

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/nrad-K/livehouse-crawler/internal/infra"
	"github.com/nrad-K/livehouse-crawler/internal/logger"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

var (
	resetDay         string
	resetLiveHouseID int64
	resetFrom        string
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "収集ログや公演データをリセットします",
	Long: `--dayで指定した日の収集ログを削除して再収集できるようにします。
--live-house-idと--fromを指定すると、その会場の指定日以降の公演を削除します。`,
	Run: func(cmd *cobra.Command, args []string) {
		if resetDay == "" && resetLiveHouseID == 0 {
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

		if resetDay != "" {
			day, err := time.Parse("2006-01-02", resetDay)
			if err != nil {
				log.Fatalf("日付の形式が不正です (YYYY-MM-DD): %v", err)
			}

			// Redisクライアント初期化
			rdb := redis.NewClient(&redis.Options{
				Addr:     os.Getenv("REDIS_ADDRESS"),
				Password: os.Getenv("REDIS_PASSWORD"),
				DB:       0,
			})
			if err := rdb.Ping(ctx).Err(); err != nil {
				appLogger.Error("Redisへの接続に失敗しました", "error", err)
				os.Exit(1)
			}

			logRepo := infra.NewCollectionLogClient(rdb)
			deleted, err := logRepo.ClearDay(ctx, day)
			if err != nil {
				appLogger.Error("収集ログの削除に失敗しました", "day", resetDay, "error", err)
				os.Exit(1)
			}
			appLogger.Info("収集ログを削除しました", "day", resetDay, "deleted", deleted)
		}

		if resetLiveHouseID > 0 {
			if resetFrom == "" {
				log.Fatalf("--live-house-idを指定する場合は--fromが必要です")
			}
			from, err := time.Parse("2006-01-02", resetFrom)
			if err != nil {
				log.Fatalf("日付の形式が不正です (YYYY-MM-DD): %v", err)
			}

			// PostgreSQL初期化
			db, err := infra.NewPostgresDB(ctx, os.Getenv("DATABASE_URL"))
			if err != nil {
				log.Fatalf("データベースへの接続に失敗: %v", err)
			}
			defer db.Close()

			scheduleRepo := infra.NewScheduleClient(db)
			deleted, err := scheduleRepo.DeleteFromDate(ctx, resetLiveHouseID, from)
			if err != nil {
				appLogger.Error("公演の削除に失敗しました", "live_house_id", resetLiveHouseID, "error", err)
				os.Exit(1)
			}
			appLogger.Info("公演を削除しました", "live_house_id", resetLiveHouseID, "from", resetFrom, "deleted", deleted)
		}
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)
	resetCmd.Flags().StringVarP(&resetDay, "day", "d", "", "収集ログを削除する日 (YYYY-MM-DD)")
	resetCmd.Flags().Int64Var(&resetLiveHouseID, "live-house-id", 0, "公演を削除する会場ID")
	resetCmd.Flags().StringVar(&resetFrom, "from", "", "この日以降の公演を削除します (YYYY-MM-DD)")
}
