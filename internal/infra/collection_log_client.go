package infra

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nrad-K/livehouse-crawler/internal/domain/model"
	"github.com/nrad-K/livehouse-crawler/internal/domain/repository"
	"github.com/redis/go-redis/v9"
)

// 日次ログの保持期間。翌々日には不要になるため短めに切る。
const collectionLogTTL = 48 * time.Hour

type collectionLogClient struct {
	redis *redis.Client
}

func NewCollectionLogClient(rds *redis.Client) repository.CollectionLogRepository {
	return &collectionLogClient{
		redis: rds,
	}
}

type collectionLogEntry struct {
	State    model.CollectionState `json:"state"`
	RunID    string                `json:"run_id"`
	MarkedAt time.Time             `json:"marked_at"`
}

func (r *collectionLogClient) Mark(ctx context.Context, websiteURL string, day time.Time, state model.CollectionState, runID string) error {
	entry := collectionLogEntry{
		State:    state,
		RunID:    runID,
		MarkedAt: time.Now(),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal collection log: %w", err)
	}

	key := r.generateLogKey(websiteURL, day)
	if err := r.redis.Set(ctx, key, data, collectionLogTTL).Err(); err != nil {
		return fmt.Errorf("failed to save collection log to redis: %w", err)
	}

	return nil
}

func (r *collectionLogClient) SucceededOn(ctx context.Context, websiteURL string, day time.Time) (bool, error) {
	key := r.generateLogKey(websiteURL, day)

	value, err := r.redis.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get error for key %s: %w", key, err)
	}

	var entry collectionLogEntry
	if err := json.Unmarshal([]byte(value), &entry); err != nil {
		return false, fmt.Errorf("unmarshal error for key %s: %w", key, err)
	}

	return entry.State == model.CollectionStateSuccess, nil
}

func (r *collectionLogClient) ClearDay(ctx context.Context, day time.Time) (int64, error) {
	pattern := fmt.Sprintf("collection:%s:*", day.Format("2006-01-02"))

	var deleted int64
	var cursor uint64
	for {
		// SCANコマンドでキーを取得
		keys, next, err := r.redis.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return deleted, fmt.Errorf("redis scan error: %w", err)
		}

		if len(keys) > 0 {
			count, err := r.redis.Del(ctx, keys...).Result()
			if err != nil {
				return deleted, fmt.Errorf("redis delete error: %w", err)
			}
			deleted += count
		}

		// カーソルが0になったら終了
		cursor = next
		if cursor == 0 {
			break
		}
	}

	return deleted, nil
}

func (r *collectionLogClient) generateLogKey(websiteURL string, day time.Time) string {
	return fmt.Sprintf("collection:%s:%s", day.Format("2006-01-02"), websiteURL)
}
