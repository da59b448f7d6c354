package infra

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/nrad-K/livehouse-crawler/internal/config"
	"github.com/nrad-K/livehouse-crawler/internal/constants"
)

const searchBaseURL = "https://www.google.com/search"

type googleSearchClient struct {
	client *http.Client
}

// NewGoogleSearchClientは、Google検索の結果HTMLを取得するクライアントを生成します。
// 出演者のオンラインプレゼンス確認に使用します。
//
// args:
//
//	cfg: 収集設定
//
// return:
//
//	*googleSearchClient: 生成されたクライアント
func NewGoogleSearchClient(cfg *config.CollectorConfig) *googleSearchClient {
	return &googleSearchClient{
		client: &http.Client{
			Timeout: time.Duration(cfg.SearchTimeoutSeconds) * time.Second,
		},
	}
}

// Searchは、指定したクエリの検索結果HTMLを取得します。
//
// args:
//
//	ctx: コンテキスト
//	query: 検索クエリ
//
// return:
//
//	string: 検索結果のHTML文字列
//	error: 失敗時のエラー
func (c *googleSearchClient) Search(ctx context.Context, query string) (string, error) {
	searchURL := fmt.Sprintf("%s?q=%s", searchBaseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return "", fmt.Errorf("検索リクエストの作成に失敗しました: %w", err)
	}
	req.Header.Set("User-Agent", constants.SearchUserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("検索結果の取得に失敗しました: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("検索のHTTPステータスが異常です: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("検索結果の読み込みに失敗しました: %w", err)
	}

	return string(body), nil
}
