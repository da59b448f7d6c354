package infra

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/nrad-K/livehouse-crawler/internal/config"
)

// ErrFetchTimeoutは、ページ取得がタイムアウトしたことを表します。
var ErrFetchTimeout = errors.New("ページ取得がタイムアウトしました")

type httpPageFetcher struct {
	client *http.Client
	cfg    *config.CollectorConfig
}

// NewHTTPPageFetcherは、net/httpを用いたページ取得クライアントを生成します。
//
// args:
//
//	cfg: 収集設定
//
// return:
//
//	*httpPageFetcher: 生成されたクライアント
func NewHTTPPageFetcher(cfg *config.CollectorConfig) *httpPageFetcher {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.InsecureSkipVerify {
		// 一部の会場サイトは証明書が不正なため検証を無効化できるようにする
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &httpPageFetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   time.Duration(cfg.FetchTimeoutSeconds) * time.Second,
		},
		cfg: cfg,
	}
}

// Fetchは、指定したURLのHTMLを取得します。
//
// args:
//
//	ctx: コンテキスト
//	pageURL: 取得対象のURL
//
// return:
//
//	string: HTML文字列
//	error: 失敗時のエラー
func (f *httpPageFetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("リクエストの作成に失敗しました: %w", err)
	}

	req.Header.Set("User-Agent", f.cfg.UserAgent)
	for key, value := range f.cfg.Headers {
		req.Header.Set(key, value)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return "", fmt.Errorf("%w: %s", ErrFetchTimeout, pageURL)
		}
		return "", fmt.Errorf("ページの取得に失敗しました: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTPステータスが異常です: %d (%s)", resp.StatusCode, pageURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("レスポンスの読み込みに失敗しました: %w", err)
	}

	return string(body), nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
