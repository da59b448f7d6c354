package infra

import (
	"context"
	"fmt"

	"github.com/nrad-K/livehouse-crawler/internal/config"
	"github.com/playwright-community/playwright-go"
)

type browserFetcher struct {
	pw      *playwright.Playwright
	cfg     *config.CollectorConfig
	browser playwright.Browser
	page    playwright.Page
	context playwright.BrowserContext
}

// NewBrowserFetcherは、Playwrightを用いたページ取得クライアントを生成します。
// JavaScriptでスケジュールを描画する会場サイト向けに使用します。
//
// args:
//
//	cfg: 収集設定
//
// return:
//
//	*browserFetcher: 生成されたクライアント
//	error: 失敗時のエラー
func NewBrowserFetcher(cfg *config.CollectorConfig) (*browserFetcher, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("playwrightの起動に失敗しました: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Browser.EnableHeadless),
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("ブラウザの起動に失敗しました: %w", err)
	}

	browserContext, err := browser.NewContext(playwright.BrowserNewContextOptions{
		ExtraHttpHeaders: cfg.Headers,
		UserAgent:        &cfg.UserAgent,
	})
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("ブラウザコンテキストの作成に失敗しました: %w", err)
	}

	if err := setupResourceBlocking(browserContext); err != nil {
		return nil, fmt.Errorf("リソースブロックの設定に失敗しました: %w", err)
	}

	page, err := browserContext.NewPage()
	if err != nil {
		return nil, fmt.Errorf("ページの作成に失敗しました: %w", err)
	}

	return &browserFetcher{
		pw:      pw,
		browser: browser,
		context: browserContext,
		page:    page,
		cfg:     cfg,
	}, nil
}

func setupResourceBlocking(context playwright.BrowserContext) error {
	return context.Route("**/*.{png,jpg,jpeg,gif,svg,woff,woff2,ttf,eot,otf}", func(route playwright.Route) {
		route.Abort()
	})
}

// Fetchは、指定したURLをブラウザで描画してHTMLを取得します。
// 「もっと見る」ボタンが設定されている場合は展開しきってから返します。
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
func (b *browserFetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("ページ描画を中断しました: %w", err)
	}

	if _, err := b.page.Goto(pageURL, playwright.PageGotoOptions{
		Timeout:   playwright.Float(float64(b.cfg.FetchTimeoutSeconds * 1000)),
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	}); err != nil {
		return "", fmt.Errorf("ナビゲーションに失敗しました: %v", err)
	}

	if b.cfg.Browser.WaitSelector != "" {
		locator := b.page.Locator(b.cfg.Browser.WaitSelector).First()
		if err := locator.WaitFor(); err != nil {
			return "", fmt.Errorf("セレクター '%s' の可視状態待機に失敗しました: %w", b.cfg.Browser.WaitSelector, err)
		}
	}

	if err := b.expandLoadMore(); err != nil {
		return "", err
	}

	html, err := b.page.Content()
	if err != nil {
		return "", fmt.Errorf("ページコンテンツの取得に失敗しました: %w", err)
	}

	return html, nil
}

// expandLoadMoreは、「もっと見る」ボタンが消えるか上限回数に達するまでクリックします。
func (b *browserFetcher) expandLoadMore() error {
	if b.cfg.Browser.LoadMoreSelector == "" {
		return nil
	}

	for i := 0; i < b.cfg.Browser.MaxLoadMoreClicks; i++ {
		locator := b.page.Locator(b.cfg.Browser.LoadMoreSelector).First()
		visible, err := locator.IsVisible()
		if err != nil || !visible {
			return nil
		}

		if err := locator.Click(); err != nil {
			return fmt.Errorf("%sのクリックに失敗しました: %w", b.cfg.Browser.LoadMoreSelector, err)
		}

		b.page.WaitForTimeout(float64(b.cfg.Browser.LoadMoreWaitMillis))
	}

	return nil
}

// Closeは、ブラウザとPlaywrightインスタンスを閉じます。
//
// args: なし
// return:
//
//	error: 失敗時のエラー
func (b *browserFetcher) Close() error {
	if err := b.context.Close(); err != nil {
		return fmt.Errorf("ブラウザコンテキストのクローズに失敗しました: %w", err)
	}

	if err := b.browser.Close(); err != nil {
		return fmt.Errorf("ブラウザを閉じれませんでした: %w", err)
	}

	if err := b.pw.Stop(); err != nil {
		return fmt.Errorf("playwrightの停止に失敗しました: %w", err)
	}
	return nil
}
