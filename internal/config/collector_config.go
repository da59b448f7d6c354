package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"
)

// CollectorConfigはスケジュール収集の動作設定をまとめる構造体です。
type CollectorConfig struct {
	FetchTimeoutSeconds  int               `yaml:"fetch_timeout_seconds" validate:"min=1,max=300"`  // ページ取得のタイムアウト時間（秒）
	SearchTimeoutSeconds int               `yaml:"search_timeout_seconds" validate:"min=1,max=60"`  // 出演者検索のタイムアウト時間（秒）
	FetchSleepSeconds    int               `yaml:"fetch_sleep_seconds" validate:"min=0,max=60"`     // 各リクエスト間の待機時間（秒）
	UserAgent            string            `yaml:"user_agent" validate:"required,min=1"`            // リクエストヘッダーに設定するUser-Agent
	Headers              map[string]string `yaml:"headers"`                                         // リクエストに追加するカスタムヘッダー
	InsecureSkipVerify   bool              `yaml:"insecure_skip_verify"`                            // 証明書が不正なサイト向けにTLS検証を無効にする
	ExportDir            string            `yaml:"export_dir"`                                      // CSVエクスポート先のディレクトリ
	Browser              BrowserConfig     `yaml:"browser"`                                         // JavaScript描画が必要なサイト向けのブラウザ設定
}

// BrowserConfigはPlaywrightによるページ描画の設定を定義します。
type BrowserConfig struct {
	Enabled            bool   `yaml:"enabled"`                                          // ブラウザ描画を使用するかどうか
	EnableHeadless     bool   `yaml:"enable_headless"`                                  // ヘッドレスモードで起動するかどうか
	WaitSelector       string `yaml:"wait_selector"`                                    // 描画完了を待機するCSSセレクター
	LoadMoreSelector   string `yaml:"load_more_selector"`                               // 「もっと見る」ボタンのCSSセレクター
	MaxLoadMoreClicks  int    `yaml:"max_load_more_clicks" validate:"min=0,max=50"`     // 「もっと見る」ボタンの最大クリック回数
	LoadMoreWaitMillis int    `yaml:"load_more_wait_millis" validate:"min=0,max=10000"` // クリック後の待機時間（ミリ秒）
}

// バリデーターのインスタンス
var v = validator.New()

// YAMLファイルからCollectorConfigを読み込む
func LoadCollectorConfig(path string) (CollectorConfig, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return CollectorConfig{}, err
	}

	var cfg CollectorConfig
	if err := yaml.Unmarshal(f, &cfg); err != nil {
		return CollectorConfig{}, err
	}

	// バリデーション
	if err := v.Struct(cfg); err != nil {
		return CollectorConfig{}, err
	}

	// カスタムバリデーション
	if cfg.Browser.MaxLoadMoreClicks > 0 && cfg.Browser.LoadMoreSelector == "" {
		return CollectorConfig{}, fmt.Errorf("max_load_more_clicksを指定する場合はload_more_selectorが必要です")
	}
	if cfg.Browser.Enabled && !cfg.Browser.EnableHeadless && cfg.Browser.WaitSelector == "" {
		return CollectorConfig{}, fmt.Errorf("ヘッドレスを無効にする場合はwait_selectorが必要です")
	}

	return cfg, nil
}
