package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "collector.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("設定ファイルの作成に失敗しました: %v", err)
	}
	return path
}

func TestLoadCollectorConfig(t *testing.T) {
	path := writeConfigFile(t, `
fetch_timeout_seconds: 30
search_timeout_seconds: 10
fetch_sleep_seconds: 3
user_agent: "Mozilla/5.0 test"
headers:
  Accept-Language: "ja,en-US;q=0.9"
insecure_skip_verify: true
export_dir: "exports"
browser:
  enabled: true
  enable_headless: true
  load_more_selector: ".load-more"
  max_load_more_clicks: 10
  load_more_wait_millis: 1500
`)

	cfg, err := LoadCollectorConfig(path)
	if err != nil {
		t.Fatalf("LoadCollectorConfig() error = %v", err)
	}

	if cfg.FetchTimeoutSeconds != 30 {
		t.Errorf("FetchTimeoutSeconds = %d, want 30", cfg.FetchTimeoutSeconds)
	}
	if cfg.UserAgent != "Mozilla/5.0 test" {
		t.Errorf("UserAgent = %q", cfg.UserAgent)
	}
	if cfg.Headers["Accept-Language"] != "ja,en-US;q=0.9" {
		t.Errorf("Headers = %v", cfg.Headers)
	}
	if !cfg.InsecureSkipVerify {
		t.Error("InsecureSkipVerify = false, want true")
	}
	if !cfg.Browser.Enabled || cfg.Browser.MaxLoadMoreClicks != 10 {
		t.Errorf("Browser = %+v", cfg.Browser)
	}
}

func TestLoadCollectorConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "user_agentが未設定",
			content: `
fetch_timeout_seconds: 30
search_timeout_seconds: 10
fetch_sleep_seconds: 3
`,
		},
		{
			name: "タイムアウトが範囲外",
			content: `
fetch_timeout_seconds: 500
search_timeout_seconds: 10
fetch_sleep_seconds: 3
user_agent: "test"
`,
		},
		{
			name: "load_more_selectorなしでクリック回数を指定",
			content: `
fetch_timeout_seconds: 30
search_timeout_seconds: 10
fetch_sleep_seconds: 3
user_agent: "test"
browser:
  max_load_more_clicks: 5
`,
		},
		{
			name: "ヘッドレス無効なのにwait_selectorが未設定",
			content: `
fetch_timeout_seconds: 30
search_timeout_seconds: 10
fetch_sleep_seconds: 3
user_agent: "test"
browser:
  enabled: true
  enable_headless: false
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfigFile(t, tt.content)
			if _, err := LoadCollectorConfig(path); err == nil {
				t.Error("LoadCollectorConfig() error = nil, want error")
			}
		})
	}
}

func TestLoadCollectorConfigFileNotFound(t *testing.T) {
	if _, err := LoadCollectorConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadCollectorConfig() error = nil, want error")
	}
}
