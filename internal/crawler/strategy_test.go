package crawler

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// テスト用の何もしないロガー
type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// URLごとに固定のHTMLを返すフェッチャー
type fakeFetcher struct {
	pages map[string]string
}

func (f *fakeFetcher) Fetch(_ context.Context, pageURL string) (string, error) {
	html, ok := f.pages[pageURL]
	if !ok {
		return "", fmt.Errorf("ページが見つかりません: %s", pageURL)
	}
	return html, nil
}

func testDeps(baseURL string, now time.Time) Deps {
	return Deps{
		BaseURL: baseURL,
		Fetcher: &fakeFetcher{pages: map[string]string{}},
		Logger:  nopLogger{},
		Now:     func() time.Time { return now },
	}
}

func parseHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("HTMLのパースに失敗: %v", err)
	}
	return doc
}

func TestNew(t *testing.T) {
	deps := testDeps("https://example.com", refDate)

	for _, name := range Names() {
		if _, err := New(name, deps); err != nil {
			t.Errorf("New(%q) がエラーを返しました: %v", name, err)
		}
	}

	if _, err := New("unknown", deps); !errors.Is(err, ErrUnknownCrawler) {
		t.Errorf("未登録の名前に対するエラー = %v, want ErrUnknownCrawler", err)
	}
}

func TestNames(t *testing.T) {
	names := Names()
	if !sort.StringsAreSorted(names) {
		t.Errorf("Names() が辞書順になっていません: %v", names)
	}

	want := map[string]bool{
		"generic": true, "antiknock": true, "eggman": true,
		"lamama": true, "shelter": true, "malcolm": true,
	}
	if len(names) != len(want) {
		t.Fatalf("Names() = %v, want %d件", names, len(want))
	}
	for _, name := range names {
		if !want[name] {
			t.Errorf("予期しないクローラー名: %q", name)
		}
	}
}

func TestResolveURL(t *testing.T) {
	tests := []struct {
		base string
		href string
		want string
	}{
		{base: "https://example.com/top/", href: "/schedule/", want: "https://example.com/schedule/"},
		{base: "https://example.com/top/", href: "next.html", want: "https://example.com/top/next.html"},
		{base: "https://example.com", href: "https://other.com/a", want: "https://other.com/a"},
	}

	for _, tt := range tests {
		if got := resolveURL(tt.base, tt.href); got != tt.want {
			t.Errorf("resolveURL(%q, %q) = %q, want %q", tt.base, tt.href, got, tt.want)
		}
	}
}
