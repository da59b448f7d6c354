package crawler

import (
	"context"
	"testing"
	"time"
)

func newTestAntiknock(t *testing.T, deps Deps) Strategy {
	t.Helper()
	s, err := New("antiknock", deps)
	if err != nil {
		t.Fatalf("Strategyの生成に失敗: %v", err)
	}
	return s
}

func TestAntiknockFindScheduleLink(t *testing.T) {
	s := newTestAntiknock(t, testDeps("https://antiknock.example", refDate))

	link, ok := s.FindScheduleLink(nil)
	if !ok || link != "https://antiknock.example/schedule/" {
		t.Errorf("link = %q, ok = %v", link, ok)
	}
}

func TestAntiknockExtractSchedules(t *testing.T) {
	s := newTestAntiknock(t, testDeps("https://antiknock.example", refDate))

	doc := parseHTML(t, `<html><body>
		<a href="/schedule/20250910/">09/10 WED NIGHT 【鋼鉄の宴】 METALHEAD / IRON CAGE / 鋼鉄少女</a>
		<a href="/schedule/20250911/">09/11 THU DAY 【昼の部】 SUNRISE KIDS / MORNING GLORY</a>
		<a href="/access/">ACCESS</a>
	</body></html>`)

	entries := s.ExtractSchedules(context.Background(), doc)
	if len(entries) != 2 {
		t.Fatalf("entries = %d件, want 2件", len(entries))
	}

	night := entries[0]
	if !night.Date.Equal(time.Date(2025, time.September, 10, 0, 0, 0, 0, time.Local)) {
		t.Errorf("Date = %v", night.Date)
	}
	if night.OpenTime != "18:30" || night.StartTime != "19:00" {
		t.Errorf("NIGHT公演の時刻 = %s/%s, want 18:30/19:00", night.OpenTime, night.StartTime)
	}
	if night.PerformanceName != "鋼鉄の宴" {
		t.Errorf("PerformanceName = %q, want 鋼鉄の宴", night.PerformanceName)
	}
	wantPerformers := []string{"METALHEAD", "IRON CAGE", "鋼鉄少女"}
	if len(night.Performers) != len(wantPerformers) {
		t.Fatalf("Performers = %v, want %v", night.Performers, wantPerformers)
	}
	for i, want := range wantPerformers {
		if night.Performers[i] != want {
			t.Errorf("Performers[%d] = %q, want %q", i, night.Performers[i], want)
		}
	}

	day := entries[1]
	if day.OpenTime != "13:30" || day.StartTime != "14:00" {
		t.Errorf("DAY公演の時刻 = %s/%s, want 13:30/14:00", day.OpenTime, day.StartTime)
	}
}

func TestAntiknockExtractSchedulesFetchesDetailPage(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://antiknock.example/schedule/20250910/": `<html><body>
			<div class="artist"><p>METALHEAD<br>IRON CAGE<br>OPEN 18:30</p></div>
		</body></html>`,
	}}
	deps := testDeps("https://antiknock.example", refDate)
	deps.Fetcher = fetcher
	s := newTestAntiknock(t, deps)

	// 一覧テキストに出演者名が無いので詳細ページから取り直す
	doc := parseHTML(t, `<html><body>
		<a href="/schedule/20250910/">09/10 WED 【鋼鉄の宴】</a>
	</body></html>`)

	entries := s.ExtractSchedules(context.Background(), doc)
	if len(entries) != 1 {
		t.Fatalf("entries = %d件, want 1件", len(entries))
	}

	want := []string{"METALHEAD", "IRON CAGE"}
	got := entries[0].Performers
	if len(got) != len(want) {
		t.Fatalf("Performers = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Performers[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestAntiknockExtractSchedulesSkipsInvalidDates(t *testing.T) {
	s := newTestAntiknock(t, testDeps("https://antiknock.example", refDate))

	doc := parseHTML(t, `<html><body>
		<a href="/schedule/20230910/">09/10 OLD SHOW / BAND X</a>
	</body></html>`)

	entries := s.ExtractSchedules(context.Background(), doc)
	if len(entries) != 0 {
		t.Errorf("過去の年の公演が抽出されています: %d件", len(entries))
	}
}

func TestExtractEventTitle(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "【鋼鉄の宴 vol.3】 BAND A / BAND B", want: "鋼鉄の宴 vol.3"},
		{input: "「夜想曲」リリースパーティー", want: "夜想曲"},
		{input: "BAND A / BAND B", want: ""},
	}

	for _, tt := range tests {
		if got := extractEventTitle(tt.input); got != tt.want {
			t.Errorf("extractEventTitle(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
