package crawler

import (
	"context"
	"testing"
	"time"

	"github.com/nrad-K/livehouse-crawler/internal/domain/model"
)

func newTestEggman(t *testing.T) Strategy {
	t.Helper()
	s, err := New("eggman", testDeps("https://eggman.example", refDate))
	if err != nil {
		t.Fatalf("Strategyの生成に失敗: %v", err)
	}
	return s
}

func TestEggmanFindScheduleLink(t *testing.T) {
	s := newTestEggman(t)

	link, ok := s.FindScheduleLink(nil)
	if !ok || link != "https://eggman.example/schedule-cat/daytime/" {
		t.Errorf("link = %q, ok = %v", link, ok)
	}
}

func TestEggmanExtractLiveHouseInfo(t *testing.T) {
	s := newTestEggman(t)

	doc := parseHTML(t, `<html><head><title>Shibuya eggman</title></head><body>
		<div class="venue-info">
			〒150-0041 東京都渋谷区神南のビル
			TEL: 03-3496-1561
			キャパ: 350
		</div>
	</body></html>`)

	info := s.ExtractLiveHouseInfo(doc, model.LiveHouse{})
	if info.Name != "Shibuya eggman" {
		t.Errorf("Name = %q, want Shibuya eggman", info.Name)
	}
	if info.NameKana != "エッグマン" {
		t.Errorf("NameKana = %q", info.NameKana)
	}
	if info.PhoneNumber != "03-3496-1561" {
		t.Errorf("PhoneNumber = %q", info.PhoneNumber)
	}
	if info.Capacity != 350 {
		t.Errorf("Capacity = %d, want 350", info.Capacity)
	}
}

func TestEggmanExtractLiveHouseInfoDefaultName(t *testing.T) {
	s := newTestEggman(t)

	doc := parseHTML(t, `<html><head><title>トップページ</title></head><body></body></html>`)

	info := s.ExtractLiveHouseInfo(doc, model.LiveHouse{})
	if info.Name != "eggman" || info.NameRomaji != "eggman" {
		t.Errorf("デフォルト名 = %q / %q, want eggman", info.Name, info.NameRomaji)
	}
}

func TestEggmanExtractSchedules(t *testing.T) {
	s := newTestEggman(t)

	doc := parseHTML(t, `<html><body>
		<div class="monthHeader"><h1>2025.09</h1></div>
		<article class="scheduleList">
			<time><strong>10</strong></time>
			<h1>秋の大収穫祭</h1>
			<div class="scheListBody">
				<ul>
					<li>OPEN 17:30</li>
					<li>START 18:00</li>
				</ul>
			</div>
			<div class="act">(50音順):indigo palette / 夜光虫 / Q-brick</div>
		</article>
		<article class="scheduleList">
			<time><strong>32</strong></time>
			<h1>存在しない日</h1>
		</article>
	</body></html>`)

	entries := s.ExtractSchedules(context.Background(), doc)
	if len(entries) != 1 {
		t.Fatalf("entries = %d件, want 1件", len(entries))
	}

	entry := entries[0]
	if !entry.Date.Equal(time.Date(2025, time.September, 10, 0, 0, 0, 0, time.Local)) {
		t.Errorf("Date = %v", entry.Date)
	}
	if entry.OpenTime != "17:30" || entry.StartTime != "18:00" {
		t.Errorf("時刻 = %s/%s, want 17:30/18:00", entry.OpenTime, entry.StartTime)
	}
	if entry.PerformanceName != "秋の大収穫祭" {
		t.Errorf("PerformanceName = %q", entry.PerformanceName)
	}

	want := []string{"indigo palette", "夜光虫", "Q-brick"}
	if len(entry.Performers) != len(want) {
		t.Fatalf("Performers = %v, want %v", entry.Performers, want)
	}
	for i := range want {
		if entry.Performers[i] != want[i] {
			t.Errorf("Performers[%d] = %q, want %q", i, entry.Performers[i], want[i])
		}
	}
}

func TestEggmanExtractSchedulesFallsBackToEventName(t *testing.T) {
	s := newTestEggman(t)

	// 出演者欄が無い公演はイベント名を出演者として扱う
	doc := parseHTML(t, `<html><body>
		<div class="monthHeader"><h1>2025.09</h1></div>
		<article class="scheduleList">
			<time><strong>15</strong></time>
			<h1>夜光虫ワンマン</h1>
		</article>
	</body></html>`)

	entries := s.ExtractSchedules(context.Background(), doc)
	if len(entries) != 1 {
		t.Fatalf("entries = %d件, want 1件", len(entries))
	}
	if len(entries[0].Performers) != 1 || entries[0].Performers[0] != "夜光虫ワンマン" {
		t.Errorf("Performers = %v, want [夜光虫ワンマン]", entries[0].Performers)
	}
}
