package crawler

import (
	"context"
	"testing"
	"time"

	"github.com/nrad-K/livehouse-crawler/internal/domain/model"
)

func newTestLaMama(t *testing.T) Strategy {
	t.Helper()
	s, err := New("lamama", testDeps("https://lamama.example", refDate))
	if err != nil {
		t.Fatalf("Strategyの生成に失敗: %v", err)
	}
	return s
}

func TestLaMamaMonthLinks(t *testing.T) {
	s := newTestLaMama(t)

	link, ok := s.FindScheduleLink(nil)
	if !ok || link != "https://lamama.example/schedule/?month=2025-08" {
		t.Errorf("当月リンク = %q, ok = %v", link, ok)
	}

	next, ok := s.FindNextMonthLink(nil)
	if !ok || next != "https://lamama.example/schedule/?month=2025-09" {
		t.Errorf("翌月リンク = %q, ok = %v", next, ok)
	}
}

func TestLaMamaExtractLiveHouseInfo(t *testing.T) {
	s := newTestLaMama(t)

	doc := parseHTML(t, `<html><head><title>渋谷La.mama</title></head><body>
		<div class="shop-info">渋谷区道玄坂1-15-3 キャパ 120人 since 1982</div>
		<div id="footer">TEL 03-3464-0801</div>
	</body></html>`)

	info := s.ExtractLiveHouseInfo(doc, model.LiveHouse{})
	if info.Name != "Shibuya La.mama" {
		t.Errorf("Name = %q", info.Name)
	}
	if info.Address != "渋谷区道玄坂1-15-3" {
		t.Errorf("Address = %q", info.Address)
	}
	if info.Capacity != 120 {
		t.Errorf("Capacity = %d", info.Capacity)
	}
	if info.PhoneNumber != "03-3464-0801" {
		t.Errorf("PhoneNumber = %q", info.PhoneNumber)
	}
	if info.OpenedDate == nil || info.OpenedDate.Year() != 1982 {
		t.Errorf("OpenedDate = %v, want 1982年", info.OpenedDate)
	}
}

func TestLaMamaExtractSchedules(t *testing.T) {
	s := newTestLaMama(t)

	doc := parseHTML(t, `<html><body>
		<a class="pickup_btn schedule" data-schedule="2025-09-20">
			<p class="event">秋のうたげ</p>
			<p class="member">ハンバート ハンバート / 優河 with 魔法バンド / 優河 (東京都)</p>
		</a>
		<a class="pickup_btn schedule" data-schedule="2025-09-21">
			<p class="event">出演者未定</p>
			<p class="member"></p>
		</a>
	</body></html>`)

	entries := s.ExtractSchedules(context.Background(), doc)
	if len(entries) != 1 {
		t.Fatalf("entries = %d件, want 1件", len(entries))
	}

	entry := entries[0]
	if !entry.Date.Equal(time.Date(2025, time.September, 20, 0, 0, 0, 0, time.Local)) {
		t.Errorf("Date = %v", entry.Date)
	}
	if entry.PerformanceName != "秋のうたげ" {
		t.Errorf("PerformanceName = %q", entry.PerformanceName)
	}

	// "with 〜" の後続と括弧書きは落とし、重複は1つにまとめる
	want := []string{"ハンバート ハンバート", "優河"}
	if len(entry.Performers) != len(want) {
		t.Fatalf("Performers = %v, want %v", entry.Performers, want)
	}
	for i := range want {
		if entry.Performers[i] != want[i] {
			t.Errorf("Performers[%d] = %q, want %q", i, entry.Performers[i], want[i])
		}
	}
}
