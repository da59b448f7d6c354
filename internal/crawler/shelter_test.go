package crawler

import (
	"context"
	"testing"
	"time"

	"github.com/nrad-K/livehouse-crawler/internal/domain/model"
)

func newTestShelter(t *testing.T, baseURL string) Strategy {
	t.Helper()
	s, err := New("shelter", testDeps(baseURL, refDate))
	if err != nil {
		t.Fatalf("Strategyの生成に失敗: %v", err)
	}
	return s
}

func TestShelterFindScheduleLink(t *testing.T) {
	// ベースURLがスケジュールページを指していればそのまま使う
	s := newTestShelter(t, "https://shelter.example/schedule/")
	link, ok := s.FindScheduleLink(nil)
	if !ok || link != "https://shelter.example/schedule/" {
		t.Errorf("link = %q, ok = %v", link, ok)
	}

	s = newTestShelter(t, "https://shelter.example")
	doc := parseHTML(t, `<html><body><a href="/schedule/202509/">SCHEDULE</a></body></html>`)
	link, ok = s.FindScheduleLink(doc)
	if !ok || link != "https://shelter.example/schedule/202509/" {
		t.Errorf("link = %q, ok = %v", link, ok)
	}
}

func TestShelterExtractLiveHouseInfo(t *testing.T) {
	s := newTestShelter(t, "https://shelter.example")

	doc := parseHTML(t, `<html><head><title>下北沢SHELTER</title></head><body>
		<dl>
			<dt>住所</dt><dd>東京都世田谷区北沢2-6-10</dd>
		</dl>
		<dl>
			<dt>TEL</dt><dd>03-3466-7430</dd>
		</dl>
		<dl>
			<dt>キャパシティ</dt><dd>250人</dd>
		</dl>
		<dl>
			<dt>オープン</dt><dd>1991年10月</dd>
		</dl>
	</body></html>`)

	info := s.ExtractLiveHouseInfo(doc, model.LiveHouse{})
	if info.Name != "Shimokitazawa SHELTER" {
		t.Errorf("Name = %q", info.Name)
	}
	if info.Address != "東京都世田谷区北沢2-6-10" {
		t.Errorf("Address = %q", info.Address)
	}
	if info.PhoneNumber != "03-3466-7430" {
		t.Errorf("PhoneNumber = %q", info.PhoneNumber)
	}
	if info.Capacity != 250 {
		t.Errorf("Capacity = %d", info.Capacity)
	}
	if info.OpenedDate == nil || !info.OpenedDate.Equal(time.Date(1991, time.October, 1, 0, 0, 0, 0, time.Local)) {
		t.Errorf("OpenedDate = %v, want 1991-10-01", info.OpenedDate)
	}
}

func TestShelterExtractSchedules(t *testing.T) {
	s := newTestShelter(t, "https://shelter.example")

	doc := parseHTML(t, `<html><body>
		<div class="schedule-list"><pre>
9月10日
OPEN 18:00 / START 18:30
眩暈SIREN
ハルカミライ
9月11日
開場 17:30 / 開演 18:00
キツネツキ
</pre></div>
	</body></html>`)

	entries := s.ExtractSchedules(context.Background(), doc)
	if len(entries) != 2 {
		t.Fatalf("entries = %d件, want 2件", len(entries))
	}

	first := entries[0]
	if !first.Date.Equal(time.Date(2025, time.September, 10, 0, 0, 0, 0, time.Local)) {
		t.Errorf("Date = %v", first.Date)
	}
	if first.OpenTime != "18:00" || first.StartTime != "18:30" {
		t.Errorf("時刻 = %s/%s, want 18:00/18:30", first.OpenTime, first.StartTime)
	}
	wantFirst := []string{"眩暈SIREN", "ハルカミライ"}
	if len(first.Performers) != len(wantFirst) {
		t.Fatalf("Performers = %v, want %v", first.Performers, wantFirst)
	}
	for i := range wantFirst {
		if first.Performers[i] != wantFirst[i] {
			t.Errorf("Performers[%d] = %q, want %q", i, first.Performers[i], wantFirst[i])
		}
	}

	second := entries[1]
	if second.OpenTime != "17:30" || second.StartTime != "18:00" {
		t.Errorf("時刻 = %s/%s, want 17:30/18:00", second.OpenTime, second.StartTime)
	}
}

func TestShelterExtractSchedulesExcludesTicketNotes(t *testing.T) {
	s := newTestShelter(t, "https://shelter.example")

	// 出演者の並びに混ざった前売り・当日・料金の表記を拾わない
	doc := parseHTML(t, `<html><body>
		<div class="schedule-list"><pre>
9月13日
OPEN 18:00 / START 18:30
Real Band / PRESALE / Another Band / Y3000 / Third Band / DAY_OF
</pre></div>
	</body></html>`)

	entries := s.ExtractSchedules(context.Background(), doc)
	if len(entries) != 1 {
		t.Fatalf("entries = %d件, want 1件", len(entries))
	}

	want := []string{"Real Band", "Another Band", "Third Band"}
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

func TestShelterExtractSchedulesSkipsNoiseOnlyEvents(t *testing.T) {
	s := newTestShelter(t, "https://shelter.example")

	// 出演者らしい行が残らない日付は公演として扱わない
	doc := parseHTML(t, `<html><body>
		<div class="schedule-list"><pre>
9月12日
SOLD OUT
チケットの販売は終了しました
</pre></div>
	</body></html>`)

	entries := s.ExtractSchedules(context.Background(), doc)
	if len(entries) != 0 {
		t.Errorf("ノイズのみの日付が抽出されています: %v", entries)
	}
}
