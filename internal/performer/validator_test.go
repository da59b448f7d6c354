package performer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nrad-K/livehouse-crawler/internal/domain/model"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

type fakeSearchClient struct {
	results map[string]string
	queries []string
}

func (f *fakeSearchClient) Search(_ context.Context, query string) (string, error) {
	f.queries = append(f.queries, query)
	return f.results[query], nil
}

type fakeRomanizer struct {
	kana   string
	romaji string
}

func (f fakeRomanizer) Romanize(string) (string, string) {
	return f.kana, f.romaji
}

type fakePerformerRepo struct {
	byName map[string]model.Performer
}

func (f *fakePerformerRepo) FindByName(_ context.Context, name string) (model.Performer, bool, error) {
	p, ok := f.byName[name]
	return p, ok, nil
}

func (f *fakePerformerRepo) GetOrCreateByRomaji(_ context.Context, p model.Performer) (model.Performer, bool, error) {
	return p, true, nil
}

func (f *fakePerformerRepo) SaveSocialLinks(context.Context, int64, []model.SocialLink) error {
	return nil
}

func (f *fakePerformerRepo) Count(context.Context) (int, error) {
	return 0, nil
}

func newTestValidator(search *fakeSearchClient, repo *fakePerformerRepo) *Validator {
	if repo == nil {
		repo = &fakePerformerRepo{}
	}
	return NewValidator(ValidatorArgs{
		Search:     search,
		Romanizer:  fakeRomanizer{kana: "ないとくるーざーず", romaji: "night cruisers"},
		Performers: repo,
		Logger:     nopLogger{},
	})
}

var testDate = time.Date(2025, time.September, 20, 0, 0, 0, 0, time.Local)

func TestValidateReturnsExistingPerformer(t *testing.T) {
	existing := model.Performer{ID: 42, Name: "GEZAN", NameRomaji: "gezan"}
	repo := &fakePerformerRepo{byName: map[string]model.Performer{"GEZAN": existing}}
	search := &fakeSearchClient{}
	v := newTestValidator(search, repo)

	got, links, err := v.Validate(context.Background(), "GEZAN", "下北沢SHELTER", testDate)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if got.ID != existing.ID || got.Name != existing.Name {
		t.Errorf("Validate() = %+v, want %+v", got, existing)
	}
	if links != nil {
		t.Errorf("links = %v, want nil", links)
	}
	if len(search.queries) != 0 {
		t.Errorf("登録済みの出演者に対して検索が実行されました: %v", search.queries)
	}
}

func TestValidateRejectsNonArtistName(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "DJ表記", input: "DJ HIKARU"},
		{name: "スタッフ表記", input: "スタッフ一同"},
		{name: "時刻始まり", input: "18:00 OPEN"},
		{name: "チケット案内", input: "チケット予約はこちら"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newTestValidator(&fakeSearchClient{}, nil)

			_, _, err := v.Validate(context.Background(), tt.input, "会場", testDate)

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("error = %v, want *ValidationError", err)
			}
			if verr.Reason != "アーティスト名ではなくスケジュール情報やスタッフ表記の可能性があります" {
				t.Errorf("Reason = %q", verr.Reason)
			}
			if verr.Name != tt.input {
				t.Errorf("Name = %q, want %q", verr.Name, tt.input)
			}
		})
	}
}

func TestValidateRejectsWithoutOnlinePresence(t *testing.T) {
	search := &fakeSearchClient{results: map[string]string{}}
	v := newTestValidator(search, nil)

	_, _, err := v.Validate(context.Background(), "月影バンド", "新宿ANTIKNOCK", testDate)

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want *ValidationError", err)
	}
	if verr.Reason != "SNSアカウントも公式サイトも見つかりませんでした" {
		t.Errorf("Reason = %q", verr.Reason)
	}
}

func TestValidateWithSocialLink(t *testing.T) {
	search := &fakeSearchClient{results: map[string]string{
		"Night Cruisers social media twitter instagram youtube": `<a href="https://twitter.com/nightcruisers">Night Cruisers</a>`,
	}}
	v := newTestValidator(search, nil)

	got, links, err := v.Validate(context.Background(), "Night Cruisers", "高円寺マルコム", testDate)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if got.Name != "Night Cruisers" {
		t.Errorf("Name = %q", got.Name)
	}
	if got.NameKana != "ないとくるーざーず" || got.NameRomaji != "night cruisers" {
		t.Errorf("NameKana = %q, NameRomaji = %q", got.NameKana, got.NameRomaji)
	}
	if len(links) != 1 {
		t.Fatalf("len(links) = %d, want 1", len(links))
	}
	if links[0].Platform != "twitter" || links[0].PlatformID != "nightcruisers" {
		t.Errorf("link = %+v", links[0])
	}
}

func TestValidateWithOfficialWebsiteOnly(t *testing.T) {
	search := &fakeSearchClient{results: map[string]string{
		"Night Cruisers バンド": `<a href="https://nightcruisers-official.com/music">Night Cruisers Official</a>`,
	}}
	v := newTestValidator(search, nil)

	got, links, err := v.Validate(context.Background(), "Night Cruisers", "高円寺マルコム", testDate)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if got.Website != "https://nightcruisers-official.com/music" {
		t.Errorf("Website = %q", got.Website)
	}
	if len(links) != 0 {
		t.Errorf("len(links) = %d, want 0", len(links))
	}
}

func TestValidateRejectsGenericWebsite(t *testing.T) {
	search := &fakeSearchClient{results: map[string]string{
		"Night Cruisers バンド": `<a href="https://example.com/official-band">listing</a>`,
	}}
	v := newTestValidator(search, nil)

	_, _, err := v.Validate(context.Background(), "Night Cruisers", "高円寺マルコム", testDate)

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want *ValidationError", err)
	}
	if verr.Reason != "SNSアカウントも公式サイトも見つかりませんでした" {
		t.Errorf("Reason = %q", verr.Reason)
	}
}

func TestValidateAppliesFormattedName(t *testing.T) {
	search := &fakeSearchClient{results: map[string]string{
		"東京事変 social media twitter instagram youtube": `<a href="https://twitter.com/tokyojihen">公式</a>`,
	}}
	v := newTestValidator(search, nil)

	got, _, err := v.Validate(context.Background(), "東京事変（とうきょうじへん）", "渋谷La.mama", testDate)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if got.Name != "東京事変" {
		t.Errorf("Name = %q, want 東京事変", got.Name)
	}
	if got.NameKana != "とうきょうじへん" {
		t.Errorf("NameKana = %q, want とうきょうじへん", got.NameKana)
	}
}

func TestIsValidArtistName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "英字バンド名", input: "GEZAN", want: true},
		{name: "カタカナバンド名", input: "サニーデイ・サービス", want: true},
		{name: "2文字の名前", input: "eo", want: true},
		{name: "1文字", input: "A", want: false},
		{name: "数字のみ", input: "12345", want: false},
		{name: "DJ表記", input: "DJ HIKARU", want: false},
		{name: "時刻始まり", input: "19:30 スタート", want: false},
		{name: "日付始まり", input: "9月10日の公演", want: false},
		{name: "価格始まり", input: "¥2500", want: false},
		{name: "英語のスケジュール語", input: "Monthly Schedule", want: false},
		{name: "音響スタッフ", input: "音響チーム", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isValidArtistName(tt.input); got != tt.want {
				t.Errorf("isValidArtistName(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
