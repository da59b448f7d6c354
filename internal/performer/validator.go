package performer

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/nrad-K/livehouse-crawler/internal/constants"
	"github.com/nrad-K/livehouse-crawler/internal/domain/model"
	"github.com/nrad-K/livehouse-crawler/internal/domain/repository"
	"github.com/nrad-K/livehouse-crawler/internal/logger"
)

// ValidationErrorは、出演者を実在するアーティストとして確認できなかったことを表します。
// この誤りは公演の収集全体を止めず、該当する出演者の登録だけをスキップさせます。
type ValidationError struct {
	Name   string
	Venue  string
	Date   time.Time
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("出演者 %q (%s %s) を検証できませんでした: %s",
		e.Name, e.Venue, e.Date.Format("2006-01-02"), e.Reason)
}

// アーティスト名として扱わないキーワード
var nonArtistPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(dj|host|mc)\b`),
	regexp.MustCompile(`司会|ホスト|ナビゲーター|進行`),
	regexp.MustCompile(`(?i)\b(schedule|calendar)\b`),
	regexp.MustCompile(`スケジュール|カレンダー`),
	regexp.MustCompile(`(?i)\b(staff|admin)\b`),
	regexp.MustCompile(`スタッフ|管理`),
	regexp.MustCompile(`(?i)\b(guest)\b`),
	regexp.MustCompile(`ゲスト|お客`),
	regexp.MustCompile(`(?i)\b(sound|lighting|tech)\b`),
	regexp.MustCompile(`音響|照明|技術`),
	regexp.MustCompile(`(?i)\b(food|drink|bar)\b`),
	regexp.MustCompile(`フード|ドリンク|バー`),
	regexp.MustCompile(`(?i)\b(ticket|reservation)\b`),
	regexp.MustCompile(`チケット|予約`),
	regexp.MustCompile(`(?i)\b(open|close|start)\b`),
	regexp.MustCompile(`(?i)\b(doors|entrance|exit)\b`),
	regexp.MustCompile(`入場|退場`),
	regexp.MustCompile(`^\d+:\d+`),
	regexp.MustCompile(`^\d+[年月日]`),
	regexp.MustCompile(`^[¥$]\d+`),
}

var digitsOnlyPattern = regexp.MustCompile(`^\d+$`)

// PerformerValidatorは、出演者名を検証して保存可能なレコードに変換するインターフェースです。
type PerformerValidator interface {
	// Validateは、出演者の実在を確認し、登録用のPerformerとSNSリンクを返します。
	// 登録済みの出演者は再検証せず、そのまま返します。
	// 検証に失敗した場合は*ValidationErrorを返します。
	Validate(ctx context.Context, name, venue string, date time.Time) (model.Performer, []model.SocialLink, error)
}

// ValidatorArgsは、Validatorの構築に必要な依存をまとめた構造体です。
type ValidatorArgs struct {
	Search     SearchClient
	Romanizer  Romanizer
	Performers repository.PerformerRepository
	Logger     logger.AppLogger
}

// Validatorは、検索エンジンでオンラインプレゼンスを探して出演者を検証します。
type Validator struct {
	search     SearchClient
	romanizer  Romanizer
	performers repository.PerformerRepository
	logger     logger.AppLogger
}

func NewValidator(args ValidatorArgs) *Validator {
	return &Validator{
		search:     args.Search,
		romanizer:  args.Romanizer,
		performers: args.Performers,
		logger:     args.Logger,
	}
}

func (v *Validator) Validate(ctx context.Context, name, venue string, date time.Time) (model.Performer, []model.SocialLink, error) {
	// 登録済みの出演者は検証済みとみなす
	existing, found, err := v.performers.FindByName(ctx, name)
	if err != nil {
		return model.Performer{}, nil, fmt.Errorf("出演者の検索に失敗しました: %w", err)
	}
	if found {
		return existing, nil, nil
	}

	if !isValidArtistName(name) {
		return model.Performer{}, nil, &ValidationError{
			Name: name, Venue: venue, Date: date,
			Reason: "アーティスト名ではなくスケジュール情報やスタッフ表記の可能性があります",
		}
	}

	nameKana, nameRomaji := v.romanizer.Romanize(name)

	p := model.Performer{
		Name:       name,
		NameKana:   nameKana,
		NameRomaji: nameRomaji,
	}

	// 表記パターン（読み仮名括弧・和英併記など）を反映する
	formatted := FormatName(name)
	if formatted.Name != "" {
		p.Name = formatted.Name
	}
	if formatted.NameKana != "" {
		p.NameKana = formatted.NameKana
	}
	if formatted.NameRomaji != "" {
		p.NameRomaji = formatted.NameRomaji
	}

	p.Website = v.searchBandDetails(ctx, p.Name)
	links := v.searchSocialLinks(ctx, p.Name)

	if !hasOnlinePresence(p, links) {
		return model.Performer{}, nil, &ValidationError{
			Name: name, Venue: venue, Date: date,
			Reason: "SNSアカウントも公式サイトも見つかりませんでした",
		}
	}

	v.logger.Info("出演者を検証しました", "name", p.Name, "social_links", len(links), "website", p.Website)
	return p, links, nil
}

// isValidArtistNameは、名前がアーティスト名らしいかを判定します。
func isValidArtistName(name string) bool {
	trimmed := strings.TrimSpace(name)
	if utf8.RuneCountInString(trimmed) < 2 || digitsOnlyPattern.MatchString(trimmed) {
		return false
	}

	lower := strings.ToLower(trimmed)
	for _, pattern := range nonArtistPatterns {
		if pattern.MatchString(lower) {
			return false
		}
	}

	return true
}

// hasOnlinePresenceは、SNSリンクまたはアーティスト個人サイトが確認できたかを返します。
func hasOnlinePresence(p model.Performer, links []model.SocialLink) bool {
	for _, link := range links {
		if link.URL == "" {
			continue
		}
		if _, ok := constants.SocialPlatformDomains[strings.ToLower(link.Platform)]; ok {
			return true
		}
	}

	if p.Website == "" {
		return false
	}

	website := strings.ToLower(p.Website)
	for _, generic := range constants.GenericWebsiteDomains {
		if strings.Contains(website, generic) {
			return false
		}
	}

	return len(website) > 10
}
