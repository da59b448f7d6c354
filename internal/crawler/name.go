package crawler

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// 全角記号を半角に変換するためのリプレーサー
	symbolReplacer = strings.NewReplacer(
		"～", "~",
		"／", "/",
		"！", "!",
		"？", "?",
		"：", ":",
		"　", " ", // 全角スペース
	)

	pricePattern       = regexp.MustCompile(`[¥￥]\s*\d+[,\d]*`)
	clockPattern       = regexp.MustCompile(`\d{1,2}:\d{2}`)
	drinkParenPattern  = regexp.MustCompile(`\(.*1D.*\)`)
	drinkChargePattern = regexp.MustCompile(`\+1D`)
	drinkNoticePattern = regexp.MustCompile(`入場時別途1D`)
	weekdayPattern     = regexp.MustCompile(`[（(][月火水木金土日][）)]`)
	spacePattern       = regexp.MustCompile(`\s+`)

	// 出演者名として扱わないテキストのパターン
	invalidNamePatterns = []*regexp.Regexp{
		regexp.MustCompile(`^[¥￥]\d+`),
		regexp.MustCompile(`^\d{1,2}:\d{2}`),
		regexp.MustCompile(`(?i)^(ABOUT|HOME|SCHEDULE|ACCESS|NEWS|CONTACT|TICKET|STAFF|ACT|LIVE)$`),
		regexp.MustCompile(`^\d{4}[-/年]\d{1,2}[-/月]\d{1,2}日?$`),
		regexp.MustCompile(`^(月|火|水|木|金|土|日)$`),
		regexp.MustCompile(`^\d+$`),
		regexp.MustCompile(`^[-/\\()（）]+$`),
		regexp.MustCompile(`^,\d+$`),
		regexp.MustCompile(`(?i)FOOD[:：]`),
		regexp.MustCompile(`入場時別途`),
		regexp.MustCompile(`(?i)start|open|door`),
		regexp.MustCompile(`(?i)^(PRESALE|ADV|DAY[ _]?OF)$`),
		regexp.MustCompile(`(?i)^Y\d+[,\d]*$`),
		regexp.MustCompile(`^(予約|料金|時間|開場|開演)$`),
	}

	// 日本語または英字を1文字以上含むこと
	meaningfulCharPattern = regexp.MustCompile(`[a-zA-Z\x{3040}-\x{309F}\x{30A0}-\x{30FF}\x{4E00}-\x{9FAF}]`)
)

// NormalizeTextは、全角記号・全角数字を半角へ寄せ、制御文字を取り除きます。
// ページ本文からキャパシティなどの数値を拾う前処理に使います。
func NormalizeText(s string) string {
	s = symbolReplacer.Replace(s)

	s = strings.TrimFunc(s, unicode.IsSpace)

	s = strings.Map(func(r rune) rune {
		if r >= '０' && r <= '９' {
			return r - '０' + '0'
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)

	return s
}

// CleanNameは、出演者名から料金・時刻・ドリンク代・曜日などのノイズを取り除きます。
// 末尾の括弧類も落とすため、"Artist (UK)" のような国名表記を保ちたい場合は
// MinimalCleanNameを使ってください。
func CleanName(name string) string {
	if name == "" {
		return ""
	}

	name = strings.TrimSpace(name)
	name = pricePattern.ReplaceAllString(name, "")
	name = clockPattern.ReplaceAllString(name, "")
	name = drinkParenPattern.ReplaceAllString(name, "")
	name = drinkChargePattern.ReplaceAllString(name, "")
	name = drinkNoticePattern.ReplaceAllString(name, "")
	name = weekdayPattern.ReplaceAllString(name, "")
	name = spacePattern.ReplaceAllString(name, " ")
	name = strings.Trim(name, "- /\\()[]{}、。")

	return strings.TrimSpace(name)
}

// MinimalCleanNameは、空白の正規化だけを行うゆるいクリーニングです。
func MinimalCleanName(name string) string {
	return strings.TrimSpace(spacePattern.ReplaceAllString(name, " "))
}

// IsValidNameは、クリーニング済みの文字列が出演者名らしいかを判定します。
func IsValidName(name string) bool {
	if name == "" || utf8.RuneCountInString(name) < 2 {
		return false
	}

	for _, pattern := range invalidNamePatterns {
		if pattern.MatchString(name) {
			return false
		}
	}

	return meaningfulCharPattern.MatchString(name)
}
