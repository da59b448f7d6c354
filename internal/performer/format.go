package performer

import (
	"regexp"
	"strings"
)

var (
	parentheticalPattern = regexp.MustCompile(`([^（]+)（([^）]+)）`)
	kanaPattern          = regexp.MustCompile(`[\x{3040}-\x{309F}\x{30A0}-\x{30FF}]`)
	katakanaPattern      = regexp.MustCompile(`[\x{30A0}-\x{30FF}]`)
	japanesePattern      = regexp.MustCompile(`[\x{3040}-\x{309F}\x{30A0}-\x{30FF}\x{4E00}-\x{9FAF}]`)
)

// FormattedNameは、表記パターンを解釈した結果です。
// 空のフィールドは表記から読み取れなかったことを意味します。
type FormattedName struct {
	Name       string
	NameKana   string
	NameRomaji string
}

// FormatNameは、日本のアーティストによくある表記パターンを解釈します。
//
//   - バンド名（読み方）: 括弧内を読み仮名またはローマ字として分離
//   - 日本語名/English Name: スラッシュ区切りの和英併記を分離
//   - カタカナ・ナカグロ表記: 全体を読み仮名として扱う
func FormatName(name string) FormattedName {
	formatted := FormattedName{Name: name}

	switch {
	case strings.Contains(name, "（") && strings.Contains(name, "）"):
		m := parentheticalPattern.FindStringSubmatch(name)
		if m == nil {
			break
		}
		formatted.Name = strings.TrimSpace(m[1])
		reading := strings.TrimSpace(m[2])
		if kanaPattern.MatchString(reading) {
			formatted.NameKana = reading
		} else {
			formatted.NameRomaji = reading
		}

	case strings.Contains(name, "/") && len(strings.Split(name, "/")) == 2:
		parts := strings.Split(name, "/")
		first := strings.TrimSpace(parts[0])
		second := strings.TrimSpace(parts[1])

		hasJP1 := japanesePattern.MatchString(first)
		hasJP2 := japanesePattern.MatchString(second)

		if hasJP1 && !hasJP2 {
			formatted.Name = first
			formatted.NameRomaji = second
		} else if hasJP2 && !hasJP1 {
			formatted.Name = second
			formatted.NameRomaji = first
		}

	case strings.Contains(name, "・"):
		if katakanaPattern.MatchString(name) {
			formatted.NameKana = name
		}
	}

	return formatted
}
