package performer

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/gojp/kana"
	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// Romanizerは、出演者名を読み仮名とヘボン式ローマ字に変換するインターフェースです。
type Romanizer interface {
	Romanize(name string) (nameKana string, nameRomaji string)
}

// KagomeRomanizerは、形態素解析で漢字の読みを引いてローマ字化するRomanizerです。
type KagomeRomanizer struct {
	tokenizer *tokenizer.Tokenizer
}

// NewKagomeRomanizerは、IPA辞書を読み込んだKagomeRomanizerを生成します。
func NewKagomeRomanizer() (*KagomeRomanizer, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, fmt.Errorf("形態素解析器の初期化に失敗しました: %w", err)
	}
	return &KagomeRomanizer{tokenizer: t}, nil
}

// Romanizeは、名前をトークンごとに読み仮名へ変換し、全体をローマ字化します。
// 辞書に読みが無いトークン（英字バンド名など）は表層をそのまま使います。
func (r *KagomeRomanizer) Romanize(name string) (string, string) {
	var kanaBuf, romajiBuf strings.Builder

	for _, token := range r.tokenizer.Tokenize(name) {
		reading, ok := token.Reading()
		if !ok || reading == "*" || reading == "" {
			surface := token.Surface
			kanaBuf.WriteString(surface)
			romajiBuf.WriteString(romanizeSurface(surface))
			continue
		}

		kanaBuf.WriteString(reading)
		romajiBuf.WriteString(kana.KanaToRomaji(reading))
	}

	return kanaBuf.String(), romajiBuf.String()
}

func romanizeSurface(surface string) string {
	if isASCII(surface) {
		return strings.ToLower(surface)
	}
	return kana.KanaToRomaji(surface)
}

func isASCII(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII {
			return false
		}
	}
	return true
}
