package performer

import "testing"

func TestFormatName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  FormattedName
	}{
		{
			name:  "読み仮名の括弧書き",
			input: "東京事変（とうきょうじへん）",
			want:  FormattedName{Name: "東京事変", NameKana: "とうきょうじへん"},
		},
		{
			name:  "ローマ字の括弧書き",
			input: "東京事変（Tokyo Jihen）",
			want:  FormattedName{Name: "東京事変", NameRomaji: "Tokyo Jihen"},
		},
		{
			name:  "和英併記（日本語が先）",
			input: "東京事変/Tokyo Jihen",
			want:  FormattedName{Name: "東京事変", NameRomaji: "Tokyo Jihen"},
		},
		{
			name:  "和英併記（英語が先）",
			input: "Tokyo Jihen / 東京事変",
			want:  FormattedName{Name: "東京事変", NameRomaji: "Tokyo Jihen"},
		},
		{
			name:  "カタカナとナカグロ",
			input: "サニーデイ・サービス",
			want:  FormattedName{Name: "サニーデイ・サービス", NameKana: "サニーデイ・サービス"},
		},
		{
			name:  "パターンに該当しない名前はそのまま",
			input: "GEZAN",
			want:  FormattedName{Name: "GEZAN"},
		},
		{
			name:  "スラッシュが2つ以上ある場合は分離しない",
			input: "A/B/C",
			want:  FormattedName{Name: "A/B/C"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatName(tt.input)
			if got.Name != tt.want.Name {
				t.Errorf("Name = %q, want %q", got.Name, tt.want.Name)
			}
			if got.NameKana != tt.want.NameKana {
				t.Errorf("NameKana = %q, want %q", got.NameKana, tt.want.NameKana)
			}
			if got.NameRomaji != tt.want.NameRomaji {
				t.Errorf("NameRomaji = %q, want %q", got.NameRomaji, tt.want.NameRomaji)
			}
		})
	}
}
