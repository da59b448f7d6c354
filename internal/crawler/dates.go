package crawler

import (
	"fmt"
	"strconv"
	"time"
)

// ResolveMonthDayは、年の書かれていない「M/D」形式の日付を基準日から解決します。
// 基準日より小さい月は翌年の公演とみなします。
func ResolveMonthDay(ref time.Time, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}

	year := ref.Year()
	if month < int(ref.Month()) {
		year++
	}

	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
	// time.Dateは繰り上げで正規化するので、存在しない日付はここで弾く
	if int(date.Month()) != month || date.Day() != day {
		return time.Time{}, false
	}

	return date, true
}

// ParseYYYYMMDDは、"20250131" のような8桁の日付文字列を解釈します。
// 基準日の年から翌年までの範囲にない日付は不正とみなします。
func ParseYYYYMMDD(ref time.Time, s string) (time.Time, bool) {
	if len(s) != 8 {
		return time.Time{}, false
	}

	year, err := strconv.Atoi(s[:4])
	if err != nil {
		return time.Time{}, false
	}
	month, err := strconv.Atoi(s[4:6])
	if err != nil {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(s[6:8])
	if err != nil {
		return time.Time{}, false
	}

	if year < ref.Year() || year > ref.Year()+1 {
		return time.Time{}, false
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}

	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
	if int(date.Month()) != month || date.Day() != day {
		return time.Time{}, false
	}

	return date, true
}

// NextMonthは、基準日の翌月の年と月を返します。12月の場合は翌年1月になります。
func NextMonth(ref time.Time) (int, time.Month) {
	next := (int(ref.Month()) % 12) + 1
	year := ref.Year()
	if next <= int(ref.Month()) {
		year++
	}
	return year, time.Month(next)
}

// PadTimeは、"9:30" のような時刻表記を "09:30" に揃えます。
func PadTime(hhmm string) string {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return hhmm
	}
	return t.Format("15:04")
}

// FormatMonthは、"YYYY-MM" 形式の年月文字列を返します。
func FormatMonth(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, int(month))
}
