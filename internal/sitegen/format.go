package sitegen

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

var bengaliMonths = [...]string{
	"জানুয়ারি", "ফেব্রুয়ারি", "মার্চ", "এপ্রিল", "মে", "জুন",
	"জুলাই", "আগস্ট", "সেপ্টেম্বর", "অক্টোবর", "নভেম্বর", "ডিসেম্বর",
}

// bengaliNumber writes n with Bengali digits
func bengaliNumber(n int) string {
	return toBengaliDigits(strconv.Itoa(n))
}

func toBengaliDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune('০' + (r - '0'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// bengaliDate formats a YYYY-MM-DD string or a time.Time as "২৬ মার্চ ২০২৪".
// Values it cannot parse are returned unchanged.
func bengaliDate(v interface{}) string {
	var t time.Time
	switch d := v.(type) {
	case time.Time:
		t = d
	case string:
		parsed, err := time.Parse("2006-01-02", d)
		if err != nil {
			return d
		}
		t = parsed
	default:
		return ""
	}
	return bengaliNumber(t.Day()) + " " + bengaliMonths[t.Month()-1] + " " + bengaliNumber(t.Year())
}

// truncate shortens s to n runes, adding an ellipsis when cut
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "..."
}
