package discord

import (
	"strconv"
	"strings"
)

func ternary[T any](cond bool, a T, b T) T {
	if cond {
		return a
	}
	return b
}

// formatNumber renders 1234567 as "1,234,567".
func formatNumber(v float64) string {
	s := strconv.FormatInt(int64(v), 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for n, r := range s {
		if n > 0 && (len(s)-n)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return ternary(neg, "-", "") + b.String()
}
