package format

import (
	"strconv"
	"strings"
)

// Price цена в рублях с разделением разрядов: "1 500 ₽"
func Price(rubles int) string {
	digits := strconv.Itoa(rubles)
	if rubles < 0 {
		digits = digits[1:]
	}

	var b strings.Builder
	if rubles < 0 {
		b.WriteByte('-')
	}
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteRune(' ')
		}
		b.WriteRune(r)
	}
	b.WriteString(" ₽")
	return b.String()
}
