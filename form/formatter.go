package form

import (
	"strings"

	"payment-form/models"
)

// Format canonicalises a raw keystroke value for field. Fields without a
// formatting rule pass through unchanged.
func Format(field, raw string) string {
	switch field {
	case models.FieldAmount:
		return FormatAmount(raw)
	case models.FieldCardNumber:
		return FormatCardNumber(raw)
	case models.FieldExpiryDate:
		return FormatExpiryDate(raw)
	case models.FieldSecurityCode:
		return FormatSecurityCode(raw)
	default:
		return raw
	}
}

// FormatAmount keeps digits and decimal points.
func FormatAmount(raw string) string {
	return keep(raw, func(r rune) bool { return isDigit(r) || r == '.' })
}

// FormatCardNumber groups digits in blocks of four separated by one space.
func FormatCardNumber(raw string) string {
	digits := Digits(raw)
	var b strings.Builder
	for i := 0; i < len(digits); i += 4 {
		if i > 0 {
			b.WriteByte(' ')
		}
		end := i + 4
		if end > len(digits) {
			end = len(digits)
		}
		b.WriteString(digits[i:end])
	}
	return b.String()
}

// FormatExpiryDate produces MM/YY, inserting the slash once the month is
// complete.
func FormatExpiryDate(raw string) string {
	digits := Digits(raw)
	if len(digits) < 2 {
		return digits
	}
	return truncate(digits[:2]+"/"+digits[2:], 5)
}

func FormatSecurityCode(raw string) string {
	return truncate(Digits(raw), 4)
}

// Digits returns the ASCII digits of s.
func Digits(s string) string {
	return keep(s, isDigit)
}

func keep(s string, fn func(rune) bool) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if fn(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
