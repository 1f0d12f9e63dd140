package money

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrTooManyDecimals = errors.New("amount has too many decimal places")
)

const (
	minorDigits = 2
	maxMinor    = int64(1) << 62
)

// ParseMinor converts a decimal string such as "1500.25" into minor units.
func ParseMinor(input string) (int64, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return 0, ErrInvalidAmount
	}
	value, err := decimal.NewFromString(trimmed)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	shifted := value.Shift(minorDigits)
	if !shifted.IsInteger() {
		return 0, ErrTooManyDecimals
	}
	if shifted.GreaterThan(decimal.NewFromInt(maxMinor)) || shifted.LessThan(decimal.NewFromInt(-maxMinor)) {
		return 0, ErrInvalidAmount
	}
	return shifted.IntPart(), nil
}

func FormatMinor(value int64) string {
	return decimal.New(value, -minorDigits).StringFixed(minorDigits)
}

// FormatDisplay renders an amount the way tellers read it on screen:
// currency code, dot thousands separator, comma decimal separator ("AOA 1.500,00").
func FormatDisplay(currency string, value int64) string {
	plain := FormatMinor(value)
	negative := strings.HasPrefix(plain, "-")
	plain = strings.TrimPrefix(plain, "-")
	whole, frac, _ := strings.Cut(plain, ".")

	var grouped strings.Builder
	for i, digit := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(digit)
	}
	formatted := grouped.String() + "," + frac
	if negative {
		formatted = "-" + formatted
	}
	if currency == "" {
		return formatted
	}
	return currency + " " + formatted
}
