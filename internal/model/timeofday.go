package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ParseTimeOfDay разбирает время "HH:MM" в минуты от начала дня.
func ParseTimeOfDay(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("%w: bad time %q", ErrValidation, s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatTimeOfDay форматирует минуты от начала дня обратно в "HH:MM".
func FormatTimeOfDay(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseDate проверяет дату формата "YYYY-MM-DD".
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad date %q", ErrValidation, s)
	}
	return d, nil
}

// HoursBetween возвращает длительность интервала [start, end) в часах
// (возможны дробные значения, например 1.5).
func HoursBetween(startMin, endMin int) decimal.Decimal {
	return decimal.NewFromInt(int64(endMin - startMin)).
		Div(decimal.NewFromInt(60))
}
