package model

import (
	"fmt"
	"math"
	"time"

	"github.com/goodsign/monday"
)

// DaysPerWeek is the number of selectable days, Monday=0 .. Sunday=6.
const DaysPerWeek = 7

var dayNames = [DaysPerWeek]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// referenceMonday is used to turn a day index into a date for localized formatting.
var referenceMonday = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// ValidDay reports whether d is a valid day index.
func ValidDay(d int) bool { return d >= 0 && d < DaysPerWeek }

// DayName returns the English day name, or "" for an invalid index.
func DayName(d int) string {
	if !ValidDay(d) {
		return ""
	}
	return dayNames[d]
}

// LocalizedDayName returns the day name in the given locale (e.g. "fr_FR").
// Unknown or empty locales fall back to English.
func LocalizedDayName(d int, locale string) string {
	if !ValidDay(d) {
		return ""
	}
	if locale == "" || locale == string(monday.LocaleEnUS) {
		return dayNames[d]
	}
	return monday.Format(referenceMonday.AddDate(0, 0, d), "Monday", monday.Locale(locale))
}

// FormatHour renders a fractional hour as "HH:MM".
func FormatHour(hour float64) string {
	h := math.Floor(hour)
	m := math.Round((hour - h) * 60)
	if m == 60 {
		h++
		m = 0
	}
	return fmt.Sprintf("%02d:%02d", int(h), int(m))
}
