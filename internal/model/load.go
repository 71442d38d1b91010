package model

import "fmt"

// FavorableLoadKW is the load below which an hour is considered favorable for patching.
const FavorableLoadKW = 25.0

// NetworkLoadSample is the measured load for one (day, hour).
type NetworkLoadSample struct {
	Hour      int     `json:"hour"`
	LoadKW    float64 `json:"load_kilowatts"`
	DayOfWeek string  `json:"day_of_week"`
	DayNumber int     `json:"day_number"`
}

// Label is the display label, e.g. "Monday 3:00".
func (s NetworkLoadSample) Label() string {
	day := s.DayOfWeek
	if day == "" {
		day = DayName(s.DayNumber)
	}
	return fmt.Sprintf("%s %d:00", day, s.Hour)
}

// Favorable reports whether the sample is below FavorableLoadKW.
func (s NetworkLoadSample) Favorable() bool {
	return s.LoadKW < FavorableLoadKW
}
