package model

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/SaidinWoT/timespan"
)

// Interval is an availability window in whole hours, [Start, End).
// On the wire it is a two-element array.
type Interval struct {
	Start int
	End   int
}

func (iv Interval) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{iv.Start, iv.End})
}

func (iv *Interval) UnmarshalJSON(b []byte) error {
	var pair [2]int
	if err := json.Unmarshal(b, &pair); err != nil {
		return fmt.Errorf("availability interval: %w", err)
	}
	iv.Start, iv.End = pair[0], pair[1]
	return nil
}

// Hours returns the length of the interval.
func (iv Interval) Hours() int { return iv.End - iv.Start }

// String renders the interval as "HH:00-HH:00".
func (iv Interval) String() string {
	return fmt.Sprintf("%d:00-%d:00", iv.Start, iv.End)
}

// span anchors the interval to an arbitrary reference day so overlap can be computed.
func (iv Interval) span() timespan.Span {
	ref := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	return timespan.New(ref.Add(time.Duration(iv.Start)*time.Hour), time.Duration(iv.Hours())*time.Hour)
}

// CrewMember is a crew member and their daily availability.
type CrewMember struct {
	Name         string     `json:"name"`
	Availability []Interval `json:"available_hours"`
	SkillLevel   int        `json:"skill_level,omitempty"`
}

// TotalHours sums the member's available hours.
func (c CrewMember) TotalHours() int {
	total := 0
	for _, iv := range c.Availability {
		total += iv.Hours()
	}
	return total
}

// Validate rejects out-of-range, empty and overlapping intervals.
func (c CrewMember) Validate() error {
	for _, iv := range c.Availability {
		if iv.Start < 0 || iv.End > 24 || iv.End <= iv.Start {
			return fmt.Errorf("crew %q: invalid interval %s", c.Name, iv)
		}
	}
	sorted := make([]Interval, len(c.Availability))
	copy(sorted, c.Availability)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })
	for i := 1; i < len(sorted); i++ {
		overlap, ok := sorted[i-1].span().Intersection(sorted[i].span())
		if ok && overlap.Duration() > 0 {
			return fmt.Errorf("crew %q: intervals %s and %s overlap", c.Name, sorted[i-1], sorted[i])
		}
	}
	return nil
}
