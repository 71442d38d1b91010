package model

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestPatchInputNormalizeUrgent(t *testing.T) {
	in := PatchInput{Name: "  Core Firmware ", Duration: 3, Priority: 2, MinCrew: 3, Urgent: true}
	out := in.Normalize()
	if out.Priority != MaxPriority {
		t.Errorf("expected priority %d for urgent patch, got %d", MaxPriority, out.Priority)
	}
	if out.Name != "Core Firmware" {
		t.Errorf("expected trimmed name, got %q", out.Name)
	}
	if in.Priority != 2 {
		t.Error("normalize must not mutate the receiver")
	}
}

func TestPatchInputValidate(t *testing.T) {
	tests := []struct {
		name  string
		in    PatchInput
		valid bool
	}{
		{"ok", PatchInput{Name: "a", Duration: 1.5, Priority: 3, MinCrew: 1}, true},
		{"missing name", PatchInput{Name: " ", Duration: 1, Priority: 3, MinCrew: 1}, false},
		{"zero duration", PatchInput{Name: "a", Duration: 0, Priority: 3, MinCrew: 1}, false},
		{"long duration", PatchInput{Name: "a", Duration: 25, Priority: 3, MinCrew: 1}, false},
		{"priority too high", PatchInput{Name: "a", Duration: 1, Priority: 6, MinCrew: 1}, false},
		{"priority zero", PatchInput{Name: "a", Duration: 1, Priority: 0, MinCrew: 1}, false},
		{"no crew", PatchInput{Name: "a", Duration: 1, Priority: 3, MinCrew: 0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate()
			if tt.valid && err != nil {
				t.Errorf("expected valid, got %v", err)
			}
			if !tt.valid && !errors.Is(err, ErrInvalidPatch) {
				t.Errorf("expected ErrInvalidPatch, got %v", err)
			}
		})
	}
}

func TestIntervalJSON(t *testing.T) {
	var c CrewMember
	if err := json.Unmarshal([]byte(`{"name":"Alice Chen","available_hours":[[0,8],[20,24]],"skill_level":5}`), &c); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(c.Availability) != 2 || c.Availability[1] != (Interval{20, 24}) {
		t.Fatalf("unexpected availability %+v", c.Availability)
	}
	if c.TotalHours() != 12 {
		t.Errorf("expected 12 total hours, got %d", c.TotalHours())
	}
	b, _ := json.Marshal(c.Availability[0])
	if string(b) != "[0,8]" {
		t.Errorf("expected [0,8], got %s", b)
	}
}

func TestCrewValidate(t *testing.T) {
	ok := CrewMember{Name: "Bob", Availability: []Interval{{22, 24}, {6, 14}}}
	if err := ok.Validate(); err != nil {
		t.Errorf("expected valid crew, got %v", err)
	}

	adjacent := CrewMember{Name: "Eve", Availability: []Interval{{1, 9}, {9, 12}}}
	if err := adjacent.Validate(); err != nil {
		t.Errorf("adjacent intervals should not overlap: %v", err)
	}

	overlapping := CrewMember{Name: "Dave", Availability: []Interval{{0, 6}, {5, 8}}}
	if err := overlapping.Validate(); err == nil {
		t.Error("expected overlap error")
	}

	inverted := CrewMember{Name: "Carol", Availability: []Interval{{18, 10}}}
	if err := inverted.Validate(); err == nil {
		t.Error("expected invalid interval error")
	}
}

func TestOrderedStrategies(t *testing.T) {
	m := map[string]Strategy{
		StrategyBalanced:         {Label: "Balanced"},
		"experimental":           {Label: "Experimental"},
		StrategyNetworkOptimized: {Label: "Network Optimized"},
	}
	got := OrderedStrategies(m)
	if len(got) != 2 {
		t.Fatalf("expected 2 strategies, got %d", len(got))
	}
	if got[0].Key != StrategyNetworkOptimized || got[1].Key != StrategyBalanced {
		t.Errorf("unexpected order: %s, %s", got[0].Key, got[1].Key)
	}
}

func TestFormatHour(t *testing.T) {
	tests := map[float64]string{
		0:      "00:00",
		3:      "03:00",
		4.5:    "04:30",
		22.25:  "22:15",
		23.999: "24:00",
	}
	for in, want := range tests {
		if got := FormatHour(in); got != want {
			t.Errorf("FormatHour(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestDayNames(t *testing.T) {
	if DayName(0) != "Monday" || DayName(6) != "Sunday" {
		t.Error("unexpected day names")
	}
	if DayName(7) != "" || ValidDay(-1) {
		t.Error("expected invalid day handling")
	}
	if LocalizedDayName(2, "") != "Wednesday" {
		t.Errorf("expected English fallback, got %q", LocalizedDayName(2, ""))
	}
	if got := LocalizedDayName(0, "fr_FR"); got == "" || got == "Monday" {
		t.Errorf("expected a French day name, got %q", got)
	}
}

func TestScheduleItemDefaults(t *testing.T) {
	it := ScheduleItem{Status: StatusUnscheduled}
	if it.Scheduled() {
		t.Error("expected unscheduled")
	}
	if it.ReasonOrDefault() != DefaultUnscheduledReason {
		t.Errorf("unexpected reason %q", it.ReasonOrDefault())
	}
	if !(ScheduleItem{}).Scheduled() {
		t.Error("items without status are scheduled")
	}
}
