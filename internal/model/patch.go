// Package model defines the core scheduling dashboard data types.
package model

import (
	"errors"
	"fmt"
	"strings"
)

// MaxPriority is the highest patch priority. Urgent patches are always submitted with it.
const MaxPriority = 5

// ErrInvalidPatch is returned when patch form fields fail validation.
var ErrInvalidPatch = errors.New("invalid patch")

// Patch is a schedulable maintenance task.
type Patch struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Duration float64 `json:"duration"`
	Priority int     `json:"priority"`
	MinCrew  int     `json:"min_crew"`
	Notes    string  `json:"notes,omitempty"`
	Urgent   bool    `json:"urgent,omitempty"`
}

// IsUrgent reports whether the patch is treated as urgent by the editor.
func (p Patch) IsUrgent() bool {
	return p.Urgent || p.Priority >= MaxPriority
}

// PatchInput holds the fields submitted when creating a patch.
type PatchInput struct {
	Name     string  `json:"name"`
	Duration float64 `json:"duration"`
	Priority int     `json:"priority"`
	MinCrew  int     `json:"min_crew"`
	Notes    string  `json:"notes"`
	Urgent   bool    `json:"urgent"`
}

// Normalize returns a copy with the urgent flag applied to the priority.
func (in PatchInput) Normalize() PatchInput {
	out := in
	out.Name = strings.TrimSpace(in.Name)
	if out.Urgent {
		out.Priority = MaxPriority
	}
	return out
}

// Validate checks the input after normalization.
func (in PatchInput) Validate() error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return fmt.Errorf("%w: name is required", ErrInvalidPatch)
	case in.Duration <= 0 || in.Duration > 24:
		return fmt.Errorf("%w: duration must be in (0, 24] hours, got %g", ErrInvalidPatch, in.Duration)
	case in.Priority < 1 || in.Priority > MaxPriority:
		return fmt.Errorf("%w: priority must be 1-%d, got %d", ErrInvalidPatch, MaxPriority, in.Priority)
	case in.MinCrew < 1:
		return fmt.Errorf("%w: min crew must be at least 1, got %d", ErrInvalidPatch, in.MinCrew)
	}
	return nil
}
