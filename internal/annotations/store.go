// Package annotations stores local, versioned notes and urgent flags for patches.
package annotations

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a patch has no annotation.
var ErrNotFound = errors.New("annotation not found")

// Annotation is one version of a patch's local notes.
type Annotation struct {
	ID         string     `json:"id"`
	PatchID    int        `json:"patch_id"`
	PatchName  string     `json:"patch_name,omitempty"`
	Notes      string     `json:"notes"`
	Urgent     bool       `json:"urgent"`
	Author     string     `json:"author,omitempty"`
	Version    int        `json:"version"`
	Supersedes string     `json:"supersedes,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`
}

// PutParams holds parameters for annotating a patch.
type PutParams struct {
	PatchID   int
	PatchName string
	Notes     string
	Urgent    bool
	Author    string
}

// ListParams holds parameters for listing the latest annotations.
type ListParams struct {
	UrgentOnly bool
	Limit      int
}

// RmParams holds parameters for deleting a patch's annotations.
type RmParams struct {
	PatchID     int
	AllVersions bool
	Hard        bool
}

// Store defines the annotation storage interface.
type Store interface {
	// Put stores a new version of a patch's annotation.
	Put(ctx context.Context, p PutParams) (*Annotation, error)

	// Latest returns the newest version, or ErrNotFound.
	Latest(ctx context.Context, patchID int) (*Annotation, error)

	// History returns every version, newest first.
	History(ctx context.Context, patchID int) ([]Annotation, error)

	// List returns the latest version of each annotated patch.
	List(ctx context.Context, p ListParams) ([]Annotation, error)

	// Rm soft-deletes (or hard-deletes) annotations.
	Rm(ctx context.Context, p RmParams) error

	// Close closes the store.
	Close() error
}
