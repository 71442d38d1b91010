// Package modal implements the dashboard's overlay controllers.
//
// Each controller owns its transient form or session state. Which overlay is open is
// tracked by the state store, so at most one is active at a time.
package modal

import (
	"context"
	"errors"

	"github.com/rcliao/patchdash/internal/annotations"
	"github.com/rcliao/patchdash/internal/loader"
)

var (
	// ErrNotOpen is returned when acting on a closed overlay.
	ErrNotOpen = errors.New("modal is not open")
	// ErrSendInFlight is returned when a chat message is sent while another is pending.
	ErrSendInFlight = errors.New("a message is already being sent")
	// ErrSubmitInFlight is returned when the editor is submitted twice.
	ErrSubmitInFlight = errors.New("a submission is already in progress")
)

// Reloader refreshes collections affected by a patch change.
type Reloader interface {
	ReloadPatches(ctx context.Context) loader.Report
}

// Annotator persists edit-mode annotations locally.
type Annotator interface {
	Put(ctx context.Context, p annotations.PutParams) (*annotations.Annotation, error)
	Latest(ctx context.Context, patchID int) (*annotations.Annotation, error)
}
