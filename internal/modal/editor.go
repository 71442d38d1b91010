package modal

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/rcliao/patchdash/internal/annotations"
	"github.com/rcliao/patchdash/internal/logging"
	"github.com/rcliao/patchdash/internal/metrics"
	"github.com/rcliao/patchdash/internal/model"
	"github.com/rcliao/patchdash/internal/remote"
	"github.com/rcliao/patchdash/internal/state"
)

// EditorMode is the patch editor's state.
type EditorMode int

const (
	EditorClosed EditorMode = iota
	EditorCreating
	EditorEditing
)

func (m EditorMode) String() string {
	switch m {
	case EditorCreating:
		return "creating"
	case EditorEditing:
		return "editing"
	}
	return "closed"
}

// Form holds the editor's fields.
type Form struct {
	Name     string
	Duration float64
	Priority int
	MinCrew  int
	Notes    string
	Urgent   bool
}

// Input converts the form to a create payload.
func (f Form) Input() model.PatchInput {
	return model.PatchInput{
		Name:     f.Name,
		Duration: f.Duration,
		Priority: f.Priority,
		MinCrew:  f.MinCrew,
		Notes:    f.Notes,
		Urgent:   f.Urgent,
	}
}

func formFromPatch(p model.Patch) Form {
	return Form{
		Name:     p.Name,
		Duration: p.Duration,
		Priority: p.Priority,
		MinCrew:  p.MinCrew,
		Notes:    p.Notes,
		Urgent:   p.Priority >= model.MaxPriority,
	}
}

// SubmitResult describes a successful submission.
type SubmitResult struct {
	Mode       EditorMode
	Patch      model.Patch
	Annotation *annotations.Annotation
}

// PatchEditor drives the create/edit patch overlay.
//
// Creating submits a new patch remotely and reloads the backlog. Editing only records
// notes and the urgent flag in the local annotation store.
type PatchEditor struct {
	st      *state.Store
	svc     remote.Service
	reload  Reloader
	notes   Annotator
	author  string
	logger  *zap.Logger
	metrics *metrics.Metrics

	mu         sync.Mutex
	mode       EditorMode
	patch      model.Patch
	form       Form
	submitting bool
	session    uint64
}

// EditorOption configures a PatchEditor.
type EditorOption func(*PatchEditor)

// WithAuthor records author on annotations.
func WithAuthor(author string) EditorOption {
	return func(e *PatchEditor) { e.author = author }
}

// WithEditorLogger sets the logger.
func WithEditorLogger(l *zap.Logger) EditorOption {
	return func(e *PatchEditor) { e.logger = l }
}

// WithEditorMetrics counts opened editors.
func WithEditorMetrics(m *metrics.Metrics) EditorOption {
	return func(e *PatchEditor) { e.metrics = m }
}

// NewPatchEditor creates a closed editor.
func NewPatchEditor(st *state.Store, svc remote.Service, reload Reloader, notes Annotator, opts ...EditorOption) *PatchEditor {
	e := &PatchEditor{st: st, svc: svc, reload: reload, notes: notes}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = logging.OrGlobal(e.logger)
	return e
}

// OpenCreate enters creating mode with empty fields.
func (e *PatchEditor) OpenCreate() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.st.BeginCreatePatch(); err != nil {
		return err
	}
	e.mode = EditorCreating
	e.patch = model.Patch{}
	e.form = Form{}
	e.session++
	e.metrics.ModalOpened(string(state.ModalPatchEditor))
	return nil
}

// OpenEdit enters editing mode for p. Notes come from the latest local annotation if any.
func (e *PatchEditor) OpenEdit(ctx context.Context, p model.Patch) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.st.BeginEditPatch(p); err != nil {
		return err
	}
	e.mode = EditorEditing
	e.patch = p
	e.form = formFromPatch(p)
	e.session++
	e.metrics.ModalOpened(string(state.ModalPatchEditor))

	if e.notes != nil {
		a, err := e.notes.Latest(ctx, p.ID)
		switch {
		case err == nil:
			e.form.Notes = a.Notes
		case !errors.Is(err, annotations.ErrNotFound):
			e.logger.Warn("Load annotation failed", zap.Int("patch_id", p.ID), zap.Error(err))
		}
	}
	return nil
}

// Mode returns the current mode.
func (e *PatchEditor) Mode() EditorMode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}

// Patch returns the patch being edited.
func (e *PatchEditor) Patch() model.Patch {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.patch
}

// Form returns the current fields.
func (e *PatchEditor) Form() Form {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.form
}

// SetForm replaces the fields.
func (e *PatchEditor) SetForm(f Form) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.mode == EditorClosed {
		return ErrNotOpen
	}
	e.form = f
	return nil
}

// Submitting reports whether a submission is in flight.
func (e *PatchEditor) Submitting() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.submitting
}

// Close exits the editor and clears its selection state.
func (e *PatchEditor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closeLocked()
}

func (e *PatchEditor) closeLocked() {
	if e.mode == EditorClosed {
		return
	}
	e.mode = EditorClosed
	e.patch = model.Patch{}
	e.form = Form{}
	e.session++
	e.st.EndPatchEdit()
}

// Submit saves the form. On failure the editor stays open and a notice is posted.
func (e *PatchEditor) Submit(ctx context.Context) (SubmitResult, error) {
	e.mu.Lock()
	if e.mode == EditorClosed {
		e.mu.Unlock()
		return SubmitResult{}, ErrNotOpen
	}
	if e.submitting {
		e.mu.Unlock()
		return SubmitResult{}, ErrSubmitInFlight
	}
	e.submitting = true
	mode, patch, form, session := e.mode, e.patch, e.form, e.session
	e.mu.Unlock()

	var (
		res SubmitResult
		err error
	)
	if mode == EditorCreating {
		res, err = e.create(ctx, form)
	} else {
		res, err = e.annotate(ctx, patch, form)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.submitting = false
	if err != nil {
		return SubmitResult{}, err
	}
	if e.session == session {
		e.closeLocked()
	}
	return res, nil
}

func (e *PatchEditor) create(ctx context.Context, form Form) (SubmitResult, error) {
	in := form.Input().Normalize()
	if err := in.Validate(); err != nil {
		e.st.Notify(state.LevelError, err.Error())
		return SubmitResult{}, err
	}

	p, err := e.svc.CreatePatch(ctx, in)
	if err != nil {
		e.logger.Warn("Create patch failed", zap.String("name", in.Name), zap.Error(err))
		e.st.Notify(state.LevelError, "Failed to create patch: "+err.Error())
		return SubmitResult{}, fmt.Errorf("create patch: %w", err)
	}

	if rep := e.reload.ReloadPatches(ctx); !rep.OK() {
		e.logger.Warn("Reload after create failed", zap.Error(rep.Err()))
	}

	notes := in.Notes
	if notes == "" {
		notes = "None"
	}
	e.st.Notify(state.LevelInfo, fmt.Sprintf("New patch created: %s (duration %gh, priority %d, notes: %s)",
		in.Name, in.Duration, in.Priority, notes))
	return SubmitResult{Mode: EditorCreating, Patch: p}, nil
}

func (e *PatchEditor) annotate(ctx context.Context, patch model.Patch, form Form) (SubmitResult, error) {
	if e.notes == nil {
		e.st.Notify(state.LevelError, "Annotations are not available")
		return SubmitResult{}, errors.New("no annotation store")
	}
	a, err := e.notes.Put(ctx, annotations.PutParams{
		PatchID:   patch.ID,
		PatchName: patch.Name,
		Notes:     form.Notes,
		Urgent:    form.Urgent,
		Author:    e.author,
	})
	if err != nil {
		e.logger.Warn("Save annotation failed", zap.Int("patch_id", patch.ID), zap.Error(err))
		e.st.Notify(state.LevelError, "Failed to save details: "+err.Error())
		return SubmitResult{}, fmt.Errorf("save annotation: %w", err)
	}

	urgent := "No"
	if form.Urgent {
		urgent = "Yes"
	}
	notes := form.Notes
	if notes == "" {
		notes = "None"
	}
	e.st.Notify(state.LevelInfo, fmt.Sprintf("Details saved for: %s (notes: %s, urgent: %s)", patch.Name, notes, urgent))
	return SubmitResult{Mode: EditorEditing, Patch: patch, Annotation: a}, nil
}
