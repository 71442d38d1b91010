// Package state holds the dashboard's single mutable view-state.
//
// All mutation goes through named Store methods. Readers take a Snapshot, which is a copy
// and safe to hand to renderers.
package state

import (
	"errors"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/rcliao/patchdash/internal/model"
)

var (
	// ErrModalActive is returned when opening a modal while another is open.
	ErrModalActive = errors.New("another modal is active")
	// ErrBusy is returned when an action needs the busy indicator and it is already held.
	ErrBusy = errors.New("an optimization is in progress")
	// ErrInvalidDay is returned for a day outside 0..6.
	ErrInvalidDay = errors.New("day must be 0-6")
)

// Modal identifies an overlay. ModalNone means no overlay is open.
type Modal string

const (
	ModalNone            Modal = ""
	ModalPatchEditor     Modal = "patch_editor"
	ModalChat            Modal = "chat"
	ModalRecommendations Modal = "recommendations"
)

// Level is a notice severity.
type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Notice is a user-visible notification.
type Notice struct {
	Level   Level
	Message string
	At      time.Time
}

const maxNotices = 50

// Snapshot is a point-in-time copy of the store.
type Snapshot struct {
	SelectedDay   int
	SelectedPatch *model.Patch
	CreatingPatch bool
	ActiveModal   Modal
	Busy          bool

	Stats        *model.Stats
	BestHour     *model.BestHour
	NetworkLoads []model.NetworkLoadSample
	Crew         []model.CrewMember
	Patches      []model.Patch

	Schedule     []model.ScheduleItem
	Strategies   map[string]model.Strategy
	TotalPatches int
	Optimized    bool

	Notices     []Notice
	RefreshedAt time.Time

	// Version increases on every mutation.
	Version uint64
}

// LastNotice returns the most recent notice, if any.
func (s Snapshot) LastNotice() (Notice, bool) {
	if len(s.Notices) == 0 {
		return Notice{}, false
	}
	return s.Notices[len(s.Notices)-1], true
}

// Store is the process-wide state container. The zero value is not usable; call New.
type Store struct {
	mu  sync.Mutex
	s   Snapshot
	now func() time.Time

	issued    map[Collection]uint64
	committed map[Collection]uint64
}

// New creates a store with Monday selected and no data.
func New() *Store {
	return &Store{
		now:       time.Now,
		issued:    make(map[Collection]uint64),
		committed: make(map[Collection]uint64),
	}
}

// Snapshot returns a copy of the current state.
func (st *Store) Snapshot() Snapshot {
	st.mu.Lock()
	defer st.mu.Unlock()

	out := st.s
	if st.s.SelectedPatch != nil {
		p := *st.s.SelectedPatch
		out.SelectedPatch = &p
	}
	if st.s.Stats != nil {
		s := *st.s.Stats
		s.LowLoadHours = slices.Clone(s.LowLoadHours)
		out.Stats = &s
	}
	if st.s.BestHour != nil {
		b := *st.s.BestHour
		out.BestHour = &b
	}
	out.NetworkLoads = slices.Clone(st.s.NetworkLoads)
	out.Crew = slices.Clone(st.s.Crew)
	out.Patches = slices.Clone(st.s.Patches)
	out.Schedule = slices.Clone(st.s.Schedule)
	out.Strategies = maps.Clone(st.s.Strategies)
	out.Notices = slices.Clone(st.s.Notices)
	return out
}

func (st *Store) changed() { st.s.Version++ }

// SelectDay sets the chart's day.
func (st *Store) SelectDay(d int) error {
	if !model.ValidDay(d) {
		return ErrInvalidDay
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	st.s.SelectedDay = d
	st.changed()
	return nil
}

// ShiftDay moves the selected day by delta, wrapping around the week.
func (st *Store) ShiftDay(delta int) int {
	st.mu.Lock()
	defer st.mu.Unlock()
	d := (st.s.SelectedDay + delta) % model.DaysPerWeek
	if d < 0 {
		d += model.DaysPerWeek
	}
	st.s.SelectedDay = d
	st.changed()
	return d
}

// openLocked opens m if no modal is active and the busy indicator is not held.
func (st *Store) openLocked(m Modal) error {
	if st.s.ActiveModal != ModalNone {
		return ErrModalActive
	}
	if st.s.Busy {
		return ErrBusy
	}
	st.s.ActiveModal = m
	return nil
}

// OpenModal opens the chat or recommendations overlay. Use BeginCreatePatch or
// BeginEditPatch for the patch editor.
func (st *Store) OpenModal(m Modal) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if err := st.openLocked(m); err != nil {
		return err
	}
	st.changed()
	return nil
}

// CloseModal closes m if it is the active overlay. Closing the patch editor also clears
// the selected patch and the creating flag.
func (st *Store) CloseModal(m Modal) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	if m == ModalNone || st.s.ActiveModal != m {
		return false
	}
	st.s.ActiveModal = ModalNone
	if m == ModalPatchEditor {
		st.s.SelectedPatch = nil
		st.s.CreatingPatch = false
	}
	st.changed()
	return true
}

// BeginCreatePatch opens the patch editor in creating mode.
func (st *Store) BeginCreatePatch() error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if err := st.openLocked(ModalPatchEditor); err != nil {
		return err
	}
	st.s.CreatingPatch = true
	st.s.SelectedPatch = nil
	st.changed()
	return nil
}

// BeginEditPatch opens the patch editor for p.
func (st *Store) BeginEditPatch(p model.Patch) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if err := st.openLocked(ModalPatchEditor); err != nil {
		return err
	}
	st.s.CreatingPatch = false
	st.s.SelectedPatch = &p
	st.changed()
	return nil
}

// EndPatchEdit closes the patch editor and resets its selection state.
func (st *Store) EndPatchEdit() bool {
	return st.CloseModal(ModalPatchEditor)
}

// Busy is a held busy indicator. Release is safe to call more than once.
type Busy struct {
	st   *Store
	once sync.Once
}

// AcquireBusy takes the busy indicator. It fails while held or while a modal is open.
func (st *Store) AcquireBusy() (*Busy, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.s.Busy {
		return nil, ErrBusy
	}
	if st.s.ActiveModal != ModalNone {
		return nil, ErrModalActive
	}
	st.s.Busy = true
	st.changed()
	return &Busy{st: st}, nil
}

// Release clears the busy indicator.
func (b *Busy) Release() {
	b.once.Do(func() {
		b.st.mu.Lock()
		defer b.st.mu.Unlock()
		b.st.s.Busy = false
		b.st.changed()
	})
}

// ReleaseOpening clears the busy indicator and opens m in one step.
func (b *Busy) ReleaseOpening(m Modal) error {
	var err error
	released := false
	b.once.Do(func() {
		released = true
		b.st.mu.Lock()
		defer b.st.mu.Unlock()
		b.st.s.Busy = false
		err = b.st.openLocked(m)
		b.st.changed()
	})
	if !released {
		return ErrBusy
	}
	return err
}

// CommitSchedule replaces the optimization result with a single schedule.
func (st *Store) CommitSchedule(items []model.ScheduleItem) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.s.Schedule = slices.Clone(items)
	st.s.Strategies = nil
	st.s.TotalPatches = 0
	st.s.Optimized = true
	st.changed()
}

// CommitStrategies replaces the optimization result with a set of named strategies.
func (st *Store) CommitStrategies(strategies map[string]model.Strategy, totalPatches int) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.s.Schedule = nil
	st.s.Strategies = maps.Clone(strategies)
	st.s.TotalPatches = totalPatches
	st.s.Optimized = true
	st.changed()
}

// Notify records a user-visible notice.
func (st *Store) Notify(level Level, msg string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.s.Notices = append(st.s.Notices, Notice{Level: level, Message: msg, At: st.now()})
	if n := len(st.s.Notices); n > maxNotices {
		st.s.Notices = slices.Clone(st.s.Notices[n-maxNotices:])
	}
	st.changed()
}

// MarkRefreshed records the completion time of a full load.
func (st *Store) MarkRefreshed() {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.s.RefreshedAt = st.now()
	st.changed()
}
