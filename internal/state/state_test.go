package state

import (
	"errors"
	"testing"

	"github.com/rcliao/patchdash/internal/model"
)

func TestSelectDay(t *testing.T) {
	st := New()
	if err := st.SelectDay(3); err != nil {
		t.Fatalf("select: %v", err)
	}
	if got := st.Snapshot().SelectedDay; got != 3 {
		t.Errorf("expected day 3, got %d", got)
	}
	for _, d := range []int{-1, 7} {
		if err := st.SelectDay(d); !errors.Is(err, ErrInvalidDay) {
			t.Errorf("SelectDay(%d) = %v, want ErrInvalidDay", d, err)
		}
	}
	if got := st.ShiftDay(-4); got != 6 {
		t.Errorf("ShiftDay(-4) from 3 = %d, want 6", got)
	}
	if got := st.ShiftDay(1); got != 0 {
		t.Errorf("ShiftDay(1) from 6 = %d, want 0", got)
	}
}

func TestPatchEditorModes(t *testing.T) {
	st := New()
	p := model.Patch{ID: 4, Name: "Feeder", Priority: 5}

	if err := st.BeginEditPatch(p); err != nil {
		t.Fatalf("edit: %v", err)
	}
	snap := st.Snapshot()
	if snap.CreatingPatch || snap.SelectedPatch == nil || snap.SelectedPatch.ID != 4 {
		t.Errorf("unexpected edit state: creating=%v selected=%v", snap.CreatingPatch, snap.SelectedPatch)
	}
	if snap.ActiveModal != ModalPatchEditor {
		t.Errorf("expected patch editor active, got %q", snap.ActiveModal)
	}

	if err := st.BeginCreatePatch(); !errors.Is(err, ErrModalActive) {
		t.Errorf("expected ErrModalActive while editing, got %v", err)
	}

	if !st.EndPatchEdit() {
		t.Fatal("expected editor to close")
	}
	snap = st.Snapshot()
	if snap.SelectedPatch != nil || snap.CreatingPatch || snap.ActiveModal != ModalNone {
		t.Errorf("editor exit did not reset state: %+v", snap)
	}

	if err := st.BeginCreatePatch(); err != nil {
		t.Fatalf("create: %v", err)
	}
	snap = st.Snapshot()
	if !snap.CreatingPatch || snap.SelectedPatch != nil {
		t.Errorf("unexpected create state: creating=%v selected=%v", snap.CreatingPatch, snap.SelectedPatch)
	}
}

func TestSingleActiveModal(t *testing.T) {
	st := New()
	if err := st.OpenModal(ModalChat); err != nil {
		t.Fatalf("open chat: %v", err)
	}
	if err := st.OpenModal(ModalRecommendations); !errors.Is(err, ErrModalActive) {
		t.Errorf("expected ErrModalActive, got %v", err)
	}
	if st.CloseModal(ModalRecommendations) {
		t.Error("closing an inactive modal should report false")
	}
	if st.Snapshot().ActiveModal != ModalChat {
		t.Error("chat should still be active")
	}
	if !st.CloseModal(ModalChat) {
		t.Error("expected chat to close")
	}
	if err := st.OpenModal(ModalRecommendations); err != nil {
		t.Errorf("open recommendations: %v", err)
	}
}

func TestBusy(t *testing.T) {
	st := New()
	b, err := st.AcquireBusy()
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if _, err := st.AcquireBusy(); !errors.Is(err, ErrBusy) {
		t.Errorf("expected ErrBusy, got %v", err)
	}
	if err := st.OpenModal(ModalChat); !errors.Is(err, ErrBusy) {
		t.Errorf("expected ErrBusy opening a modal while busy, got %v", err)
	}
	b.Release()
	b.Release()
	if st.Snapshot().Busy {
		t.Error("busy should be cleared")
	}

	b, err = st.AcquireBusy()
	if err != nil {
		t.Fatalf("re-acquire: %v", err)
	}
	if err := b.ReleaseOpening(ModalRecommendations); err != nil {
		t.Fatalf("release opening: %v", err)
	}
	snap := st.Snapshot()
	if snap.Busy || snap.ActiveModal != ModalRecommendations {
		t.Errorf("unexpected state after ReleaseOpening: busy=%v modal=%q", snap.Busy, snap.ActiveModal)
	}
	b.Release()
	if st.Snapshot().ActiveModal != ModalRecommendations {
		t.Error("second release must not change the modal")
	}

	if _, err := st.AcquireBusy(); !errors.Is(err, ErrModalActive) {
		t.Errorf("expected ErrModalActive while a modal is open, got %v", err)
	}
}

func TestTicketsNewestIssuedWins(t *testing.T) {
	st := New()
	older := st.BeginLoad(CollPatches)
	newer := st.BeginLoad(CollPatches)

	if !st.CommitPatches(newer, []model.Patch{{ID: 2}}) {
		t.Fatal("newer commit should apply")
	}
	if st.CommitPatches(older, []model.Patch{{ID: 1}}) {
		t.Error("older commit after newer should be dropped")
	}
	if got := st.Snapshot().Patches; len(got) != 1 || got[0].ID != 2 {
		t.Errorf("unexpected patches: %+v", got)
	}

	a := st.BeginLoad(CollCrew)
	b := st.BeginLoad(CollCrew)
	if !st.CommitCrew(a, []model.CrewMember{{Name: "a"}}) {
		t.Error("older commit before newer should apply")
	}
	if !st.CommitCrew(b, []model.CrewMember{{Name: "b"}}) {
		t.Error("newer commit should apply")
	}
	if got := st.Snapshot().Crew; len(got) != 1 || got[0].Name != "b" {
		t.Errorf("unexpected crew: %+v", got)
	}

	if st.CommitCrew(st.BeginLoad(CollPatches), nil) {
		t.Error("ticket for another collection must be rejected")
	}
	if st.CommitStats(Ticket{}, model.Stats{}) {
		t.Error("zero ticket must be rejected")
	}
}

func TestCommitReplaces(t *testing.T) {
	st := New()
	st.CommitPatches(st.BeginLoad(CollPatches), []model.Patch{{ID: 1}, {ID: 2}})
	st.CommitPatches(st.BeginLoad(CollPatches), []model.Patch{{ID: 3}})
	if got := st.Snapshot().Patches; len(got) != 1 || got[0].ID != 3 {
		t.Errorf("commit should replace, got %+v", got)
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	st := New()
	st.CommitPatches(st.BeginLoad(CollPatches), []model.Patch{{ID: 1, Name: "orig"}})
	snap := st.Snapshot()
	snap.Patches[0].Name = "changed"
	if got := st.Snapshot().Patches[0].Name; got != "orig" {
		t.Errorf("snapshot mutation leaked into store: %q", got)
	}
}

func TestOptimizationResults(t *testing.T) {
	st := New()
	st.CommitSchedule([]model.ScheduleItem{{Score: 50}})
	st.CommitStrategies(map[string]model.Strategy{model.StrategyBalanced: {Label: "Balanced"}}, 4)
	snap := st.Snapshot()
	if snap.Schedule != nil || len(snap.Strategies) != 1 || snap.TotalPatches != 4 || !snap.Optimized {
		t.Errorf("unexpected optimization state: %+v", snap)
	}
}

func TestNotify(t *testing.T) {
	st := New()
	if _, ok := st.Snapshot().LastNotice(); ok {
		t.Error("expected no notice")
	}
	for i := 0; i < maxNotices+5; i++ {
		st.Notify(LevelInfo, "n")
	}
	st.Notify(LevelError, "boom")
	snap := st.Snapshot()
	if len(snap.Notices) != maxNotices {
		t.Errorf("expected %d notices, got %d", maxNotices, len(snap.Notices))
	}
	n, ok := snap.LastNotice()
	if !ok || n.Level != LevelError || n.Message != "boom" {
		t.Errorf("unexpected last notice: %+v", n)
	}
}
