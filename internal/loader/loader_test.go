package loader

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/rcliao/patchdash/internal/model"
	"github.com/rcliao/patchdash/internal/remote"
	"github.com/rcliao/patchdash/internal/remote/remotetest"
	"github.com/rcliao/patchdash/internal/state"
)

func newFake() *remotetest.Fake {
	return &remotetest.Fake{
		StatsValue:    model.Stats{TotalPatches: 2, TotalCrewMembers: 1},
		BestHourValue: model.BestHour{Day: "Monday", Hour: 2, LoadKW: 10},
		Loads: []model.NetworkLoadSample{
			{DayNumber: 0, Hour: 0, LoadKW: 12},
			{DayNumber: 1, Hour: 0, LoadKW: 30},
		},
		CrewValue:    []model.CrewMember{{Name: "Ana", Availability: []model.Interval{{Start: 8, End: 16}}}},
		PatchesValue: []model.Patch{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}},
	}
}

func newTestLoader(svc remote.Service) (*Loader, *state.Store) {
	st := state.New()
	return New(svc, st, zap.NewNop(), nil), st
}

func TestLoadAll(t *testing.T) {
	fake := newFake()
	l, st := newTestLoader(fake)

	rep := l.LoadAll(context.Background())
	if !rep.OK() {
		t.Fatalf("unexpected failures: %v", rep.Err())
	}
	if len(rep.Committed) != 4 {
		t.Errorf("expected 4 committed collections, got %v", rep.Committed)
	}

	snap := st.Snapshot()
	if snap.Stats == nil || snap.Stats.TotalPatches != 2 {
		t.Errorf("stats not committed: %+v", snap.Stats)
	}
	if snap.BestHour == nil || snap.BestHour.Hour != 2 {
		t.Errorf("best hour not committed: %+v", snap.BestHour)
	}
	if len(snap.NetworkLoads) != 2 || len(snap.Crew) != 1 || len(snap.Patches) != 2 {
		t.Errorf("collections not committed: %+v", snap)
	}
	if snap.RefreshedAt.IsZero() {
		t.Error("expected refresh time to be set")
	}
	if _, ok := snap.LastNotice(); ok {
		t.Error("no notice expected on success")
	}
}

func TestLoadAllIdempotent(t *testing.T) {
	l, st := newTestLoader(newFake())

	l.LoadAll(context.Background())
	first := st.Snapshot()
	l.LoadAll(context.Background())
	second := st.Snapshot()

	if !reflect.DeepEqual(first.Patches, second.Patches) ||
		!reflect.DeepEqual(first.Crew, second.Crew) ||
		!reflect.DeepEqual(first.NetworkLoads, second.NetworkLoads) ||
		!reflect.DeepEqual(first.Stats, second.Stats) {
		t.Error("reloading identical data changed committed collections")
	}
}

func TestLoadAllPartialFailure(t *testing.T) {
	fake := newFake()
	fake.Fail(remote.CallCrew, errors.New("boom"))
	fake.Fail(remote.CallBestHour, errors.New("no prediction"))
	l, st := newTestLoader(fake)

	rep := l.LoadAll(context.Background())
	if rep.OK() {
		t.Fatal("expected failure")
	}
	if len(rep.Failures) != 1 || rep.Failures[0].Collection != state.CollCrew {
		t.Errorf("expected only crew to fail, got %+v", rep.Failures)
	}
	if !strings.Contains(rep.Err().Error(), "boom") {
		t.Errorf("error should wrap cause: %v", rep.Err())
	}

	snap := st.Snapshot()
	if len(snap.Patches) != 2 || len(snap.NetworkLoads) != 2 || snap.Stats == nil {
		t.Error("other collections should still be committed")
	}
	if snap.BestHour != nil {
		t.Error("best hour should be absent after its failure")
	}
	var errs int
	for _, n := range snap.Notices {
		if n.Level == state.LevelError {
			errs++
		}
	}
	if errs != 1 {
		t.Errorf("expected exactly one error notice, got %d", errs)
	}
	if !snap.RefreshedAt.IsZero() {
		t.Error("refresh time should not be set after a failed load")
	}
}

func TestReloadPatches(t *testing.T) {
	fake := newFake()
	l, st := newTestLoader(fake)

	fake.PatchesValue = append(fake.PatchesValue, model.Patch{ID: 3, Name: "C"})
	rep := l.ReloadPatches(context.Background())
	if !rep.OK() {
		t.Fatalf("reload: %v", rep.Err())
	}
	if got := len(st.Snapshot().Patches); got != 3 {
		t.Errorf("expected 3 patches, got %d", got)
	}
	if fake.Calls(remote.CallStats) != 1 {
		t.Error("stats should be reloaded with patches")
	}
	if fake.Calls(remote.CallCrew) != 0 {
		t.Error("crew should not be reloaded")
	}
}

func TestBestHourFailureOnlyLogged(t *testing.T) {
	fake := newFake()
	fake.Fail(remote.CallBestHour, errors.New("boom"))
	core, logs := observer.New(zap.WarnLevel)
	st := state.New()
	l := New(fake, st, zap.New(core), nil)

	rep := l.LoadAll(context.Background())
	if !rep.OK() {
		t.Fatalf("best-hour failure should not fail the load: %v", rep.Err())
	}
	snap := st.Snapshot()
	if snap.Stats == nil || snap.BestHour != nil {
		t.Errorf("expected stats without best hour, got stats=%v best=%v", snap.Stats, snap.BestHour)
	}
	if _, ok := snap.LastNotice(); ok {
		t.Error("best-hour failure should not post a notice")
	}
	if n := logs.FilterMessage("Best hour unavailable").Len(); n != 1 {
		t.Errorf("expected one warning, got %d", n)
	}
}
