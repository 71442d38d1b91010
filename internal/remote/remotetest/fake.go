// Package remotetest provides an in-memory remote.Service for tests.
package remotetest

import (
	"context"
	"sync"

	"github.com/rcliao/patchdash/internal/model"
	"github.com/rcliao/patchdash/internal/remote"
)

// Fake is a configurable remote.Service. Fields set to a non-nil error make the
// matching call fail. Calls are counted per call name.
type Fake struct {
	mu sync.Mutex

	StatsValue    model.Stats
	BestHourValue model.BestHour
	Loads         []model.NetworkLoadSample
	CrewValue     []model.CrewMember
	PatchesValue  []model.Patch
	OptimizeValue remote.OptimizeResult
	ChatReply     remote.ChatReply

	Errs map[string]error

	// OnCreate, if set, is called for CreatePatch instead of appending to PatchesValue.
	OnCreate func(in model.PatchInput) (model.Patch, error)

	calls   map[string]int
	Created []model.PatchInput
	Sent    []string
}

var _ remote.Service = (*Fake)(nil)

// Calls returns how many times call was made.
func (f *Fake) Calls(call string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[call]
}

// Fail makes call return err until cleared with a nil err.
func (f *Fake) Fail(call string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Errs == nil {
		f.Errs = make(map[string]error)
	}
	if err == nil {
		delete(f.Errs, call)
		return
	}
	f.Errs[call] = err
}

func (f *Fake) begin(call string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[call]++
	return f.Errs[call]
}

func (f *Fake) Stats(ctx context.Context) (model.Stats, error) {
	if err := f.begin(remote.CallStats); err != nil {
		return model.Stats{}, err
	}
	return f.StatsValue, nil
}

func (f *Fake) BestHour(ctx context.Context) (model.BestHour, error) {
	if err := f.begin(remote.CallBestHour); err != nil {
		return model.BestHour{}, err
	}
	return f.BestHourValue, nil
}

func (f *Fake) NetworkLoad(ctx context.Context) ([]model.NetworkLoadSample, error) {
	if err := f.begin(remote.CallNetworkLoad); err != nil {
		return nil, err
	}
	return f.Loads, nil
}

func (f *Fake) Crew(ctx context.Context) ([]model.CrewMember, error) {
	if err := f.begin(remote.CallCrew); err != nil {
		return nil, err
	}
	return f.CrewValue, nil
}

func (f *Fake) Patches(ctx context.Context) ([]model.Patch, error) {
	if err := f.begin(remote.CallPatches); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Patch(nil), f.PatchesValue...), nil
}

func (f *Fake) CreatePatch(ctx context.Context, in model.PatchInput) (model.Patch, error) {
	if err := f.begin(remote.CallCreatePatch); err != nil {
		return model.Patch{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Created = append(f.Created, in)
	if f.OnCreate != nil {
		return f.OnCreate(in)
	}
	p := model.Patch{
		ID:       len(f.PatchesValue) + 1,
		Name:     in.Name,
		Duration: in.Duration,
		Priority: in.Priority,
		MinCrew:  in.MinCrew,
		Notes:    in.Notes,
		Urgent:   in.Urgent,
	}
	f.PatchesValue = append(f.PatchesValue, p)
	return p, nil
}

func (f *Fake) Optimize(ctx context.Context) (remote.OptimizeResult, error) {
	if err := f.begin(remote.CallOptimize); err != nil {
		return remote.OptimizeResult{}, err
	}
	return f.OptimizeValue, nil
}

func (f *Fake) Chat(ctx context.Context, message string) (remote.ChatReply, error) {
	if err := f.begin(remote.CallChat); err != nil {
		return remote.ChatReply{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Sent = append(f.Sent, message)
	return f.ChatReply, nil
}
