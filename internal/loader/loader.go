// Package loader populates the state store from the scheduling service.
package loader

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/rcliao/patchdash/internal/logging"
	"github.com/rcliao/patchdash/internal/metrics"
	"github.com/rcliao/patchdash/internal/remote"
	"github.com/rcliao/patchdash/internal/state"
)

// Failure is one collection that could not be loaded.
type Failure struct {
	Collection state.Collection
	Err        error
}

// Report summarizes a load. Stale lists reads whose result was superseded by a newer one.
type Report struct {
	Committed []state.Collection
	Stale     []state.Collection
	Failures  []Failure
}

// OK reports whether every read succeeded.
func (r Report) OK() bool { return len(r.Failures) == 0 }

// Err joins the failures, or returns nil.
func (r Report) Err() error {
	errs := make([]error, 0, len(r.Failures))
	for _, f := range r.Failures {
		errs = append(errs, fmt.Errorf("load %s: %w", f.Collection, f.Err))
	}
	return errors.Join(errs...)
}

// Loader runs the reads and commits each result into the store.
type Loader struct {
	svc     remote.Service
	st      *state.Store
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// New creates a loader. logger and m may be nil.
func New(svc remote.Service, st *state.Store, logger *zap.Logger, m *metrics.Metrics) *Loader {
	return &Loader{svc: svc, st: st, logger: logging.OrGlobal(logger), metrics: m}
}

type read func(ctx context.Context) (committed bool, err error)

// LoadAll reads stats, network load, crew and patches concurrently. Each read commits
// its own collection as soon as it completes. Failures are reported once through the
// store and in the returned report.
func (l *Loader) LoadAll(ctx context.Context) Report {
	r := l.run(ctx, []state.Collection{state.CollStats, state.CollNetworkLoad, state.CollCrew, state.CollPatches})
	if r.OK() {
		l.st.MarkRefreshed()
	}
	return r
}

// ReloadPatches refreshes the patch backlog and the stats derived from it.
func (l *Loader) ReloadPatches(ctx context.Context) Report {
	return l.run(ctx, []state.Collection{state.CollPatches, state.CollStats})
}

func (l *Loader) run(ctx context.Context, colls []state.Collection) Report {
	type result struct {
		committed bool
		err       error
	}
	results := make([]result, len(colls))

	var wg sync.WaitGroup
	for i, c := range colls {
		fn := l.reader(c)
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := fn(ctx)
			results[i] = result{committed: ok, err: err}
		}()
	}
	wg.Wait()

	var rep Report
	for i, c := range colls {
		switch res := results[i]; {
		case res.err != nil:
			rep.Failures = append(rep.Failures, Failure{Collection: c, Err: res.err})
			l.metrics.LoadFailed(string(c))
			l.logger.Warn("Load failed", zap.String("collection", string(c)), zap.Error(res.err))
		case res.committed:
			rep.Committed = append(rep.Committed, c)
		default:
			rep.Stale = append(rep.Stale, c)
			l.logger.Debug("Dropped stale load result", zap.String("collection", string(c)))
		}
	}

	if !rep.OK() {
		names := make([]string, len(rep.Failures))
		for i, f := range rep.Failures {
			names[i] = string(f.Collection)
		}
		l.st.Notify(state.LevelError, fmt.Sprintf(
			"Failed to load data (%s). Please ensure the scheduling service is reachable.",
			strings.Join(names, ", ")))
	}
	return rep
}

func (l *Loader) reader(c state.Collection) read {
	switch c {
	case state.CollStats:
		return l.loadStats
	case state.CollNetworkLoad:
		return func(ctx context.Context) (bool, error) {
			t := l.st.BeginLoad(c)
			v, err := l.svc.NetworkLoad(ctx)
			if err != nil {
				return false, err
			}
			return l.st.CommitNetworkLoads(t, v), nil
		}
	case state.CollCrew:
		return func(ctx context.Context) (bool, error) {
			t := l.st.BeginLoad(c)
			v, err := l.svc.Crew(ctx)
			if err != nil {
				return false, err
			}
			return l.st.CommitCrew(t, v), nil
		}
	case state.CollPatches:
		return func(ctx context.Context) (bool, error) {
			t := l.st.BeginLoad(c)
			v, err := l.svc.Patches(ctx)
			if err != nil {
				return false, err
			}
			return l.st.CommitPatches(t, v), nil
		}
	}
	return func(context.Context) (bool, error) {
		return false, fmt.Errorf("unknown collection %q", c)
	}
}

// loadStats commits stats and then refreshes the best hour. A best-hour failure is only logged.
func (l *Loader) loadStats(ctx context.Context) (bool, error) {
	t := l.st.BeginLoad(state.CollStats)
	v, err := l.svc.Stats(ctx)
	if err != nil {
		return false, err
	}
	committed := l.st.CommitStats(t, v)

	bt := l.st.BeginLoad(state.CollBestHour)
	bh, err := l.svc.BestHour(ctx)
	if err != nil {
		l.logger.Warn("Best hour unavailable", zap.Error(err))
		return committed, nil
	}
	l.st.CommitBestHour(bt, bh)
	return committed, nil
}
