// Package optimize runs the remote schedule optimization and routes its result.
package optimize

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/rcliao/patchdash/internal/logging"
	"github.com/rcliao/patchdash/internal/metrics"
	"github.com/rcliao/patchdash/internal/model"
	"github.com/rcliao/patchdash/internal/remote"
	"github.com/rcliao/patchdash/internal/state"
)

// Viewer receives a successful optimization result.
type Viewer interface {
	ShowSchedule(items []model.ScheduleItem)
	ShowStrategies(strategies map[string]model.Strategy, totalPatches int)
}

// Orchestrator triggers optimization under the busy indicator.
type Orchestrator struct {
	st      *state.Store
	svc     remote.Service
	viewer  Viewer
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// New creates an orchestrator. logger and m may be nil.
func New(st *state.Store, svc remote.Service, viewer Viewer, logger *zap.Logger, m *metrics.Metrics) *Orchestrator {
	return &Orchestrator{st: st, svc: svc, viewer: viewer, logger: logging.OrGlobal(logger), metrics: m}
}

// Optimize runs one optimization. It refuses with state.ErrBusy while another is running
// and with state.ErrModalActive while an overlay is open. The busy indicator is released on
// every path. On failure the committed schedule is left untouched and the remote message
// is posted verbatim.
func (o *Orchestrator) Optimize(ctx context.Context) (remote.OptimizeResult, error) {
	busy, err := o.st.AcquireBusy()
	if err != nil {
		return remote.OptimizeResult{}, err
	}
	defer busy.Release()

	res, err := o.svc.Optimize(ctx)
	if err != nil {
		o.metrics.Optimized("failure")
		o.logger.Warn("Optimization failed", zap.Error(err))
		o.st.Notify(state.LevelError, "Failed to optimize schedule: "+message(err))
		return remote.OptimizeResult{}, fmt.Errorf("optimize: %w", err)
	}

	if res.MultiStrategy() {
		o.st.CommitStrategies(res.Strategies, res.TotalPatches)
		o.viewer.ShowStrategies(res.Strategies, res.TotalPatches)
		o.metrics.Optimized("strategies")
	} else {
		o.st.CommitSchedule(res.Schedule)
		o.viewer.ShowSchedule(res.Schedule)
		o.metrics.Optimized("schedule")
	}
	o.logger.Info("Optimization complete",
		zap.Int("items", len(res.Schedule)),
		zap.Int("strategies", len(res.Strategies)))

	if err := busy.ReleaseOpening(state.ModalRecommendations); err != nil {
		o.logger.Warn("Open recommendations failed", zap.Error(err))
	}
	return res, nil
}

func message(err error) string {
	var apiErr *remote.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
