package modal

import (
	"maps"
	"slices"
	"sync"

	"github.com/rcliao/patchdash/internal/metrics"
	"github.com/rcliao/patchdash/internal/model"
	"github.com/rcliao/patchdash/internal/render"
	"github.com/rcliao/patchdash/internal/state"
)

// RecommendationsViewer shows an optimization result: one schedule or a set of strategies.
type RecommendationsViewer struct {
	st      *state.Store
	metrics *metrics.Metrics

	mu         sync.Mutex
	schedule   []model.ScheduleItem
	strategies map[string]model.Strategy
	total      int
	collapsed  map[string]bool
	focus      int
}

// NewRecommendationsViewer creates an empty viewer.
func NewRecommendationsViewer(st *state.Store, m *metrics.Metrics) *RecommendationsViewer {
	return &RecommendationsViewer{st: st, metrics: m, collapsed: make(map[string]bool)}
}

// ShowSchedule loads a single schedule.
func (v *RecommendationsViewer) ShowSchedule(items []model.ScheduleItem) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.schedule = slices.Clone(items)
	v.strategies = nil
	v.total = 0
	v.reset()
}

// ShowStrategies loads a set of strategies. totalPatches is the success-rate denominator.
func (v *RecommendationsViewer) ShowStrategies(strategies map[string]model.Strategy, totalPatches int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.schedule = nil
	v.strategies = maps.Clone(strategies)
	v.total = totalPatches
	v.reset()
}

func (v *RecommendationsViewer) reset() {
	v.collapsed = make(map[string]bool)
	v.focus = 0
	v.metrics.ModalOpened(string(state.ModalRecommendations))
}

// MultiStrategy reports whether strategies are shown.
func (v *RecommendationsViewer) MultiStrategy() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.strategies != nil
}

// Keys returns the displayed strategy keys in order.
func (v *RecommendationsViewer) Keys() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.keysLocked()
}

func (v *RecommendationsViewer) keysLocked() []string {
	ordered := model.OrderedStrategies(v.strategies)
	keys := make([]string, len(ordered))
	for i, s := range ordered {
		keys[i] = s.Key
	}
	return keys
}

// Toggle collapses or expands a strategy and returns its new collapsed state.
func (v *RecommendationsViewer) Toggle(key string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.strategies[key]; !ok {
		return false
	}
	v.collapsed[key] = !v.collapsed[key]
	return v.collapsed[key]
}

// FocusNext moves the focus to the next strategy and returns its key.
func (v *RecommendationsViewer) FocusNext() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	keys := v.keysLocked()
	if len(keys) == 0 {
		return ""
	}
	v.focus = (v.focus + 1) % len(keys)
	return keys[v.focus]
}

// Focused returns the focused strategy key.
func (v *RecommendationsViewer) Focused() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	keys := v.keysLocked()
	if len(keys) == 0 {
		return ""
	}
	return keys[v.focus%len(keys)]
}

// Render builds the viewer's tree.
func (v *RecommendationsViewer) Render() *render.Node {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.strategies != nil {
		return render.MultiStrategy(v.strategies, v.total, v.collapsed)
	}
	return render.Recommendations(v.schedule)
}

// Close hides the overlay.
func (v *RecommendationsViewer) Close() bool {
	return v.st.CloseModal(state.ModalRecommendations)
}
