package model

// Schedule item statuses.
const (
	StatusScheduled   = "scheduled"
	StatusUnscheduled = "unscheduled"
)

// DefaultUnscheduledReason is shown when the optimizer gives no reason.
const DefaultUnscheduledReason = "No suitable time window found"

// ScheduleItem is the optimizer's placement decision for one patch.
type ScheduleItem struct {
	Patch          Patch    `json:"patch"`
	Status         string   `json:"status"`
	StartHour      float64  `json:"start_hour"`
	EndHour        float64  `json:"end_hour"`
	Score          float64  `json:"score"`
	NetworkLoad    float64  `json:"network_load"`
	AssignedCrew   []string `json:"assigned_crew"`
	Day            string   `json:"day,omitempty"`
	Reason         string   `json:"reason,omitempty"`
	Classification string   `json:"classification,omitempty"`
}

// Scheduled reports whether the item has a concrete time window.
// Items without a status are treated as scheduled, matching older optimizer responses.
func (it ScheduleItem) Scheduled() bool {
	return it.Status != StatusUnscheduled
}

// ReasonOrDefault returns the unscheduled reason, falling back to DefaultUnscheduledReason.
func (it ScheduleItem) ReasonOrDefault() string {
	if it.Reason == "" {
		return DefaultUnscheduledReason
	}
	return it.Reason
}

// Strategy keys, in display order.
const (
	StrategyNetworkOptimized = "network_optimized"
	StrategyUrgencyFirst     = "urgency_first"
	StrategyBalanced         = "balanced"
)

// StrategyOrder is the fixed order strategies are displayed in.
var StrategyOrder = []string{StrategyNetworkOptimized, StrategyUrgencyFirst, StrategyBalanced}

// Strategy is one complete alternative schedule.
type Strategy struct {
	Key         string         `json:"key,omitempty"`
	Label       string         `json:"strategy"`
	Icon        string         `json:"icon"`
	Description string         `json:"description"`
	Schedule    []ScheduleItem `json:"schedule"`
}

// OrderedStrategies returns the strategies present in m following StrategyOrder.
// Keys outside StrategyOrder are ignored.
func OrderedStrategies(m map[string]Strategy) []Strategy {
	out := make([]Strategy, 0, len(m))
	for _, key := range StrategyOrder {
		s, ok := m[key]
		if !ok {
			continue
		}
		s.Key = key
		out = append(out, s)
	}
	return out
}
