package render

import (
	"fmt"
	"strconv"

	"github.com/rcliao/patchdash/internal/model"
)

// StatsPanel renders aggregate statistics and the best patch hour. Either may be nil
// while loading.
func StatsPanel(stats *model.Stats, best *model.BestHour) *Node {
	panel := node(KindPanel, "Statistics")
	if stats == nil {
		return panel.add(node(KindEmpty, "Loading statistics..."))
	}

	low := node(KindList, "Lowest Load Hours")
	for _, h := range stats.LowLoadHours {
		low.add(node(KindItem, fmt.Sprintf("%s (%g kW)", h.Label, h.LoadKW)).set("favorable", "true"))
	}
	panel.add(low,
		(&Node{Kind: KindStat, Text: strconv.Itoa(stats.TotalCrewMembers), Value: float64(stats.TotalCrewMembers)}).set("label", "Crew Members"),
		(&Node{Kind: KindStat, Text: strconv.Itoa(stats.TotalPatches), Value: float64(stats.TotalPatches)}).set("label", "Pending Patches"),
		(&Node{Kind: KindStat, Text: strconv.Itoa(stats.HighPriorityPatches), Value: float64(stats.HighPriorityPatches)}).set("label", "High Priority"),
	)
	if best != nil {
		panel.add(node(KindText, fmt.Sprintf("Best patch time: %s (%.0f kW)", best.TimeLabel, roundHalfUp(best.LoadKW))).set("best_hour", "true"))
	}
	return panel
}
