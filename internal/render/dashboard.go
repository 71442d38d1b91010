package render

import (
	"github.com/rcliao/patchdash/internal/model"
	"github.com/rcliao/patchdash/internal/state"
)

// DashboardOptions controls the parts of the dashboard that are not in the state.
type DashboardOptions struct {
	Locale        string
	SelectedPatch int
}

// Dashboard composes the main screen from a snapshot.
func Dashboard(snap state.Snapshot, opts DashboardOptions) *Node {
	dayName := model.DayName(snap.SelectedDay)
	if opts.Locale != "" {
		dayName = model.LocalizedDayName(snap.SelectedDay, opts.Locale)
	}

	chart := NetworkLoadChart(snap.NetworkLoads, snap.SelectedDay)
	chart.Text = "Network Load - " + dayName

	panel := node(KindPanel, "Patch Scheduler",
		StatsPanel(snap.Stats, snap.BestHour),
		chart,
		CrewList(snap.Crew),
		PatchList(snap.Patches, opts.SelectedPatch),
	)
	if snap.Optimized && snap.Strategies == nil {
		panel.add(ScheduleList(snap.Schedule))
	}
	return panel
}
