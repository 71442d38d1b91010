package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rcliao/patchdash/internal/model"
)

// Summary is the derived statistics block of a schedule.
type Summary struct {
	Scheduled   int
	Unscheduled int
	AvgScore    int
	SuccessRate int
}

// Summarize computes the summary of items. total is the denominator of the success rate;
// when it is not positive the schedule length is used.
func Summarize(items []model.ScheduleItem, total int) Summary {
	var s Summary
	var scoreSum float64
	for _, it := range items {
		if it.Scheduled() {
			s.Scheduled++
			scoreSum += it.Score
		} else {
			s.Unscheduled++
		}
	}
	if s.Scheduled > 0 {
		s.AvgScore = int(roundHalfUp(scoreSum / float64(s.Scheduled)))
	}
	if total <= 0 {
		total = len(items)
	}
	if total > 0 {
		s.SuccessRate = int(roundHalfUp(float64(s.Scheduled) / float64(total) * 100))
	}
	return s
}

func roundHalfUp(x float64) float64 { return math.Floor(x + 0.5) }

func summaryNode(s Summary) *Node {
	stat := func(label string, v int, text string) *Node {
		return (&Node{Kind: KindStat, Text: text, Value: float64(v)}).set("label", label)
	}
	n := node(KindSummary, "",
		stat("Scheduled", s.Scheduled, strconv.Itoa(s.Scheduled)),
		stat("Unscheduled", s.Unscheduled, strconv.Itoa(s.Unscheduled)),
		stat("Avg Score", s.AvgScore, strconv.Itoa(s.AvgScore)),
		stat("Success Rate", s.SuccessRate, fmt.Sprintf("%d%%", s.SuccessRate)),
	)
	return n
}

// Recommendations renders the result of a single-schedule optimization.
func Recommendations(items []model.ScheduleItem) *Node {
	panel := node(KindPanel, "Schedule Optimization Results")
	if len(items) == 0 {
		return panel.add(node(KindEmpty, "No patches available to schedule.",
			node(KindText, "Add patches using the + button to get started.")).set("state", "no_patches"))
	}

	sum := Summarize(items, 0)
	panel.add(summaryNode(sum))

	if sum.Scheduled > 0 {
		sec := node(KindSection, "Recommended Schedule").set("status", model.StatusScheduled)
		for _, it := range items {
			if it.Scheduled() {
				sec.add(scheduledCard(it, true))
			}
		}
		panel.add(sec)
	}
	if sum.Unscheduled > 0 {
		sec := node(KindSection, "Unable to Schedule").set("status", model.StatusUnscheduled)
		for _, it := range items {
			if !it.Scheduled() {
				sec.add(unscheduledCard(it))
			}
		}
		panel.add(sec)
	}
	if sum.Scheduled == 0 {
		panel.add(node(KindEmpty, "Unable to schedule any patches at this time.",
			node(KindText, "Please check crew availability or adjust patch requirements.")).set("state", "none_scheduled"))
	}
	return panel
}

func scheduledCard(it model.ScheduleItem, full bool) *Node {
	card := node(KindCard, it.Patch.Name).set("status", model.StatusScheduled)
	if it.Classification != "" {
		card.add(node(KindTag, it.Classification).set("classification", it.Classification))
	}
	card.add(
		node(KindTag, fmt.Sprintf("Score: %.0f/100", roundHalfUp(it.Score))),
		node(KindDetail, "Time: "+timeWindow(it)),
		node(KindDetail, fmt.Sprintf("Network Load: %g kW", it.NetworkLoad)),
	)
	if full {
		card.add(
			node(KindDetail, fmt.Sprintf("Duration: %gh", it.Patch.Duration)),
			node(KindDetail, fmt.Sprintf("Priority: %d/%d", it.Patch.Priority, model.MaxPriority)),
		)
	}
	card.add(node(KindDetail, "Crew: "+strings.Join(it.AssignedCrew, ", ")))
	if !full && it.Reason != "" {
		card.add(node(KindDetail, "Reason: "+it.Reason))
	}
	return card
}

func unscheduledCard(it model.ScheduleItem) *Node {
	return node(KindCard, it.Patch.Name,
		node(KindTag, "UNSCHEDULED"),
		node(KindDetail, "Reason: "+it.ReasonOrDefault()),
		node(KindDetail, fmt.Sprintf("Duration: %gh", it.Patch.Duration)),
		node(KindDetail, fmt.Sprintf("Priority: %d/%d", it.Patch.Priority, model.MaxPriority)),
		node(KindDetail, fmt.Sprintf("Requires: %d crew members", it.Patch.MinCrew)),
	).set("status", model.StatusUnscheduled)
}

// MultiStrategy renders each strategy in display order with its own summary. Strategies
// whose key is set in collapsed render their header and summary only.
func MultiStrategy(strategies map[string]model.Strategy, totalPatches int, collapsed map[string]bool) *Node {
	panel := node(KindPanel, "Multiple Scheduling Strategies",
		node(KindText, fmt.Sprintf("Choose the strategy that best fits your needs. Total patches: %d", totalPatches)))

	ordered := model.OrderedStrategies(strategies)
	if len(ordered) == 0 {
		return panel.add(node(KindEmpty, "No strategies returned.").set("state", "no_strategies"))
	}

	for _, s := range ordered {
		sec := node(KindStrategy, strings.TrimSpace(s.Icon+" "+s.Label)).set("key", s.Key)
		if s.Description != "" {
			sec.add(node(KindText, s.Description))
		}
		sec.add(summaryNode(Summarize(s.Schedule, totalPatches)))
		if collapsed[s.Key] {
			panel.add(sec.set("collapsed", "true"))
			continue
		}

		var unscheduled []model.ScheduleItem
		for _, it := range s.Schedule {
			if it.Scheduled() {
				sec.add(scheduledCard(it, false))
			} else {
				unscheduled = append(unscheduled, it)
			}
		}
		if len(unscheduled) > 0 {
			us := node(KindSection, "Unscheduled Patches").set("status", model.StatusUnscheduled)
			for _, it := range unscheduled {
				us.add(node(KindItem, it.Patch.Name+" - "+it.ReasonOrDefault()))
			}
			sec.add(us)
		}
		if len(s.Schedule) == 0 {
			sec.add(node(KindEmpty, "No patches in this strategy."))
		}
		panel.add(sec)
	}
	return panel
}
