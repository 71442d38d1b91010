package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rcliao/patchdash/internal/model"
)

// CrewList renders the roster in source order.
func CrewList(crew []model.CrewMember) *Node {
	list := node(KindList, "Crew")
	for _, m := range crew {
		hours := make([]string, len(m.Availability))
		for i, iv := range m.Availability {
			hours[i] = iv.String()
		}
		item := node(KindItem, m.Name, node(KindDetail, "Available: "+strings.Join(hours, ", ")))
		item.set("hours", strings.Join(hours, ", "))
		if m.SkillLevel > 0 {
			item.set("skill", strconv.Itoa(m.SkillLevel))
		}
		list.add(item)
	}
	return list
}

// PatchList renders the backlog in source order. Items open the editor for their patch.
// selected is the index of the highlighted item, or -1.
func PatchList(patches []model.Patch, selected int) *Node {
	list := node(KindList, "Patches")
	for i, p := range patches {
		item := node(KindItem, p.Name,
			node(KindTag, fmt.Sprintf("Priority %d", p.Priority)).set("priority", strconv.Itoa(p.Priority)),
			node(KindDetail, fmt.Sprintf("%gh", p.Duration)),
			node(KindDetail, fmt.Sprintf("%d crew min", p.MinCrew)),
		)
		item.set("action", "edit").set("id", strconv.Itoa(p.ID))
		if p.IsUrgent() {
			item.set("urgent", "true")
		}
		if i == selected {
			item.set("selected", "true")
		}
		list.add(item)
	}
	return list
}

// ScheduleList renders the current schedule as cards in received order.
func ScheduleList(items []model.ScheduleItem) *Node {
	list := node(KindList, "Schedule")
	if len(items) == 0 {
		return list.add(node(KindEmpty, "No patches scheduled"))
	}
	for _, it := range items {
		if !it.Scheduled() {
			card := node(KindCard, it.Patch.Name,
				node(KindTag, "UNSCHEDULED").set("status", model.StatusUnscheduled),
				node(KindDetail, it.ReasonOrDefault()),
			)
			list.add(card.set("status", model.StatusUnscheduled))
			continue
		}
		card := node(KindCard, it.Patch.Name,
			node(KindTag, fmt.Sprintf("Score: %.0f", roundHalfUp(it.Score))),
			node(KindDetail, timeWindow(it)),
			node(KindDetail, fmt.Sprintf("Network Load: %.0f kW", roundHalfUp(it.NetworkLoad))),
			node(KindDetail, fmt.Sprintf("Duration: %gh", it.Patch.Duration)),
			node(KindDetail, fmt.Sprintf("Priority: %d/%d", it.Patch.Priority, model.MaxPriority)),
			node(KindDetail, "Crew: "+strings.Join(it.AssignedCrew, ", ")),
		)
		list.add(card.set("status", model.StatusScheduled))
	}
	return list
}

func timeWindow(it model.ScheduleItem) string {
	w := model.FormatHour(it.StartHour) + " - " + model.FormatHour(it.EndHour)
	if it.Day != "" {
		return it.Day + ", " + w
	}
	return w
}
