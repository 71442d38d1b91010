package render

import (
	"fmt"
	"math"
	"strconv"

	"github.com/rcliao/patchdash/internal/model"
)

// NetworkLoadChart renders one bar per sample of day, in source order. The largest load
// maps to height 100. An empty subset yields a chart without bars.
func NetworkLoadChart(samples []model.NetworkLoadSample, day int) *Node {
	chart := node(KindChart, "").set("day", strconv.Itoa(day))

	var dayLoads []model.NetworkLoadSample
	maxLoad := 0.0
	for _, s := range samples {
		if s.DayNumber != day {
			continue
		}
		dayLoads = append(dayLoads, s)
		maxLoad = math.Max(maxLoad, s.LoadKW)
	}
	if len(dayLoads) == 0 {
		return chart
	}

	for _, s := range dayLoads {
		kw := roundHalfUp(s.LoadKW)
		bar := &Node{Kind: KindBar, Text: fmt.Sprintf("%dh", s.Hour), Value: barHeight(s.LoadKW, maxLoad)}
		bar.set("hour", strconv.Itoa(s.Hour)).
			set("kw", fmt.Sprintf("%.0f", kw)).
			set("title", fmt.Sprintf("%s %d:00 - %.0f kW", s.DayOfWeek, s.Hour, kw))
		if s.Favorable() {
			bar.set("favorable", "true")
		}
		chart.add(bar)
	}
	return chart
}

// barHeight scales load to 0..100. The peak maps to exactly 100.
func barHeight(load, maxLoad float64) float64 {
	switch {
	case maxLoad <= 0:
		return 0
	case load >= maxLoad:
		return 100
	}
	return load * 100 / maxLoad
}
