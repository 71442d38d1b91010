package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rcliao/patchdash/internal/model"
)

var (
	accent    = lipgloss.Color("#50E3C2")
	highlight = lipgloss.Color("#F6AE2D")
	muted     = lipgloss.Color("#8CA1AE")
	warning   = lipgloss.Color("#FF6B6B")
	favorable = lipgloss.Color("#39FF14")
	loadColor = lipgloss.Color("#2D9CDB")

	headingStyle  = lipgloss.NewStyle().Bold(true).Foreground(accent)
	sectionStyle  = lipgloss.NewStyle().Bold(true).Foreground(highlight)
	mutedStyle    = lipgloss.NewStyle().Foreground(muted)
	emptyStyle    = lipgloss.NewStyle().Foreground(muted).Italic(true)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(highlight)
	tagStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#05090C")).Background(highlight).Padding(0, 1)
	warnTagStyle  = tagStyle.Background(warning)
	statStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(muted).Padding(0, 1).Align(lipgloss.Center)
	cardStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accent).Padding(0, 1)
	warnCardStyle = cardStyle.BorderForeground(warning)
	favorableBar  = lipgloss.NewStyle().Foreground(favorable)
	loadBar       = lipgloss.NewStyle().Foreground(loadColor)
)

const chartRows = 8

// Paint renders a tree as terminal text. width bounds cards; zero means unbounded.
func Paint(n *Node, width int) string {
	if n == nil {
		return ""
	}
	return paint(n, width)
}

func paint(n *Node, width int) string {
	switch n.Kind {
	case KindPanel:
		return paintBlock(headingStyle.Render(n.Text), n.Children, width)
	case KindHeading:
		return headingStyle.Render(n.Text)
	case KindText:
		return n.Text
	case KindDetail:
		return mutedStyle.Render(n.Text)
	case KindEmpty:
		return paintBlock(emptyStyle.Render(n.Text), n.Children, width)
	case KindChart:
		return paintChart(n)
	case KindList:
		return paintList(n, width)
	case KindItem:
		return paintItem(n)
	case KindSummary:
		stats := make([]string, len(n.Children))
		for i, c := range n.Children {
			stats[i] = paint(c, width)
		}
		return lipgloss.JoinHorizontal(lipgloss.Top, stats...)
	case KindStat:
		return statStyle.Render(lipgloss.JoinVertical(lipgloss.Center,
			lipgloss.NewStyle().Bold(true).Render(n.Text), mutedStyle.Render(n.Attr("label"))))
	case KindSection:
		title := sectionStyle.Render(n.Text)
		if n.Attr("status") == model.StatusUnscheduled {
			title = sectionStyle.Foreground(warning).Render(n.Text)
		}
		return paintBlock(title, n.Children, width)
	case KindStrategy:
		marker := "▾"
		if n.Attr("collapsed") == "true" {
			marker = "▸"
		}
		return paintBlock(sectionStyle.Render(marker+" "+n.Text), n.Children, width)
	case KindCard:
		return paintCard(n, width)
	case KindTag:
		if n.Text == "UNSCHEDULED" {
			return warnTagStyle.Render(n.Text)
		}
		return tagStyle.Render(n.Text)
	}
	return n.Text
}

func paintBlock(title string, children []*Node, width int) string {
	parts := make([]string, 0, len(children)+1)
	if title != "" {
		parts = append(parts, title)
	}
	for _, c := range children {
		parts = append(parts, paint(c, width))
	}
	return strings.Join(parts, "\n")
}

func paintList(n *Node, width int) string {
	lines := []string{sectionStyle.Render(n.Text)}
	for _, c := range n.Children {
		if c.Kind != KindItem {
			lines = append(lines, paint(c, width))
			continue
		}
		prefix := "  • "
		line := paintItem(c)
		if c.Attr("selected") == "true" {
			prefix = selectedStyle.Render("  › ")
		}
		lines = append(lines, prefix+line)
	}
	return strings.Join(lines, "\n")
}

func paintItem(n *Node) string {
	parts := []string{n.Text}
	if n.Attr("selected") == "true" {
		parts[0] = selectedStyle.Render(n.Text)
	}
	if n.Attr("favorable") == "true" {
		parts[0] = favorableBar.Render(n.Text)
	}
	for _, c := range n.Children {
		parts = append(parts, paint(c, 0))
	}
	if n.Attr("urgent") == "true" {
		parts = append(parts, warnTagStyle.Render("URGENT"))
	}
	return strings.Join(parts, "  ")
}

func paintCard(n *Node, width int) string {
	header := []string{lipgloss.NewStyle().Bold(true).Render(n.Text)}
	var body []string
	for _, c := range n.Children {
		if c.Kind == KindTag {
			header = append(header, paint(c, width))
			continue
		}
		body = append(body, paint(c, width))
	}
	content := strings.Join(append([]string{strings.Join(header, " ")}, body...), "\n")

	style := cardStyle
	if n.Attr("status") == model.StatusUnscheduled {
		style = warnCardStyle
	}
	if width > 4 {
		style = style.Width(width - 2)
	}
	return style.Render(content)
}

func paintChart(n *Node) string {
	title := headingStyle.Render(n.Text)
	if len(n.Children) == 0 {
		return paintBlock(title, []*Node{{Kind: KindEmpty, Text: "No load data for this day."}}, 0)
	}

	heights := make([]int, len(n.Children))
	for i, bar := range n.Children {
		h := int(roundHalfUp(bar.Value * chartRows / 100))
		if h == 0 && bar.Value > 0 {
			h = 1
		}
		heights[i] = h
	}

	lines := []string{title}
	for row := chartRows; row >= 1; row-- {
		var b strings.Builder
		for i, bar := range n.Children {
			if i > 0 {
				b.WriteString(" ")
			}
			if heights[i] < row {
				b.WriteString("  ")
				continue
			}
			if bar.Attr("favorable") == "true" {
				b.WriteString(favorableBar.Render("██"))
			} else {
				b.WriteString(loadBar.Render("██"))
			}
		}
		lines = append(lines, b.String())
	}

	var labels strings.Builder
	for i, bar := range n.Children {
		if i > 0 {
			labels.WriteString(" ")
		}
		labels.WriteString(fmt.Sprintf("%2s", bar.Attr("hour")))
	}
	lines = append(lines, mutedStyle.Render(labels.String()))
	lines = append(lines, favorableBar.Render("██")+mutedStyle.Render(fmt.Sprintf(" below %g kW", model.FavorableLoadKW)))
	return strings.Join(lines, "\n")
}
