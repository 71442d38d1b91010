package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/hako/durafmt"

	"github.com/rcliao/patchdash/internal/model"
	"github.com/rcliao/patchdash/internal/modal"
	"github.com/rcliao/patchdash/internal/render"
	"github.com/rcliao/patchdash/internal/state"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#50E3C2"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8CA1AE"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	infoStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#39FF14"))
	userStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F6AE2D"))
	labelStyle  = lipgloss.NewStyle().Width(16).Foreground(lipgloss.Color("#8CA1AE"))
	focusStyle  = labelStyle.Foreground(lipgloss.Color("#F6AE2D")).Bold(true)
	frameStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#50E3C2")).Padding(0, 1)
)

const (
	dashboardHelp       = "←/→ day • ↑/↓ select • enter edit • a add • o optimize • c chat • r reload • q quit"
	editorHelp          = "tab next field • space toggle urgent • enter save • esc cancel"
	chatHelp            = "enter send • pgup/pgdown scroll • esc close"
	recommendationsHelp = "tab next strategy • space expand/collapse • ↑/↓ scroll • esc close"
)

// View renders the screen.
func (m Model) View() string {
	snap := m.d.Store.Snapshot()
	var b strings.Builder
	b.WriteString(m.header(snap))
	b.WriteString("\n\n")

	help := dashboardHelp
	switch snap.ActiveModal {
	case state.ModalPatchEditor:
		b.WriteString(m.editorView())
		help = editorHelp
	case state.ModalChat:
		b.WriteString(m.chatView())
		help = chatHelp
	case state.ModalRecommendations:
		m.overlay.SetContent(render.Paint(m.d.Viewer.Render(), m.contentWidth()))
		b.WriteString(m.overlay.View())
		help = recommendationsHelp
	default:
		b.WriteString(render.Paint(render.Dashboard(snap, render.DashboardOptions{
			Locale:        m.opts.Locale,
			SelectedPatch: m.selected,
		}), m.contentWidth()))
	}

	b.WriteString("\n\n")
	if n, ok := snap.LastNotice(); ok {
		style := infoStyle
		if n.Level == state.LevelError {
			style = errorStyle
		}
		b.WriteString(style.Render(n.Message))
		b.WriteString("\n")
	}
	b.WriteString(statusStyle.Render(help))
	return b.String()
}

func (m Model) contentWidth() int {
	if m.width <= 0 {
		return 0
	}
	return m.width - 4
}

func (m Model) header(snap state.Snapshot) string {
	day := model.DayName(snap.SelectedDay)
	if m.opts.Locale != "" {
		day = model.LocalizedDayName(snap.SelectedDay, m.opts.Locale)
	}
	parts := []string{titleStyle.Render("Patch Scheduler"), day}

	switch {
	case m.loading:
		parts = append(parts, m.spinner.View()+" loading")
	case m.optimizing || snap.Busy:
		parts = append(parts, m.spinner.View()+" optimizing")
	case m.submitting:
		parts = append(parts, m.spinner.View()+" saving")
	case !snap.RefreshedAt.IsZero():
		parts = append(parts, "refreshed "+ago(time.Since(snap.RefreshedAt)))
	}
	if m.d.Latency != nil {
		if lat := m.d.Latency(); lat > 0 {
			parts = append(parts, fmt.Sprintf("api %s", lat.Round(time.Millisecond)))
		}
	}
	return strings.Join(parts, statusStyle.Render(" • "))
}

func ago(d time.Duration) string {
	if d < time.Second {
		return "just now"
	}
	return durafmt.Parse(d.Round(time.Second)).LimitFirstN(1).String() + " ago"
}

func (m Model) editorView() string {
	title := "Add New Patch"
	if m.d.Editor.Mode() == modal.EditorEditing {
		title = "Edit Patch: " + m.d.Editor.Patch().Name
	}
	rows := []string{titleStyle.Render(title), ""}
	for i := 0; i < fieldCount; i++ {
		label := labelStyle
		if i == m.focus {
			label = focusStyle
		}
		var value string
		if i == fieldUrgent {
			value = "[ ]"
			if m.urgent {
				value = "[x]"
			}
		} else {
			value = m.fields[i].View()
		}
		rows = append(rows, label.Render(fieldLabels[i])+value)
	}
	if m.submitting {
		rows = append(rows, "", m.spinner.View()+" saving...")
	}
	return frameStyle.Render(strings.Join(rows, "\n"))
}

func (m Model) chatView() string {
	width := m.contentWidth()
	if width <= 0 {
		width = 76
	}
	var lines []string
	for _, msg := range m.d.Chat.Messages() {
		if msg.Role == model.RoleUser {
			lines = append(lines, userStyle.Render("You: ")+msg.Text)
			continue
		}
		if msg.Pending {
			lines = append(lines, m.spinner.View()+" "+msg.Text)
			continue
		}
		lines = append(lines, render.Markdown(msg.Text, width))
	}
	m.overlay.SetContent(strings.Join(lines, "\n\n"))
	return m.overlay.View() + "\n\n" + m.chatInput.View()
}
