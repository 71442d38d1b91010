// Package tui is the interactive terminal dashboard.
package tui

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/rcliao/patchdash/internal/loader"
	"github.com/rcliao/patchdash/internal/logging"
	"github.com/rcliao/patchdash/internal/modal"
	"github.com/rcliao/patchdash/internal/remote"
	"github.com/rcliao/patchdash/internal/state"
)

// Optimizer runs an optimization.
type Optimizer interface {
	Optimize(ctx context.Context) (remote.OptimizeResult, error)
}

// Deps are the components the dashboard drives.
type Deps struct {
	Store     *state.Store
	Loader    *loader.Loader
	Editor    *modal.PatchEditor
	Chat      *modal.ChatSession
	Viewer    *modal.RecommendationsViewer
	Optimizer Optimizer
	// Latency, if set, reports the smoothed remote call latency for the status bar.
	Latency func() time.Duration
	Logger  *zap.Logger
}

// Options tune the dashboard.
type Options struct {
	Locale string
	// Refresh is a cron spec for periodic reloads; empty disables it.
	Refresh string
}

const (
	fieldName = iota
	fieldDuration
	fieldPriority
	fieldMinCrew
	fieldNotes
	fieldUrgent
	fieldCount
)

var fieldLabels = [fieldCount]string{"Name", "Duration (h)", "Priority (1-5)", "Min crew", "Notes", "Urgent"}

// Model is the bubbletea model.
type Model struct {
	ctx    context.Context
	d      Deps
	opts   Options
	logger *zap.Logger

	width, height int
	selected      int
	loading       bool
	optimizing    bool
	submitting    bool

	spinner   spinner.Model
	chatInput textinput.Model
	fields    [fieldNames]textinput.Model
	urgent    bool
	focus     int
	overlay   viewport.Model
}

const fieldNames = fieldUrgent

// New creates the model. ctx bounds every remote call started from the dashboard.
func New(ctx context.Context, d Deps, opts Options) Model {
	spin := spinner.New()
	spin.Spinner = spinner.MiniDot
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#F6AE2D"))

	in := textinput.New()
	in.Placeholder = "Ask about the schedule..."
	in.CharLimit = 500

	m := Model{
		ctx:       ctx,
		d:         d,
		opts:      opts,
		logger:    logging.OrGlobal(d.Logger),
		spinner:   spin,
		chatInput: in,
		overlay:   viewport.New(80, 20),
		loading:   true,
	}
	for i := range m.fields {
		f := textinput.New()
		f.Prompt = ""
		f.CharLimit = 200
		m.fields[i] = f
	}
	return m
}

// Init starts the first load.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, loadCmd(m.ctx, m.d.Loader))
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.overlay.Width = max(msg.Width-4, 20)
		m.overlay.Height = max(msg.Height-6, 5)
		m.chatInput.Width = max(msg.Width-8, 10)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loadedMsg:
		m.loading = false
		m.clampSelection()
		return m, nil

	case refreshMsg:
		if m.loading {
			return m, nil
		}
		m.loading = true
		return m, loadCmd(m.ctx, m.d.Loader)

	case optimizedMsg:
		m.optimizing = false
		if msg.err != nil {
			m.logger.Debug("Optimize from dashboard failed", zap.Error(msg.err))
			return m, nil
		}
		m.overlay.GotoTop()
		return m, nil

	case submittedMsg:
		m.submitting = false
		if msg.err == nil {
			m.clampSelection()
		}
		return m, nil

	case chatReplyMsg:
		m.d.Chat.CompleteSend(msg.pending, msg.reply, msg.err)
		m.overlay.GotoBottom()
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.d.Store.Snapshot().ActiveModal {
		case state.ModalPatchEditor:
			return m.updateEditor(msg)
		case state.ModalChat:
			return m.updateChat(msg)
		case state.ModalRecommendations:
			return m.updateRecommendations(msg)
		}
		return m.updateDashboard(msg)
	}
	return m, nil
}

func (m *Model) clampSelection() {
	n := len(m.d.Store.Snapshot().Patches)
	if m.selected >= n {
		m.selected = n - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func (m Model) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	snap := m.d.Store.Snapshot()
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "left", "h":
		m.d.Store.ShiftDay(-1)
	case "right", "l":
		m.d.Store.ShiftDay(1)
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
	case "down", "j":
		if m.selected < len(snap.Patches)-1 {
			m.selected++
		}
	case "enter":
		if m.selected < len(snap.Patches) {
			if err := m.d.Editor.OpenEdit(m.ctx, snap.Patches[m.selected]); err != nil {
				m.d.Store.Notify(state.LevelError, err.Error())
				return m, nil
			}
			m.loadForm()
		}
	case "a", "+":
		if err := m.d.Editor.OpenCreate(); err != nil {
			m.d.Store.Notify(state.LevelError, err.Error())
			return m, nil
		}
		m.loadForm()
	case "o":
		if snap.Busy {
			return m, nil
		}
		m.optimizing = true
		return m, tea.Batch(m.spinner.Tick, optimizeCmd(m.ctx, m.d.Optimizer))
	case "c":
		if err := m.d.Chat.Open(); err != nil {
			m.d.Store.Notify(state.LevelError, err.Error())
			return m, nil
		}
		m.chatInput.Reset()
		return m, m.chatInput.Focus()
	case "r":
		if m.loading {
			return m, nil
		}
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, loadCmd(m.ctx, m.d.Loader))
	}
	return m, nil
}

func (m *Model) loadForm() {
	f := m.d.Editor.Form()
	values := [fieldNames]string{f.Name, "", "", "", f.Notes}
	if f.Duration > 0 {
		values[fieldDuration] = strconv.FormatFloat(f.Duration, 'f', -1, 64)
	}
	if f.Priority > 0 {
		values[fieldPriority] = strconv.Itoa(f.Priority)
	}
	if f.MinCrew > 0 {
		values[fieldMinCrew] = strconv.Itoa(f.MinCrew)
	}
	for i := range m.fields {
		m.fields[i].SetValue(values[i])
		m.fields[i].Blur()
	}
	m.urgent = f.Urgent
	m.focus = fieldName
	if m.d.Editor.Mode() == modal.EditorEditing {
		m.focus = fieldNotes
	}
	m.fields[m.focus].Focus()
}

// readForm parses the inputs. Unparseable numbers become zero and fail validation.
func (m Model) readForm() modal.Form {
	duration, _ := strconv.ParseFloat(strings.TrimSpace(m.fields[fieldDuration].Value()), 64)
	priority, _ := strconv.Atoi(strings.TrimSpace(m.fields[fieldPriority].Value()))
	minCrew, _ := strconv.Atoi(strings.TrimSpace(m.fields[fieldMinCrew].Value()))
	return modal.Form{
		Name:     m.fields[fieldName].Value(),
		Duration: duration,
		Priority: priority,
		MinCrew:  minCrew,
		Notes:    m.fields[fieldNotes].Value(),
		Urgent:   m.urgent,
	}
}

func (m *Model) setFocus(i int) {
	if m.focus < fieldNames {
		m.fields[m.focus].Blur()
	}
	m.focus = (i + fieldCount) % fieldCount
	if m.focus < fieldNames {
		m.fields[m.focus].Focus()
	}
}

func (m Model) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.d.Editor.Close()
		return m, nil
	case "tab", "down":
		m.setFocus(m.focus + 1)
		return m, nil
	case "shift+tab", "up":
		m.setFocus(m.focus - 1)
		return m, nil
	case " ":
		if m.focus == fieldUrgent {
			m.urgent = !m.urgent
			return m, nil
		}
	case "ctrl+s", "enter":
		if m.submitting {
			return m, nil
		}
		if err := m.d.Editor.SetForm(m.readForm()); err != nil {
			return m, nil
		}
		m.submitting = true
		return m, tea.Batch(m.spinner.Tick, submitCmd(m.ctx, m.d.Editor))
	}

	if m.focus >= fieldNames {
		return m, nil
	}
	if m.d.Editor.Mode() == modal.EditorEditing && m.focus != fieldNotes {
		return m, nil
	}
	var cmd tea.Cmd
	m.fields[m.focus], cmd = m.fields[m.focus].Update(msg)
	return m, cmd
}

func (m Model) updateChat(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.d.Chat.Close()
		m.chatInput.Blur()
		return m, nil
	case "enter":
		p, ok, err := m.d.Chat.BeginSend(m.chatInput.Value())
		if err != nil || !ok {
			return m, nil
		}
		m.chatInput.Reset()
		m.overlay.GotoBottom()
		return m, tea.Batch(m.spinner.Tick, chatCmd(m.ctx, m.d.Chat, p))
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.overlay, cmd = m.overlay.Update(msg)
		return m, cmd
	}
	var cmd tea.Cmd
	m.chatInput, cmd = m.chatInput.Update(msg)
	return m, cmd
}

func (m Model) updateRecommendations(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.d.Viewer.Close()
		return m, nil
	case "tab":
		m.d.Viewer.FocusNext()
		return m, nil
	case " ":
		if key := m.d.Viewer.Focused(); key != "" {
			m.d.Viewer.Toggle(key)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.overlay, cmd = m.overlay.Update(msg)
	return m, cmd
}
