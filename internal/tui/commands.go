package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/robfig/cron/v3"

	"github.com/rcliao/patchdash/internal/loader"
	"github.com/rcliao/patchdash/internal/modal"
	"github.com/rcliao/patchdash/internal/remote"
)

type loadedMsg struct {
	report loader.Report
}

type optimizedMsg struct {
	err error
}

type submittedMsg struct {
	res modal.SubmitResult
	err error
}

type chatReplyMsg struct {
	pending modal.Pending
	reply   remote.ChatReply
	err     error
}

type refreshMsg struct{}

func loadCmd(ctx context.Context, l *loader.Loader) tea.Cmd {
	return func() tea.Msg {
		return loadedMsg{report: l.LoadAll(ctx)}
	}
}

func optimizeCmd(ctx context.Context, o Optimizer) tea.Cmd {
	return func() tea.Msg {
		_, err := o.Optimize(ctx)
		return optimizedMsg{err: err}
	}
}

func submitCmd(ctx context.Context, e *modal.PatchEditor) tea.Cmd {
	return func() tea.Msg {
		res, err := e.Submit(ctx)
		return submittedMsg{res: res, err: err}
	}
}

func chatCmd(ctx context.Context, c *modal.ChatSession, p modal.Pending) tea.Cmd {
	return func() tea.Msg {
		reply, err := c.Exchange(ctx, p)
		return chatReplyMsg{pending: p, reply: reply, err: err}
	}
}

// Run starts the dashboard and blocks until the user quits or ctx is done.
func Run(ctx context.Context, d Deps, opts Options) error {
	m := New(ctx, d, opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	if opts.Refresh != "" {
		c := cron.New()
		if _, err := c.AddFunc(opts.Refresh, func() { p.Send(refreshMsg{}) }); err != nil {
			return fmt.Errorf("refresh schedule %q: %w", opts.Refresh, err)
		}
		c.Start()
		defer c.Stop()
	}

	_, err := p.Run()
	return err
}
