package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rcliao/patchdash/internal/tui"
)

func init() {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Open the interactive dashboard",
		Run:   runUI,
	}

	cmd.Flags().String("refresh", "", "Cron spec for background reloads, e.g. \"@every 1m\"")
	v.BindPFlag("ui.refresh", cmd.Flags().Lookup("refresh"))

	RootCmd.AddCommand(cmd)
}

func runUI(cmd *cobra.Command, args []string) {
	a := openApp()
	defer a.Close()
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Metrics.Addr != "" {
		go func() {
			if err := a.metrics.Serve(ctx, cfg.Metrics.Addr); err != nil {
				logger.Warn("Metrics endpoint stopped", zap.Error(err))
			}
		}()
	}

	logger.Info("Dashboard started", zap.String("api", cfg.API.URL), zap.String("session", a.chat.ID()))
	err := tui.Run(ctx, tui.Deps{
		Store:     a.store,
		Loader:    a.loader,
		Editor:    a.editor,
		Chat:      a.chat,
		Viewer:    a.viewer,
		Optimizer: a.optimizer,
		Latency:   a.client.AvgLatency,
		Logger:    logger,
	}, tui.Options{
		Locale:  cfg.UI.Locale,
		Refresh: cfg.UI.Refresh,
	})
	if err != nil && ctx.Err() == nil {
		exitErr("ui", err)
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
