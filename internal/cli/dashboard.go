package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/patchdash/internal/render"
)

func init() {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Print the dashboard once",
		Long:  "Load every collection and print the dashboard. Collections that fail to load are reported on stderr.",
		Run:   runDashboard,
	}

	cmd.Flags().Int("day", -1, "Day to chart, 0 (Monday) to 6 (Sunday); default from config")
	cmd.Flags().IntP("width", "w", 100, "Output width")

	RootCmd.AddCommand(cmd)
}

func runDashboard(cmd *cobra.Command, args []string) {
	day, _ := cmd.Flags().GetInt("day")
	width, _ := cmd.Flags().GetInt("width")

	a := openApp()
	defer a.Close()

	if day >= 0 {
		if err := a.store.SelectDay(day); err != nil {
			exitErr("dashboard", err)
		}
	}

	rep := a.loader.LoadAll(commandContext(cmd))
	snap := a.store.Snapshot()
	if !rep.OK() {
		if n, ok := snap.LastNotice(); ok {
			fmt.Fprintln(os.Stderr, n.Message)
		}
	}

	tree := render.Dashboard(snap, render.DashboardOptions{Locale: cfg.UI.Locale, SelectedPatch: -1})
	if jsonOutput() {
		printJSON(tree)
	} else {
		fmt.Println(render.Paint(tree, width))
	}
	if len(rep.Committed) == 0 && !rep.OK() {
		os.Exit(1)
	}
}
