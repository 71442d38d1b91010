package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/patchdash/internal/model"
	"github.com/rcliao/patchdash/internal/render"
)

func init() {
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Print one day's network load",
		Run:   runChart,
	}

	cmd.Flags().Int("day", -1, "Day, 0 (Monday) to 6 (Sunday); default from config")

	RootCmd.AddCommand(cmd)
}

func runChart(cmd *cobra.Command, args []string) {
	day, _ := cmd.Flags().GetInt("day")
	if day < 0 {
		day = cfg.UI.Day
	}
	if !model.ValidDay(day) {
		exitErr("chart", fmt.Errorf("day must be 0-6, got %d", day))
	}

	a := openApp()
	defer a.Close()

	samples, err := a.client.NetworkLoad(commandContext(cmd))
	if err != nil {
		exitErr("load network data", err)
	}

	chart := render.NetworkLoadChart(samples, day)
	chart.Text = "Network Load - " + model.LocalizedDayName(day, cfg.UI.Locale)
	if jsonOutput() {
		printJSON(chart)
		return
	}
	fmt.Println(render.Paint(chart, 0))
}
