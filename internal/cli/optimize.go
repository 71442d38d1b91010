package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/patchdash/internal/render"
)

func init() {
	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Run the schedule optimizer and print its recommendations",
		Run:   runOptimize,
	}

	cmd.Flags().StringSlice("collapse", nil, "Strategy keys to collapse in multi-strategy output")
	cmd.Flags().IntP("width", "w", 100, "Output width")

	RootCmd.AddCommand(cmd)
}

func runOptimize(cmd *cobra.Command, args []string) {
	collapse, _ := cmd.Flags().GetStringSlice("collapse")
	width, _ := cmd.Flags().GetInt("width")

	a := openApp()
	defer a.Close()

	res, err := a.optimizer.Optimize(commandContext(cmd))
	if err != nil {
		exitErr("optimize", err)
	}

	if jsonOutput() {
		printJSON(res)
		return
	}
	for _, key := range collapse {
		a.viewer.Toggle(key)
	}
	if res.Message != "" {
		fmt.Println(res.Message)
	}
	fmt.Println(render.Paint(a.viewer.Render(), width))
}
