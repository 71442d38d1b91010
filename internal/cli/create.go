package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/patchdash/internal/modal"
)

func init() {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a patch to the backlog",
		Run:   runCreate,
	}

	cmd.Flags().StringP("name", "n", "", "Patch name (required)")
	cmd.Flags().Float64("duration", 0, "Duration in hours (required)")
	cmd.Flags().IntP("priority", "p", 3, "Priority 1-5")
	cmd.Flags().Int("min-crew", 1, "Minimum crew size")
	cmd.Flags().String("notes", "", "Notes")
	cmd.Flags().Bool("urgent", false, "Mark urgent (forces priority 5)")

	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("duration")

	patchCmd.AddCommand(cmd)
}

func runCreate(cmd *cobra.Command, args []string) {
	name, _ := cmd.Flags().GetString("name")
	duration, _ := cmd.Flags().GetFloat64("duration")
	priority, _ := cmd.Flags().GetInt("priority")
	minCrew, _ := cmd.Flags().GetInt("min-crew")
	notes, _ := cmd.Flags().GetString("notes")
	urgent, _ := cmd.Flags().GetBool("urgent")

	a := openApp()
	defer a.Close()

	if err := a.editor.OpenCreate(); err != nil {
		exitErr("create", err)
	}
	a.editor.SetForm(modal.Form{
		Name:     name,
		Duration: duration,
		Priority: priority,
		MinCrew:  minCrew,
		Notes:    notes,
		Urgent:   urgent,
	})
	res, err := a.editor.Submit(commandContext(cmd))
	if err != nil {
		exitErr("create", err)
	}

	if jsonOutput() {
		printJSON(res.Patch)
		return
	}
	printNotice(a)
}
