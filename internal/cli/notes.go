package cli

import (
	"github.com/spf13/cobra"
)

var notesCmd = &cobra.Command{
	Use:   "notes",
	Short: "Manage local patch annotations",
	Long:  "Inspect and maintain the local annotation database written by the patch editor.",
}

func init() {
	RootCmd.AddCommand(notesCmd)
}
