package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export annotations as JSON",
		Long:  "Export every live annotation version as a JSON array, in patch and version order.",
		Run:   runExport,
	}

	notesCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	all, err := s.ExportAll(commandContext(cmd))
	if err != nil {
		exitErr("export", err)
	}

	printJSON(all)
}
