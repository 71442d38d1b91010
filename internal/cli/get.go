package cli

import (
	"strconv"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "history [patch-id]",
		Short: "Show every version of a patch's notes",
		Args:  cobra.ExactArgs(1),
		Run:   runHistory,
	}

	notesCmd.AddCommand(cmd)
}

func runHistory(cmd *cobra.Command, args []string) {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		exitErr("history", err)
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	versions, err := s.History(commandContext(cmd), id)
	if err != nil {
		exitErr("history", err)
	}

	if jsonOutput() {
		printJSON(versions)
		return
	}
	printAnnotations(versions)
}
