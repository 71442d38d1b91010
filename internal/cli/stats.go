package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show annotation database statistics",
		Run:   runStats,
	}

	notesCmd.AddCommand(cmd)
}

func runStats(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	stats, err := s.Stats(commandContext(cmd), cfg.DB.Path)
	if err != nil {
		exitErr("stats", err)
	}

	if jsonOutput() {
		printJSON(stats)
		return
	}
	fmt.Printf("Database:          %s (%d bytes)\n", stats.DBPath, stats.DBSizeBytes)
	fmt.Printf("Annotated patches: %d (%d urgent)\n", stats.AnnotatedPatches, stats.UrgentPatches)
	fmt.Printf("Versions:          %d (%d live)\n", stats.TotalVersions, stats.ActiveVersions)
}
