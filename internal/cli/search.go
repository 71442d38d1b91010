package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/patchdash/internal/annotations"
)

func init() {
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search annotations by keyword",
		Long:  "Search the latest notes and patch names for matching text.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runSearch,
	}

	cmd.Flags().IntP("limit", "l", 20, "Max results")

	notesCmd.AddCommand(cmd)
}

func runSearch(cmd *cobra.Command, args []string) {
	limit, _ := cmd.Flags().GetInt("limit")
	query := strings.Join(args, " ")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	results, err := s.Search(commandContext(cmd), annotations.SearchParams{
		Query: query,
		Limit: limit,
	})
	if err != nil {
		exitErr("search", err)
	}

	if jsonOutput() {
		if results == nil {
			results = []annotations.Annotation{}
		}
		printJSON(results)
		return
	}
	printAnnotations(results)
}
