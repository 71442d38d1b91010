package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/patchdash/internal/annotations"
)

func init() {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the latest annotation of each patch",
		Run:   runList,
	}

	cmd.Flags().Bool("urgent", false, "Only urgent patches")
	cmd.Flags().IntP("limit", "l", 20, "Max results")
	cmd.Flags().Bool("ids-only", false, "Only output patch ids")

	notesCmd.AddCommand(cmd)
}

func runList(cmd *cobra.Command, args []string) {
	urgentOnly, _ := cmd.Flags().GetBool("urgent")
	limit, _ := cmd.Flags().GetInt("limit")
	idsOnly, _ := cmd.Flags().GetBool("ids-only")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	notes, err := s.List(commandContext(cmd), annotations.ListParams{
		UrgentOnly: urgentOnly,
		Limit:      limit,
	})
	if err != nil {
		exitErr("list", err)
	}

	if idsOnly {
		for _, n := range notes {
			fmt.Println(n.PatchID)
		}
		return
	}

	if jsonOutput() {
		printJSON(notes)
		return
	}
	printAnnotations(notes)
}

func printAnnotations(notes []annotations.Annotation) {
	if len(notes) == 0 {
		fmt.Println("No annotations")
		return
	}
	for _, n := range notes {
		urgent := ""
		if n.Urgent {
			urgent = " [urgent]"
		}
		fmt.Printf("#%d %s v%d%s (%s, %s)\n    %s\n",
			n.PatchID, n.PatchName, n.Version, urgent, n.Author, n.CreatedAt.Local().Format("2006-01-02 15:04"), n.Notes)
	}
}
