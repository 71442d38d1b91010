package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "annotate [patch-id] [notes]",
		Short: "Save local notes or the urgent flag for a patch",
		Long:  "Save local notes for a patch. Notes can follow the id or be piped via stdin. Annotations are versioned and never sent to the scheduling service.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runAnnotate,
	}

	cmd.Flags().Bool("urgent", false, "Mark the patch urgent")

	patchCmd.AddCommand(cmd)
}

func runAnnotate(cmd *cobra.Command, args []string) {
	urgent, _ := cmd.Flags().GetBool("urgent")

	var notes string
	haveNotes := len(args) > 1
	if haveNotes {
		notes = strings.Join(args[1:], " ")
	} else {
		stat, _ := os.Stdin.Stat()
		if (stat.Mode() & os.ModeCharDevice) == 0 {
			b, err := io.ReadAll(os.Stdin)
			if err != nil {
				exitErr("read stdin", err)
			}
			notes, haveNotes = string(b), true
		}
	}
	if !haveNotes && !cmd.Flags().Changed("urgent") {
		exitErr("annotate", fmt.Errorf("notes or --urgent is required"))
	}

	a := openApp()
	defer a.Close()

	ctx := commandContext(cmd)
	p, err := findPatch(ctx, a, args[0])
	if err != nil {
		exitErr("annotate", err)
	}
	if err := a.editor.OpenEdit(ctx, p); err != nil {
		exitErr("annotate", err)
	}

	form := a.editor.Form()
	if haveNotes {
		form.Notes = strings.TrimSpace(notes)
	}
	if cmd.Flags().Changed("urgent") {
		form.Urgent = urgent
	}
	a.editor.SetForm(form)

	res, err := a.editor.Submit(ctx)
	if err != nil {
		exitErr("annotate", err)
	}

	if jsonOutput() {
		printJSON(res.Annotation)
		return
	}
	printNotice(a)
}

func printNotice(a *app) {
	if n, ok := a.store.Snapshot().LastNotice(); ok {
		fmt.Println(n.Message)
	}
}
