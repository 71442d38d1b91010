package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rcliao/patchdash/internal/annotations"
	"github.com/rcliao/patchdash/internal/model"
	"github.com/rcliao/patchdash/internal/render"
)

var patchCmd = &cobra.Command{
	Use:   "patch",
	Short: "List, create and annotate patches",
}

func init() {
	list := &cobra.Command{
		Use:   "list",
		Short: "List the patch backlog with local notes",
		Run:   runPatchList,
	}

	patchCmd.AddCommand(list)
	RootCmd.AddCommand(patchCmd)
}

type annotatedPatch struct {
	model.Patch
	Annotation *annotations.Annotation `json:"annotation,omitempty"`
}

func runPatchList(cmd *cobra.Command, args []string) {
	a := openApp()
	defer a.Close()

	ctx := commandContext(cmd)
	patches, err := a.client.Patches(ctx)
	if err != nil {
		exitErr("load patches", err)
	}

	out := make([]annotatedPatch, 0, len(patches))
	for _, p := range patches {
		ap := annotatedPatch{Patch: p}
		note, err := a.notes.Latest(ctx, p.ID)
		switch {
		case err == nil:
			ap.Annotation = note
		case !errors.Is(err, annotations.ErrNotFound):
			exitErr("load notes", err)
		}
		out = append(out, ap)
	}

	if jsonOutput() {
		printJSON(out)
		return
	}
	fmt.Println(render.Paint(render.PatchList(patches, -1), 0))
	for _, ap := range out {
		if ap.Annotation == nil {
			continue
		}
		urgent := ""
		if ap.Annotation.Urgent {
			urgent = " [urgent]"
		}
		fmt.Printf("  #%d %s%s: %s\n", ap.ID, ap.Name, urgent, ap.Annotation.Notes)
	}
}

// findPatch resolves a patch id argument against the remote backlog.
func findPatch(ctx context.Context, a *app, arg string) (model.Patch, error) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return model.Patch{}, fmt.Errorf("invalid patch id %q", arg)
	}
	patches, err := a.client.Patches(ctx)
	if err != nil {
		return model.Patch{}, err
	}
	for _, p := range patches {
		if p.ID == id {
			return p, nil
		}
	}
	return model.Patch{}, fmt.Errorf("patch %d not found", id)
}
