package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/amterp/ra"
)

func registerList(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("list")
	cmd.SetDescription("List slides")

	ctx.ListJson, _ = ra.NewBool("json").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Output as JSON").
		Register(cmd)

	ctx.ListUsed, _ = parent.RegisterCmd(cmd)
}

func runList(jsonOutput bool) {
	app := mustApp(false)
	finish(app, listSlides(app, os.Stdout, jsonOutput))
}

// listSlides prints one line per slide followed by the status line.
func listSlides(app *App, w io.Writer, jsonOutput bool) error {
	snap := app.State.Snapshot()

	if jsonOutput {
		return writeJson(w, NewListOutput(snap))
	}

	for i, s := range snap.Slides {
		fmt.Fprintf(w, "%s%3d. %s %s\n", RenderCurrentMarker(i == snap.CurrentSlideIndex), i+1, s.Title, RenderID(s.ID))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, RenderMuted(snap.StatusLine()))
	return nil
}
