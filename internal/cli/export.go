package cli

import (
	"io"
	"os"

	"github.com/amterp/ra"
	"github.com/amterp/webslide/internal/render"
)

func registerExport(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("export")
	cmd.SetDescription("Export the deck as JSON or a standalone HTML page")

	ctx.ExportFile, _ = ra.NewString("file").
		SetOptional(true).
		SetUsage("Output file (defaults to stdout)").
		Register(cmd)

	ctx.ExportHTML, _ = ra.NewBool("html").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Export a standalone HTML page instead of JSON").
		Register(cmd)

	ctx.ExportUsed, _ = parent.RegisterCmd(cmd)
}

func runExport(file string, asHTML bool) {
	app := mustApp(false)

	if file == "" || file == "-" {
		finish(app, exportDeck(app, os.Stdout, asHTML))
		return
	}

	f, err := os.Create(file)
	if err != nil {
		finish(app, err)
		return
	}
	err = exportDeck(app, f, asHTML)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		PrintSuccess("Exported %d slides to %s", app.State.Len(), file)
	}
	finish(app, err)
}

func exportDeck(app *App, w io.Writer, asHTML bool) error {
	var text string
	var err error
	if asHTML {
		text, err = render.DeckDocument(app.State.Snapshot())
	} else {
		text, err = app.State.ExportPresentation()
	}
	if err != nil {
		return err
	}

	_, err = io.WriteString(w, text)
	return err
}
