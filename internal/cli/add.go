package cli

import (
	"os"

	"github.com/amterp/ra"
	"github.com/amterp/webslide/internal/model"
)

func registerAdd(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("add")
	cmd.SetDescription("Append a new slide")

	ctx.AddTitle, _ = ra.NewString("title").
		SetShort("t").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Slide title (defaults to \"Slide N\")").
		Register(cmd)

	ctx.AddHTML, _ = ra.NewString("html").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Slide HTML, or @file to read it from a file").
		Register(cmd)

	ctx.AddUsed, _ = parent.RegisterCmd(cmd)
}

func runAdd(title, html string, interactive bool) {
	app := mustApp(interactive)

	slide, index, err := addSlide(app, title, html)
	if err == nil {
		PrintSuccess("Added slide %d %q (%s)", index+1, slide.Title, RenderID(slide.ID))
	}
	finish(app, err)
}

// addSlide appends a slide and applies any given title and HTML to it.
func addSlide(app *App, title, html string) (model.Slide, int, error) {
	content, err := readContentArg(html)
	if err != nil {
		return model.Slide{}, 0, err
	}

	slide := app.State.AddSlide()
	index := app.State.CurrentIndex()

	var update model.SlideUpdate
	if title != "" {
		update.Title = &title
	}
	if content != "" {
		update.HTML = &content
	}
	if !update.IsEmpty() {
		app.State.UpdateSlide(index, update)
		slide, _ = app.State.Slide(index)
	}
	return slide, index, nil
}

// readContentArg expands "@path" to the contents of path ("@-" reads stdin).
func readContentArg(arg string) (string, error) {
	if len(arg) < 2 || arg[0] != '@' {
		return arg, nil
	}

	path := arg[1:]
	var data []byte
	var err error
	if path == "-" {
		data, err = readAllStdin()
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}
