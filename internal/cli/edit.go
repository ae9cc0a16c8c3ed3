package cli

import (
	"fmt"

	"github.com/amterp/ra"
	"github.com/amterp/webslide/internal/model"
)

func registerEdit(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("edit")
	cmd.SetDescription("Edit a slide (opens $EDITOR when no flags are given)")

	ctx.EditSlide, _ = ra.NewString("slide").
		SetOptional(true).
		SetUsage("Slide position (1-based) or ID").
		SetCompletionFunc(completeSlides).
		Register(cmd)

	ctx.EditTitle, _ = ra.NewString("title").
		SetShort("t").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("New title").
		Register(cmd)

	ctx.EditHTML, _ = ra.NewString("html").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("New HTML, or @file to read it from a file").
		Register(cmd)

	ctx.EditCSS, _ = ra.NewString("css").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("New CSS, or @file to read it from a file").
		Register(cmd)

	ctx.EditUsed, _ = parent.RegisterCmd(cmd)
}

func runEdit(ref, title, html, css string, interactive bool) {
	app := mustApp(interactive)

	index, err := editSlide(app, ref, title, html, css, interactive)
	if err == nil {
		slide, _ := app.State.Slide(index)
		PrintSuccess("Updated slide %d %q", index+1, slide.Title)
	}
	finish(app, err)
}

// editSlide applies flag values to a slide. With no flags it edits
// interactively: the title through a prompt, then the HTML in the editor.
func editSlide(app *App, ref, title, html, css string, interactive bool) (int, error) {
	index, slide, err := app.ResolveSlide(ref)
	if err != nil {
		return 0, err
	}

	var update model.SlideUpdate
	if title != "" {
		update.Title = &title
	}
	for _, field := range []struct {
		arg string
		dst **string
	}{{html, &update.HTML}, {css, &update.CSS}} {
		if field.arg == "" {
			continue
		}
		content, err := readContentArg(field.arg)
		if err != nil {
			return index, err
		}
		*field.dst = &content
	}

	if update.IsEmpty() {
		if !interactive {
			return index, fmt.Errorf("nothing to change: pass --title, --html or --css in non-interactive mode")
		}
		if update, err = interactiveUpdate(app, slide); err != nil {
			return index, err
		}
		if update.IsEmpty() {
			PrintInfo("No changes")
			return index, nil
		}
	}

	if !app.State.UpdateSlide(index, update) {
		return index, fmt.Errorf("slide %d disappeared while editing", index+1)
	}
	return index, nil
}

func interactiveUpdate(app *App, slide model.Slide) (model.SlideUpdate, error) {
	var update model.SlideUpdate

	title, err := app.Prompter.Input("Title", slide.Title)
	if err != nil {
		return update, err
	}
	if title != slide.Title {
		update.Title = &title
	}

	html, err := app.Editor.Edit(slide.HTML, "html")
	if err != nil {
		return update, err
	}
	if html != slide.HTML {
		update.HTML = &html
	}
	return update, nil
}
