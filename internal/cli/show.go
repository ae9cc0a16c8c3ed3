package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/amterp/ra"
	"github.com/amterp/webslide/internal/model"
	"github.com/amterp/webslide/internal/render"
	"github.com/amterp/webslide/internal/util"
)

func registerShow(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("show")
	cmd.SetDescription("Display slide details")

	ctx.ShowSlide, _ = ra.NewString("slide").
		SetOptional(true).
		SetUsage("Slide position (1-based) or ID").
		SetCompletionFunc(completeSlides).
		Register(cmd)

	ctx.ShowJson, _ = ra.NewBool("json").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Output as JSON").
		Register(cmd)

	ctx.ShowUsed, _ = parent.RegisterCmd(cmd)
}

func runShow(ref string, jsonOutput, interactive bool) {
	app := mustApp(interactive)
	finish(app, showSlide(app, os.Stdout, ref, jsonOutput))
}

func showSlide(app *App, w io.Writer, ref string, jsonOutput bool) error {
	index, slide, err := app.ResolveSlide(ref)
	if err != nil {
		return err
	}

	if jsonOutput {
		return writeJson(w, NewSlideOutput(slide, index))
	}

	printSlide(w, slide, index, app.State.Len())
	return nil
}

func printSlide(w io.Writer, slide model.Slide, index, total int) {
	const labelWidth = 10

	// Title box
	fmt.Fprintln(w, TitleBox(slide.Title))
	fmt.Fprintln(w)

	fmt.Fprintln(w, LabelValue("Position", fmt.Sprintf("%d of %d", index+1, total), labelWidth))
	fmt.Fprintln(w, LabelValue("ID", RenderID(slide.ID), labelWidth))
	fmt.Fprintln(w, LabelValue("Created", RenderMuted(util.FormatMillis(slide.CreatedAt)), labelWidth))
	fmt.Fprintln(w, LabelValue("Updated", RenderMuted(util.FormatMillis(slide.UpdatedAt)), labelWidth))

	printBlock(w, "HTML", slide.HTML)
	printBlock(w, "CSS", slide.CSS)
	printBlock(w, "Markdown", slide.Markdown)

	if body, err := render.Body(slide); err == nil {
		if text := render.PlainText(body); text != "" {
			printBlock(w, "Text", text)
		}
	}
}

func printBlock(w io.Writer, label, content string) {
	if strings.TrimSpace(content) == "" {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, RenderMuted(label+":"))
	fmt.Fprintf(w, "  %s\n", strings.ReplaceAll(strings.TrimRight(content, "\n"), "\n", "\n  "))
}
