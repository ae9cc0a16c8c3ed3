package cli

import (
	"fmt"

	"github.com/amterp/ra"
)

func registerDup(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("dup")
	cmd.SetDescription("Duplicate a slide, inserting the copy after it")

	ctx.DupSlide, _ = ra.NewString("slide").
		SetOptional(true).
		SetUsage("Slide position (1-based) or ID").
		SetCompletionFunc(completeSlides).
		Register(cmd)

	ctx.DupUsed, _ = parent.RegisterCmd(cmd)
}

func runDup(ref string, interactive bool) {
	app := mustApp(interactive)
	finish(app, dupSlide(app, ref))
}

func dupSlide(app *App, ref string) error {
	index, _, err := app.ResolveSlide(ref)
	if err != nil {
		return err
	}

	dup, ok := app.State.DuplicateSlide(index)
	if !ok {
		return fmt.Errorf("failed to duplicate slide %d", index+1)
	}

	PrintSuccess("Created slide %d %q (%s)", index+2, dup.Title, RenderID(dup.ID))
	return nil
}
