package cli

import (
	"fmt"

	"github.com/amterp/ra"
	wserr "github.com/amterp/webslide/internal/errors"
)

func registerDelete(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("delete")
	cmd.SetDescription("Delete a slide")

	ctx.DeleteSlide, _ = ra.NewString("slide").
		SetOptional(true).
		SetUsage("Slide position (1-based) or ID").
		SetCompletionFunc(completeSlides).
		Register(cmd)

	ctx.DeleteForce, _ = ra.NewBool("force").
		SetShort("f").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Skip confirmation (required in non-interactive mode)").
		Register(cmd)

	ctx.DeleteUsed, _ = parent.RegisterCmd(cmd)
}

func runDelete(ref string, force, interactive bool) {
	app := mustApp(interactive)
	finish(app, deleteSlide(app, ref, force, interactive))
}

func deleteSlide(app *App, ref string, force, interactive bool) error {
	index, slide, err := app.ResolveSlide(ref)
	if err != nil {
		return err
	}

	if app.State.Len() == 1 {
		return wserr.LastSlide()
	}

	if !force {
		if !interactive {
			return fmt.Errorf("deleting slide %d %q requires --force in non-interactive mode", index+1, slide.Title)
		}

		confirmed, err := app.Prompter.Confirm(
			fmt.Sprintf("Delete slide %d %q?", index+1, slide.Title),
			false,
		)
		if err != nil {
			return err
		}
		if !confirmed {
			PrintInfo("Cancelled")
			return nil
		}
	}

	if !app.State.DeleteSlide(index) {
		return fmt.Errorf("failed to delete slide %d", index+1)
	}

	PrintSuccess("Deleted slide %d %q (%s)", index+1, slide.Title, RenderID(slide.ID))
	return nil
}
