package cli

import (
	"fmt"

	"github.com/amterp/ra"
)

func registerClear(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("clear")
	cmd.SetDescription("Remove the saved deck from storage")

	ctx.ClearForce, _ = ra.NewBool("force").
		SetShort("f").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Skip confirmation (required in non-interactive mode)").
		Register(cmd)

	ctx.ClearUsed, _ = parent.RegisterCmd(cmd)
}

func runClear(force, interactive bool) {
	app := mustApp(interactive)
	finish(app, clearDeck(app, force, interactive))
}

func clearDeck(app *App, force, interactive bool) error {
	key := app.State.StorageKey()

	if !force {
		if !interactive {
			return fmt.Errorf("clearing %q requires --force in non-interactive mode", key)
		}

		confirmed, err := app.Prompter.Confirm(
			fmt.Sprintf("Remove the saved deck %q (%d slides)?", key, app.State.Len()),
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

	if !app.State.ClearStorage() {
		return fmt.Errorf("failed to clear %q", key)
	}

	PrintSuccess("Cleared saved deck %q", key)
	return nil
}
