package cli

import (
	"github.com/amterp/ra"
	"github.com/amterp/webslide/internal/presenter"
)

func registerPresent(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("present")
	cmd.SetDescription("Present the deck full-screen in the terminal")

	ctx.PresentUsed, _ = parent.RegisterCmd(cmd)
}

func runPresent() {
	app := mustApp(false)
	finish(app, presenter.Run(app.State))
}
