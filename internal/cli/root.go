package cli

import (
	"os"

	"github.com/amterp/ra"
)

// CommandContext holds parsed values and used flags for all commands.
type CommandContext struct {
	// Global flags
	NonInteractive *bool

	// init command
	InitUsed *bool

	// list command
	ListUsed *bool
	ListJson *bool

	// show command
	ShowUsed  *bool
	ShowSlide *string
	ShowJson  *bool

	// add command
	AddUsed  *bool
	AddTitle *string
	AddHTML  *string

	// edit command
	EditUsed  *bool
	EditSlide *string
	EditTitle *string
	EditHTML  *string
	EditCSS   *string

	// delete command
	DeleteUsed  *bool
	DeleteSlide *string
	DeleteForce *bool

	// dup command
	DupUsed  *bool
	DupSlide *string

	// export command
	ExportUsed *bool
	ExportFile *string
	ExportHTML *bool

	// import command
	ImportUsed *bool
	ImportFile *string

	// present command
	PresentUsed *bool

	// serve command
	ServeUsed   *bool
	ServePort   *int
	ServeNoOpen *bool

	// clear command
	ClearUsed  *bool
	ClearForce *bool

	// config command
	ConfigUsed *bool

	// meta command
	MetaUsed   *bool
	MetaTitle  *string
	MetaAuthor *string
	MetaJson   *bool

	// doctor command
	DoctorUsed   *bool
	DoctorFix    *bool
	DoctorDryRun *bool
	DoctorJson   *bool

	// completion command
	CompletionUsed  *bool
	CompletionShell *string
}

// Run is the main entry point for the CLI.
func Run() {
	ctx := &CommandContext{}

	cmd := ra.NewCmd("webslide")
	cmd.SetDescription("HTML slide decks from the terminal and the browser")

	// Global flag for non-interactive mode
	ctx.NonInteractive, _ = ra.NewBool("non-interactive").
		SetShort("I").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Fail instead of prompting for missing input").
		Register(cmd, ra.WithGlobal(true))

	// Register all subcommands
	registerInit(cmd, ctx)
	registerList(cmd, ctx)
	registerShow(cmd, ctx)
	registerAdd(cmd, ctx)
	registerEdit(cmd, ctx)
	registerDelete(cmd, ctx)
	registerDup(cmd, ctx)
	registerExport(cmd, ctx)
	registerImport(cmd, ctx)
	registerPresent(cmd, ctx)
	registerServe(cmd, ctx)
	registerClear(cmd, ctx)
	registerConfig(cmd, ctx)
	registerMeta(cmd, ctx)
	registerDoctor(cmd, ctx)
	registerCompletion(cmd, ctx)

	// Parse command line
	cmd.ParseOrExit(os.Args[1:])

	// Execute the appropriate command
	executeCommand(ctx, cmd)
}

func executeCommand(ctx *CommandContext, rootCmd *ra.Cmd) {
	interactive := !*ctx.NonInteractive

	switch {
	case *ctx.InitUsed:
		runInit()

	case *ctx.ListUsed:
		runList(*ctx.ListJson)

	case *ctx.ShowUsed:
		runShow(*ctx.ShowSlide, *ctx.ShowJson, interactive)

	case *ctx.AddUsed:
		runAdd(*ctx.AddTitle, *ctx.AddHTML, interactive)

	case *ctx.EditUsed:
		runEdit(*ctx.EditSlide, *ctx.EditTitle, *ctx.EditHTML, *ctx.EditCSS, interactive)

	case *ctx.DeleteUsed:
		runDelete(*ctx.DeleteSlide, *ctx.DeleteForce, interactive)

	case *ctx.DupUsed:
		runDup(*ctx.DupSlide, interactive)

	case *ctx.ExportUsed:
		runExport(*ctx.ExportFile, *ctx.ExportHTML)

	case *ctx.ImportUsed:
		runImport(*ctx.ImportFile)

	case *ctx.PresentUsed:
		runPresent()

	case *ctx.ServeUsed:
		runServe(*ctx.ServePort, *ctx.ServeNoOpen)

	case *ctx.ClearUsed:
		runClear(*ctx.ClearForce, interactive)

	case *ctx.ConfigUsed:
		runConfig()

	case *ctx.MetaUsed:
		runMeta(*ctx.MetaTitle, *ctx.MetaAuthor, *ctx.MetaJson)

	case *ctx.DoctorUsed:
		runDoctor(*ctx.DoctorFix, *ctx.DoctorDryRun, *ctx.DoctorJson)

	case *ctx.CompletionUsed:
		runCompletion(*ctx.CompletionShell, rootCmd)
	}
}
