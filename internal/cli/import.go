package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/amterp/ra"
	"github.com/amterp/webslide/internal/deck"
)

func registerImport(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("import")
	cmd.SetDescription("Replace the deck with one from a JSON file")

	ctx.ImportFile, _ = ra.NewString("file").
		SetUsage("JSON file to import (- for stdin)").
		Register(cmd)

	ctx.ImportUsed, _ = parent.RegisterCmd(cmd)
}

func runImport(file string) {
	app := mustApp(false)

	var data []byte
	var err error
	if file == "-" {
		data, err = readAllStdin()
	} else {
		data, err = os.ReadFile(file)
	}
	if err != nil {
		finish(app, err)
		return
	}

	err = importDeck(app, data)
	if err == nil {
		PrintSuccess("Imported %d slides from %s", app.State.Len(), file)
	}
	finish(app, err)
}

// importDeck replaces the deck. The current deck is kept on any error.
func importDeck(app *App, data []byte) error {
	if _, err := deck.Decode(string(data), 0); err != nil {
		return fmt.Errorf("invalid presentation: %w", err)
	}
	if !app.State.ImportPresentation(string(data)) {
		return fmt.Errorf("invalid presentation")
	}
	return nil
}

func readAllStdin() ([]byte, error) {
	return io.ReadAll(os.Stdin)
}
