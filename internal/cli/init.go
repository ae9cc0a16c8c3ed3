package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/amterp/ra"
	"github.com/amterp/webslide/internal/config"
	wserr "github.com/amterp/webslide/internal/errors"
)

func registerInit(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("init")
	cmd.SetDescription("Keep decks for this directory in a project-local .webslide/")

	ctx.InitUsed, _ = parent.RegisterCmd(cmd)
}

func runInit() {
	cwd, err := os.Getwd()
	if err != nil {
		Fatal(err)
	}

	dataDir, err := initProject(cwd)
	if err != nil {
		Fatal(err)
	}
	PrintSuccess("Initialized %s", dataDir)
	PrintInfo("Commands run in %s or below now use this deck", cwd)
}

// initProject creates dir/.webslide. It fails if one is already there.
func initProject(dir string) (string, error) {
	dataDir := filepath.Join(dir, config.ProjectDirName)
	if _, err := os.Stat(dataDir); err == nil {
		return "", wserr.ProjectExists(dir)
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dataDir, err)
	}
	return dataDir, nil
}
