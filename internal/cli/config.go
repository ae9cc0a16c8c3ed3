package cli

import (
	"fmt"

	"github.com/amterp/ra"
	"github.com/amterp/webslide/internal/model"
)

func registerConfig(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("config")
	cmd.SetDescription("Show the effective configuration, creating the config file if missing")

	ctx.ConfigUsed, _ = parent.RegisterCmd(cmd)
}

func runConfig() {
	app := mustApp(false)

	if err := app.ConfigStore.EnsureExists(); err != nil {
		finish(app, fmt.Errorf("failed to create config file: %w", err))
		return
	}

	const labelWidth = 10
	cfg := app.Config

	location := app.WatchDir()
	if location == "" {
		location = cfg.Storage.Path
	}
	if location == "" && cfg.Storage.Backend == model.BackendSQLite {
		location = app.Paths.SQLitePath()
	}

	fmt.Println(LabelValue("Config", RenderURL(app.Paths.ConfigPath()), labelWidth))
	fmt.Println(LabelValue("Backend", cfg.Storage.Backend, labelWidth))
	if location != "" {
		fmt.Println(LabelValue("Location", location, labelWidth))
	}
	fmt.Println(LabelValue("Key", cfg.Storage.Key, labelWidth))
	fmt.Println(LabelValue("Autosave", fmt.Sprintf("%dms", cfg.Autosave.DelayMillis), labelWidth))
	fmt.Println(LabelValue("Port", fmt.Sprintf("%d", cfg.Server.Port), labelWidth))
	fmt.Println(LabelValue("Editor", app.Editor.Resolve(), labelWidth))

	finish(app, nil)
}
