package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/amterp/ra"
	"github.com/amterp/webslide/internal/deck"
	"github.com/amterp/webslide/internal/model"
	"github.com/amterp/webslide/internal/store"
)

// completionCtx provides lightweight read-only deck access for shell
// completion. Completion functions run during ParseOrExit, before NewApp()
// is called, so we can't use the full App. This loads just enough to list
// slides, without starting autosave.
type completionCtx struct {
	once   sync.Once
	slides []model.Slide
	err    error
}

var compCtx completionCtx

func initCompletionCtx() {
	compCtx.once.Do(func() {
		paths, err := resolvePaths()
		if err != nil {
			compCtx.err = err
			return
		}
		cfg, err := store.NewConfigStore(paths.ConfigPath()).Load()
		if err != nil {
			// Graceful degradation: no completions if config is broken
			compCtx.err = err
			return
		}

		storage, closeStorage, err := store.Open(cfg.Storage, paths)
		if err != nil {
			compCtx.err = err
			return
		}
		defer closeStorage()

		text, err := storage.Get(cfg.Storage.Key)
		if err != nil {
			compCtx.err = err
			return
		}

		p, err := deck.Decode(text, time.Now().UnixMilli())
		if err != nil {
			compCtx.err = err
			return
		}
		compCtx.slides = p.Slides
	})
}

// completeSlides returns slide positions and IDs matching the given prefix.
func completeSlides(toComplete string) ([]string, ra.CompletionDirective) {
	initCompletionCtx()
	if compCtx.err != nil {
		return nil, ra.CompletionDirectiveNoFileComp
	}
	return matchSlideRefs(compCtx.slides, toComplete), ra.CompletionDirectiveNoFileComp
}

// matchSlideRefs lists every 1-based position and slide ID starting with prefix.
func matchSlideRefs(slides []model.Slide, prefix string) []string {
	var result []string
	for i := range slides {
		if pos := strconv.Itoa(i + 1); strings.HasPrefix(pos, prefix) {
			result = append(result, pos)
		}
	}
	for _, s := range slides {
		if strings.HasPrefix(s.ID, prefix) {
			result = append(result, s.ID)
		}
	}
	return result
}

// registerCompletion adds the "webslide completion <shell>" command.
func registerCompletion(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("completion")
	cmd.SetDescription("Output shell completion script")

	ctx.CompletionShell, _ = ra.NewString("shell").
		SetUsage("Shell type").
		SetEnumConstraint([]string{"bash", "zsh"}).
		Register(cmd)

	ctx.CompletionUsed, _ = parent.RegisterCmd(cmd)
}

// runCompletion outputs the shell completion script to stdout.
func runCompletion(shell string, rootCmd *ra.Cmd) {
	var err error
	switch shell {
	case "bash":
		err = rootCmd.GenBashCompletion(os.Stdout)
	case "zsh":
		err = rootCmd.GenZshCompletion(os.Stdout)
	default:
		Fatal(fmt.Errorf("unsupported shell: %s (supported: bash, zsh)", shell))
	}
	if err != nil {
		Fatal(fmt.Errorf("failed to generate completion script: %w", err))
	}
}
