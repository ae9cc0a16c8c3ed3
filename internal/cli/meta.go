package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/amterp/ra"
	"github.com/amterp/webslide/internal/creator"
	"github.com/amterp/webslide/internal/model"
	"github.com/amterp/webslide/internal/util"
)

func registerMeta(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("meta")
	cmd.SetDescription("Show or set the deck title and author")

	ctx.MetaTitle, _ = ra.NewString("title").
		SetShort("t").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Deck title, also used for export file names").
		Register(cmd)

	ctx.MetaAuthor, _ = ra.NewString("author").
		SetShort("a").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Deck author (defaults to $WEBSLIDE_AUTHOR, git user.name, then $USER)").
		Register(cmd)

	ctx.MetaJson, _ = ra.NewBool("json").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Output as JSON").
		Register(cmd)

	ctx.MetaUsed, _ = parent.RegisterCmd(cmd)
}

func runMeta(title, author string, jsonOutput bool) {
	app := mustApp(false)

	meta := updateMetadata(app, title, author)
	if jsonOutput {
		finish(app, writeJson(os.Stdout, meta))
		return
	}
	printMetadata(os.Stdout, meta, app.State.Len())
	finish(app, nil)
}

// updateMetadata applies the given title and author. An empty value leaves
// the field alone. Setting a title on a deck without an author also records
// the current user as author.
func updateMetadata(app *App, title, author string) model.Metadata {
	var u model.MetadataUpdate
	if title != "" {
		u.Title = &title
	}
	if author != "" {
		u.Author = &author
	} else if title != "" && app.State.Metadata().Author == "" {
		if name, err := creator.GetAuthor(app.Git); err == nil {
			u.Author = &name
		}
	}

	if !u.IsEmpty() {
		app.State.SetMetadata(u)
	}
	return app.State.Metadata()
}

func printMetadata(w io.Writer, meta model.Metadata, slides int) {
	const labelWidth = 10

	title := meta.Title
	if title == "" {
		title = "Untitled deck"
	}
	fmt.Fprintln(w, TitleBox(title))
	fmt.Fprintln(w)

	if meta.Author != "" {
		fmt.Fprintln(w, LabelValue("Author", meta.Author, labelWidth))
	}
	fmt.Fprintln(w, LabelValue("Slides", fmt.Sprintf("%d", slides), labelWidth))
	fmt.Fprintln(w, LabelValue("Format", meta.Version, labelWidth))
	fmt.Fprintln(w, LabelValue("Export", RenderMuted(util.ExportFileName(meta.Title, "json")), labelWidth))
	fmt.Fprintln(w, LabelValue("Created", RenderMuted(util.FormatMillis(meta.CreatedAt)), labelWidth))
	fmt.Fprintln(w, LabelValue("Updated", RenderMuted(util.FormatMillis(meta.UpdatedAt)), labelWidth))
}
