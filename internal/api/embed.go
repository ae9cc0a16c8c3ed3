package api

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed dist/*
var staticFiles embed.FS

// StaticHandler returns a handler that serves the embedded editor page.
func (h *Handler) StaticHandler() http.Handler {
	fsys, _ := fs.Sub(staticFiles, "dist")
	return http.FileServer(http.FS(fsys))
}
