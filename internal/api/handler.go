package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/amterp/webslide/internal/deck"
	wserr "github.com/amterp/webslide/internal/errors"
	"github.com/amterp/webslide/internal/model"
	"github.com/amterp/webslide/internal/render"
	"github.com/amterp/webslide/internal/util"
)

// maxImportBytes bounds the body accepted by POST /api/v1/import.
const maxImportBytes = 16 << 20

// Handler contains all HTTP handlers for the API.
//
// Single-user, single-deck: every connected browser tab edits the same
// deck.State, and changes made by one tab reach the others over the websocket.
type Handler struct {
	state  *deck.State
	config *model.Config
}

// NewHandler creates a new handler over the given deck.
func NewHandler(state *deck.State, cfg *model.Config) *Handler {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}
	return &Handler{state: state, config: cfg}
}

// RegisterRoutes sets up all API routes on the given mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Deck routes
	mux.HandleFunc("GET /api/v1/deck", h.GetDeck)
	mux.HandleFunc("PATCH /api/v1/metadata", h.UpdateMetadata)
	mux.HandleFunc("GET /api/v1/settings", h.GetSettings)
	mux.HandleFunc("GET /favicon.svg", h.GetFavicon)

	// Slide routes
	mux.HandleFunc("POST /api/v1/slides", h.AddSlide)
	mux.HandleFunc("GET /api/v1/slides/{index}", h.GetSlide)
	mux.HandleFunc("PATCH /api/v1/slides/{index}", h.UpdateSlide)
	mux.HandleFunc("DELETE /api/v1/slides/{index}", h.DeleteSlide)
	mux.HandleFunc("POST /api/v1/slides/{index}/duplicate", h.DuplicateSlide)
	mux.HandleFunc("GET /api/v1/preview/{index}", h.Preview)

	// Cursor routes
	mux.HandleFunc("PUT /api/v1/current", h.SetCurrent)
	mux.HandleFunc("POST /api/v1/next", h.Next)
	mux.HandleFunc("POST /api/v1/previous", h.Previous)

	// Import/export and persistence
	mux.HandleFunc("GET /api/v1/export", h.Export)
	mux.HandleFunc("GET /api/v1/export.html", h.ExportHTML)
	mux.HandleFunc("POST /api/v1/import", h.Import)
	mux.HandleFunc("POST /api/v1/save", h.Save)

	// Static files (frontend)
	mux.Handle("/", h.StaticHandler())
}

// --- Deck Handlers ---

// DeckResponse is the JSON response for the whole deck.
type DeckResponse struct {
	Metadata          model.Metadata `json:"metadata"`
	Slides            []model.Slide  `json:"slides"`
	CurrentSlideIndex int            `json:"currentSlideIndex"`
	Status            string         `json:"status"`
}

func toDeckResponse(p model.Presentation) DeckResponse {
	return DeckResponse{
		Metadata:          p.Metadata,
		Slides:            p.Slides,
		CurrentSlideIndex: p.CurrentSlideIndex,
		Status:            p.StatusLine(),
	}
}

// GetDeck returns a snapshot of the deck including the cursor.
func (h *Handler) GetDeck(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, toDeckResponse(h.state.Snapshot()))
}

// UpdateMetadata sets the deck title and author. Omitted fields are left
// unchanged.
func (h *Handler) UpdateMetadata(w http.ResponseWriter, r *http.Request) {
	var req model.MetadataUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid JSON body")
		return
	}
	if req.IsEmpty() {
		BadRequest(w, "nothing to update: set title or author")
		return
	}

	h.state.SetMetadata(req)
	JSON(w, http.StatusOK, h.state.Metadata())
}

// ZoomSettings describes the preview zoom range, in percent.
type ZoomSettings struct {
	Min     int `json:"min"`
	Max     int `json:"max"`
	Step    int `json:"step"`
	Default int `json:"default"`
}

// SettingsResponse is the JSON response for editor settings.
type SettingsResponse struct {
	Zoom           ZoomSettings        `json:"zoom"`
	SlideWidth     int                 `json:"slideWidth"`
	SlideHeight    int                 `json:"slideHeight"`
	AutosaveMillis int                 `json:"autosaveMillis"`
	StorageBackend string              `json:"storageBackend"`
	Favicon        model.FaviconConfig `json:"favicon"`
}

// GetSettings returns the editor settings.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, SettingsResponse{
		Zoom: ZoomSettings{
			Min:     render.MinZoom,
			Max:     render.MaxZoom,
			Step:    render.ZoomStep,
			Default: render.DefaultZoom,
		},
		SlideWidth:     render.SlideWidth,
		SlideHeight:    render.SlideHeight,
		AutosaveMillis: h.config.Autosave.DelayMillis,
		StorageBackend: h.config.Storage.Backend,
		Favicon:        h.config.Favicon,
	})
}

// --- Slide Handlers ---

// SlideResponse pairs a slide with its position.
type SlideResponse struct {
	Slide             model.Slide `json:"slide"`
	Index             int         `json:"index"`
	CurrentSlideIndex int         `json:"currentSlideIndex"`
}

func (h *Handler) slideResponse(slide model.Slide, index int) SlideResponse {
	return SlideResponse{Slide: slide, Index: index, CurrentSlideIndex: h.state.CurrentIndex()}
}

// indexParam parses the {index} path value.
func indexParam(r *http.Request) (int, error) {
	raw := r.PathValue("index")
	index, err := strconv.Atoi(raw)
	if err != nil {
		return 0, wserr.InvalidField("index", fmt.Sprintf("%q is not an integer", raw))
	}
	return index, nil
}

// AddSlide appends a new slide and makes it current.
func (h *Handler) AddSlide(w http.ResponseWriter, r *http.Request) {
	slide := h.state.AddSlide()
	JSON(w, http.StatusCreated, h.slideResponse(slide, h.state.CurrentIndex()))
}

// GetSlide returns one slide.
func (h *Handler) GetSlide(w http.ResponseWriter, r *http.Request) {
	index, err := indexParam(r)
	if err != nil {
		Error(w, err)
		return
	}

	slide, ok := h.state.Slide(index)
	if !ok {
		NotFound(w, "slide", strconv.Itoa(index))
		return
	}
	JSON(w, http.StatusOK, h.slideResponse(slide, index))
}

// UpdateSlide applies a partial update. Omitted fields are left unchanged.
func (h *Handler) UpdateSlide(w http.ResponseWriter, r *http.Request) {
	index, err := indexParam(r)
	if err != nil {
		Error(w, err)
		return
	}

	var req model.SlideUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid JSON body")
		return
	}

	if !h.state.UpdateSlide(index, req) {
		NotFound(w, "slide", strconv.Itoa(index))
		return
	}

	slide, _ := h.state.Slide(index)
	JSON(w, http.StatusOK, h.slideResponse(slide, index))
}

// DeleteSlide removes a slide. The last remaining slide can't be deleted.
func (h *Handler) DeleteSlide(w http.ResponseWriter, r *http.Request) {
	index, err := indexParam(r)
	if err != nil {
		Error(w, err)
		return
	}

	slide, ok := h.state.Slide(index)
	if !ok {
		NotFound(w, "slide", strconv.Itoa(index))
		return
	}
	if h.state.Len() == 1 {
		Conflict(w, wserr.LastSlide().Error())
		return
	}

	if !h.state.DeleteSlide(index) {
		// Lost a race with another request
		Conflict(w, "slide could not be deleted")
		return
	}
	JSON(w, http.StatusOK, h.slideResponse(slide, index))
}

// DuplicateSlide inserts a copy of a slide right after it.
func (h *Handler) DuplicateSlide(w http.ResponseWriter, r *http.Request) {
	index, err := indexParam(r)
	if err != nil {
		Error(w, err)
		return
	}

	dup, ok := h.state.DuplicateSlide(index)
	if !ok {
		NotFound(w, "slide", strconv.Itoa(index))
		return
	}
	JSON(w, http.StatusCreated, h.slideResponse(dup, index+1))
}

// Preview returns the standalone preview document for a slide.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	index, err := indexParam(r)
	if err != nil {
		Error(w, err)
		return
	}

	slide, ok := h.state.Slide(index)
	if !ok {
		NotFound(w, "slide", strconv.Itoa(index))
		return
	}

	doc, err := render.PreviewDocument(slide)
	if err != nil {
		Error(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	io.WriteString(w, doc)
}

// --- Cursor Handlers ---

// SetCurrentRequest is the JSON body for PUT /api/v1/current.
type SetCurrentRequest struct {
	Index *int `json:"index"`
}

// CursorResponse reports the cursor after a navigation request.
type CursorResponse struct {
	Moved             bool   `json:"moved"`
	CurrentSlideIndex int    `json:"currentSlideIndex"`
	Status            string `json:"status"`
}

func (h *Handler) cursorResponse(moved bool) CursorResponse {
	snap := h.state.Snapshot()
	return CursorResponse{
		Moved:             moved,
		CurrentSlideIndex: snap.CurrentSlideIndex,
		Status:            snap.StatusLine(),
	}
}

// SetCurrent moves the cursor.
func (h *Handler) SetCurrent(w http.ResponseWriter, r *http.Request) {
	var req SetCurrentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid JSON body")
		return
	}
	if req.Index == nil {
		BadRequest(w, "index is required")
		return
	}

	if !h.state.SetCurrentSlide(*req.Index) {
		Error(w, wserr.IndexOutOfRange(*req.Index, h.state.Len()))
		return
	}
	JSON(w, http.StatusOK, h.cursorResponse(true))
}

// Next advances the cursor. At the last slide it reports moved=false.
func (h *Handler) Next(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, h.cursorResponse(h.state.NextSlide()))
}

// Previous moves the cursor back. At the first slide it reports moved=false.
func (h *Handler) Previous(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, h.cursorResponse(h.state.PreviousSlide()))
}

// --- Import/Export Handlers ---

// Export downloads the deck as JSON.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	text, err := h.state.ExportPresentation()
	if err != nil {
		Error(w, err)
		return
	}

	name := util.ExportFileName(h.state.Metadata().Title, "json")
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	io.WriteString(w, text)
}

// ExportHTML downloads the deck as a standalone HTML page.
func (h *Handler) ExportHTML(w http.ResponseWriter, r *http.Request) {
	snap := h.state.Snapshot()
	doc, err := render.DeckDocument(snap)
	if err != nil {
		Error(w, err)
		return
	}

	name := util.ExportFileName(snap.Metadata.Title, "html")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	io.WriteString(w, doc)
}

// Import replaces the deck with the JSON request body. On failure the deck
// is left untouched.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		BadRequest(w, "could not read request body")
		return
	}

	// Decode first for a useful error message; the state re-validates.
	if _, err := deck.Decode(string(body), 0); err != nil {
		Error(w, err)
		return
	}
	if !h.state.ImportPresentation(string(body)) {
		BadRequest(w, "invalid presentation")
		return
	}
	JSON(w, http.StatusOK, toDeckResponse(h.state.Snapshot()))
}

// Save forces an immediate save.
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	if !h.state.ForceSave() {
		JSON(w, http.StatusInternalServerError, map[string]any{"saved": false, "error": "save failed; see server log"})
		return
	}
	JSON(w, http.StatusOK, map[string]any{"saved": true})
}
