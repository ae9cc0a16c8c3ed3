package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/amterp/webslide/internal/deck"
	"github.com/amterp/webslide/internal/model"
	"github.com/amterp/webslide/internal/store"
)

// testAPI provides a complete test environment for API handler tests.
type testAPI struct {
	handler *Handler
	mux     *http.ServeMux
	state   *deck.State
	storage *store.MemoryStore
}

// setupTestAPI creates a test environment over an in-memory deck with a
// save delay long enough that nothing is persisted unless asked.
func setupTestAPI(t *testing.T) *testAPI {
	t.Helper()

	storage := store.NewMemoryStore()
	state := deck.New(deck.Options{Storage: storage, SaveDelay: time.Hour})

	handler := NewHandler(state, model.DefaultConfig())
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	t.Cleanup(func() {
		state.Close()
	})

	return &testAPI{
		handler: handler,
		mux:     mux,
		state:   state,
		storage: storage,
	}
}

// request makes an HTTP request and returns the response.
func (api *testAPI) request(method, path string, body any) *httptest.ResponseRecorder {
	var bodyReader *bytes.Reader
	switch b := body.(type) {
	case nil:
		bodyReader = bytes.NewReader(nil)
	case string:
		bodyReader = bytes.NewReader([]byte(b))
	default:
		data, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, bodyReader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	api.mux.ServeHTTP(w, req)
	return w
}

// addSlides appends n slides through the deck directly.
func (api *testAPI) addSlides(n int) {
	for i := 0; i < n; i++ {
		api.state.AddSlide()
	}
}

// decodeJSON decodes the response body into the given target.
func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(target); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("Expected status %d, got %d: %s", want, w.Code, w.Body.String())
	}
}

// ============================================================================
// Deck Endpoint Tests
// ============================================================================

func TestHandler_GetDeck_Fresh(t *testing.T) {
	api := setupTestAPI(t)

	w := api.request("GET", "/api/v1/deck", nil)
	expectStatus(t, w, http.StatusOK)

	var resp DeckResponse
	decodeJSON(t, w, &resp)

	if len(resp.Slides) != 1 {
		t.Fatalf("Expected 1 slide, got %d", len(resp.Slides))
	}
	if resp.Slides[0].Title != "Slide 1" {
		t.Errorf("Expected title 'Slide 1', got %q", resp.Slides[0].Title)
	}
	if resp.CurrentSlideIndex != 0 {
		t.Errorf("Expected cursor 0, got %d", resp.CurrentSlideIndex)
	}
	if resp.Status != "Slide 1 of 1" {
		t.Errorf("Expected status 'Slide 1 of 1', got %q", resp.Status)
	}
	if resp.Metadata.Version != "2.0" {
		t.Errorf("Expected version 2.0, got %q", resp.Metadata.Version)
	}
}

func TestHandler_UpdateMetadata(t *testing.T) {
	api := setupTestAPI(t)

	w := api.request("PATCH", "/api/v1/metadata", map[string]string{"title": "Quarterly Review"})
	expectStatus(t, w, http.StatusOK)

	var meta model.Metadata
	decodeJSON(t, w, &meta)
	if meta.Title != "Quarterly Review" || meta.Author != "" {
		t.Errorf("Unexpected metadata: %+v", meta)
	}

	// Export picks up the new title for its file name
	w = api.request("GET", "/api/v1/export", nil)
	expectStatus(t, w, http.StatusOK)
	if got := w.Header().Get("Content-Disposition"); !strings.Contains(got, `filename="quarterly-review.json"`) {
		t.Errorf("Unexpected Content-Disposition: %q", got)
	}
}

func TestHandler_UpdateMetadata_Invalid(t *testing.T) {
	api := setupTestAPI(t)

	tests := []struct {
		name string
		body any
	}{
		{"invalid json", "{nope"},
		{"empty update", map[string]string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := api.request("PATCH", "/api/v1/metadata", tt.body)
			expectStatus(t, w, http.StatusBadRequest)
		})
	}
	if api.state.Pending() {
		t.Error("Rejected updates should not schedule a save")
	}
}

func TestHandler_GetSettings(t *testing.T) {
	api := setupTestAPI(t)

	w := api.request("GET", "/api/v1/settings", nil)
	expectStatus(t, w, http.StatusOK)

	var resp SettingsResponse
	decodeJSON(t, w, &resp)

	if resp.Zoom.Min != 25 || resp.Zoom.Max != 200 || resp.Zoom.Step != 10 || resp.Zoom.Default != 100 {
		t.Errorf("Unexpected zoom settings: %+v", resp.Zoom)
	}
	if resp.SlideWidth != 1920 || resp.SlideHeight != 1080 {
		t.Errorf("Unexpected slide size %dx%d", resp.SlideWidth, resp.SlideHeight)
	}
	if resp.AutosaveMillis != model.DefaultAutosaveMillis {
		t.Errorf("Expected autosave %d, got %d", model.DefaultAutosaveMillis, resp.AutosaveMillis)
	}
}

// ============================================================================
// Slide Endpoint Tests
// ============================================================================

func TestHandler_AddSlide(t *testing.T) {
	api := setupTestAPI(t)

	w := api.request("POST", "/api/v1/slides", nil)
	expectStatus(t, w, http.StatusCreated)

	var resp SlideResponse
	decodeJSON(t, w, &resp)

	if resp.Index != 1 || resp.CurrentSlideIndex != 1 {
		t.Errorf("Expected new slide at index 1 and current, got index %d cursor %d", resp.Index, resp.CurrentSlideIndex)
	}
	if resp.Slide.Title != "Slide 2" {
		t.Errorf("Expected title 'Slide 2', got %q", resp.Slide.Title)
	}
	if api.state.Len() != 2 {
		t.Errorf("Expected 2 slides in deck, got %d", api.state.Len())
	}
}

func TestHandler_GetSlide(t *testing.T) {
	api := setupTestAPI(t)
	api.addSlides(1)

	w := api.request("GET", "/api/v1/slides/1", nil)
	expectStatus(t, w, http.StatusOK)

	var resp SlideResponse
	decodeJSON(t, w, &resp)
	if resp.Slide.Title != "Slide 2" {
		t.Errorf("Expected 'Slide 2', got %q", resp.Slide.Title)
	}
}

func TestHandler_GetSlide_NotFound(t *testing.T) {
	api := setupTestAPI(t)

	w := api.request("GET", "/api/v1/slides/5", nil)
	expectStatus(t, w, http.StatusNotFound)
}

func TestHandler_GetSlide_BadIndex(t *testing.T) {
	api := setupTestAPI(t)

	w := api.request("GET", "/api/v1/slides/abc", nil)
	expectStatus(t, w, http.StatusBadRequest)
}

func TestHandler_UpdateSlide_Partial(t *testing.T) {
	api := setupTestAPI(t)
	before, _ := api.state.Slide(0)

	w := api.request("PATCH", "/api/v1/slides/0", map[string]string{
		"html": "<h1>Hello</h1>",
	})
	expectStatus(t, w, http.StatusOK)

	var resp SlideResponse
	decodeJSON(t, w, &resp)

	if resp.Slide.HTML != "<h1>Hello</h1>" {
		t.Errorf("Expected html updated, got %q", resp.Slide.HTML)
	}
	if resp.Slide.Title != before.Title {
		t.Errorf("Title should be unchanged, got %q", resp.Slide.Title)
	}
	if resp.Slide.UpdatedAt < before.UpdatedAt {
		t.Errorf("updatedAt went backwards: %d < %d", resp.Slide.UpdatedAt, before.UpdatedAt)
	}
}

func TestHandler_UpdateSlide_NotFound(t *testing.T) {
	api := setupTestAPI(t)

	w := api.request("PATCH", "/api/v1/slides/3", map[string]string{"title": "x"})
	expectStatus(t, w, http.StatusNotFound)
}

func TestHandler_UpdateSlide_InvalidJSON(t *testing.T) {
	api := setupTestAPI(t)

	w := api.request("PATCH", "/api/v1/slides/0", "{not json")
	expectStatus(t, w, http.StatusBadRequest)
}

func TestHandler_DeleteSlide(t *testing.T) {
	api := setupTestAPI(t)
	api.addSlides(2)
	second, _ := api.state.Slide(1)

	w := api.request("DELETE", "/api/v1/slides/1", nil)
	expectStatus(t, w, http.StatusOK)

	var resp SlideResponse
	decodeJSON(t, w, &resp)
	if resp.Slide.ID != second.ID {
		t.Errorf("Expected deleted slide %q, got %q", second.ID, resp.Slide.ID)
	}
	if api.state.Len() != 2 {
		t.Errorf("Expected 2 slides left, got %d", api.state.Len())
	}
}

func TestHandler_DeleteSlide_LastSlide(t *testing.T) {
	api := setupTestAPI(t)

	w := api.request("DELETE", "/api/v1/slides/0", nil)
	expectStatus(t, w, http.StatusConflict)

	if api.state.Len() != 1 {
		t.Errorf("Last slide must survive, got %d slides", api.state.Len())
	}
}

func TestHandler_DeleteSlide_NotFound(t *testing.T) {
	api := setupTestAPI(t)
	api.addSlides(1)

	w := api.request("DELETE", "/api/v1/slides/7", nil)
	expectStatus(t, w, http.StatusNotFound)
}

func TestHandler_DuplicateSlide(t *testing.T) {
	api := setupTestAPI(t)
	api.state.UpdateSlide(0, model.SlideUpdate{HTML: strPtr("<p>body</p>")})
	original, _ := api.state.Slide(0)

	w := api.request("POST", "/api/v1/slides/0/duplicate", nil)
	expectStatus(t, w, http.StatusCreated)

	var resp SlideResponse
	decodeJSON(t, w, &resp)

	if resp.Index != 1 || resp.CurrentSlideIndex != 1 {
		t.Errorf("Expected copy at index 1 and current, got %d / %d", resp.Index, resp.CurrentSlideIndex)
	}
	if resp.Slide.ID == original.ID {
		t.Error("Copy should have a fresh id")
	}
	if resp.Slide.HTML != original.HTML {
		t.Errorf("Copy should keep html, got %q", resp.Slide.HTML)
	}
}

func TestHandler_Preview(t *testing.T) {
	api := setupTestAPI(t)
	api.state.UpdateSlide(0, model.SlideUpdate{
		HTML: strPtr("<h1>Preview me</h1>"),
		CSS:  strPtr("h1 { color: red; }"),
	})

	w := api.request("GET", "/api/v1/preview/0", nil)
	expectStatus(t, w, http.StatusOK)

	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Expected text/html content type, got %q", ct)
	}
	body := w.Body.String()
	if !strings.Contains(body, "<h1>Preview me</h1>") {
		t.Error("Preview should contain slide html")
	}
	if !strings.Contains(body, "color: red") {
		t.Error("Preview should contain slide css")
	}
}

// ============================================================================
// Cursor Endpoint Tests
// ============================================================================

func TestHandler_SetCurrent(t *testing.T) {
	api := setupTestAPI(t)
	api.addSlides(2)

	w := api.request("PUT", "/api/v1/current", map[string]int{"index": 0})
	expectStatus(t, w, http.StatusOK)

	var resp CursorResponse
	decodeJSON(t, w, &resp)
	if resp.CurrentSlideIndex != 0 || resp.Status != "Slide 1 of 3" {
		t.Errorf("Unexpected cursor response: %+v", resp)
	}
}

func TestHandler_SetCurrent_OutOfRange(t *testing.T) {
	api := setupTestAPI(t)

	w := api.request("PUT", "/api/v1/current", map[string]int{"index": 4})
	expectStatus(t, w, http.StatusBadRequest)

	if api.state.CurrentIndex() != 0 {
		t.Errorf("Cursor should not move, got %d", api.state.CurrentIndex())
	}
}

func TestHandler_SetCurrent_MissingIndex(t *testing.T) {
	api := setupTestAPI(t)

	w := api.request("PUT", "/api/v1/current", map[string]string{})
	expectStatus(t, w, http.StatusBadRequest)
}

func TestHandler_NextPrevious(t *testing.T) {
	api := setupTestAPI(t)
	api.addSlides(1)
	api.state.SetCurrentSlide(0)

	var resp CursorResponse

	w := api.request("POST", "/api/v1/next", nil)
	expectStatus(t, w, http.StatusOK)
	decodeJSON(t, w, &resp)
	if !resp.Moved || resp.CurrentSlideIndex != 1 {
		t.Errorf("Expected move to 1, got %+v", resp)
	}

	w = api.request("POST", "/api/v1/next", nil)
	decodeJSON(t, w, &resp)
	if resp.Moved || resp.CurrentSlideIndex != 1 {
		t.Errorf("Expected no move past the end, got %+v", resp)
	}

	w = api.request("POST", "/api/v1/previous", nil)
	decodeJSON(t, w, &resp)
	if !resp.Moved || resp.CurrentSlideIndex != 0 {
		t.Errorf("Expected move back to 0, got %+v", resp)
	}

	w = api.request("POST", "/api/v1/previous", nil)
	decodeJSON(t, w, &resp)
	if resp.Moved {
		t.Errorf("Expected no move before the start, got %+v", resp)
	}
}

// ============================================================================
// Import/Export Endpoint Tests
// ============================================================================

func TestHandler_Export(t *testing.T) {
	api := setupTestAPI(t)
	api.addSlides(1)

	w := api.request("GET", "/api/v1/export", nil)
	expectStatus(t, w, http.StatusOK)

	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, `filename="presentation.json"`) {
		t.Errorf("Unexpected Content-Disposition: %q", cd)
	}

	p, err := deck.Decode(w.Body.String(), 0)
	if err != nil {
		t.Fatalf("Export should decode: %v", err)
	}
	if len(p.Slides) != 2 {
		t.Errorf("Expected 2 exported slides, got %d", len(p.Slides))
	}
}

func TestHandler_ExportHTML(t *testing.T) {
	api := setupTestAPI(t)
	api.state.UpdateSlide(0, model.SlideUpdate{HTML: strPtr("<h2>Standalone</h2>")})

	w := api.request("GET", "/api/v1/export.html", nil)
	expectStatus(t, w, http.StatusOK)

	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, ".html") {
		t.Errorf("Unexpected Content-Disposition: %q", cd)
	}
	if !strings.Contains(w.Body.String(), "Standalone") {
		t.Error("Exported page should contain slide content")
	}
}

func TestHandler_Import(t *testing.T) {
	api := setupTestAPI(t)
	api.addSlides(2)

	body := `{"metadata":{"version":"2.0"},"slides":[
		{"id":"a","title":"Intro","html":"<h1>Hi</h1>"},
		{"id":"b","html":"<p>two</p>"}
	]}`

	w := api.request("POST", "/api/v1/import", body)
	expectStatus(t, w, http.StatusOK)

	var resp DeckResponse
	decodeJSON(t, w, &resp)

	if len(resp.Slides) != 2 {
		t.Fatalf("Expected 2 slides, got %d", len(resp.Slides))
	}
	if resp.Slides[1].Title != "Slide 2" {
		t.Errorf("Missing title should default to 'Slide 2', got %q", resp.Slides[1].Title)
	}
	if resp.CurrentSlideIndex != 0 {
		t.Errorf("Import should reset cursor, got %d", resp.CurrentSlideIndex)
	}
}

func TestHandler_Import_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", "{oops"},
		{"no slides", `{"slides":[]}`},
		{"slide without id", `{"slides":[{"html":"<p/>"}]}`},
		{"duplicate ids", `{"slides":[{"id":"a","html":""},{"id":"a","html":""}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := setupTestAPI(t)
			api.addSlides(1)
			before := api.state.Slides()

			w := api.request("POST", "/api/v1/import", tt.body)
			expectStatus(t, w, http.StatusBadRequest)

			after := api.state.Slides()
			if len(after) != len(before) || after[0].ID != before[0].ID {
				t.Error("Deck should be untouched after a failed import")
			}
		})
	}
}

func TestHandler_Save(t *testing.T) {
	api := setupTestAPI(t)
	api.addSlides(1)

	w := api.request("POST", "/api/v1/save", nil)
	expectStatus(t, w, http.StatusOK)

	stored, err := api.storage.Get(api.state.StorageKey())
	if err != nil {
		t.Fatalf("Expected deck in storage: %v", err)
	}
	p, err := deck.Decode(stored, 0)
	if err != nil {
		t.Fatalf("Stored deck should decode: %v", err)
	}
	if len(p.Slides) != 2 {
		t.Errorf("Expected 2 stored slides, got %d", len(p.Slides))
	}
	if api.state.Pending() {
		t.Error("Forced save should cancel the pending save")
	}
}

// ============================================================================
// Static and Favicon Tests
// ============================================================================

func TestHandler_Favicon(t *testing.T) {
	api := setupTestAPI(t)

	w := api.request("GET", "/favicon.svg", nil)
	expectStatus(t, w, http.StatusOK)

	if ct := w.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Expected image/svg+xml, got %q", ct)
	}
	if !strings.Contains(w.Body.String(), ">W</text>") {
		t.Errorf("Expected default letter W in favicon: %s", w.Body.String())
	}
}

func TestGenerateFaviconSVG_Emoji(t *testing.T) {
	svg := GenerateFaviconSVG(&model.FaviconConfig{
		Background: "#123456",
		IconType:   model.IconTypeEmoji,
		Emoji:      "🎞",
	})

	if !strings.Contains(svg, "#123456") {
		t.Error("Expected background color in SVG")
	}
	if !strings.Contains(svg, "🎞") {
		t.Error("Expected emoji in SVG")
	}
}

func TestHandler_StaticIndex(t *testing.T) {
	api := setupTestAPI(t)

	w := api.request("GET", "/", nil)
	expectStatus(t, w, http.StatusOK)

	if !strings.Contains(w.Body.String(), "<html") {
		t.Error("Expected the editor page")
	}
}

func strPtr(s string) *string {
	return &s
}
