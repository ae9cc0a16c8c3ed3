package deck

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	wserr "github.com/amterp/webslide/internal/errors"
	"github.com/amterp/webslide/internal/model"
	"github.com/amterp/webslide/internal/version"
)

const importTime int64 = 1767225600000

func TestExportImport_Idempotent(t *testing.T) {
	s, _, _ := newTestState(t)
	s.UpdateSlide(0, model.SlideUpdate{Title: strPtr("One"), HTML: strPtr("<h1>1</h1>"), CSS: strPtr("h1{}"), Markdown: strPtr("# 1")})
	s.AddSlide()
	s.UpdateSlide(1, model.SlideUpdate{HTML: strPtr("<p>2</p>")})
	before := s.Slides()

	text, err := s.ExportPresentation()
	if err != nil {
		t.Fatalf("ExportPresentation failed: %v", err)
	}
	if !s.ImportPresentation(text) {
		t.Fatal("ImportPresentation of own export failed")
	}

	after := s.Slides()
	if len(after) != len(before) {
		t.Fatalf("Len mismatch: got %d, want %d", len(after), len(before))
	}
	for i := range before {
		b, a := before[i], after[i]
		if a.ID != b.ID || a.Title != b.Title || a.HTML != b.HTML || a.CSS != b.CSS || a.Markdown != b.Markdown {
			t.Errorf("slide %d mismatch:\n got %+v\nwant %+v", i, a, b)
		}
		if a.CreatedAt != b.CreatedAt || a.UpdatedAt != b.UpdatedAt {
			t.Errorf("slide %d timestamps changed", i)
		}
	}
	if s.CurrentIndex() != 0 {
		t.Errorf("Import should reset cursor, got %d", s.CurrentIndex())
	}
}

func TestExport_Shape(t *testing.T) {
	s, clock, _ := newTestState(t)
	created := s.Metadata().UpdatedAt
	clock.Advance(5 * time.Second)

	text, err := s.ExportPresentation()
	if err != nil {
		t.Fatalf("ExportPresentation failed: %v", err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		t.Fatalf("export is not JSON: %v", err)
	}
	for _, key := range []string{"metadata", "slides"} {
		if _, ok := doc[key]; !ok {
			t.Errorf("export missing %q", key)
		}
	}
	if _, ok := doc["currentSlideIndex"]; ok {
		t.Error("export should not carry the cursor")
	}

	var meta model.Metadata
	json.Unmarshal(doc["metadata"], &meta)
	if meta.Version != version.CurrentDeckFormat {
		t.Errorf("Version mismatch: got %q, want %q", meta.Version, version.CurrentDeckFormat)
	}
	if meta.UpdatedAt <= created {
		t.Errorf("Export should refresh updatedAt: got %d, was %d", meta.UpdatedAt, created)
	}
	if !strings.Contains(text, "\n  \"slides\"") {
		t.Error("export should be indented")
	}
}

func TestImport_LegacyShape(t *testing.T) {
	s, _, _ := newTestState(t)
	legacy := `{
		"version": "2.0",
		"slides": [
			{"id": "a", "title": "First", "html": "<p>a</p>"},
			{"id": "b", "title": "", "html": "<p>b</p>", "css": "p{}"}
		]
	}`

	if !s.ImportPresentation(legacy) {
		t.Fatal("legacy import failed")
	}

	slides := s.Slides()
	if len(slides) != 2 {
		t.Fatalf("Len mismatch: got %d, want 2", len(slides))
	}
	if slides[0].CSS != "" || slides[0].Markdown != "" {
		t.Errorf("Missing css/markdown should default to empty: %+v", slides[0])
	}
	if slides[0].CreatedAt == 0 || slides[0].UpdatedAt == 0 {
		t.Errorf("Missing timestamps should be backfilled: %+v", slides[0])
	}
	if slides[1].Title != "Slide 2" {
		t.Errorf("Blank title should default: got %q", slides[1].Title)
	}
	if slides[1].CSS != "p{}" {
		t.Errorf("CSS mismatch: got %q", slides[1].CSS)
	}
	if s.Metadata().Version != version.CurrentDeckFormat {
		t.Errorf("Version mismatch: got %q", s.Metadata().Version)
	}
}

func TestImport_EnvelopedShapeKeepsMetadata(t *testing.T) {
	text := `{"metadata":{"version":"2.0","createdAt":100,"updatedAt":200,"title":"Talk","author":"Ana"},
		"slides":[{"id":"x","title":"T","html":"","css":"","markdown":"","createdAt":10,"updatedAt":20}]}`

	p, err := Decode(text, importTime)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if p.Metadata.CreatedAt != 100 || p.Metadata.UpdatedAt != 200 {
		t.Errorf("Metadata timestamps mismatch: %+v", p.Metadata)
	}
	if p.Metadata.Title != "Talk" || p.Metadata.Author != "Ana" {
		t.Errorf("Metadata text mismatch: %+v", p.Metadata)
	}
	if p.Slides[0].CreatedAt != 10 || p.Slides[0].UpdatedAt != 20 {
		t.Errorf("Slide timestamps mismatch: %+v", p.Slides[0])
	}
}

func TestDecode_Rejects(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"not json", `{slides:`},
		{"array root", `[{"id":"a","html":""}]`},
		{"trailing data", `{"slides":[{"id":"a","html":""}]} {}`},
		{"missing slides", `{"version":"2.0"}`},
		{"slides not array", `{"slides":{"id":"a"}}`},
		{"empty slides", `{"slides":[]}`},
		{"slide not object", `{"slides":["a"]}`},
		{"missing id", `{"slides":[{"html":""}]}`},
		{"blank id", `{"slides":[{"id":"  ","html":""}]}`},
		{"numeric id", `{"slides":[{"id":7,"html":""}]}`},
		{"missing html", `{"slides":[{"id":"a"}]}`},
		{"html not string", `{"slides":[{"id":"a","html":1}]}`},
		{"title not string", `{"slides":[{"id":"a","html":"","title":5}]}`},
		{"css not string", `{"slides":[{"id":"a","html":"","css":[]}]}`},
		{"timestamp not number", `{"slides":[{"id":"a","html":"","createdAt":"yesterday"}]}`},
		{"duplicate ids", `{"slides":[{"id":"a","html":""},{"id":"a","html":""}]}`},
		{"metadata not object", `{"metadata":"x","slides":[{"id":"a","html":""}]}`},
		{"newer format", `{"metadata":{"version":"3.0"},"slides":[{"id":"a","html":""}]}`},
		{"second slide bad", `{"slides":[{"id":"a","html":""},{"id":"b"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.text, importTime)
			if err == nil {
				t.Fatal("expected error")
			}
			if !wserr.IsValidationError(err) {
				t.Errorf("expected validation error, got %T: %v", err, err)
			}
		})
	}
}

func TestImport_FailureLeavesStateUntouched(t *testing.T) {
	s, _, kv := newTestState(t)
	s.AddSlide()
	s.ForceSave()
	writes := kv.Sets()
	before := s.Snapshot()
	rec := &recorder{}
	s.Subscribe(rec)

	if s.ImportPresentation(`{"slides":[{"id":"ok","html":""},{"id":"bad"}]}`) {
		t.Fatal("import with an invalid slide should fail")
	}

	after := s.Snapshot()
	if !equalStrings(slideIDs(s), []string{before.Slides[0].ID, before.Slides[1].ID}) {
		t.Errorf("Slides changed: %v", slideIDs(s))
	}
	if after.CurrentSlideIndex != before.CurrentSlideIndex {
		t.Errorf("Cursor changed: got %d, want %d", after.CurrentSlideIndex, before.CurrentSlideIndex)
	}
	if len(rec.Types()) != 0 {
		t.Errorf("Expected no events, got %v", rec.Types())
	}
	if s.Pending() || kv.Sets() != writes {
		t.Error("Failed import should not persist")
	}
}

func TestImport_NotifiesAndSchedulesSave(t *testing.T) {
	s, _, _ := newTestState(t)
	rec := &recorder{}
	s.Subscribe(rec)

	ok := s.ImportPresentation(`{"slides":[{"id":"a","html":""},{"id":"b","html":""},{"id":"c","html":""}]}`)
	if !ok {
		t.Fatal("import failed")
	}

	e := rec.Last()
	if e.Type != EventPresentationLoaded || e.SlideCount != 3 {
		t.Errorf("Unexpected event: %+v", e)
	}
	if !s.Pending() {
		t.Error("Import should schedule a save")
	}
}

func TestDecode_AcceptsFractionalTimestamps(t *testing.T) {
	p, err := Decode(`{"slides":[{"id":"a","html":"","createdAt":1700000000000.0}]}`, importTime)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if p.Slides[0].CreatedAt != 1700000000000 {
		t.Errorf("CreatedAt mismatch: got %d", p.Slides[0].CreatedAt)
	}
	if p.Slides[0].UpdatedAt != p.Slides[0].CreatedAt {
		t.Errorf("Missing updatedAt should default to createdAt: got %d", p.Slides[0].UpdatedAt)
	}
}

func TestEncode_NilSlidesAsArray(t *testing.T) {
	text, err := Encode(model.Presentation{})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if !strings.Contains(text, `"slides": []`) {
		t.Errorf("expected empty array, got %s", text)
	}
}
