package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/amterp/webslide/internal/model"
)

// slideJson represents a slide with its position for JSON output.
//
// SYNC WARNING: This struct must stay in sync with model.Slide fields.
// If you add fields to model.Slide, add them here too. See TestSlideJsonFieldSync.
type slideJson struct {
	Position  int    `json:"position"` // 1-based, as accepted by <slide> arguments
	ID        string `json:"id"`
	Title     string `json:"title"`
	HTML      string `json:"html"`
	CSS       string `json:"css,omitempty"`
	Markdown  string `json:"markdown,omitempty"`
	CreatedAt int64  `json:"created_at_millis"`
	UpdatedAt int64  `json:"updated_at_millis"`
}

func slideToJson(s model.Slide, index int) slideJson {
	return slideJson{
		Position:  index + 1,
		ID:        s.ID,
		Title:     s.Title,
		HTML:      s.HTML,
		CSS:       s.CSS,
		Markdown:  s.Markdown,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// SlideOutput wraps a single slide for JSON output.
type SlideOutput struct {
	Slide slideJson `json:"slide"`
}

// NewSlideOutput creates a SlideOutput for the slide at index.
func NewSlideOutput(slide model.Slide, index int) SlideOutput {
	return SlideOutput{Slide: slideToJson(slide, index)}
}

// ListOutput wraps the whole deck for JSON output.
type ListOutput struct {
	Metadata model.Metadata `json:"metadata"`
	Slides   []slideJson    `json:"slides"`
	Current  int            `json:"current"` // 1-based
	Status   string         `json:"status"`
}

// NewListOutput creates a ListOutput from a deck snapshot.
// Always returns an empty array (not null) when there are no slides.
func NewListOutput(p model.Presentation) ListOutput {
	slides := make([]slideJson, 0, len(p.Slides))
	for i, s := range p.Slides {
		slides = append(slides, slideToJson(s, i))
	}
	return ListOutput{
		Metadata: p.Metadata,
		Slides:   slides,
		Current:  p.CurrentSlideIndex + 1,
		Status:   p.StatusLine(),
	}
}

// writeJson marshals the value as indented JSON and writes it to w.
func writeJson(w io.Writer, v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(output))
	return err
}
