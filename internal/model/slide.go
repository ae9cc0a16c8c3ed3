package model

import "fmt"

// Slide is one page of a deck. HTML is the body the preview renders; CSS and
// Markdown are carried through untouched by the state store.
type Slide struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	HTML      string `json:"html"`
	CSS       string `json:"css"`
	Markdown  string `json:"markdown"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
}

// SlideUpdate carries a partial edit.
// Pointer fields indicate "set this field"; nil means "don't change".
type SlideUpdate struct {
	Title    *string `json:"title,omitempty"`
	HTML     *string `json:"html,omitempty"`
	CSS      *string `json:"css,omitempty"`
	Markdown *string `json:"markdown,omitempty"`
}

// IsEmpty reports whether the update sets no fields.
func (u SlideUpdate) IsEmpty() bool {
	return u.Title == nil && u.HTML == nil && u.CSS == nil && u.Markdown == nil
}

// Apply merges the set fields into s. Timestamps are left to the caller.
func (u SlideUpdate) Apply(s *Slide) {
	if u.Title != nil {
		s.Title = *u.Title
	}
	if u.HTML != nil {
		s.HTML = *u.HTML
	}
	if u.CSS != nil {
		s.CSS = *u.CSS
	}
	if u.Markdown != nil {
		s.Markdown = *u.Markdown
	}
}

// FieldNames lists the JSON names of the fields the update sets.
func (u SlideUpdate) FieldNames() []string {
	var names []string
	if u.Title != nil {
		names = append(names, "title")
	}
	if u.HTML != nil {
		names = append(names, "html")
	}
	if u.CSS != nil {
		names = append(names, "css")
	}
	if u.Markdown != nil {
		names = append(names, "markdown")
	}
	return names
}

// DefaultSlideTitle is the positional label given to untitled slides.
// position is 1-based.
func DefaultSlideTitle(position int) string {
	return fmt.Sprintf("Slide %d", position)
}

// CopyTitle is the title given to a duplicated slide.
func CopyTitle(title string) string {
	return title + " (Copy)"
}
