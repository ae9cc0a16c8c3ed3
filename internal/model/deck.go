package model

import "fmt"

// Metadata describes a deck as a whole.
type Metadata struct {
	Version   string `json:"version"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
	Title     string `json:"title,omitempty"`
	Author    string `json:"author,omitempty"`
}

// Presentation is the aggregate persisted and exported unit.
// CurrentSlideIndex is never serialized.
type Presentation struct {
	Metadata          Metadata `json:"metadata"`
	Slides            []Slide  `json:"slides"`
	CurrentSlideIndex int      `json:"-"`
}

// CurrentSlide returns the slide under the cursor, or false if the cursor is
// out of range.
func (p Presentation) CurrentSlide() (Slide, bool) {
	if p.CurrentSlideIndex < 0 || p.CurrentSlideIndex >= len(p.Slides) {
		return Slide{}, false
	}
	return p.Slides[p.CurrentSlideIndex], true
}

// StatusLine renders the "Slide N of M" label shown under the editor.
func (p Presentation) StatusLine() string {
	return StatusLine(p.CurrentSlideIndex, len(p.Slides))
}

// StatusLine formats a 0-based index and a total as "Slide N of M".
func StatusLine(index, total int) string {
	return fmt.Sprintf("Slide %d of %d", index+1, total)
}

// Counter formats a 0-based index and a total as "N / M" for presentation mode.
func Counter(index, total int) string {
	return fmt.Sprintf("%d / %d", index+1, total)
}

// MetadataUpdate is a partial change to deck metadata. Nil fields are left
// unchanged.
type MetadataUpdate struct {
	Title  *string `json:"title,omitempty"`
	Author *string `json:"author,omitempty"`
}

// Apply merges the set fields into m.
func (u MetadataUpdate) Apply(m *Metadata) {
	if u.Title != nil {
		m.Title = *u.Title
	}
	if u.Author != nil {
		m.Author = *u.Author
	}
}

// IsEmpty reports whether the update sets nothing.
func (u MetadataUpdate) IsEmpty() bool {
	return u.Title == nil && u.Author == nil
}
