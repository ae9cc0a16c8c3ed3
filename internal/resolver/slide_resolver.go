package resolver

import (
	"strconv"
	"strings"

	wserr "github.com/amterp/webslide/internal/errors"
	"github.com/amterp/webslide/internal/model"
)

// SlideSource is the read side of a deck the resolver looks slides up in.
type SlideSource interface {
	Slides() []model.Slide
}

// SlideResolver handles slide position and ID resolution.
type SlideResolver struct {
	source SlideSource
}

// NewSlideResolver creates a new slide resolver.
func NewSlideResolver(source SlideSource) *SlideResolver {
	return &SlideResolver{source: source}
}

// Resolve finds a slide by 1-based position or by ID and returns its 0-based
// index. Positions win over IDs; slide IDs are never purely numeric.
func (r *SlideResolver) Resolve(ref string) (int, model.Slide, error) {
	ref = strings.TrimSpace(ref)
	slides := r.source.Slides()

	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(slides) {
			return 0, model.Slide{}, wserr.IndexOutOfRange(n, len(slides))
		}
		return n - 1, slides[n-1], nil
	}

	for i, s := range slides {
		if s.ID == ref {
			return i, s, nil
		}
	}

	// Unambiguous ID prefix, e.g. the part after "slide-"
	match := -1
	for i, s := range slides {
		if ref != "" && (strings.HasPrefix(s.ID, ref) || strings.HasPrefix(strings.TrimPrefix(s.ID, "slide-"), ref)) {
			if match >= 0 {
				return 0, model.Slide{}, wserr.InvalidField("slide", "ambiguous reference "+strconv.Quote(ref))
			}
			match = i
		}
	}
	if match >= 0 {
		return match, slides[match], nil
	}

	return 0, model.Slide{}, wserr.SlideNotFound(ref)
}
