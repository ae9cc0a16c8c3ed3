package deck

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	wserr "github.com/amterp/webslide/internal/errors"
	"github.com/amterp/webslide/internal/model"
	"github.com/amterp/webslide/internal/version"
)

// Encode serializes p in the enveloped {metadata, slides} shape.
func Encode(p model.Presentation) (string, error) {
	if p.Slides == nil {
		p.Slides = []model.Slide{}
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode presentation: %w", err)
	}
	return string(data), nil
}

// Decode parses and validates a serialized deck. Both the enveloped shape
// and the legacy bare {slides, version} shape are accepted. Missing optional
// fields are backfilled: css and markdown with "", timestamps with now, and
// blank titles with their positional default.
//
// Decode never returns a partially valid presentation.
func Decode(text string, now int64) (model.Presentation, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var root any
	if err := dec.Decode(&root); err != nil {
		return model.Presentation{}, wserr.InvalidField("presentation", "not valid JSON: "+err.Error())
	}
	if _, err := dec.Token(); err != io.EOF {
		return model.Presentation{}, wserr.InvalidField("presentation", "unexpected data after JSON document")
	}

	obj, ok := root.(map[string]any)
	if !ok {
		return model.Presentation{}, wserr.InvalidField("presentation", "must be a JSON object")
	}

	meta, err := decodeMetadata(obj, now)
	if err != nil {
		return model.Presentation{}, err
	}

	slides, err := decodeSlides(obj["slides"], now)
	if err != nil {
		return model.Presentation{}, err
	}

	return model.Presentation{Metadata: meta, Slides: slides}, nil
}

func decodeMetadata(obj map[string]any, now int64) (model.Metadata, error) {
	meta := model.Metadata{CreatedAt: now, UpdatedAt: now}

	format := version.CurrentDeckFormat
	if raw, ok := obj["metadata"]; ok && raw != nil {
		m, ok := raw.(map[string]any)
		if !ok {
			return meta, wserr.InvalidField("metadata", "must be an object")
		}
		var err error
		if format, err = optString(m, "version", "metadata.version", format); err != nil {
			return meta, err
		}
		if meta.CreatedAt, err = optMillis(m, "createdAt", "metadata.createdAt", now); err != nil {
			return meta, err
		}
		if meta.UpdatedAt, err = optMillis(m, "updatedAt", "metadata.updatedAt", meta.CreatedAt); err != nil {
			return meta, err
		}
		if meta.Title, err = optString(m, "title", "metadata.title", ""); err != nil {
			return meta, err
		}
		if meta.Author, err = optString(m, "author", "metadata.author", ""); err != nil {
			return meta, err
		}
	} else {
		var err error
		if format, err = optString(obj, "version", "version", format); err != nil {
			return meta, err
		}
	}

	if version.IsNewerDeckFormat(format) {
		return meta, wserr.InvalidField("version",
			fmt.Sprintf("deck format %s is newer than this build supports (%s); upgrade webslide", format, version.CurrentDeckFormat))
	}
	meta.Version = version.CurrentDeckFormat
	return meta, nil
}

func decodeSlides(raw any, now int64) ([]model.Slide, error) {
	if raw == nil {
		return nil, wserr.InvalidField("slides", "missing")
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, wserr.InvalidField("slides", "must be an array")
	}
	if len(items) == 0 {
		return nil, wserr.InvalidField("slides", "must contain at least one slide")
	}

	slides := make([]model.Slide, 0, len(items))
	seen := make(map[string]bool, len(items))
	for i, item := range items {
		field := fmt.Sprintf("slides[%d]", i)
		m, ok := item.(map[string]any)
		if !ok {
			return nil, wserr.InvalidField(field, "must be an object")
		}

		id, ok := m["id"].(string)
		if !ok || strings.TrimSpace(id) == "" {
			return nil, wserr.InvalidField(field+".id", "must be a non-empty string")
		}
		if seen[id] {
			return nil, wserr.InvalidField(field+".id", fmt.Sprintf("duplicate id %q", id))
		}
		seen[id] = true

		html, ok := m["html"].(string)
		if !ok {
			return nil, wserr.InvalidField(field+".html", "must be a string")
		}

		s := model.Slide{ID: id, HTML: html}
		var err error
		if s.Title, err = optString(m, "title", field+".title", ""); err != nil {
			return nil, err
		}
		if strings.TrimSpace(s.Title) == "" {
			s.Title = model.DefaultSlideTitle(i + 1)
		}
		if s.CSS, err = optString(m, "css", field+".css", ""); err != nil {
			return nil, err
		}
		if s.Markdown, err = optString(m, "markdown", field+".markdown", ""); err != nil {
			return nil, err
		}
		if s.CreatedAt, err = optMillis(m, "createdAt", field+".createdAt", now); err != nil {
			return nil, err
		}
		if s.UpdatedAt, err = optMillis(m, "updatedAt", field+".updatedAt", s.CreatedAt); err != nil {
			return nil, err
		}
		slides = append(slides, s)
	}
	return slides, nil
}

// optString reads an optional string; null counts as absent.
func optString(m map[string]any, key, field, def string) (string, error) {
	raw, ok := m[key]
	if !ok || raw == nil {
		return def, nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", wserr.InvalidField(field, "must be a string")
	}
	return s, nil
}

// optMillis reads an optional millisecond timestamp; null counts as absent.
func optMillis(m map[string]any, key, field string, def int64) (int64, error) {
	raw, ok := m[key]
	if !ok || raw == nil {
		return def, nil
	}
	n, ok := raw.(json.Number)
	if !ok {
		return 0, wserr.InvalidField(field, "must be a number")
	}
	if v, err := n.Int64(); err == nil {
		return v, nil
	}
	f, err := n.Float64()
	if err != nil {
		return 0, wserr.InvalidField(field, "must be a number")
	}
	return int64(f), nil
}
