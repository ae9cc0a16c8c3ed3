package render

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/amterp/webslide/internal/model"
)

// DefaultDeckTitle is used when the deck has no title of its own.
const DefaultDeckTitle = "WebSlide"

// Each slide is isolated in its own iframe so slide CSS can't leak.
var deckTemplate = template.Must(template.New("deck").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <meta name="generator" content="webslide {{.Version}}">
  <title>{{.Title}}</title>
  <style>
    html, body { margin: 0; height: 100%; background: #111; }
    .slide { position: absolute; inset: 0; display: none; }
    .slide.active { display: block; }
    .slide iframe { width: 100%; height: 100%; border: 0; background: #fff; }
    #counter {
      position: fixed; bottom: 16px; right: 24px;
      padding: 4px 12px; border-radius: 12px;
      background: rgba(0, 0, 0, 0.6); color: #fff;
      font: 14px -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
    }
  </style>
</head>
<body>
{{- range $i, $s := .Slides}}
  <section class="slide{{if eq $i 0}} active{{end}}" data-id="{{$s.ID}}" aria-label="{{$s.Title}}">
    <iframe title="{{$s.Title}}" sandbox="allow-scripts" srcdoc="{{$s.Document}}"></iframe>
  </section>
{{- end}}
  <div id="counter">1 / {{len .Slides}}</div>
  <script>
    (function () {
      var slides = document.querySelectorAll('.slide');
      var counter = document.getElementById('counter');
      var current = 0;
      function show(i) {
        if (i < 0 || i >= slides.length) return;
        slides[current].classList.remove('active');
        current = i;
        slides[current].classList.add('active');
        counter.textContent = (current + 1) + ' / ' + slides.length;
      }
      document.addEventListener('keydown', function (e) {
        if (e.key === 'ArrowRight' || e.key === ' ') { e.preventDefault(); show(current + 1); }
        else if (e.key === 'ArrowLeft') { e.preventDefault(); show(current - 1); }
        else if (e.key === 'Home') { show(0); }
        else if (e.key === 'End') { show(slides.length - 1); }
      });
    })();
  </script>
</body>
</html>
`))

type deckSlide struct {
	ID       string
	Title    string
	Document string
}

type deckData struct {
	Title   string
	Version string
	Slides  []deckSlide
}

// DeckDocument renders the whole presentation as a single self-contained
// HTML page with keyboard navigation.
func DeckDocument(p model.Presentation) (string, error) {
	data := deckData{
		Title:   p.Metadata.Title,
		Version: p.Metadata.Version,
	}
	if data.Title == "" {
		data.Title = DefaultDeckTitle
	}

	for i, s := range p.Slides {
		doc, err := PreviewDocument(s)
		if err != nil {
			return "", fmt.Errorf("slide %d: %w", i+1, err)
		}
		data.Slides = append(data.Slides, deckSlide{ID: s.ID, Title: s.Title, Document: doc})
	}

	var buf bytes.Buffer
	if err := deckTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render deck: %w", err)
	}
	return buf.String(), nil
}
