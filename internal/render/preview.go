package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/amterp/webslide/internal/model"
)

// Slide bodies are author-controlled, so raw HTML inside markdown is kept.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
	goldmark.WithRendererOptions(
		gmhtml.WithUnsafe(),
	),
)

const baseFont = `-apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Oxygen, Ubuntu, Cantarell, sans-serif`

var previewTemplate = template.Must(template.New("preview").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}}</title>
  <style>
    body {
      margin: 0;
      padding: 0;
      font-family: {{.Font}};
    }
  </style>
{{- if .CSS}}
  <style>{{.CSS}}</style>
{{- end}}
</head>
<body>
{{.Body}}
</body>
</html>
`))

type previewData struct {
	Title string
	Font  template.CSS
	CSS   template.CSS
	Body  template.HTML
}

// MarkdownToHTML renders CommonMark with GitHub extensions.
func MarkdownToHTML(src string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return buf.String(), nil
}

// Body returns the markup a slide displays: its HTML, or its rendered
// markdown when the HTML is blank.
func Body(slide model.Slide) (string, error) {
	if strings.TrimSpace(slide.HTML) != "" || strings.TrimSpace(slide.Markdown) == "" {
		return slide.HTML, nil
	}
	return MarkdownToHTML(slide.Markdown)
}

// PreviewDocument wraps a slide in a standalone HTML document suitable for
// an iframe.
func PreviewDocument(slide model.Slide) (string, error) {
	body, err := Body(slide)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	err = previewTemplate.Execute(&buf, previewData{
		Title: slide.Title,
		Font:  template.CSS(baseFont),
		CSS:   template.CSS(slide.CSS),
		Body:  template.HTML(body),
	})
	if err != nil {
		return "", fmt.Errorf("failed to render preview: %w", err)
	}
	return buf.String(), nil
}
