package api

import (
	"fmt"
	"html"
	"net/http"

	"github.com/amterp/webslide/internal/model"
)

// GenerateFaviconSVG creates an SVG favicon from the favicon config.
func GenerateFaviconSVG(cfg *model.FaviconConfig) string {
	bg := cfg.Background
	if bg == "" {
		bg = model.FaviconColors[0]
	}

	var content string
	if cfg.IconType == model.IconTypeEmoji && cfg.Emoji != "" {
		// Emoji variant - larger font, centered
		content = fmt.Sprintf(
			`<text x="50%%" y="50%%" dominant-baseline="central" text-anchor="middle" font-size="20">%s</text>`,
			html.EscapeString(cfg.Emoji),
		)
	} else {
		// Letter variant (default)
		letter := cfg.Letter
		if letter == "" {
			letter = "W"
		}
		content = fmt.Sprintf(
			`<text x="50%%" y="50%%" dominant-baseline="central" text-anchor="middle" fill="white" font-family="system-ui, -apple-system, sans-serif" font-weight="600" font-size="20">%s</text>`,
			html.EscapeString(letter),
		)
	}

	return fmt.Sprintf(
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 32 32"><rect width="32" height="32" rx="6" fill="%s"/>%s</svg>`,
		html.EscapeString(bg), content,
	)
}

// GetFavicon serves the favicon generated from the [favicon] config section.
func (h *Handler) GetFavicon(w http.ResponseWriter, r *http.Request) {
	favicon := h.config.Favicon
	if favicon.Background == "" {
		favicon = model.DefaultFaviconConfig("webslide")
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write([]byte(GenerateFaviconSVG(&favicon)))
}
