// Package render turns inbox Markdown into sanitized HTML plus a short
// plain-text description.
package render

import (
	"bytes"
	"html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldhtml "github.com/yuin/goldmark/renderer/html"
)

// DefaultDescriptionMax is the description length used when none is configured.
const DefaultDescriptionMax = 200

// Renderer converts Markdown to sanitized HTML. It is safe for concurrent use.
type Renderer struct {
	md             goldmark.Markdown
	maxDescription int
}

// New returns a Renderer truncating descriptions to maxDescription runes.
func New(maxDescription int) *Renderer {
	if maxDescription < 1 {
		maxDescription = DefaultDescriptionMax
	}
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			// Raw HTML is kept and then filtered by Sanitize.
			goldmark.WithRendererOptions(goldhtml.WithUnsafe()),
		),
		maxDescription: maxDescription,
	}
}

// Render returns the sanitized HTML for markdown and its description.
// It never fails: if conversion errors, the source is escaped and shown literally.
func (r *Renderer) Render(markdown string) (string, string) {
	var buf bytes.Buffer
	out := ""
	if err := r.md.Convert([]byte(markdown), &buf); err != nil {
		out = "<p>" + html.EscapeString(markdown) + "</p>\n"
	} else {
		out = buf.String()
	}

	safe := Sanitize(out)
	return safe, Describe(safe, r.maxDescription)
}
