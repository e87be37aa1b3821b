package importer

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/goliatone/go-anchorlink/internal/blocks"
)

// Renderer converts markdown documents into serialized block markup.
type Renderer struct {
	engine goldmark.Markdown
}

// NewRenderer builds a renderer with GFM, linkify and task lists enabled.
// Raw HTML in the source is passed through.
func NewRenderer() *Renderer {
	return &Renderer{
		engine: goldmark.New(
			goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.TaskList),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
	}
}

// Render returns the post body for doc: the markdown HTML wrapped in a
// core/html block, followed by an anchor-link block when read_more is set.
func (r *Renderer) Render(doc *Document) (string, error) {
	var buf bytes.Buffer
	if err := r.engine.Convert(doc.Body, &buf); err != nil {
		return "", fmt.Errorf("markdown render %s: %w", doc.Path, err)
	}

	var out strings.Builder
	if rendered := strings.TrimSpace(buf.String()); rendered != "" {
		out.WriteString("<!-- wp:html -->\n")
		out.WriteString(rendered)
		out.WriteString("\n<!-- /wp:html -->")
	}

	if doc.ReadMore != nil {
		markup, err := blocks.AnchorLinkMarkup(*doc.ReadMore)
		if err != nil {
			return "", fmt.Errorf("read_more in %s: %w", doc.Path, err)
		}
		if out.Len() > 0 {
			out.WriteString("\n\n")
		}
		out.WriteString(markup)
	}
	return out.String(), nil
}
