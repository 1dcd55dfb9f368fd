package templating

import (
	"bytes"
	"fmt"
	"html/template"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// markdownRenderer renders cell text as Markdown for the markdown helper.
type markdownRenderer struct {
	md goldmark.Markdown
}

func newMarkdownRenderer() *markdownRenderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM, // Tables, strikethrough, autolinks, task lists
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true), // Colors come from the template stylesheet
				),
			),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(), // Spreadsheet cells rarely contain intentional soft wraps
			// Raw HTML in cells is omitted: WithUnsafe() is not set.
		),
	)
	return &markdownRenderer{md: md}
}

// helper converts a value from Markdown to trusted HTML.
func (m *markdownRenderer) helper(v any) (template.HTML, error) {
	src, err := stringArg("markdown", v)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := m.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("%w: markdown: %v", ErrFilter, err)
	}
	return template.HTML(buf.String()), nil // #nosec G203 -- goldmark output with raw HTML disabled
}
