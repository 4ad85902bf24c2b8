package templatefile

import (
	"bytes"
	"fmt"
	"html"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"vahq/internal/model"
)

// The goldmark instance is immutable once built and safe to share.
var (
	markdown     goldmark.Markdown
	markdownOnce sync.Once
)

func getMarkdown() goldmark.Markdown {
	markdownOnce.Do(func() {
		markdown = goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		)
	})
	return markdown
}

// RenderGuidance renders guidance sections as an HTML fragment: one <h2>
// per heading followed by its markdown body. Raw HTML in bodies is
// omitted.
func RenderGuidance(sections []model.GuidanceSection) (string, error) {
	var buf bytes.Buffer
	for i, sec := range sections {
		if i > 0 {
			buf.WriteByte('\n')
		}
		if sec.Heading != "" {
			fmt.Fprintf(&buf, "<h2>%s</h2>\n", html.EscapeString(sec.Heading))
		}
		if err := getMarkdown().Convert([]byte(sec.Body), &buf); err != nil {
			return "", fmt.Errorf("rendering guidance %q: %w", sec.Heading, err)
		}
	}
	return buf.String(), nil
}
