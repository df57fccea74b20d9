package dashboard

import (
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// HTMLFile is the optional HTML rendition of the dashboard.
const HTMLFile = "index.html"

// RenderHTML converts dashboard markdown into a standalone HTML page.
func RenderHTML(md string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	r := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.CompletePage,
		Title: Title,
	})
	return markdown.ToHTML([]byte(md), p, r)
}
