package medfeed

import (
	"html"
	"sort"
	"strings"
)

// FormatArticleHTML renders an article's reading flow as an HTML fragment.
// The flow is rebuilt from the paragraph sequence alone: placeholder
// paragraphs become <img> elements using the image they reference.
// Paragraphs citing a figure get a data-figure attribute naming it.
func FormatArticleHTML(a *Article) string {
	images := make(map[int]*Image, len(a.Images))
	for _, img := range a.Images {
		images[img.Position] = img
	}

	paragraphs := make([]*Paragraph, len(a.Paragraphs))
	copy(paragraphs, a.Paragraphs)
	sort.SliceStable(paragraphs, func(i, j int) bool {
		return paragraphs[i].Order < paragraphs[j].Order
	})

	var b strings.Builder
	b.WriteString("<article>\n<h1>")
	b.WriteString(html.EscapeString(a.Title))
	b.WriteString("</h1>\n")

	for _, p := range paragraphs {
		img := images[p.ImageRef]
		if p.IsPlaceholder() {
			if img == nil {
				continue
			}
			b.WriteString(`<p><img src="`)
			b.WriteString(html.EscapeString(img.URL))
			b.WriteString(`" alt="`)
			b.WriteString(html.EscapeString(img.Identifier))
			b.WriteString(`"></p>`)
			b.WriteString("\n")
			continue
		}
		b.WriteString("<p")
		if img != nil {
			b.WriteString(` data-figure="`)
			b.WriteString(html.EscapeString(img.Identifier))
			b.WriteString(`"`)
		}
		b.WriteString(">")
		b.WriteString(html.EscapeString(p.Content))
		b.WriteString("</p>\n")
	}

	b.WriteString("</article>\n")
	return b.String()
}
