// Package htmltomarkdown renders stored articles as Markdown.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/medfeed"
)

// Ensure Converter implements medfeed.Converter and medfeed.ArticleRenderer at compile time.
var (
	_ medfeed.Converter       = (*Converter)(nil)
	_ medfeed.ArticleRenderer = (*Converter)(nil)
)

// Converter wraps html-to-markdown to convert HTML to Markdown.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Converter{conv: conv}
}

// Convert transforms HTML content into Markdown.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", medfeed.Errorf(medfeed.EINVALID, "empty HTML input")
	}

	result, err := c.conv.ConvertString(html)
	if err != nil {
		return "", medfeed.Errorf(medfeed.EINTERNAL, "converting HTML: %v", err)
	}

	return result, nil
}

// ConvertArticle renders an article's reading flow, with its images in
// place, as Markdown.
func (c *Converter) ConvertArticle(a *medfeed.Article) (string, error) {
	return c.Convert(medfeed.FormatArticleHTML(a))
}
