package mock

import "github.com/fwojciec/medfeed"

// Compile-time interface verification.
var (
	_ medfeed.Converter       = (*Converter)(nil)
	_ medfeed.ArticleRenderer = (*ArticleRenderer)(nil)
)

// Converter is a mock implementation of medfeed.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}

// ArticleRenderer is a mock implementation of medfeed.ArticleRenderer.
type ArticleRenderer struct {
	ConvertArticleFn func(a *medfeed.Article) (string, error)
}

func (r *ArticleRenderer) ConvertArticle(a *medfeed.Article) (string, error) {
	return r.ConvertArticleFn(a)
}
