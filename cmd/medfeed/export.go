package main

import (
	"fmt"
	"path/filepath"

	"github.com/fwojciec/medfeed"
)

// Run executes the export command. Either every article is exported or
// the previous export is left untouched.
func (c *ExportCmd) Run(deps *Dependencies) (err error) {
	articles, err := deps.Articles.FindArticles(deps.Ctx, medfeed.ArticleFilter{})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", medfeed.ErrorMessage(err))
		return err
	}

	store := deps.NewExportStore(c.Dir, c.Name)
	defer func() {
		if err != nil {
			_ = store.Abort()
		}
	}()

	for _, summary := range articles {
		a, err := deps.Articles.FindArticleByID(deps.Ctx, summary.ID)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", medfeed.ErrorMessage(err))
			return err
		}
		md, err := deps.Renderer.ConvertArticle(a)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: rendering %s: %s\n", a.SourceURL, medfeed.ErrorMessage(err))
			return err
		}
		if err := store.Save(deps.Ctx, &medfeed.ExportedArticle{
			ID:        a.ID,
			SourceURL: a.SourceURL,
			Title:     a.Title,
			CreatedAt: a.CreatedAt,
			Content:   md,
		}); err != nil {
			fmt.Fprintf(deps.Stderr, "error: saving %s: %v\n", a.SourceURL, err)
			return err
		}
	}

	if err := store.Commit(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}

	fmt.Fprintf(deps.Stdout, "Exported %d articles to %s\n", len(articles), filepath.Join(c.Dir, c.Name))
	return nil
}
