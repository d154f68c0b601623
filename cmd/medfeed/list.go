package main

import (
	"fmt"

	"github.com/fwojciec/medfeed"
	"github.com/fwojciec/medfeed/goquery"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	articles, err := deps.Articles.FindArticles(deps.Ctx, medfeed.ArticleFilter{
		Limit:  c.Limit,
		Offset: c.Offset,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", medfeed.ErrorMessage(err))
		return err
	}

	if len(articles) == 0 {
		fmt.Fprintln(deps.Stdout, "No articles found. Use 'medfeed article' or 'medfeed catalog' to crawl some.")
		return nil
	}

	for _, a := range articles {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  %s\n     %s\n",
			a.ID, a.CreatedAt.In(goquery.ChinaTime).Format("2006-01-02"), a.ContentHash, a.Title, a.SourceURL)
	}

	return nil
}
