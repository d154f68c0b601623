package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/medfeed"
)

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	a, err := findArticle(deps.Ctx, deps.Articles, c.Ref)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", medfeed.ErrorMessage(err))
		return err
	}

	md, err := deps.Renderer.ConvertArticle(a)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", medfeed.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, md)
	return nil
}

// findArticle loads an article with its content by ID or source URL.
func findArticle(ctx context.Context, articles medfeed.ArticleService, ref string) (*medfeed.Article, error) {
	if !strings.Contains(ref, "://") {
		return articles.FindArticleByID(ctx, ref)
	}
	a, err := articles.FindArticleBySourceURL(ctx, ref)
	if err != nil {
		return nil, err
	}
	return articles.FindArticleByID(ctx, a.ID)
}
