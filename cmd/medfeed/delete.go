package main

import (
	"fmt"

	"github.com/fwojciec/medfeed"
)

// Run executes the delete command.
func (c *DeleteCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return medfeed.Errorf(medfeed.EINVALID, "use --force to confirm deletion")
	}

	a, err := findArticle(deps.Ctx, deps.Articles, c.ID)
	if err != nil {
		if medfeed.ErrorCode(err) == medfeed.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: article %q not found. Use 'medfeed list' to see available articles.\n", c.ID)
		} else {
			fmt.Fprintf(deps.Stderr, "error: %s\n", medfeed.ErrorMessage(err))
		}
		return err
	}

	if err := deps.Articles.DeleteArticle(deps.Ctx, a.ID); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", medfeed.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted article %q (%s)\n", a.Title, a.ID)
	return nil
}
