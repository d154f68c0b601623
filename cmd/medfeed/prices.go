package main

import (
	"fmt"

	"github.com/fwojciec/medfeed"
)

// Run executes the prices command.
func (c *PricesCmd) Run(deps *Dependencies) error {
	result, err := deps.PriceCrawler.Crawl(deps.Ctx, c.Category, c.Template, c.Pages)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", medfeed.ErrorMessage(err))
		return err
	}

	if result.Saved == 0 {
		fmt.Fprintf(deps.Stdout, "No %s prices found (%d pages failed)\n", c.Category, result.PagesFailed)
		return nil
	}
	fmt.Fprintf(deps.Stdout, "Saved %d %s prices (%d rows skipped, %d duplicates, %d pages failed)\n",
		result.Saved, c.Category, result.Skipped, result.Duplicates, result.PagesFailed)
	return nil
}

// Run executes the price-stats command.
func (c *PriceStatsCmd) Run(deps *Dependencies) error {
	prices, err := deps.Prices.FindPrices(deps.Ctx, medfeed.PriceFilter{Category: &c.Category})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", medfeed.ErrorMessage(err))
		return err
	}

	for _, avg := range medfeed.AveragePrices(prices, c.Targets) {
		if avg.Count == 0 {
			fmt.Fprintf(deps.Stdout, "%s: no listings\n", avg.Target)
			continue
		}
		fmt.Fprintf(deps.Stdout, "%s: %.2f (%d listings)\n", avg.Target, avg.Average, avg.Count)
	}
	return nil
}
