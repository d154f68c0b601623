package crawl

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/fwojciec/medfeed"
)

// DefaultPricePages is the number of listing pages scraped per category.
const DefaultPricePages = 3

// PriceCrawler scrapes procedure price listings.
type PriceCrawler struct {
	Fetcher     medfeed.Fetcher
	Extractor   medfeed.PriceExtractor
	Prices      medfeed.PriceService
	RateLimiter medfeed.DomainLimiter
}

// PriceResult holds the outcome of a price crawl.
type PriceResult struct {
	Saved       int
	Skipped     int
	Duplicates  int
	PagesFailed int
}

// pageVerb matches a "%d" placeholder that is not the start of a
// lowercase percent-encoded byte such as "%da".
var pageVerb = regexp.MustCompile(`%d([^0-9A-Fa-f]|$)`)

// PriceURL expands a listing URL template for page. The page number
// replaces "{}", or "%d" when there is no "{}". Other percent signs are
// left alone, so percent-encoded templates survive. A template with
// neither placeholder is returned as is.
func PriceURL(template string, page int) string {
	n := strconv.Itoa(page)
	if strings.Contains(template, "{}") {
		return strings.ReplaceAll(template, "{}", n)
	}
	return pageVerb.ReplaceAllString(template, n+"${1}")
}

// IsPagedTemplate reports whether template carries a page placeholder.
func IsPagedTemplate(template string) bool {
	return strings.Contains(template, "{}") || pageVerb.MatchString(template)
}

// priceKey identifies a listing row for de-duplication.
type priceKey struct {
	name  string
	price float64
}

// Crawl scrapes pages 1 through pages of the listing and stores every
// distinct row under category in a single batch. A template without a
// page placeholder is fetched once. Failed pages and rows without a
// readable price are skipped; rows repeating an earlier project name and
// price are dropped.
func (c *PriceCrawler) Crawl(ctx context.Context, category, template string, pages int) (*PriceResult, error) {
	if category == "" {
		return nil, medfeed.Errorf(medfeed.EINVALID, "price category required")
	}
	if pages <= 0 {
		pages = DefaultPricePages
	}
	if !IsPagedTemplate(template) {
		pages = 1
	}

	var (
		result PriceResult
		prices []*medfeed.Price
		seen   = make(map[priceKey]bool)
	)
	for page := 1; page <= pages; page++ {
		rows, err := c.fetchPage(ctx, PriceURL(template, page))
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			result.PagesFailed++
			continue
		}
		for _, row := range rows {
			value, err := parsePrice(row.Price)
			if err != nil || row.ProjectName == "" {
				result.Skipped++
				continue
			}
			key := priceKey{name: row.ProjectName, price: value}
			if seen[key] {
				result.Duplicates++
				continue
			}
			seen[key] = true
			prices = append(prices, &medfeed.Price{
				Category:    category,
				ProjectName: row.ProjectName,
				Price:       value,
			})
		}
	}

	if len(prices) == 0 {
		return &result, nil
	}
	if err := c.Prices.CreatePrices(ctx, prices); err != nil {
		return nil, err
	}
	result.Saved = len(prices)
	return &result, nil
}

func (c *PriceCrawler) fetchPage(ctx context.Context, pageURL string) ([]medfeed.PriceRow, error) {
	if err := waitHost(ctx, c.RateLimiter, pageURL); err != nil {
		return nil, err
	}
	body, err := c.Fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	return c.Extractor.ExtractPrices(body)
}

// parsePrice reads a listed price such as "1,280.00" or "¥ 350元".
func parsePrice(s string) (float64, error) {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ',', '，', '¥', '￥', '元', ' ', '\t', '\n', '\r', '\u00a0':
			return -1
		}
		return r
	}, s)
	return strconv.ParseFloat(s, 64)
}
