package goquery

import (
	"bytes"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/medfeed"
)

var (
	_ medfeed.CatalogExtractor = (*ColumnListExtractor)(nil)
	_ medfeed.CatalogExtractor = (*RecordListExtractor)(nil)
)

// ColumnListExtractor extracts article links from a numbered column
// index page.
type ColumnListExtractor struct{}

// NewColumnListExtractor creates a new ColumnListExtractor.
func NewColumnListExtractor() *ColumnListExtractor {
	return &ColumnListExtractor{}
}

// ExtractEntries returns the article links of a column page in document
// order, deduplicated by URL.
func (e *ColumnListExtractor) ExtractEntries(html []byte, baseURL string) ([]medfeed.CatalogEntry, error) {
	base, doc, err := parseFragment(html, baseURL)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var entries []medfeed.CatalogEntry
	doc.Find(".column_list li.box_li").Each(func(_ int, li *goquery.Selection) {
		href, ok := li.Find(".arR_top a.dy_title").First().Attr("href")
		if !ok {
			return
		}
		resolved := resolveURL(base, href)
		if resolved == "" || seen[resolved] {
			return
		}
		seen[resolved] = true
		entries = append(entries, medfeed.CatalogEntry{URL: resolved})
	})
	return entries, nil
}

// RecordListExtractor extracts links and listing dates from the record
// fragments returned by a dataproxy catalog.
type RecordListExtractor struct {
	// Location is the zone of listing dates. Defaults to ChinaTime.
	Location *time.Location
}

// NewRecordListExtractor creates a new RecordListExtractor.
func NewRecordListExtractor() *RecordListExtractor {
	return &RecordListExtractor{}
}

// ExtractEntries returns one entry per list item holding a link that
// opens in a new window. The date in span.riq is attached when it
// parses.
func (e *RecordListExtractor) ExtractEntries(html []byte, baseURL string) ([]medfeed.CatalogEntry, error) {
	base, doc, err := parseFragment(html, baseURL)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var entries []medfeed.CatalogEntry
	doc.Find("li").Each(func(_ int, li *goquery.Selection) {
		href, ok := li.Find("a[target=_blank]").First().Attr("href")
		if !ok {
			return
		}
		resolved := resolveURL(base, href)
		if resolved == "" || seen[resolved] {
			return
		}
		seen[resolved] = true

		entry := medfeed.CatalogEntry{URL: resolved}
		if t, ok := parseDate(li.Find("span.riq").First().Text(), e.Location); ok {
			entry.PublishedAt = &t
		}
		entries = append(entries, entry)
	})
	return entries, nil
}

func parseFragment(html []byte, baseURL string) (*url.URL, *goquery.Document, error) {
	base, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, nil, medfeed.Errorf(medfeed.EINVALID, "invalid base URL: %v", err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, nil, medfeed.Errorf(medfeed.EINVALID, "failed to parse HTML: %v", err)
	}
	return base, doc, nil
}
