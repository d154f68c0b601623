package http

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/medfeed"
)

// DataProxyPath is the endpoint path serving paged column records.
const DataProxyPath = "/module/web/jpage/dataproxy.jsp"

// DefaultPageSize is the number of records requested per page.
const DefaultPageSize = 20

// columnRe extracts the column ID from a column index URL such as
// /col/col982/index.html.
var columnRe = regexp.MustCompile(`/col/col(\d+)/`)

var _ medfeed.CatalogSource = (*DataProxyCatalog)(nil)

// FormPoster posts a form and returns the response body.
type FormPoster interface {
	PostForm(ctx context.Context, target string, form url.Values) ([]byte, error)
}

// DataProxyCatalog pages through a column via form POSTs to a dataproxy
// endpoint. Each response is XML carrying the total page count and the
// page's records as HTML fragments.
type DataProxyCatalog struct {
	poster    FormPoster
	extractor medfeed.CatalogExtractor

	// Endpoint receives the form POSTs.
	Endpoint string

	// BaseURL resolves record links.
	BaseURL string

	// Form holds the fixed form fields. The page field is set per request.
	Form url.Values
}

// NewDataProxyCatalog creates a catalog for the column index at
// columnURL. The endpoint and column ID are derived from the URL.
func NewDataProxyCatalog(poster FormPoster, extractor medfeed.CatalogExtractor, columnURL string) (*DataProxyCatalog, error) {
	u, err := url.Parse(columnURL)
	if err != nil || u.Host == "" {
		return nil, medfeed.Errorf(medfeed.EINVALID, "invalid column URL: %s", columnURL)
	}
	m := columnRe.FindStringSubmatch(u.Path)
	if m == nil {
		return nil, medfeed.Errorf(medfeed.EINVALID, "no column ID in URL: %s", columnURL)
	}

	origin := u.Scheme + "://" + u.Host
	return &DataProxyCatalog{
		poster:    poster,
		extractor: extractor,
		Endpoint:  origin + DataProxyPath,
		BaseURL:   origin,
		Form:      DataProxyForm(m[1]),
	}, nil
}

// DataProxyForm returns the form fields requesting records of a column.
func DataProxyForm(columnID string) url.Values {
	return url.Values{
		"col":               {"1"},
		"webid":             {"1"},
		"path":              {"/"},
		"columnid":          {columnID},
		"sourceContentType": {"1"},
		"unitid":            {"325"},
		"webname":           {"%E4%B8%AD%E5%8D%8E%E5%8C%BB%E5%AD%A6%E4%BC%9A"},
		"permissiontype":    {"0"},
		"pageSize":          {strconv.Itoa(DefaultPageSize)},
		"uid":               {"325"},
	}
}

// FetchCatalogPage posts the request for page and extracts its entries.
// TotalPages is taken from the response's totalpage element.
func (c *DataProxyCatalog) FetchCatalogPage(ctx context.Context, page int) (*medfeed.CatalogPage, error) {
	form := make(url.Values, len(c.Form)+1)
	for k, v := range c.Form {
		form[k] = v
	}
	form.Set("page", strconv.Itoa(page))

	body, err := c.poster.PostForm(ctx, c.Endpoint, form)
	if err != nil {
		return nil, err
	}

	total, records, err := parseDataProxy(body)
	if err != nil {
		return nil, err
	}

	entries, err := c.extractor.ExtractEntries([]byte(records), c.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("extracting records: %w", err)
	}

	return &medfeed.CatalogPage{Entries: entries, TotalPages: total}, nil
}

// parseDataProxy reads the total page count and the concatenated record
// fragments of a dataproxy response.
func parseDataProxy(body []byte) (int, string, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		return 0, "", medfeed.Errorf(medfeed.EINVALID, "parsing dataproxy XML: %v", err)
	}

	root := doc.Root()
	if root == nil {
		return 0, "", medfeed.Errorf(medfeed.EINVALID, "empty dataproxy XML")
	}

	var total int
	if el := root.SelectElement("totalpage"); el != nil {
		n, err := strconv.Atoi(strings.TrimSpace(el.Text()))
		if err != nil {
			return 0, "", medfeed.Errorf(medfeed.EINVALID, "invalid totalpage %q", el.Text())
		}
		total = n
	}

	var records strings.Builder
	for _, rec := range root.FindElements("recordset/record") {
		records.WriteString(rec.Text())
	}
	return total, records.String(), nil
}

// IsColumnURL reports whether rawURL addresses a column index served
// through the dataproxy endpoint.
func IsColumnURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	return err == nil && u.Host != "" && columnRe.MatchString(u.Path)
}
