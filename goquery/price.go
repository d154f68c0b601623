package goquery

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/medfeed"
)

var _ medfeed.PriceExtractor = (*PriceTableExtractor)(nil)

// PriceTableExtractor reads price listings from the first table of a
// page. Rows have the columns code, project name, unit and price.
type PriceTableExtractor struct{}

// NewPriceTableExtractor creates a new PriceTableExtractor.
func NewPriceTableExtractor() *PriceTableExtractor {
	return &PriceTableExtractor{}
}

// ExtractPrices returns the name and price cells of every row with at
// least four cells. Header rows built from th cells are skipped. A page
// without a table yields no rows.
func (e *PriceTableExtractor) ExtractPrices(html []byte) ([]medfeed.PriceRow, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, medfeed.Errorf(medfeed.EINVALID, "failed to parse HTML: %v", err)
	}

	var rows []medfeed.PriceRow
	doc.Find("table").First().Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cols := tr.Find("td")
		if cols.Length() < 4 {
			return
		}
		rows = append(rows, medfeed.PriceRow{
			ProjectName: strings.TrimSpace(cols.Eq(1).Text()),
			Price:       strings.TrimSpace(cols.Eq(3).Text()),
		})
	})
	return rows, nil
}
