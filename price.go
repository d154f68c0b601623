package medfeed

import (
	"context"
	"strings"
	"time"
)

// Price categories.
const (
	PriceCategoryCT  = "CT"
	PriceCategoryCTA = "CTA"
)

// Price is one procedure price listing.
type Price struct {
	ID          string    `json:"id"`
	Category    string    `json:"category"`
	ProjectName string    `json:"projectName"`
	Price       float64   `json:"price"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Validate returns an error if the price contains invalid fields.
func (p *Price) Validate() error {
	if p.Category == "" {
		return Errorf(EINVALID, "price category required")
	}
	if p.ProjectName == "" {
		return Errorf(EINVALID, "price project name required")
	}
	return nil
}

// PriceService represents a service for managing price listings.
type PriceService interface {
	// CreatePrices stores all prices in one transaction.
	CreatePrices(ctx context.Context, prices []*Price) error

	// FindPrices retrieves prices matching the filter.
	FindPrices(ctx context.Context, filter PriceFilter) ([]*Price, error)
}

// PriceFilter represents a filter for FindPrices.
type PriceFilter struct {
	Category *string `json:"category"`
}

// PriceRow is a raw row scraped from a price table.
type PriceRow struct {
	ProjectName string
	Price       string
}

// PriceExtractor extracts price rows from a listing page.
type PriceExtractor interface {
	ExtractPrices(html []byte) ([]PriceRow, error)
}

// PriceAverage is the mean price of listings whose name contains Target.
type PriceAverage struct {
	Target  string
	Average float64
	Count   int
}

// AveragePrices computes the mean price for each target. A listing
// counts toward every target its project name contains. Targets with no
// matching listing average to zero.
func AveragePrices(prices []*Price, targets []string) []PriceAverage {
	out := make([]PriceAverage, len(targets))
	totals := make([]float64, len(targets))
	for i, t := range targets {
		out[i].Target = t
	}
	for _, p := range prices {
		for i, t := range targets {
			if strings.Contains(p.ProjectName, t) {
				totals[i] += p.Price
				out[i].Count++
			}
		}
	}
	for i := range out {
		if out[i].Count > 0 {
			out[i].Average = totals[i] / float64(out[i].Count)
		}
	}
	return out
}
