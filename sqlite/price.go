package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/fwojciec/medfeed"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ medfeed.PriceService = (*PriceService)(nil)

// PriceService implements medfeed.PriceService using SQLite.
type PriceService struct {
	db *DB
}

// NewPriceService creates a new PriceService.
func NewPriceService(db *DB) *PriceService {
	return &PriceService{db: db}
}

// CreatePrices validates every price and stores them all in one
// transaction. IDs and CreatedAt are set on success.
func (s *PriceService) CreatePrices(ctx context.Context, prices []*medfeed.Price) error {
	for _, p := range prices {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	if len(prices) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return persistenceError("begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO prices (id, category, project_name, price, created_at)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return persistenceError("prepare insert", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	ids := make([]string, len(prices))
	for i, p := range prices {
		ids[i] = uuid.New().String()
		if _, err := stmt.ExecContext(ctx, ids[i], p.Category, p.ProjectName, p.Price, now.Format(time.RFC3339)); err != nil {
			return persistenceError("insert price", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return persistenceError("commit", err)
	}

	for i, p := range prices {
		p.ID = ids[i]
		p.CreatedAt = now
	}
	return nil
}

// FindPrices retrieves prices matching the filter in insertion order.
func (s *PriceService) FindPrices(ctx context.Context, filter medfeed.PriceFilter) ([]*medfeed.Price, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, category, project_name, price, created_at FROM prices WHERE 1=1")

	if filter.Category != nil {
		query.WriteString(" AND category = ?")
		args = append(args, *filter.Category)
	}
	query.WriteString(" ORDER BY rowid")

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var prices []*medfeed.Price
	for rows.Next() {
		var p medfeed.Price
		var createdAt string
		if err := rows.Scan(&p.ID, &p.Category, &p.ProjectName, &p.Price, &createdAt); err != nil {
			return nil, err
		}
		if p.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
			return nil, err
		}
		prices = append(prices, &p)
	}

	return prices, rows.Err()
}
