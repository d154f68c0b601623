package sqlite_test

import (
	"context"
	"testing"

	"github.com/fwojciec/medfeed"
	"github.com/fwojciec/medfeed/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceService_CreatePrices(t *testing.T) {
	t.Parallel()

	t.Run("stores prices in insertion order", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewPriceService(setupTestDB(t))
		ctx := context.Background()
		prices := []*medfeed.Price{
			{Category: medfeed.PriceCategoryCT, ProjectName: "CT平扫", Price: 120},
			{Category: medfeed.PriceCategoryCT, ProjectName: "CT增强", Price: 300},
			{Category: medfeed.PriceCategoryCTA, ProjectName: "头颈CTA", Price: 800},
		}

		require.NoError(t, svc.CreatePrices(ctx, prices))
		for _, p := range prices {
			assert.NotEmpty(t, p.ID)
			assert.False(t, p.CreatedAt.IsZero())
		}

		category := medfeed.PriceCategoryCT
		got, err := svc.FindPrices(ctx, medfeed.PriceFilter{Category: &category})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "CT平扫", got[0].ProjectName)
		assert.InDelta(t, 120.0, got[0].Price, 0.001)
		assert.Equal(t, "CT增强", got[1].ProjectName)

		all, err := svc.FindPrices(ctx, medfeed.PriceFilter{})
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})

	t.Run("writes nothing when any price is invalid", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewPriceService(db)

		err := svc.CreatePrices(context.Background(), []*medfeed.Price{
			{Category: medfeed.PriceCategoryCT, ProjectName: "CT平扫", Price: 120},
			{Category: medfeed.PriceCategoryCT},
		})

		assert.Equal(t, medfeed.EINVALID, medfeed.ErrorCode(err))
		assert.Zero(t, countRows(t, db, "prices"))
	})

	t.Run("accepts empty batch", func(t *testing.T) {
		t.Parallel()

		require.NoError(t, sqlite.NewPriceService(setupTestDB(t)).CreatePrices(context.Background(), nil))
	})
}
