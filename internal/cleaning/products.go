package cleaning

import (
	"context"

	"log/slog"

	"bearcart/internal/dataset"
	"bearcart/pkg/contracts/domain"
)

// CleanProducts validates the product catalog. product_id must be numeric;
// rows with non-numeric ids are dropped and duplicates keep the first
// occurrence. The launch date is optional.
func (c *Cleaner) CleanProducts(ctx context.Context, t *dataset.Table) ([]domain.Product, Fragment) {
	fragment := NewFragment(dataset.TableProducts)
	fragment.RowsIn = t.Len()

	products := make([]domain.Product, 0, t.Len())
	seen := make(map[int64]bool, t.Len())

	for i := 0; i < t.Len(); i++ {
		row := t.Row(i)

		id, ok := row.Int64("product_id")
		if !ok {
			fragment.Count(ReasonInvalidID)
			continue
		}
		if seen[id] {
			fragment.Count(ReasonDuplicate)
			continue
		}

		name := row.String("product_name")
		if name == "" {
			name = "Unknown Product"
		}

		launchedAt, _ := row.Time("created_at")

		seen[id] = true
		products = append(products, domain.Product{
			ProductID:  id,
			Name:       name,
			LaunchedAt: launchedAt,
		})
	}

	fragment.RowsOut = len(products)
	c.logger.InfoContext(ctx, "cleaned products table",
		slog.Int("rows_in", fragment.RowsIn),
		slog.Int("rows_out", fragment.RowsOut))

	return products, fragment
}
