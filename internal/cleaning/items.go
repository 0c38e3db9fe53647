package cleaning

import (
	"context"

	"log/slog"

	"bearcart/internal/dataset"
	"bearcart/pkg/contracts/domain"
)

// CleanOrderItems validates the order_items table against the cleaned orders
// and enriches each item with its product name and margin. Orphan items whose
// order_id has no surviving order are dropped; unlike the temporal checks,
// referential integrity here is a hard requirement because item revenue rolls
// up into product metrics.
func (c *Cleaner) CleanOrderItems(ctx context.Context, t *dataset.Table, orders []domain.Order, products []domain.Product) ([]domain.OrderItem, Fragment) {
	fragment := NewFragment(dataset.TableItems)
	fragment.RowsIn = t.Len()

	validOrders := make(map[int64]bool, len(orders))
	for _, o := range orders {
		validOrders[o.OrderID] = true
	}
	productNames := make(map[int64]string, len(products))
	for _, p := range products {
		productNames[p.ProductID] = p.Name
	}

	items := make([]domain.OrderItem, 0, t.Len())
	seen := make(map[int64]bool, t.Len())

	for i := 0; i < t.Len(); i++ {
		row := t.Row(i)

		id, ok := row.Int64("order_item_id")
		if !ok {
			fragment.Count(ReasonInvalidID)
			continue
		}
		if seen[id] {
			fragment.Count(ReasonDuplicate)
			continue
		}

		orderID, ok := row.Int64("order_id")
		if !ok || !validOrders[orderID] {
			fragment.Count(ReasonOrphan)
			continue
		}

		price, _ := row.Float64("price_usd")
		if price < 0 {
			price = 0
		}
		cogs, _ := row.Float64("cogs_usd")
		if cogs < 0 {
			cogs = 0
		}

		productID, _ := row.Int64("product_id")
		name, found := productNames[productID]
		if !found {
			name = "Unknown Product"
		}

		primary := 0
		if v, ok := row.Int64("is_primary_item"); ok && v > 0 {
			primary = 1
		}

		createdAt, _ := row.Time("created_at")

		seen[id] = true
		items = append(items, domain.OrderItem{
			OrderItemID:   id,
			OrderID:       orderID,
			ProductID:     productID,
			CreatedAt:     createdAt,
			IsPrimaryItem: primary,
			PriceUSD:      price,
			CogsUSD:       cogs,
			MarginUSD:     price - cogs,
			ProductName:   name,
		})
	}

	fragment.RowsOut = len(items)
	c.logger.InfoContext(ctx, "cleaned order items table",
		slog.Int("rows_in", fragment.RowsIn),
		slog.Int("rows_out", fragment.RowsOut),
		slog.Int("orphans", fragment.Removed[ReasonOrphan]))

	return items, fragment
}
