package cleaning

import (
	"context"

	"log/slog"

	"bearcart/internal/dataset"
	"bearcart/pkg/contracts/domain"
)

// CleanRefunds validates the order_item_refunds table against the cleaned
// orders. A refund that predates its order, or whose amount exceeds the
// order's value, is invalid and dropped. Refunds whose order_id has no match
// are kept; neither check is verifiable without the order.
func (c *Cleaner) CleanRefunds(ctx context.Context, t *dataset.Table, orders []domain.Order) ([]domain.Refund, Fragment) {
	fragment := NewFragment(dataset.TableRefunds)
	fragment.RowsIn = t.Len()

	ordersByID := make(map[int64]domain.Order, len(orders))
	for _, o := range orders {
		ordersByID[o.OrderID] = o
	}

	refunds := make([]domain.Refund, 0, t.Len())
	seen := make(map[int64]bool, t.Len())

	for i := 0; i < t.Len(); i++ {
		row := t.Row(i)

		id, ok := row.Int64("order_item_refund_id")
		if !ok {
			fragment.Count(ReasonInvalidID)
			continue
		}
		if seen[id] {
			fragment.Count(ReasonDuplicate)
			continue
		}

		refundDate, ok := row.Time("created_at")
		if !ok {
			fragment.Count(ReasonInvalidDate)
			continue
		}

		amount, ok := row.Float64("refund_amount_usd")
		if !ok {
			fragment.Count(ReasonMissingValue)
			continue
		}
		if amount < 0 {
			amount = 0
		}

		orderID, _ := row.Int64("order_id")
		if order, matched := ordersByID[orderID]; matched {
			if refundDate.Before(order.OrderDate) {
				fragment.Count(ReasonInvalidDate)
				continue
			}
			if amount > order.OrderValue {
				fragment.Count(ReasonRefundExceedsOrder)
				continue
			}
		}

		itemID, _ := row.Int64("order_item_id")

		seen[id] = true
		refunds = append(refunds, domain.Refund{
			RefundID:    id,
			OrderItemID: itemID,
			OrderID:     orderID,
			RefundDate:  refundDate,
			AmountUSD:   amount,
		})
	}

	fragment.RowsOut = len(refunds)
	c.logger.InfoContext(ctx, "cleaned refunds table",
		slog.Int("rows_in", fragment.RowsIn),
		slog.Int("rows_out", fragment.RowsOut),
		slog.Int("invalid_dates", fragment.Removed[ReasonInvalidDate]),
		slog.Int("exceeds_order", fragment.Removed[ReasonRefundExceedsOrder]))

	return refunds, fragment
}
