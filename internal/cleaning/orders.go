package cleaning

import (
	"context"

	"log/slog"

	"bearcart/internal/dataset"
	"bearcart/pkg/contracts/domain"
)

// CleanOrders validates the orders table against the already-cleaned
// sessions. An order whose timestamp precedes its session's is dropped. The
// session lookup is left-join semantics: an order whose session_id has no
// match is kept, since the temporal check is unverifiable without one.
func (c *Cleaner) CleanOrders(ctx context.Context, t *dataset.Table, sessions []domain.Session) ([]domain.Order, Fragment) {
	fragment := NewFragment(dataset.TableOrders)
	fragment.RowsIn = t.Len()

	sessionDates := make(map[int64]domain.Session, len(sessions))
	for _, s := range sessions {
		sessionDates[s.SessionID] = s
	}

	orders := make([]domain.Order, 0, t.Len())
	seen := make(map[int64]bool, t.Len())

	for i := 0; i < t.Len(); i++ {
		row := t.Row(i)

		id, ok := row.Int64("order_id")
		if !ok {
			fragment.Count(ReasonInvalidID)
			continue
		}
		if seen[id] {
			fragment.Count(ReasonDuplicate)
			continue
		}

		orderDate, ok := row.Time("created_at")
		if !ok {
			fragment.Count(ReasonInvalidDate)
			continue
		}

		sessionID, _ := row.Int64("website_session_id")
		if session, matched := sessionDates[sessionID]; matched && orderDate.Before(session.SessionDate) {
			fragment.Count(ReasonInvalidDate)
			continue
		}

		// Revenue is required; a non-numeric cell drops the row.
		value, ok := row.Float64("price_usd")
		if !ok {
			fragment.Count(ReasonMissingValue)
			continue
		}
		if value < 0 {
			fragment.Count(ReasonNegativeValue)
			continue
		}

		cogs, _ := row.Float64("cogs_usd")
		if cogs < 0 {
			cogs = 0
		}

		items, ok := row.Int64("items_purchased")
		if !ok || items < 1 {
			items = 1
		}

		userID, _ := row.Int64("user_id")
		primaryProduct, _ := row.Int64("primary_product_id")

		seen[id] = true
		orders = append(orders, domain.Order{
			OrderID:          id,
			SessionID:        sessionID,
			UserID:           userID,
			OrderDate:        orderDate,
			PrimaryProductID: primaryProduct,
			ItemsPurchased:   int(items),
			OrderValue:       value,
			CogsUSD:          cogs,
		})
	}

	fragment.RowsOut = len(orders)
	c.logger.InfoContext(ctx, "cleaned orders table",
		slog.Int("rows_in", fragment.RowsIn),
		slog.Int("rows_out", fragment.RowsOut),
		slog.Int("invalid_dates", fragment.Removed[ReasonInvalidDate]),
		slog.Int("negative_values", fragment.Removed[ReasonNegativeValue]))

	return orders, fragment
}
