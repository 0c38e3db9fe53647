// Package features adds the derived behavioral columns onto the master
// dataset: traffic channel, customer segment, product risk, and time-of-day
// features. Each feature is independent of the others.
package features

import (
	"context"
	"time"

	"log/slog"

	"bearcart/internal/channel"
	"bearcart/internal/master"
	"bearcart/pkg/contracts/domain"
)

// Engineer derives feature columns from the master dataset and the raw order
// item linkage.
type Engineer struct {
	logger *slog.Logger
}

// NewEngineer creates an engineer. A nil logger falls back to slog.Default.
func NewEngineer(logger *slog.Logger) *Engineer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engineer{logger: logger}
}

// Enrich returns a new slice of master records with all derived feature
// columns populated. The input slice is not modified.
func (e *Engineer) Enrich(ctx context.Context, records []domain.MasterRecord, orders []domain.Order, items []domain.OrderItem, refunds []domain.Refund) []domain.MasterRecord {
	sessionRisk := e.sessionRisk(orders, items, refunds)

	enriched := make([]domain.MasterRecord, len(records))
	for i, record := range records {
		record.TrafficChannel = channel.Classify(record.TrafficSource, record.UTMCampaign, record.HTTPReferer)

		// An absent repeat flag was normalized to 0 upstream; unknown
		// visitors default to New.
		record.CustomerSegment = domain.SegmentNew
		if record.IsRepeatSession == 1 {
			record.CustomerSegment = domain.SegmentReturning
		}

		record.MaxProductRisk = sessionRisk[record.SessionID]

		record.HourOfDay = record.SessionDate.Hour()
		record.DayOfWeek = record.SessionDate.Weekday().String()
		record.IsWeekend = isWeekend(record.SessionDate)

		enriched[i] = record
	}

	e.logger.InfoContext(ctx, "engineered features",
		slog.Int("records", len(enriched)),
		slog.Int("sessions_with_risk", len(sessionRisk)))

	return enriched
}

// sessionRisk computes, for each session, the maximum empirical refund rate
// among the products purchased in that session's orders. A product's refund
// rate is the mean of its items' order-level refund status. Sessions with no
// purchases are absent from the result and read back as 0.
func (e *Engineer) sessionRisk(orders []domain.Order, items []domain.OrderItem, refunds []domain.Refund) map[int64]float64 {
	refunded := master.RefundedOrders(refunds)

	orderSession := make(map[int64]int64, len(orders))
	for _, o := range orders {
		orderSession[o.OrderID] = o.SessionID
	}

	type riskAccumulator struct {
		items    int
		refunded int
	}
	perProduct := make(map[int64]*riskAccumulator)
	for _, item := range items {
		acc, ok := perProduct[item.ProductID]
		if !ok {
			acc = &riskAccumulator{}
			perProduct[item.ProductID] = acc
		}
		acc.items++
		if refunded[item.OrderID] {
			acc.refunded++
		}
	}

	productRisk := make(map[int64]float64, len(perProduct))
	for productID, acc := range perProduct {
		if acc.items > 0 {
			productRisk[productID] = float64(acc.refunded) / float64(acc.items)
		}
	}

	sessionRisk := make(map[int64]float64)
	for _, item := range items {
		sessionID, ok := orderSession[item.OrderID]
		if !ok {
			continue
		}
		if risk := productRisk[item.ProductID]; risk > sessionRisk[sessionID] {
			sessionRisk[sessionID] = risk
		} else if _, seen := sessionRisk[sessionID]; !seen {
			sessionRisk[sessionID] = 0
		}
	}

	return sessionRisk
}

// isWeekend reports whether the timestamp falls on Saturday or Sunday.
func isWeekend(ts time.Time) bool {
	wd := ts.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
