// Package master joins the cleaned tables into the session-grain master
// dataset. Every surviving session produces exactly one record, and every
// numeric column is populated; sessions without orders or pageviews carry
// zeros rather than missing values. Downstream metrics code relies on that
// guarantee.
package master

import (
	"context"
	"sort"
	"time"

	"log/slog"

	"bearcart/pkg/contracts/domain"
)

// Builder assembles master records from cleaned inputs.
type Builder struct {
	logger *slog.Logger
}

// NewBuilder creates a builder. A nil logger falls back to slog.Default.
func NewBuilder(logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{logger: logger}
}

// orderAggregate accumulates per-session order statistics.
type orderAggregate struct {
	count       int
	total       float64
	firstOrder  time.Time
	wasRefunded int
}

// RefundedOrders returns the set of order ids with at least one surviving
// refund.
func RefundedOrders(refunds []domain.Refund) map[int64]bool {
	refunded := make(map[int64]bool, len(refunds))
	for _, r := range refunds {
		refunded[r.OrderID] = true
	}
	return refunded
}

// Build produces one master record per cleaned session. Orders are aggregated
// by session (count, sum, mean of value, earliest date) and left-joined along
// with the refund status and the funnel vector; aggregates for sessions with
// no matching rows fill to zero, and the mean of zero orders is 0, not
// undefined. Output is ordered by session id.
func (b *Builder) Build(ctx context.Context, sessions []domain.Session, orders []domain.Order, refunds []domain.Refund, funnels []domain.SessionFunnel) []domain.MasterRecord {
	refunded := RefundedOrders(refunds)

	aggregates := make(map[int64]*orderAggregate, len(sessions))
	for _, o := range orders {
		agg, ok := aggregates[o.SessionID]
		if !ok {
			agg = &orderAggregate{}
			aggregates[o.SessionID] = agg
		}
		agg.count++
		agg.total += o.OrderValue
		if agg.firstOrder.IsZero() || o.OrderDate.Before(agg.firstOrder) {
			agg.firstOrder = o.OrderDate
		}
		if refunded[o.OrderID] {
			// Session-level refund status is the max over its orders.
			agg.wasRefunded = 1
		}
	}

	funnelsBySession := make(map[int64]domain.SessionFunnel, len(funnels))
	for _, f := range funnels {
		funnelsBySession[f.SessionID] = f
	}

	records := make([]domain.MasterRecord, 0, len(sessions))
	for _, s := range sessions {
		record := domain.MasterRecord{
			SessionID:       s.SessionID,
			UserID:          s.UserID,
			SessionDate:     s.SessionDate,
			IsRepeatSession: s.IsRepeatSession,
			TrafficSource:   s.TrafficSource,
			UTMCampaign:     s.UTMCampaign,
			HTTPReferer:     s.HTTPReferer,
			DeviceType:      s.DeviceType,
		}

		if agg, ok := aggregates[s.SessionID]; ok {
			record.OrdersInSession = agg.count
			record.TotalOrderValue = agg.total
			record.AvgOrderValue = agg.total / float64(agg.count)
			record.FirstOrderDate = agg.firstOrder
			record.WasRefunded = agg.wasRefunded
		}

		record.Converted = record.OrdersInSession > 0
		if record.Converted {
			record.ConversionFlag = 1
		}

		if f, ok := funnelsBySession[s.SessionID]; ok {
			record.TotalPageviews = f.TotalPageviews
			record.StepHome = f.StepHome
			record.StepProduct = f.StepProduct
			record.StepCart = f.StepCart
			record.StepShipping = f.StepShipping
			record.StepBilling = f.StepBilling
			record.StepThankYou = f.StepThankYou
		}

		records = append(records, record)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].SessionID < records[j].SessionID
	})

	b.logger.InfoContext(ctx, "built master dataset",
		slog.Int("sessions", len(sessions)),
		slog.Int("records", len(records)))

	return records
}
