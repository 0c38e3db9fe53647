// Package metrics computes the dashboard KPI groups from the master dataset
// and the cleaned item table. All computations are stateless, read-only
// aggregations, and every ratio with a zero denominator returns 0 by policy
// rather than raising.
package metrics

import (
	"context"
	"sort"

	"log/slog"

	"bearcart/pkg/contracts/domain"
)

// Engine computes grouped KPIs for the dashboard.
type Engine struct {
	logger *slog.Logger
}

// NewEngine creates a metrics engine. A nil logger falls back to slog.Default.
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger}
}

// Dashboard computes all five KPI groups.
func (e *Engine) Dashboard(ctx context.Context, records []domain.MasterRecord, items []domain.OrderItem) domain.Dashboard {
	dashboard := domain.Dashboard{
		Traffic:    e.Traffic(records),
		Conversion: e.Conversion(records),
		Revenue:    e.Revenue(records),
		Quality:    e.Quality(records),
		Products:   e.Products(items),
	}

	e.logger.InfoContext(ctx, "computed dashboard metrics",
		slog.Int("sessions", dashboard.Traffic.TotalSessions),
		slog.Float64("conversion_rate", dashboard.Conversion.OverallConversionRate),
		slog.Float64("total_revenue", dashboard.Revenue.TotalRevenue))

	return dashboard
}

// Traffic computes traffic and engagement KPIs.
func (e *Engine) Traffic(records []domain.MasterRecord) domain.TrafficMetrics {
	users := make(map[int64]bool)
	byChannel := make(map[domain.Channel]int)
	pageviews := 0

	for _, r := range records {
		users[r.UserID] = true
		byChannel[r.TrafficChannel]++
		pageviews += r.TotalPageviews
	}

	return domain.TrafficMetrics{
		TotalSessions:     len(records),
		UniqueUsers:       len(users),
		SessionsByChannel: byChannel,
		TotalPageviews:    pageviews,
	}
}

// Conversion computes funnel and conversion-rate KPIs. Grouped rates are the
// mean of the conversion flag within each group.
func (e *Engine) Conversion(records []domain.MasterRecord) domain.ConversionMetrics {
	converted := 0
	channelSessions := make(map[domain.Channel]int)
	channelConverted := make(map[domain.Channel]int)
	deviceSessions := make(map[string]int)
	deviceConverted := make(map[string]int)
	var funnel domain.FunnelSteps

	for _, r := range records {
		converted += r.ConversionFlag
		channelSessions[r.TrafficChannel]++
		channelConverted[r.TrafficChannel] += r.ConversionFlag
		deviceSessions[r.DeviceType]++
		deviceConverted[r.DeviceType] += r.ConversionFlag

		funnel.Sessions += r.StepHome
		funnel.Products += r.StepProduct
		funnel.Cart += r.StepCart
		funnel.Shipping += r.StepShipping
		funnel.Billing += r.StepBilling
		funnel.Purchase += r.StepThankYou
	}

	byChannel := make(map[domain.Channel]float64, len(channelSessions))
	for ch, n := range channelSessions {
		byChannel[ch] = ratio(channelConverted[ch], n)
	}
	byDevice := make(map[string]float64, len(deviceSessions))
	for dev, n := range deviceSessions {
		byDevice[dev] = ratio(deviceConverted[dev], n)
	}

	return domain.ConversionMetrics{
		OverallConversionRate: ratio(converted, len(records)),
		TotalConversions:      converted,
		ConversionByChannel:   byChannel,
		ConversionByDevice:    byDevice,
		FunnelSteps:           funnel,
	}
}

// Revenue computes revenue KPIs. Average order value is the mean of
// total_order_value over converted sessions only.
func (e *Engine) Revenue(records []domain.MasterRecord) domain.RevenueMetrics {
	total := 0.0
	convertedTotal := 0.0
	convertedCount := 0
	byChannel := make(map[domain.Channel]float64)

	for _, r := range records {
		total += r.TotalOrderValue
		byChannel[r.TrafficChannel] += r.TotalOrderValue
		if r.Converted {
			convertedTotal += r.TotalOrderValue
			convertedCount++
		}
	}

	aov := 0.0
	if convertedCount > 0 {
		aov = convertedTotal / float64(convertedCount)
	}
	perSession := 0.0
	if len(records) > 0 {
		perSession = total / float64(len(records))
	}

	return domain.RevenueMetrics{
		TotalRevenue:      total,
		AverageOrderValue: aov,
		RevenuePerSession: perSession,
		RevenueByChannel:  byChannel,
	}
}

// Quality computes refund and customer health KPIs. The refund rate divides
// refunded sessions by converted sessions; it measures refunds among buyers,
// not among all sessions.
func (e *Engine) Quality(records []domain.MasterRecord) domain.QualityMetrics {
	refunded := 0
	converted := 0
	returning := 0
	refundedByChannel := make(map[domain.Channel]int)

	for _, r := range records {
		if r.WasRefunded == 1 {
			refunded++
			refundedByChannel[r.TrafficChannel]++
		}
		if r.Converted {
			converted++
		}
		if r.CustomerSegment == domain.SegmentReturning {
			returning++
		}
	}

	return domain.QualityMetrics{
		OverallRefundRate:  ratio(refunded, converted),
		TotalRefunds:       refunded,
		RepeatCustomerRate: ratio(returning, len(records)),
		AtRiskSegments:     topChannels(refundedByChannel, 5),
	}
}

// Products computes per-product sales, revenue, and margin from the item
// table, sorted descending by revenue. The result is empty when no item data
// is available.
func (e *Engine) Products(items []domain.OrderItem) []domain.ProductMetrics {
	if len(items) == 0 {
		return []domain.ProductMetrics{}
	}

	byProduct := make(map[int64]*domain.ProductMetrics)
	for _, item := range items {
		p, ok := byProduct[item.ProductID]
		if !ok {
			p = &domain.ProductMetrics{
				ProductID:   item.ProductID,
				ProductName: item.ProductName,
			}
			byProduct[item.ProductID] = p
		}
		p.SalesCount++
		p.TotalRevenue += item.PriceUSD
		p.TotalMargin += item.MarginUSD
	}

	products := make([]domain.ProductMetrics, 0, len(byProduct))
	for _, p := range byProduct {
		products = append(products, *p)
	}
	sort.Slice(products, func(i, j int) bool {
		if products[i].TotalRevenue != products[j].TotalRevenue {
			return products[i].TotalRevenue > products[j].TotalRevenue
		}
		return products[i].ProductID < products[j].ProductID
	})

	return products
}

// ratio divides two counts, returning 0 for a zero denominator.
func ratio(numerator, denominator int) float64 {
	if denominator == 0 {
		return 0
	}
	return float64(numerator) / float64(denominator)
}

// topChannels keeps the n channels with the highest counts.
func topChannels(counts map[domain.Channel]int, n int) map[domain.Channel]int {
	if len(counts) <= n {
		return counts
	}

	type entry struct {
		channel domain.Channel
		count   int
	}
	entries := make([]entry, 0, len(counts))
	for ch, c := range counts {
		entries = append(entries, entry{ch, c})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].channel < entries[j].channel
	})

	top := make(map[domain.Channel]int, n)
	for _, e := range entries[:n] {
		top[e.channel] = e.count
	}
	return top
}
