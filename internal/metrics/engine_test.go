package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bearcart/pkg/contracts/domain"
)

// threeSessionFixture is one converted (refunded) paid-search session, one
// browsing session, and one bounce.
func threeSessionFixture() []domain.MasterRecord {
	day := time.Date(2012, 3, 19, 8, 0, 0, 0, time.UTC)
	return []domain.MasterRecord{
		{
			SessionID: 1, UserID: 10, SessionDate: day,
			TrafficChannel: domain.ChannelPaidSearch, DeviceType: "Desktop",
			OrdersInSession: 1, TotalOrderValue: 100, AvgOrderValue: 100,
			Converted: true, ConversionFlag: 1, WasRefunded: 1,
			TotalPageviews: 6, StepHome: 1, StepProduct: 1, StepCart: 1,
			StepShipping: 1, StepBilling: 1, StepThankYou: 1,
			CustomerSegment: domain.SegmentNew,
		},
		{
			SessionID: 2, UserID: 11, SessionDate: day,
			TrafficChannel: domain.ChannelDirect, DeviceType: "Mobile",
			TotalPageviews: 3, StepHome: 1, StepProduct: 1,
			CustomerSegment: domain.SegmentReturning,
		},
		{
			SessionID: 3, UserID: 10, SessionDate: day,
			TrafficChannel: domain.ChannelPaidSearch, DeviceType: "Desktop",
			TotalPageviews: 1, StepHome: 1,
			CustomerSegment: domain.SegmentNew,
		},
	}
}

// TestTraffic tests traffic and engagement KPIs
func TestTraffic(t *testing.T) {
	engine := NewEngine(nil)

	m := engine.Traffic(threeSessionFixture())
	assert.Equal(t, 3, m.TotalSessions)
	assert.Equal(t, 2, m.UniqueUsers, "user 10 appears twice")
	assert.Equal(t, 10, m.TotalPageviews)
	assert.Equal(t, 2, m.SessionsByChannel[domain.ChannelPaidSearch])
	assert.Equal(t, 1, m.SessionsByChannel[domain.ChannelDirect])
}

// TestConversion tests conversion-rate and funnel KPIs
func TestConversion(t *testing.T) {
	engine := NewEngine(nil)

	m := engine.Conversion(threeSessionFixture())
	assert.InDelta(t, 1.0/3.0, m.OverallConversionRate, 0.0001)
	assert.Equal(t, 1, m.TotalConversions)

	assert.InDelta(t, 0.5, m.ConversionByChannel[domain.ChannelPaidSearch], 0.0001)
	assert.InDelta(t, 0.0, m.ConversionByChannel[domain.ChannelDirect], 0.0001)
	assert.InDelta(t, 0.5, m.ConversionByDevice["Desktop"], 0.0001)

	assert.Equal(t, 3, m.FunnelSteps.Sessions)
	assert.Equal(t, 2, m.FunnelSteps.Products)
	assert.Equal(t, 1, m.FunnelSteps.Cart)
	assert.Equal(t, 1, m.FunnelSteps.Purchase)
}

// TestRevenue tests revenue KPIs
func TestRevenue(t *testing.T) {
	engine := NewEngine(nil)

	m := engine.Revenue(threeSessionFixture())
	assert.InDelta(t, 100.0, m.TotalRevenue, 0.0001)
	assert.InDelta(t, 100.0, m.AverageOrderValue, 0.0001, "mean over converted sessions only")
	assert.InDelta(t, 100.0/3.0, m.RevenuePerSession, 0.0001)
	assert.InDelta(t, 100.0, m.RevenueByChannel[domain.ChannelPaidSearch], 0.0001)
}

// TestQuality tests refund and customer health KPIs
func TestQuality(t *testing.T) {
	engine := NewEngine(nil)

	m := engine.Quality(threeSessionFixture())
	assert.InDelta(t, 1.0, m.OverallRefundRate, 0.0001, "refunded sessions over converted sessions")
	assert.Equal(t, 1, m.TotalRefunds)
	assert.InDelta(t, 1.0/3.0, m.RepeatCustomerRate, 0.0001)
	assert.Equal(t, 1, m.AtRiskSegments[domain.ChannelPaidSearch])
}

// TestZeroDenominators tests that every ratio degrades to zero
func TestZeroDenominators(t *testing.T) {
	engine := NewEngine(nil)

	t.Run("empty dataset", func(t *testing.T) {
		d := engine.Dashboard(context.Background(), nil, nil)
		assert.Equal(t, 0, d.Traffic.TotalSessions)
		assert.Equal(t, 0.0, d.Conversion.OverallConversionRate)
		assert.Equal(t, 0.0, d.Revenue.AverageOrderValue)
		assert.Equal(t, 0.0, d.Revenue.RevenuePerSession)
		assert.Equal(t, 0.0, d.Quality.OverallRefundRate)
		assert.Equal(t, 0.0, d.Quality.RepeatCustomerRate)
		assert.Empty(t, d.Products)
	})

	t.Run("no conversions", func(t *testing.T) {
		records := []domain.MasterRecord{
			{SessionID: 1, TrafficChannel: domain.ChannelDirect, DeviceType: "Desktop"},
		}
		assert.Equal(t, 0.0, engine.Conversion(records).OverallConversionRate)
		assert.Equal(t, 0.0, engine.Revenue(records).AverageOrderValue)
		assert.Equal(t, 0.0, engine.Quality(records).OverallRefundRate)
	})
}

// TestRateBounds tests that every rate stays within the unit interval
func TestRateBounds(t *testing.T) {
	engine := NewEngine(nil)
	records := threeSessionFixture()

	conversion := engine.Conversion(records)
	quality := engine.Quality(records)

	rates := []float64{conversion.OverallConversionRate, quality.OverallRefundRate, quality.RepeatCustomerRate}
	for _, byChannel := range conversion.ConversionByChannel {
		rates = append(rates, byChannel)
	}
	for _, r := range rates {
		assert.GreaterOrEqual(t, r, 0.0)
		assert.LessOrEqual(t, r, 1.0)
	}
}

// TestProducts tests the product revenue ranking
func TestProducts(t *testing.T) {
	engine := NewEngine(nil)

	items := []domain.OrderItem{
		{OrderItemID: 1, ProductID: 1, ProductName: "The Original Mr. Fuzzy", PriceUSD: 49.99, MarginUSD: 30.50},
		{OrderItemID: 2, ProductID: 1, ProductName: "The Original Mr. Fuzzy", PriceUSD: 49.99, MarginUSD: 30.50},
		{OrderItemID: 3, ProductID: 2, ProductName: "The Forever Love Bear", PriceUSD: 59.99, MarginUSD: 35.00},
	}

	products := engine.Products(items)
	require.Len(t, products, 2)

	assert.Equal(t, int64(1), products[0].ProductID, "sorted by revenue descending")
	assert.Equal(t, 2, products[0].SalesCount)
	assert.InDelta(t, 99.98, products[0].TotalRevenue, 0.001)
	assert.InDelta(t, 61.00, products[0].TotalMargin, 0.001)

	assert.Equal(t, int64(2), products[1].ProductID)
	assert.InDelta(t, 59.99, products[1].TotalRevenue, 0.001)
}

// TestAtRiskSegmentsTopN tests that the at-risk list is capped at five channels
func TestAtRiskSegmentsTopN(t *testing.T) {
	engine := NewEngine(nil)

	channels := []domain.Channel{
		domain.ChannelPaidSearch, domain.ChannelEmail, domain.ChannelSocial,
		domain.ChannelDirect, domain.ChannelReferral, domain.ChannelOrganicSearch,
		domain.ChannelOther,
	}
	var records []domain.MasterRecord
	for i, ch := range channels {
		// Channel i gets i+1 refunded sessions.
		for n := 0; n <= i; n++ {
			records = append(records, domain.MasterRecord{
				SessionID: int64(len(records) + 1), TrafficChannel: ch,
				Converted: true, ConversionFlag: 1, WasRefunded: 1,
			})
		}
	}

	m := engine.Quality(records)
	assert.Len(t, m.AtRiskSegments, 5)
	assert.NotContains(t, m.AtRiskSegments, domain.ChannelPaidSearch, "lowest counts fall out")
	assert.NotContains(t, m.AtRiskSegments, domain.ChannelEmail)
	assert.Equal(t, 7, m.AtRiskSegments[domain.ChannelOther])
}
