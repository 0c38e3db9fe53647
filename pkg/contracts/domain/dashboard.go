package domain

// TrafficMetrics groups traffic and engagement KPIs.
type TrafficMetrics struct {
	TotalSessions     int             `json:"total_sessions"`
	UniqueUsers       int             `json:"unique_users"`
	SessionsByChannel map[Channel]int `json:"sessions_by_channel"`
	TotalPageviews    int             `json:"total_pageviews"`
}

// FunnelSteps holds raw reach counts for each checkout funnel step.
type FunnelSteps struct {
	Sessions int `json:"sessions"`
	Products int `json:"products"`
	Cart     int `json:"cart"`
	Shipping int `json:"shipping"`
	Billing  int `json:"billing"`
	Purchase int `json:"purchase"`
}

// ConversionMetrics groups conversion funnel KPIs. All rates are 0 when their
// denominator is 0.
type ConversionMetrics struct {
	OverallConversionRate float64             `json:"overall_conversion_rate"`
	TotalConversions      int                 `json:"total_conversions"`
	ConversionByChannel   map[Channel]float64 `json:"conversion_by_channel"`
	ConversionByDevice    map[string]float64  `json:"conversion_by_device"`
	FunnelSteps           FunnelSteps         `json:"funnel_steps"`
}

// RevenueMetrics groups revenue KPIs. AverageOrderValue is computed over
// converted sessions only.
type RevenueMetrics struct {
	TotalRevenue      float64             `json:"total_revenue"`
	AverageOrderValue float64             `json:"average_order_value"`
	RevenuePerSession float64             `json:"revenue_per_session"`
	RevenueByChannel  map[Channel]float64 `json:"revenue_by_channel"`
}

// QualityMetrics groups refund and customer health KPIs. OverallRefundRate is
// the refund rate among buyers, not among all sessions.
type QualityMetrics struct {
	OverallRefundRate  float64         `json:"overall_refund_rate"`
	TotalRefunds       int             `json:"total_refunds"`
	RepeatCustomerRate float64         `json:"repeat_customer_rate"`
	AtRiskSegments     map[Channel]int `json:"at_risk_segments"`
}

// ProductMetrics is the per-product performance row, sorted descending by
// revenue in dashboard output.
type ProductMetrics struct {
	ProductID    int64   `json:"product_id"`
	ProductName  string  `json:"product_name"`
	SalesCount   int     `json:"sales_count"`
	TotalRevenue float64 `json:"total_revenue"`
	TotalMargin  float64 `json:"total_margin"`
}

// Dashboard is the complete KPI document consumed by the presentation layer.
type Dashboard struct {
	Traffic    TrafficMetrics    `json:"traffic"`
	Conversion ConversionMetrics `json:"conversion"`
	Revenue    RevenueMetrics    `json:"revenue"`
	Quality    QualityMetrics    `json:"quality"`
	Products   []ProductMetrics  `json:"products"`
}
