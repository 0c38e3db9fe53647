package domain

import (
	"time"
)

// MasterRecord is one session-grain row of the master dataset: the cleaned
// session joined with its order aggregates, funnel vector, refund status, and
// the derived behavioral features. Numeric columns are always populated;
// sessions without orders or pageviews carry zeros, never missing values.
type MasterRecord struct {
	// Session columns
	SessionID       int64     `json:"session_id" csv:"session_id"`
	UserID          int64     `json:"user_id" csv:"user_id"`
	SessionDate     time.Time `json:"session_date" csv:"session_date"`
	IsRepeatSession int       `json:"is_repeat_session" csv:"is_repeat_session"`
	TrafficSource   string    `json:"traffic_source" csv:"traffic_source"`
	UTMCampaign     string    `json:"utm_campaign" csv:"utm_campaign"`
	HTTPReferer     string    `json:"http_referer,omitempty" csv:"http_referer"`
	DeviceType      string    `json:"device_type" csv:"device_type"`

	// Order aggregates
	OrdersInSession int       `json:"orders_in_session" csv:"orders_in_session"`
	TotalOrderValue float64   `json:"total_order_value" csv:"total_order_value"`
	AvgOrderValue   float64   `json:"avg_order_value" csv:"avg_order_value"`
	FirstOrderDate  time.Time `json:"first_order_date,omitempty" csv:"first_order_date"`
	Converted       bool      `json:"converted" csv:"converted"`
	ConversionFlag  int       `json:"conversion_flag" csv:"conversion_flag"`

	// Funnel vector
	TotalPageviews int `json:"total_pageviews" csv:"total_pageviews"`
	StepHome       int `json:"step_home" csv:"step_home"`
	StepProduct    int `json:"step_product" csv:"step_product"`
	StepCart       int `json:"step_cart" csv:"step_cart"`
	StepShipping   int `json:"step_shipping" csv:"step_shipping"`
	StepBilling    int `json:"step_billing" csv:"step_billing"`
	StepThankYou   int `json:"step_thankyou" csv:"step_thankyou"`

	// Refund status, max over the session's orders
	WasRefunded int `json:"was_refunded" csv:"was_refunded"`

	// Derived features
	TrafficChannel  Channel `json:"traffic_channel" csv:"traffic_channel"`
	CustomerSegment Segment `json:"customer_segment" csv:"customer_segment"`
	MaxProductRisk  float64 `json:"max_product_risk" csv:"max_product_risk"`
	HourOfDay       int     `json:"hour_of_day" csv:"hour_of_day"`
	DayOfWeek       string  `json:"day_of_week" csv:"day_of_week"`
	IsWeekend       bool    `json:"is_weekend" csv:"is_weekend"`
}
