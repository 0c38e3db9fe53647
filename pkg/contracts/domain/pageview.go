package domain

import (
	"time"
)

// Pageview represents one cleaned page-level event.
type Pageview struct {
	PageviewID int64     `json:"pageview_id" csv:"pageview_id" validate:"required"`
	SessionID  int64     `json:"session_id" csv:"session_id"`
	CreatedAt  time.Time `json:"created_at" csv:"created_at"`
	URL        string    `json:"pageview_url" csv:"pageview_url"`
}

// SessionFunnel is the session-grain funnel vector: total pageview count plus
// one 0/1 indicator per checkout step. A session reaching a step at any point
// during the visit counts as having reached it.
type SessionFunnel struct {
	SessionID      int64 `json:"session_id" csv:"session_id"`
	TotalPageviews int   `json:"total_pageviews" csv:"total_pageviews"`
	StepHome       int   `json:"step_home" csv:"step_home"`
	StepProduct    int   `json:"step_product" csv:"step_product"`
	StepCart       int   `json:"step_cart" csv:"step_cart"`
	StepShipping   int   `json:"step_shipping" csv:"step_shipping"`
	StepBilling    int   `json:"step_billing" csv:"step_billing"`
	StepThankYou   int   `json:"step_thankyou" csv:"step_thankyou"`
}
