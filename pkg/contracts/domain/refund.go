package domain

import (
	"time"
)

// Refund represents one cleaned item-level refund event. Surviving refunds
// never precede their order's timestamp and never exceed its value.
type Refund struct {
	RefundID    int64     `json:"refund_id" csv:"refund_id" validate:"required"`
	OrderItemID int64     `json:"order_item_id" csv:"order_item_id"`
	OrderID     int64     `json:"order_id" csv:"order_id"`
	RefundDate  time.Time `json:"refund_date" csv:"refund_date"`
	AmountUSD   float64   `json:"refund_amount_usd" csv:"refund_amount_usd" validate:"min=0"`
}
