package domain

import (
	"time"
)

// Order represents one cleaned purchase event. OrderValue is the total order
// revenue in USD and is non-negative after cleaning.
type Order struct {
	OrderID          int64     `json:"order_id" csv:"order_id" validate:"required"`
	SessionID        int64     `json:"session_id" csv:"session_id"`
	UserID           int64     `json:"user_id" csv:"user_id"`
	OrderDate        time.Time `json:"order_date" csv:"order_date"`
	PrimaryProductID int64     `json:"primary_product_id" csv:"primary_product_id"`
	ItemsPurchased   int       `json:"items_purchased" csv:"items_purchased"`
	OrderValue       float64   `json:"order_value" csv:"order_value" validate:"min=0"`
	CogsUSD          float64   `json:"cogs_usd" csv:"cogs_usd" validate:"min=0"`
}

// OrderItem represents one cleaned order line item, enriched with the product
// name and the price-minus-cogs margin.
type OrderItem struct {
	OrderItemID   int64     `json:"order_item_id" csv:"order_item_id" validate:"required"`
	OrderID       int64     `json:"order_id" csv:"order_id"`
	ProductID     int64     `json:"product_id" csv:"product_id"`
	CreatedAt     time.Time `json:"created_at" csv:"created_at"`
	IsPrimaryItem int       `json:"is_primary_item" csv:"is_primary_item"`
	PriceUSD      float64   `json:"price_usd" csv:"price_usd"`
	CogsUSD       float64   `json:"cogs_usd" csv:"cogs_usd"`
	MarginUSD     float64   `json:"margin_usd" csv:"margin_usd"`
	ProductName   string    `json:"product_name" csv:"product_name"`
}
