package domain

import (
	"time"
)

// Product represents one catalog entry. ProductID is numeric and unique after
// cleaning.
type Product struct {
	ProductID  int64     `json:"product_id" csv:"product_id" validate:"required"`
	Name       string    `json:"product_name" csv:"product_name"`
	LaunchedAt time.Time `json:"product_launch_date" csv:"product_launch_date"`
}
