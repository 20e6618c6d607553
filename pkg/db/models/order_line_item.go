package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderLineItem snapshots one product-plus-quantity entry of an order.
// Unit price and cost are copied from the product at placement time.
type OrderLineItem struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID `gorm:"column:order_id;type:uuid;not null"`
	ProductID      uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	ProductName    string    `gorm:"column:product_name;not null"`
	UnitPriceCents int       `gorm:"column:unit_price_cents;not null"`
	UnitCostCents  int       `gorm:"column:unit_cost_cents;not null;default:0"`
	Quantity       int       `gorm:"column:quantity;not null"`
	LineTotalCents int       `gorm:"column:line_total_cents;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}
