package models

import (
	"time"

	"github.com/google/uuid"
)

// PurchaseLineItem is one restocked product within a supplier purchase.
type PurchaseLineItem struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PurchaseID     uuid.UUID `gorm:"column:purchase_id;type:uuid;not null"`
	ProductID      uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	ProductName    string    `gorm:"column:product_name;not null"`
	UnitCostCents  int       `gorm:"column:unit_cost_cents;not null"`
	Quantity       int       `gorm:"column:quantity;not null"`
	LineTotalCents int       `gorm:"column:line_total_cents;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}
