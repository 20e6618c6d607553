package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/sterlingmedical/medsupply-backend/pkg/enums"
)

// Order is a placed storefront order with product snapshots frozen at
// placement time.
type Order struct {
	ID            uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID    *uuid.UUID        `gorm:"column:customer_id;type:uuid"`
	CustomerName  string            `gorm:"column:customer_name;not null"`
	CustomerEmail string            `gorm:"column:customer_email;not null"`
	Status        enums.OrderStatus `gorm:"column:status;not null;default:'pending'"`
	SubtotalCents int               `gorm:"column:subtotal_cents;not null;default:0"`
	TotalCents    int               `gorm:"column:total_cents;not null;default:0"`
	Items         []OrderLineItem   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
