package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/sterlingmedical/medsupply-backend/pkg/enums"
)

// Quotation is a priced offer prepared for a customer.
type Quotation struct {
	ID         uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID uuid.UUID             `gorm:"column:customer_id;type:uuid;not null"`
	Status     enums.QuotationStatus `gorm:"column:status;not null;default:'draft'"`
	ValidUntil *time.Time            `gorm:"column:valid_until"`
	TotalCents int                   `gorm:"column:total_cents;not null;default:0"`
	Notes      *string               `gorm:"column:notes"`
	Items      []QuotationLineItem   `gorm:"foreignKey:QuotationID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
