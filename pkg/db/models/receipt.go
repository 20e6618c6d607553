package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/sterlingmedical/medsupply-backend/pkg/enums"
)

// Receipt records a settled payment against an order. Numbers are
// sequential within the issuing year (RCP-YYYY-NNNN).
type Receipt struct {
	ID          uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID     uuid.UUID           `gorm:"column:order_id;type:uuid;not null"`
	Number      string              `gorm:"column:number;not null;uniqueIndex"`
	AmountCents int                 `gorm:"column:amount_cents;not null"`
	Method      enums.PaymentMethod `gorm:"column:method;not null"`
	IssuedAt    time.Time           `gorm:"column:issued_at;not null"`
	VoidedAt    *time.Time          `gorm:"column:voided_at"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
