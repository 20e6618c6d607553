package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/sterlingmedical/medsupply-backend/pkg/enums"
)

// Purchase is a supplier purchase order restocking the catalog.
type Purchase struct {
	ID           uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SupplierName string               `gorm:"column:supplier_name;not null"`
	Reference    *string              `gorm:"column:reference"`
	Status       enums.PurchaseStatus `gorm:"column:status;not null;default:'ordered'"`
	TotalCents   int                  `gorm:"column:total_cents;not null;default:0"`
	ReceivedAt   *time.Time           `gorm:"column:received_at"`
	Items        []PurchaseLineItem   `gorm:"foreignKey:PurchaseID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
