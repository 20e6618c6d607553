package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/sterlingmedical/medsupply-backend/pkg/enums"
)

// Product represents a catalog listing.
type Product struct {
	ID          uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SKU         string                `gorm:"column:sku;not null;uniqueIndex"`
	Name        string                `gorm:"column:name;not null"`
	Description *string               `gorm:"column:description"`
	Category    enums.ProductCategory `gorm:"column:category;not null"`
	PriceCents  int                   `gorm:"column:price_cents;not null"`
	CostCents   int                   `gorm:"column:cost_cents;not null;default:0"`
	Stock       int                   `gorm:"column:stock;not null;default:0"`
	ImageURLs   pq.StringArray        `gorm:"column:image_urls;type:text[];not null;default:ARRAY[]::text[]"`
	IsActive    bool                  `gorm:"column:is_active;not null"`
	IsFeatured  bool                  `gorm:"column:is_featured;not null;default:false"`
	CreatedAt   time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
