package products

import (
	"time"

	"github.com/google/uuid"

	"github.com/sterlingmedical/medsupply-backend/pkg/db/models"
	"github.com/sterlingmedical/medsupply-backend/pkg/enums"
)

// ProductDTO is the catalog listing shape returned to both the storefront
// and the back-office.
type ProductDTO struct {
	ID          uuid.UUID             `json:"id"`
	SKU         string                `json:"sku"`
	Name        string                `json:"name"`
	Description *string               `json:"description,omitempty"`
	Category    enums.ProductCategory `json:"category"`
	PriceCents  int                   `json:"price_cents"`
	CostCents   int                   `json:"cost_cents"`
	Stock       int                   `json:"stock"`
	ImageURLs   []string              `json:"image_urls"`
	IsActive    bool                  `json:"is_active"`
	IsFeatured  bool                  `json:"is_featured"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	SKU         string
	Name        string
	Description *string
	Category    enums.ProductCategory
	PriceCents  int
	CostCents   int
	Stock       int
	ImageURLs   []string
	IsActive    bool
	IsFeatured  bool
}

// UpdateProductInput carries partial updates; nil fields are untouched.
type UpdateProductInput struct {
	Name        *string
	Description *string
	Category    *enums.ProductCategory
	PriceCents  *int
	CostCents   *int
	Stock       *int
	ImageURLs   []string
	IsActive    *bool
	IsFeatured  *bool
}

// ListProductsInput filters and paginates catalog queries.
type ListProductsInput struct {
	Category     *enums.ProductCategory
	Search       string
	ActiveOnly   bool
	FeaturedOnly bool
	Limit        int
	Cursor       string
}

// ProductListResult is one page of listings plus the cursor for the next.
type ProductListResult struct {
	Products   []ProductDTO `json:"products"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

func toDTO(m *models.Product) *ProductDTO {
	if m == nil {
		return nil
	}
	return &ProductDTO{
		ID:          m.ID,
		SKU:         m.SKU,
		Name:        m.Name,
		Description: m.Description,
		Category:    m.Category,
		PriceCents:  m.PriceCents,
		CostCents:   m.CostCents,
		Stock:       m.Stock,
		ImageURLs:   append([]string{}, m.ImageURLs...),
		IsActive:    m.IsActive,
		IsFeatured:  m.IsFeatured,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
