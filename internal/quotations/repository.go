package quotations

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sterlingmedical/medsupply-backend/pkg/db/models"
	"github.com/sterlingmedical/medsupply-backend/pkg/enums"
	"github.com/sterlingmedical/medsupply-backend/pkg/pagination"
)

// Repository wires together quotation persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts the quotation and its line items.
func (r *Repository) Create(ctx context.Context, quotation *models.Quotation) error {
	return r.db.WithContext(ctx).Create(quotation).Error
}

// Update saves the quotation row without touching its lines.
func (r *Repository) Update(ctx context.Context, quotation *models.Quotation) error {
	return r.db.WithContext(ctx).Omit("Items").Save(quotation).Error
}

// ReplaceItems swaps the quotation's line set for the provided one.
func (r *Repository) ReplaceItems(ctx context.Context, quotationID uuid.UUID, items []models.QuotationLineItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quotation_id = ?", quotationID).
			Delete(&models.QuotationLineItem{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		for i := range items {
			items[i].QuotationID = quotationID
		}
		return tx.Create(&items).Error
	})
}

// FindByID loads one quotation with its line items.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Quotation, error) {
	var quotation models.Quotation
	if err := r.db.WithContext(ctx).Preload("Items").First(&quotation, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &quotation, nil
}

// ListFilter narrows List queries.
type ListFilter struct {
	Status     *enums.QuotationStatus
	CustomerID *uuid.UUID
	Limit      int
	Cursor     *pagination.Cursor
}

// List returns a keyset-paginated page ordered by newest first.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]models.Quotation, error) {
	query := r.db.WithContext(ctx).Model(&models.Quotation{}).Preload("Items")

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.Cursor != nil {
		query = query.Where(
			"(created_at, id) < (?, ?)",
			filter.Cursor.CreatedAt, filter.Cursor.ID,
		)
	}

	limit := pagination.LimitWithBuffer(filter.Limit)
	var rows []models.Quotation
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Delete removes the quotation; line items cascade at the schema level.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Quotation{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
