package purchases

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sterlingmedical/medsupply-backend/pkg/db/models"
	"github.com/sterlingmedical/medsupply-backend/pkg/enums"
	"github.com/sterlingmedical/medsupply-backend/pkg/pagination"
)

// Repository wires together purchase persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts the purchase and its line items.
func (r *Repository) Create(ctx context.Context, purchase *models.Purchase) error {
	return r.db.WithContext(ctx).Create(purchase).Error
}

// ClaimStatus flips the purchase status only while the row still holds the
// expected current status. It reports whether the row was claimed, so two
// concurrent receive or cancel calls cannot both act on it.
func (r *Repository) ClaimStatus(ctx context.Context, id uuid.UUID, from, to enums.PurchaseStatus, receivedAt *time.Time) (bool, error) {
	updates := map[string]any{"status": to}
	if receivedAt != nil {
		updates["received_at"] = *receivedAt
	}
	result := r.db.WithContext(ctx).
		Model(&models.Purchase{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// FindByID loads one purchase with its line items.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Purchase, error) {
	var purchase models.Purchase
	if err := r.db.WithContext(ctx).Preload("Items").First(&purchase, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &purchase, nil
}

// ListFilter narrows List queries.
type ListFilter struct {
	Status *enums.PurchaseStatus
	Limit  int
	Cursor *pagination.Cursor
}

// List returns a keyset-paginated page ordered by newest first.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]models.Purchase, error) {
	query := r.db.WithContext(ctx).Model(&models.Purchase{}).Preload("Items")

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Cursor != nil {
		query = query.Where(
			"(created_at, id) < (?, ?)",
			filter.Cursor.CreatedAt, filter.Cursor.ID,
		)
	}

	limit := pagination.LimitWithBuffer(filter.Limit)
	var rows []models.Purchase
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Delete removes the purchase; line items cascade at the schema level.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Purchase{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
