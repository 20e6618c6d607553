package receipts

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sterlingmedical/medsupply-backend/pkg/db/models"
	"github.com/sterlingmedical/medsupply-backend/pkg/pagination"
)

// Repository wires together receipt persistence helpers.
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

// Create inserts the receipt row.
func (r *Repository) Create(ctx context.Context, receipt *models.Receipt) error {
	return r.db.WithContext(ctx).Create(receipt).Error
}

// Update saves the full receipt row.
func (r *Repository) Update(ctx context.Context, receipt *models.Receipt) error {
	return r.db.WithContext(ctx).Save(receipt).Error
}

// FindByID loads one receipt.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Receipt, error) {
	var receipt models.Receipt
	if err := r.db.WithContext(ctx).First(&receipt, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &receipt, nil
}

// NextNumber issues the next sequential receipt number for the year. The
// row scan is serialized by the caller's transaction.
func (r *Repository) NextNumber(ctx context.Context, year int) (string, error) {
	prefix := fmt.Sprintf("RCP-%04d-", year)

	// Sequences past 9999 outgrow the zero padding, so string order alone
	// would rank them below shorter numbers. Longer suffix always wins.
	var last models.Receipt
	err := r.db.WithContext(ctx).
		Where("number LIKE ?", prefix+"%").
		Order("LENGTH(number) DESC, number DESC").
		First(&last).Error

	seq := 1
	switch {
	case err == nil:
		var lastSeq int
		if _, scanErr := fmt.Sscanf(last.Number, "RCP-%d-%d", &year, &lastSeq); scanErr != nil {
			return "", fmt.Errorf("parse receipt number %q: %w", last.Number, scanErr)
		}
		seq = lastSeq + 1
	case errors.Is(err, gorm.ErrRecordNotFound):
		// first receipt of the year
	default:
		return "", err
	}
	return fmt.Sprintf("%s%04d", prefix, seq), nil
}

// ListFilter narrows List queries.
type ListFilter struct {
	OrderID *uuid.UUID
	Limit   int
	Cursor  *pagination.Cursor
}

// List returns a keyset-paginated page ordered by newest first.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]models.Receipt, error) {
	query := r.db.WithContext(ctx).Model(&models.Receipt{})

	if filter.OrderID != nil {
		query = query.Where("order_id = ?", *filter.OrderID)
	}
	if filter.Cursor != nil {
		query = query.Where(
			"(created_at, id) < (?, ?)",
			filter.Cursor.CreatedAt, filter.Cursor.ID,
		)
	}

	limit := pagination.LimitWithBuffer(filter.Limit)
	var rows []models.Receipt
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
