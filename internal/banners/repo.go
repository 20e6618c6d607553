package banners

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sterlingmedical/medsupply-backend/pkg/db/models"
)

// Repository persists hero slides and promotional banners.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, banner *models.Banner) error {
	return r.db.WithContext(ctx).Create(banner).Error
}

func (r *Repository) Update(ctx context.Context, banner *models.Banner) error {
	return r.db.WithContext(ctx).Save(banner).Error
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Banner{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Banner, error) {
	var banner models.Banner
	if err := r.db.WithContext(ctx).First(&banner, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &banner, nil
}

// List returns banners ordered by position; activeOnly narrows to live slides.
func (r *Repository) List(ctx context.Context, activeOnly bool) ([]models.Banner, error) {
	query := r.db.WithContext(ctx).Model(&models.Banner{})
	if activeOnly {
		query = query.Where("is_active")
	}
	var rows []models.Banner
	if err := query.Order("position ASC, created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// SetPosition moves one banner to the given slot.
func (r *Repository) SetPosition(ctx context.Context, id uuid.UUID, position int) error {
	result := r.db.WithContext(ctx).
		Model(&models.Banner{}).
		Where("id = ?", id).
		UpdateColumn("position", position)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
