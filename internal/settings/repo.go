package settings

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sterlingmedical/medsupply-backend/pkg/db/models"
)

// Repository persists the single store settings row.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Get(ctx context.Context) (*models.StoreSettings, error) {
	var row models.StoreSettings
	if err := r.db.WithContext(ctx).First(&row, "id = ?", models.SettingsRowID).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Upsert writes the settings row, inserting it when the seed is missing.
func (r *Repository) Upsert(ctx context.Context, settings *models.StoreSettings) error {
	settings.ID = models.SettingsRowID
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(settings).Error
}
