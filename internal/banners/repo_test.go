package banners

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sterlingmedical/medsupply-backend/pkg/db/models"
)

func setupBannersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.Exec(`CREATE TABLE IF NOT EXISTS banners (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  subtitle TEXT,
  image_url TEXT NOT NULL,
  link_url TEXT,
  position INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`).Error)
	return db
}

func seedTestBanner(t *testing.T, db *gorm.DB, position int, active bool) *models.Banner {
	t.Helper()
	banner := &models.Banner{
		Title:    "winter flu campaign",
		ImageURL: "https://cdn.example.test/flu.png",
		Position: position,
		IsActive: active,
	}
	require.NoError(t, db.Create(banner).Error)
	return banner
}

func TestCreateStoresDraftBanner(t *testing.T) {
	db := setupBannersTestDB(t)
	repo := NewRepository(db)

	banner := &models.Banner{
		Title:    "unpublished promo",
		ImageURL: "https://cdn.example.test/promo.png",
		IsActive: false,
	}
	require.NoError(t, repo.Create(context.Background(), banner))

	stored, err := repo.FindByID(context.Background(), banner.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
}

func TestListActiveSlidesOrdered(t *testing.T) {
	db := setupBannersTestDB(t)
	repo := NewRepository(db)
	second := seedTestBanner(t, db, 2, true)
	first := seedTestBanner(t, db, 1, true)
	seedTestBanner(t, db, 0, false)

	rows, err := repo.List(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, first.ID, rows[0].ID)
	assert.Equal(t, second.ID, rows[1].ID)
}
