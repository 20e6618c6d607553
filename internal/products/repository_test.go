package products

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sterlingmedical/medsupply-backend/pkg/db/models"
	"github.com/sterlingmedical/medsupply-backend/pkg/enums"
)

func setupProductsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.Exec(`CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  sku TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  description TEXT,
  category TEXT NOT NULL,
  price_cents INTEGER NOT NULL,
  cost_cents INTEGER NOT NULL DEFAULT 0,
  stock INTEGER NOT NULL DEFAULT 0,
  image_urls TEXT NOT NULL DEFAULT '{}',
  is_active INTEGER NOT NULL DEFAULT 1,
  is_featured INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`).Error)
	return db
}

func seedTestProduct(t *testing.T, db *gorm.DB, stock int, active bool) *models.Product {
	t.Helper()
	product := &models.Product{
		SKU:        "SKU-" + uuid.NewString()[:8],
		Name:       "exam gloves",
		Category:   enums.ProductCategoryConsumables,
		PriceCents: 1299,
		Stock:      stock,
		IsActive:   active,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestAdjustStockDecrement(t *testing.T) {
	db := setupProductsTestDB(t)
	repo := NewRepository(db)
	product := seedTestProduct(t, db, 5, true)

	require.NoError(t, repo.AdjustStock(context.Background(), product.ID, -3))

	reloaded, err := repo.FindByID(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, reloaded.Stock)
}

func TestAdjustStockRefusesNegative(t *testing.T) {
	db := setupProductsTestDB(t)
	repo := NewRepository(db)
	product := seedTestProduct(t, db, 2, true)

	err := repo.AdjustStock(context.Background(), product.ID, -3)
	assert.True(t, errors.Is(err, ErrInsufficientStock))

	reloaded, err := repo.FindByID(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, reloaded.Stock)
}

func TestAdjustStockToExactlyZero(t *testing.T) {
	db := setupProductsTestDB(t)
	repo := NewRepository(db)
	product := seedTestProduct(t, db, 3, true)

	require.NoError(t, repo.AdjustStock(context.Background(), product.ID, -3))

	reloaded, err := repo.FindByID(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, reloaded.Stock)
}

func TestAdjustStockUnknownProduct(t *testing.T) {
	db := setupProductsTestDB(t)
	repo := NewRepository(db)

	err := repo.AdjustStock(context.Background(), uuid.New(), -1)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestListActiveOnly(t *testing.T) {
	db := setupProductsTestDB(t)
	repo := NewRepository(db)
	seedTestProduct(t, db, 5, true)
	seedTestProduct(t, db, 5, false)

	rows, err := repo.List(context.Background(), ListFilter{ActiveOnly: true, Limit: 10})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].IsActive)
}

func TestListSearchIsCaseInsensitive(t *testing.T) {
	db := setupProductsTestDB(t)
	repo := NewRepository(db)
	match := seedTestProduct(t, db, 5, true)
	seedTestBandage(t, db)

	rows, err := repo.List(context.Background(), ListFilter{Search: "GLOVES", Limit: 10})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, match.ID, rows[0].ID)
}

func seedTestBandage(t *testing.T, db *gorm.DB) *models.Product {
	t.Helper()
	product := &models.Product{
		SKU:        "SKU-" + uuid.NewString()[:8],
		Name:       "elastic bandage",
		Category:   enums.ProductCategoryFirstAid,
		PriceCents: 499,
		Stock:      8,
		IsActive:   true,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestCreateStoresInactiveFlag(t *testing.T) {
	db := setupProductsTestDB(t)
	repo := NewRepository(db)

	product := &models.Product{
		SKU:        "SKU-RETIRED",
		Name:       "legacy thermometer",
		Category:   enums.ProductCategoryDiagnostics,
		PriceCents: 2499,
		Stock:      3,
		IsActive:   false,
	}
	require.NoError(t, repo.Create(context.Background(), product))

	stored, err := repo.FindByID(context.Background(), product.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
}

func TestDeleteMissingProduct(t *testing.T) {
	db := setupProductsTestDB(t)
	repo := NewRepository(db)

	err := repo.Delete(context.Background(), uuid.New())
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}
