package purchases

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sterlingmedical/medsupply-backend/internal/products"
	"github.com/sterlingmedical/medsupply-backend/pkg/db/models"
	"github.com/sterlingmedical/medsupply-backend/pkg/enums"
	pkgerrors "github.com/sterlingmedical/medsupply-backend/pkg/errors"
)

func setupPurchasesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS products (
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
);`,
		`CREATE TABLE IF NOT EXISTS purchases (
  id TEXT PRIMARY KEY,
  supplier_name TEXT NOT NULL,
  reference TEXT,
  status TEXT NOT NULL DEFAULT 'ordered',
  total_cents INTEGER NOT NULL DEFAULT 0,
  received_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS purchase_line_items (
  id TEXT PRIMARY KEY,
  purchase_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  product_name TEXT NOT NULL,
  unit_cost_cents INTEGER NOT NULL,
  quantity INTEGER NOT NULL,
  line_total_cents INTEGER NOT NULL,
  created_at DATETIME
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

type purchaseTxRunner struct {
	db *gorm.DB
}

func (r purchaseTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func newPurchasesTestService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(purchaseTxRunner{db: db}, NewRepository(db), products.NewRepository(db))
	require.NoError(t, err)
	return svc
}

func seedPurchaseProduct(t *testing.T, db *gorm.DB, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		SKU:        "SKU-" + uuid.NewString()[:8],
		Name:       "gauze pads",
		Category:   enums.ProductCategoryConsumables,
		PriceCents: 450,
		CostCents:  200,
		Stock:      stock,
		IsActive:   true,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func productStock(t *testing.T, db *gorm.DB, id uuid.UUID) int {
	t.Helper()
	var stock int
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", id).Select("stock").Scan(&stock).Error)
	return stock
}

func TestCreatePurchaseLeavesStockUntouched(t *testing.T) {
	db := setupPurchasesTestDB(t)
	product := seedPurchaseProduct(t, db, 3)
	svc := newPurchasesTestService(t, db)

	purchase, err := svc.CreatePurchase(context.Background(), CreatePurchaseInput{
		SupplierName: "MedWholesale GmbH",
		Items: []CreatePurchaseLineInput{
			{ProductID: product.ID, Quantity: 20, UnitCostCents: 180},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, enums.PurchaseStatusOrdered, purchase.Status)
	assert.Equal(t, 20*180, purchase.TotalCents)
	assert.Equal(t, 3, productStock(t, db, product.ID))
}

func TestMarkReceivedAddsStock(t *testing.T) {
	db := setupPurchasesTestDB(t)
	product := seedPurchaseProduct(t, db, 3)
	svc := newPurchasesTestService(t, db)

	purchase, err := svc.CreatePurchase(context.Background(), CreatePurchaseInput{
		SupplierName: "MedWholesale GmbH",
		Items: []CreatePurchaseLineInput{
			{ProductID: product.ID, Quantity: 20, UnitCostCents: 180},
		},
	})
	require.NoError(t, err)

	received, err := svc.MarkReceived(context.Background(), purchase.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.PurchaseStatusReceived, received.Status)
	require.NotNil(t, received.ReceivedAt)
	assert.Equal(t, 23, productStock(t, db, product.ID))

	// Receiving twice is refused.
	_, err = svc.MarkReceived(context.Background(), purchase.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
	assert.Equal(t, 23, productStock(t, db, product.ID))
}

func TestCancelPurchase(t *testing.T) {
	db := setupPurchasesTestDB(t)
	product := seedPurchaseProduct(t, db, 3)
	svc := newPurchasesTestService(t, db)

	purchase, err := svc.CreatePurchase(context.Background(), CreatePurchaseInput{
		SupplierName: "MedWholesale GmbH",
		Items: []CreatePurchaseLineInput{
			{ProductID: product.ID, Quantity: 5, UnitCostCents: 200},
		},
	})
	require.NoError(t, err)

	cancelled, err := svc.CancelPurchase(context.Background(), purchase.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.PurchaseStatusCancelled, cancelled.Status)

	// A cancelled purchase cannot be received.
	_, err = svc.MarkReceived(context.Background(), purchase.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
	assert.Equal(t, 3, productStock(t, db, product.ID))
}

func TestClaimStatusSingleWinner(t *testing.T) {
	db := setupPurchasesTestDB(t)
	product := seedPurchaseProduct(t, db, 3)
	svc := newPurchasesTestService(t, db)
	repo := NewRepository(db)

	purchase, err := svc.CreatePurchase(context.Background(), CreatePurchaseInput{
		SupplierName: "MedWholesale GmbH",
		Items: []CreatePurchaseLineInput{
			{ProductID: product.ID, Quantity: 5, UnitCostCents: 200},
		},
	})
	require.NoError(t, err)

	now := time.Now().UTC()
	first, err := repo.ClaimStatus(context.Background(), purchase.ID,
		enums.PurchaseStatusOrdered, enums.PurchaseStatusReceived, &now)
	require.NoError(t, err)
	assert.True(t, first)

	second, err := repo.ClaimStatus(context.Background(), purchase.ID,
		enums.PurchaseStatusOrdered, enums.PurchaseStatusReceived, &now)
	require.NoError(t, err)
	assert.False(t, second)

	stored, err := repo.FindByID(context.Background(), purchase.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.PurchaseStatusReceived, stored.Status)
	require.NotNil(t, stored.ReceivedAt)
}

func TestCreatePurchaseValidation(t *testing.T) {
	db := setupPurchasesTestDB(t)
	product := seedPurchaseProduct(t, db, 3)
	svc := newPurchasesTestService(t, db)

	cases := []struct {
		name  string
		input CreatePurchaseInput
	}{
		{"missing supplier", CreatePurchaseInput{Items: []CreatePurchaseLineInput{{ProductID: product.ID, Quantity: 1}}}},
		{"no lines", CreatePurchaseInput{SupplierName: "MedWholesale GmbH"}},
		{"zero quantity", CreatePurchaseInput{SupplierName: "MedWholesale GmbH", Items: []CreatePurchaseLineInput{{ProductID: product.ID, Quantity: 0}}}},
		{"negative cost", CreatePurchaseInput{SupplierName: "MedWholesale GmbH", Items: []CreatePurchaseLineInput{{ProductID: product.ID, Quantity: 1, UnitCostCents: -5}}}},
	}
	for _, tc := range cases {
		_, err := svc.CreatePurchase(context.Background(), tc.input)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed, tc.name)
		assert.Equal(t, pkgerrors.CodeValidation, typed.Code(), tc.name)
	}
}

func TestGetPurchaseNotFound(t *testing.T) {
	db := setupPurchasesTestDB(t)
	svc := newPurchasesTestService(t, db)

	_, err := svc.GetPurchase(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
