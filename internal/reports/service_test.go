package reports

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sterlingmedical/medsupply-backend/pkg/db/models"
	"github.com/sterlingmedical/medsupply-backend/pkg/enums"
	pkgerrors "github.com/sterlingmedical/medsupply-backend/pkg/errors"
)

func setupReportsTestDB(t *testing.T) *gorm.DB {
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
		`CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  customer_id TEXT,
  customer_name TEXT NOT NULL,
  customer_email TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  subtotal_cents INTEGER NOT NULL DEFAULT 0,
  total_cents INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS order_line_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  product_name TEXT NOT NULL,
  unit_price_cents INTEGER NOT NULL,
  unit_cost_cents INTEGER NOT NULL DEFAULT 0,
  quantity INTEGER NOT NULL,
  line_total_cents INTEGER NOT NULL,
  created_at DATETIME
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
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

type fixedThreshold int

func (f fixedThreshold) LowStockThreshold(ctx context.Context) (int, error) {
	return int(f), nil
}

func seedOrderWithLine(t *testing.T, db *gorm.DB, status enums.OrderStatus, createdAt time.Time, product uuid.UUID, name string, price, cost, qty int) {
	t.Helper()
	order := &models.Order{
		CustomerName:  "City Clinic",
		CustomerEmail: "orders@cityclinic.test",
		Status:        status,
		SubtotalCents: price * qty,
		TotalCents:    price * qty,
		Items: []models.OrderLineItem{{
			ProductID:      product,
			ProductName:    name,
			UnitPriceCents: price,
			UnitCostCents:  cost,
			Quantity:       qty,
			LineTotalCents: price * qty,
		}},
	}
	require.NoError(t, db.Create(order).Error)
	require.NoError(t, db.Model(&models.Order{}).Where("id = ?", order.ID).UpdateColumn("created_at", createdAt).Error)
}

var (
	windowFrom = time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	windowTo   = time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	inWindow   = time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
)

func TestProfitLossCountsOnlyRevenueStatuses(t *testing.T) {
	db := setupReportsTestDB(t)
	productID := uuid.New()

	seedOrderWithLine(t, db, enums.OrderStatusPaid, inWindow, productID, "gloves", 1000, 400, 2)
	seedOrderWithLine(t, db, enums.OrderStatusCompleted, inWindow, productID, "gloves", 1000, 400, 1)
	seedOrderWithLine(t, db, enums.OrderStatusPending, inWindow, productID, "gloves", 1000, 400, 5)
	seedOrderWithLine(t, db, enums.OrderStatusCancelled, inWindow, productID, "gloves", 1000, 400, 5)

	svc, err := NewService(NewRepository(db), fixedThreshold(5))
	require.NoError(t, err)

	report, err := svc.ProfitLoss(context.Background(), DateRangeInput{From: windowFrom, To: windowTo})
	require.NoError(t, err)

	assert.Equal(t, 3000, report.RevenueCents)
	assert.Equal(t, 1200, report.CostOfGoodsCents)
	assert.Equal(t, 1800, report.GrossProfitCents)
	assert.Equal(t, 3, report.UnitsSold)
	assert.Equal(t, 2, report.OrderLineCount)
}

func TestProfitLossWindowIsExclusiveAtEnd(t *testing.T) {
	db := setupReportsTestDB(t)
	productID := uuid.New()

	seedOrderWithLine(t, db, enums.OrderStatusPaid, windowTo, productID, "gloves", 1000, 400, 1)

	svc, err := NewService(NewRepository(db), fixedThreshold(5))
	require.NoError(t, err)

	report, err := svc.ProfitLoss(context.Background(), DateRangeInput{From: windowFrom, To: windowTo})
	require.NoError(t, err)
	assert.Equal(t, 0, report.RevenueCents)
}

func TestProfitLossIncludesPurchaseSpend(t *testing.T) {
	db := setupReportsTestDB(t)

	received := inWindow
	require.NoError(t, db.Create(&models.Purchase{
		SupplierName: "MedWholesale GmbH",
		Status:       enums.PurchaseStatusReceived,
		TotalCents:   40000,
		ReceivedAt:   &received,
	}).Error)
	require.NoError(t, db.Create(&models.Purchase{
		SupplierName: "MedWholesale GmbH",
		Status:       enums.PurchaseStatusOrdered,
		TotalCents:   90000,
	}).Error)

	svc, err := NewService(NewRepository(db), fixedThreshold(5))
	require.NoError(t, err)

	report, err := svc.ProfitLoss(context.Background(), DateRangeInput{From: windowFrom, To: windowTo})
	require.NoError(t, err)
	assert.Equal(t, 40000, report.PurchaseSpendCents)
}

func TestProductMargins(t *testing.T) {
	db := setupReportsTestDB(t)
	gloves := uuid.New()
	masks := uuid.New()

	seedOrderWithLine(t, db, enums.OrderStatusPaid, inWindow, gloves, "gloves", 1000, 400, 2)
	seedOrderWithLine(t, db, enums.OrderStatusPaid, inWindow, gloves, "gloves", 1000, 400, 1)
	seedOrderWithLine(t, db, enums.OrderStatusPaid, inWindow, masks, "masks", 500, 500, 2)

	svc, err := NewService(NewRepository(db), fixedThreshold(5))
	require.NoError(t, err)

	rows, err := svc.ProductMargins(context.Background(), DateRangeInput{From: windowFrom, To: windowTo})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byName := map[string]ProductMarginReport{}
	for _, row := range rows {
		byName[row.ProductName] = row
	}

	glovesRow := byName["gloves"]
	assert.Equal(t, 3, glovesRow.UnitsSold)
	assert.Equal(t, 3000, glovesRow.RevenueCents)
	assert.Equal(t, 1800, glovesRow.GrossProfitCents)
	assert.True(t, glovesRow.MarginPercent.Equal(decimal.NewFromInt(60)))

	masksRow := byName["masks"]
	assert.Equal(t, 0, masksRow.GrossProfitCents)
	assert.True(t, masksRow.MarginPercent.IsZero())
}

func TestLowStockUsesThresholdAndSkipsInactive(t *testing.T) {
	db := setupReportsTestDB(t)

	rows := []*models.Product{
		{SKU: "SKU-A", Name: "almost out", Category: enums.ProductCategoryConsumables, PriceCents: 100, Stock: 1, IsActive: true},
		{SKU: "SKU-B", Name: "at threshold", Category: enums.ProductCategoryConsumables, PriceCents: 100, Stock: 5, IsActive: true},
		{SKU: "SKU-C", Name: "plenty", Category: enums.ProductCategoryConsumables, PriceCents: 100, Stock: 50, IsActive: true},
		{SKU: "SKU-D", Name: "retired", Category: enums.ProductCategoryConsumables, PriceCents: 100, Stock: 0, IsActive: false},
	}
	for _, row := range rows {
		require.NoError(t, db.Create(row).Error)
	}

	svc, err := NewService(NewRepository(db), fixedThreshold(5))
	require.NoError(t, err)

	report, err := svc.LowStock(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, report.Threshold)
	require.Len(t, report.Items, 2)
	assert.Equal(t, "almost out", report.Items[0].Name)
	assert.Equal(t, "at threshold", report.Items[1].Name)
}

func TestReportRangeValidation(t *testing.T) {
	db := setupReportsTestDB(t)
	svc, err := NewService(NewRepository(db), fixedThreshold(5))
	require.NoError(t, err)

	_, err = svc.ProfitLoss(context.Background(), DateRangeInput{})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	_, err = svc.ProfitLoss(context.Background(), DateRangeInput{From: windowTo, To: windowFrom})
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}
