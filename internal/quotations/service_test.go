package quotations

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sterlingmedical/medsupply-backend/internal/customers"
	"github.com/sterlingmedical/medsupply-backend/internal/orders"
	"github.com/sterlingmedical/medsupply-backend/internal/products"
	"github.com/sterlingmedical/medsupply-backend/pkg/db/models"
	"github.com/sterlingmedical/medsupply-backend/pkg/enums"
	pkgerrors "github.com/sterlingmedical/medsupply-backend/pkg/errors"
)

func setupQuotationsTestDB(t *testing.T) *gorm.DB {
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
		`CREATE TABLE IF NOT EXISTS customers (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT NOT NULL UNIQUE,
  phone TEXT,
  address TEXT,
  notes TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS quotations (
  id TEXT PRIMARY KEY,
  customer_id TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'draft',
  valid_until DATETIME,
  total_cents INTEGER NOT NULL DEFAULT 0,
  notes TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS quotation_line_items (
  id TEXT PRIMARY KEY,
  quotation_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  product_name TEXT NOT NULL,
  unit_price_cents INTEGER NOT NULL,
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

type capturingPlacer struct {
	input  orders.CreateOrderInput
	result *orders.OrderDTO
	err    error
}

func (p *capturingPlacer) CreateOrder(ctx context.Context, input orders.CreateOrderInput) (*orders.OrderDTO, error) {
	p.input = input
	if p.err != nil {
		return nil, p.err
	}
	if p.result != nil {
		return p.result, nil
	}
	return &orders.OrderDTO{ID: uuid.New()}, nil
}

func seedQuotationFixtures(t *testing.T, db *gorm.DB) (*models.Product, *models.Customer) {
	t.Helper()
	product := &models.Product{
		SKU:        "SKU-" + uuid.NewString()[:8],
		Name:       "stethoscope",
		Category:   enums.ProductCategoryInstruments,
		PriceCents: 8500,
		Stock:      10,
		IsActive:   true,
	}
	require.NoError(t, db.Create(product).Error)

	customer := &models.Customer{
		Name:  "Riverside Practice",
		Email: "purchasing@riverside.test",
	}
	require.NoError(t, db.Create(customer).Error)
	return product, customer
}

func newQuotationsTestService(t *testing.T, db *gorm.DB, placer orderPlacer) Service {
	t.Helper()
	svc, err := NewService(NewRepository(db), products.NewRepository(db), customers.NewRepository(db), placer)
	require.NoError(t, err)
	return svc
}

func TestCreateQuotationPricesFromCatalog(t *testing.T) {
	db := setupQuotationsTestDB(t)
	product, customer := seedQuotationFixtures(t, db)
	svc := newQuotationsTestService(t, db, &capturingPlacer{})

	quotation, err := svc.CreateQuotation(context.Background(), UpsertQuotationInput{
		CustomerID: customer.ID,
		Items:      []QuotationLineInput{{ProductID: product.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	assert.Equal(t, enums.QuotationStatusDraft, quotation.Status)
	assert.Equal(t, 2*8500, quotation.TotalCents)
	require.Len(t, quotation.Items, 1)
	assert.Equal(t, 8500, quotation.Items[0].UnitPriceCents)
}

func TestCreateQuotationWithPriceOverride(t *testing.T) {
	db := setupQuotationsTestDB(t)
	product, customer := seedQuotationFixtures(t, db)
	svc := newQuotationsTestService(t, db, &capturingPlacer{})
	discounted := 7900

	quotation, err := svc.CreateQuotation(context.Background(), UpsertQuotationInput{
		CustomerID: customer.ID,
		Items:      []QuotationLineInput{{ProductID: product.ID, Quantity: 3, UnitPriceCentsOver: &discounted}},
	})
	require.NoError(t, err)
	assert.Equal(t, 3*discounted, quotation.TotalCents)
}

func TestUpdateQuotationOnlyInDraft(t *testing.T) {
	db := setupQuotationsTestDB(t)
	product, customer := seedQuotationFixtures(t, db)
	svc := newQuotationsTestService(t, db, &capturingPlacer{})

	quotation, err := svc.CreateQuotation(context.Background(), UpsertQuotationInput{
		CustomerID: customer.ID,
		Items:      []QuotationLineInput{{ProductID: product.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), quotation.ID, enums.QuotationStatusSent)
	require.NoError(t, err)

	_, err = svc.UpdateQuotation(context.Background(), quotation.ID, UpsertQuotationInput{
		CustomerID: customer.ID,
		Items:      []QuotationLineInput{{ProductID: product.ID, Quantity: 5}},
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}

func TestUpdateQuotationReplacesLines(t *testing.T) {
	db := setupQuotationsTestDB(t)
	product, customer := seedQuotationFixtures(t, db)
	svc := newQuotationsTestService(t, db, &capturingPlacer{})

	quotation, err := svc.CreateQuotation(context.Background(), UpsertQuotationInput{
		CustomerID: customer.ID,
		Items:      []QuotationLineInput{{ProductID: product.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	updated, err := svc.UpdateQuotation(context.Background(), quotation.ID, UpsertQuotationInput{
		CustomerID: customer.ID,
		Items:      []QuotationLineInput{{ProductID: product.ID, Quantity: 4}},
	})
	require.NoError(t, err)
	assert.Equal(t, 4*8500, updated.TotalCents)
	require.Len(t, updated.Items, 1)
	assert.Equal(t, 4, updated.Items[0].Quantity)

	var count int64
	require.NoError(t, db.Model(&models.QuotationLineItem{}).Where("quotation_id = ?", quotation.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUpdateStatusLifecycleGuards(t *testing.T) {
	db := setupQuotationsTestDB(t)
	product, customer := seedQuotationFixtures(t, db)
	svc := newQuotationsTestService(t, db, &capturingPlacer{})

	quotation, err := svc.CreateQuotation(context.Background(), UpsertQuotationInput{
		CustomerID: customer.ID,
		Items:      []QuotationLineInput{{ProductID: product.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	// draft -> accepted skips sent and is refused
	_, err = svc.UpdateStatus(context.Background(), quotation.ID, enums.QuotationStatusAccepted)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())

	_, err = svc.UpdateStatus(context.Background(), quotation.ID, enums.QuotationStatusSent)
	require.NoError(t, err)
	updated, err := svc.UpdateStatus(context.Background(), quotation.ID, enums.QuotationStatusDeclined)
	require.NoError(t, err)
	assert.Equal(t, enums.QuotationStatusDeclined, updated.Status)
}

func TestConvertToOrderRequiresAccepted(t *testing.T) {
	db := setupQuotationsTestDB(t)
	product, customer := seedQuotationFixtures(t, db)
	svc := newQuotationsTestService(t, db, &capturingPlacer{})

	quotation, err := svc.CreateQuotation(context.Background(), UpsertQuotationInput{
		CustomerID: customer.ID,
		Items:      []QuotationLineInput{{ProductID: product.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = svc.ConvertToOrder(context.Background(), quotation.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}

func TestConvertToOrderUsesQuotedPrices(t *testing.T) {
	db := setupQuotationsTestDB(t)
	product, customer := seedQuotationFixtures(t, db)
	placer := &capturingPlacer{}
	svc := newQuotationsTestService(t, db, placer)
	quoted := 7500

	quotation, err := svc.CreateQuotation(context.Background(), UpsertQuotationInput{
		CustomerID: customer.ID,
		Items:      []QuotationLineInput{{ProductID: product.ID, Quantity: 2, UnitPriceCentsOver: &quoted}},
	})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), quotation.ID, enums.QuotationStatusSent)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(context.Background(), quotation.ID, enums.QuotationStatusAccepted)
	require.NoError(t, err)

	_, err = svc.ConvertToOrder(context.Background(), quotation.ID)
	require.NoError(t, err)

	require.Len(t, placer.input.Items, 1)
	require.NotNil(t, placer.input.Items[0].UnitPriceCentsOver)
	assert.Equal(t, quoted, *placer.input.Items[0].UnitPriceCentsOver)
	assert.Equal(t, customer.Name, placer.input.CustomerName)
	assert.Equal(t, customer.Email, placer.input.CustomerEmail)
	require.NotNil(t, placer.input.CustomerID)
	assert.Equal(t, customer.ID, *placer.input.CustomerID)
}
