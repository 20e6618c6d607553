package reports

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/sterlingmedical/medsupply-backend/pkg/db/models"
	"github.com/sterlingmedical/medsupply-backend/pkg/enums"
)

// Repository reads the raw rows the report reducers aggregate over.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// revenueStatuses are the order states that count toward sales figures.
// Pending and cancelled orders carry no recognized revenue.
var revenueStatuses = []enums.OrderStatus{
	enums.OrderStatusPaid,
	enums.OrderStatusShipped,
	enums.OrderStatusCompleted,
}

// SalesLines loads the line items of revenue-bearing orders created inside
// the window, order timestamps included for bucketing.
func (r *Repository) SalesLines(ctx context.Context, from, to time.Time) ([]SalesLine, error) {
	var rows []SalesLine
	err := r.db.WithContext(ctx).
		Model(&models.OrderLineItem{}).
		Select(`order_line_items.product_id,
			order_line_items.product_name,
			order_line_items.unit_price_cents,
			order_line_items.unit_cost_cents,
			order_line_items.quantity,
			order_line_items.line_total_cents,
			orders.created_at AS ordered_at`).
		Joins("JOIN orders ON orders.id = order_line_items.order_id").
		Where("orders.status IN ?", revenueStatuses).
		Where("orders.created_at >= ? AND orders.created_at < ?", from, to).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// PurchaseCostCents sums supplier spend received inside the window.
func (r *Repository) PurchaseCostCents(ctx context.Context, from, to time.Time) (int, error) {
	var total struct{ Total int }
	err := r.db.WithContext(ctx).
		Model(&models.Purchase{}).
		Select("COALESCE(SUM(total_cents), 0) AS total").
		Where("status = ?", enums.PurchaseStatusReceived).
		Where("received_at >= ? AND received_at < ?", from, to).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total.Total, nil
}

// LowStockProducts lists active products at or below the threshold, the
// emptiest shelves first.
func (r *Repository) LowStockProducts(ctx context.Context, threshold int) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Where("is_active AND stock <= ?", threshold).
		Order("stock ASC, name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
