package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sterlingmedical/medsupply-backend/pkg/enums"
	pkgerrors "github.com/sterlingmedical/medsupply-backend/pkg/errors"
)

// SalesLine is one revenue-bearing order line as the repository scans it.
type SalesLine struct {
	ProductID      uuid.UUID
	ProductName    string
	UnitPriceCents int
	UnitCostCents  int
	Quantity       int
	LineTotalCents int
	OrderedAt      time.Time
}

// ProfitLossReport summarizes revenue against cost over a window. Cost of
// goods sold comes from the unit costs frozen into order lines; purchase
// spend is reported separately and not double-counted.
type ProfitLossReport struct {
	From               time.Time `json:"from"`
	To                 time.Time `json:"to"`
	RevenueCents       int       `json:"revenue_cents"`
	CostOfGoodsCents   int       `json:"cost_of_goods_cents"`
	GrossProfitCents   int       `json:"gross_profit_cents"`
	PurchaseSpendCents int       `json:"purchase_spend_cents"`
	OrderLineCount     int       `json:"order_line_count"`
	UnitsSold          int       `json:"units_sold"`
}

// ProductMarginReport is the per-product slice of the margin report.
type ProductMarginReport struct {
	ProductID        uuid.UUID       `json:"product_id"`
	ProductName      string          `json:"product_name"`
	UnitsSold        int             `json:"units_sold"`
	RevenueCents     int             `json:"revenue_cents"`
	CostOfGoodsCents int             `json:"cost_of_goods_cents"`
	GrossProfitCents int             `json:"gross_profit_cents"`
	MarginPercent    decimal.Decimal `json:"margin_percent"`
}

// LowStockItem is one product at or below the restock threshold.
type LowStockItem struct {
	ProductID uuid.UUID             `json:"product_id"`
	Name      string                `json:"name"`
	SKU       string                `json:"sku"`
	Category  enums.ProductCategory `json:"category"`
	Stock     int                   `json:"stock"`
}

// LowStockReport lists products needing restock against the threshold used.
type LowStockReport struct {
	Threshold int            `json:"threshold"`
	Items     []LowStockItem `json:"items"`
}

// DateRangeInput bounds a report window. To is exclusive.
type DateRangeInput struct {
	From time.Time
	To   time.Time
}

type thresholdSource interface {
	LowStockThreshold(ctx context.Context) (int, error)
}

// Service reduces raw sales and stock rows into back-office reports.
type Service interface {
	ProfitLoss(ctx context.Context, input DateRangeInput) (*ProfitLossReport, error)
	ProductMargins(ctx context.Context, input DateRangeInput) ([]ProductMarginReport, error)
	LowStock(ctx context.Context) (*LowStockReport, error)
}

type service struct {
	repo       *Repository
	thresholds thresholdSource
}

// NewService builds a report service backed by the provided stack.
func NewService(repo *Repository, thresholds thresholdSource) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("report repository is required")
	}
	if thresholds == nil {
		return nil, fmt.Errorf("threshold source is required")
	}
	return &service{repo: repo, thresholds: thresholds}, nil
}

// ProfitLoss sums revenue and cost of goods sold over the window.
func (s *service) ProfitLoss(ctx context.Context, input DateRangeInput) (*ProfitLossReport, error) {
	if err := validateRange(input); err != nil {
		return nil, err
	}

	lines, err := s.repo.SalesLines(ctx, input.From, input.To)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load sales lines")
	}
	purchaseSpend, err := s.repo.PurchaseCostCents(ctx, input.From, input.To)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load purchase spend")
	}

	report := &ProfitLossReport{
		From:               input.From,
		To:                 input.To,
		PurchaseSpendCents: purchaseSpend,
		OrderLineCount:     len(lines),
	}
	for _, line := range lines {
		report.RevenueCents += line.LineTotalCents
		report.CostOfGoodsCents += line.UnitCostCents * line.Quantity
		report.UnitsSold += line.Quantity
	}
	report.GrossProfitCents = report.RevenueCents - report.CostOfGoodsCents
	return report, nil
}

// ProductMargins groups the window's sales lines by product and computes
// each product's gross margin percentage. Products with zero revenue report
// a zero margin rather than dividing by zero.
func (s *service) ProductMargins(ctx context.Context, input DateRangeInput) ([]ProductMarginReport, error) {
	if err := validateRange(input); err != nil {
		return nil, err
	}

	lines, err := s.repo.SalesLines(ctx, input.From, input.To)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load sales lines")
	}

	byProduct := make(map[uuid.UUID]*ProductMarginReport)
	order := make([]uuid.UUID, 0)
	for _, line := range lines {
		entry, ok := byProduct[line.ProductID]
		if !ok {
			entry = &ProductMarginReport{
				ProductID:   line.ProductID,
				ProductName: line.ProductName,
			}
			byProduct[line.ProductID] = entry
			order = append(order, line.ProductID)
		}
		entry.UnitsSold += line.Quantity
		entry.RevenueCents += line.LineTotalCents
		entry.CostOfGoodsCents += line.UnitCostCents * line.Quantity
	}

	reports := make([]ProductMarginReport, 0, len(order))
	hundred := decimal.NewFromInt(100)
	for _, id := range order {
		entry := byProduct[id]
		entry.GrossProfitCents = entry.RevenueCents - entry.CostOfGoodsCents
		if entry.RevenueCents > 0 {
			entry.MarginPercent = decimal.NewFromInt(int64(entry.GrossProfitCents)).
				Div(decimal.NewFromInt(int64(entry.RevenueCents))).
				Mul(hundred).
				Round(2)
		}
		reports = append(reports, *entry)
	}
	return reports, nil
}

// LowStock lists active products at or below the store's configured
// threshold.
func (s *service) LowStock(ctx context.Context) (*LowStockReport, error) {
	threshold, err := s.thresholds.LowStockThreshold(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load stock threshold")
	}

	rows, err := s.repo.LowStockProducts(ctx, threshold)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load low stock products")
	}

	report := &LowStockReport{Threshold: threshold, Items: make([]LowStockItem, 0, len(rows))}
	for _, row := range rows {
		report.Items = append(report.Items, LowStockItem{
			ProductID: row.ID,
			Name:      row.Name,
			SKU:       row.SKU,
			Category:  row.Category,
			Stock:     row.Stock,
		})
	}
	return report, nil
}

func validateRange(input DateRangeInput) error {
	if input.From.IsZero() || input.To.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "report range is required")
	}
	if !input.To.After(input.From) {
		return pkgerrors.New(pkgerrors.CodeValidation, "report range end must be after its start")
	}
	return nil
}
