package purchases

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sterlingmedical/medsupply-backend/internal/products"
	"github.com/sterlingmedical/medsupply-backend/pkg/db/models"
	"github.com/sterlingmedical/medsupply-backend/pkg/enums"
	pkgerrors "github.com/sterlingmedical/medsupply-backend/pkg/errors"
	"github.com/sterlingmedical/medsupply-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// PurchaseDTO is the purchase shape returned to the back-office.
type PurchaseDTO struct {
	ID           uuid.UUID             `json:"id"`
	SupplierName string                `json:"supplier_name"`
	Reference    *string               `json:"reference,omitempty"`
	Status       enums.PurchaseStatus  `json:"status"`
	TotalCents   int                   `json:"total_cents"`
	ReceivedAt   *time.Time            `json:"received_at,omitempty"`
	Items        []PurchaseLineItemDTO `json:"items"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// PurchaseLineItemDTO is one restocked line of a purchase.
type PurchaseLineItemDTO struct {
	ID             uuid.UUID `json:"id"`
	ProductID      uuid.UUID `json:"product_id"`
	ProductName    string    `json:"product_name"`
	UnitCostCents  int       `json:"unit_cost_cents"`
	Quantity       int       `json:"quantity"`
	LineTotalCents int       `json:"line_total_cents"`
}

// CreatePurchaseInput records a supplier order before the goods arrive.
type CreatePurchaseInput struct {
	SupplierName string
	Reference    *string
	Items        []CreatePurchaseLineInput
}

// CreatePurchaseLineInput is one requested restock line.
type CreatePurchaseLineInput struct {
	ProductID     uuid.UUID
	Quantity      int
	UnitCostCents int
}

// ListPurchasesInput filters and paginates purchase queries.
type ListPurchasesInput struct {
	Status *enums.PurchaseStatus
	Limit  int
	Cursor string
}

// PurchaseListResult is one page plus the cursor for the next.
type PurchaseListResult struct {
	Purchases  []PurchaseDTO `json:"purchases"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

// Service owns the supplier purchase lifecycle. Marking a purchase received
// is the only flow that increases catalog stock.
type Service interface {
	CreatePurchase(ctx context.Context, input CreatePurchaseInput) (*PurchaseDTO, error)
	GetPurchase(ctx context.Context, id uuid.UUID) (*PurchaseDTO, error)
	ListPurchases(ctx context.Context, input ListPurchasesInput) (*PurchaseListResult, error)
	MarkReceived(ctx context.Context, id uuid.UUID) (*PurchaseDTO, error)
	CancelPurchase(ctx context.Context, id uuid.UUID) (*PurchaseDTO, error)
	DeletePurchase(ctx context.Context, id uuid.UUID) error
}

type service struct {
	tx       txRunner
	repo     *Repository
	products *products.Repository
}

// NewService builds a purchase service backed by the provided stack.
func NewService(tx txRunner, repo *Repository, productRepo *products.Repository) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	if repo == nil {
		return nil, fmt.Errorf("purchase repository is required")
	}
	if productRepo == nil {
		return nil, fmt.Errorf("product repository is required")
	}
	return &service{tx: tx, repo: repo, products: productRepo}, nil
}

// CreatePurchase records the supplier order. Stock is untouched until the
// goods are marked received.
func (s *service) CreatePurchase(ctx context.Context, input CreatePurchaseInput) (*PurchaseDTO, error) {
	if strings.TrimSpace(input.SupplierName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier name is required")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "purchase needs at least one line")
	}

	total := 0
	items := make([]models.PurchaseLineItem, 0, len(input.Items))
	for _, line := range input.Items {
		if line.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line quantity must be at least 1")
		}
		if line.UnitCostCents < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit cost cannot be negative")
		}
		product, err := s.products.FindByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}

		lineTotal := line.UnitCostCents * line.Quantity
		total += lineTotal
		items = append(items, models.PurchaseLineItem{
			ProductID:      product.ID,
			ProductName:    product.Name,
			UnitCostCents:  line.UnitCostCents,
			Quantity:       line.Quantity,
			LineTotalCents: lineTotal,
		})
	}

	purchase := models.Purchase{
		SupplierName: strings.TrimSpace(input.SupplierName),
		Reference:    input.Reference,
		Status:       enums.PurchaseStatusOrdered,
		TotalCents:   total,
		Items:        items,
	}
	if err := s.repo.Create(ctx, &purchase); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create purchase")
	}
	return toDTO(&purchase), nil
}

// GetPurchase loads one purchase with its lines.
func (s *service) GetPurchase(ctx context.Context, id uuid.UUID) (*PurchaseDTO, error) {
	purchase, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDTO(purchase), nil
}

// ListPurchases returns one page of purchases, newest first.
func (s *service) ListPurchases(ctx context.Context, input ListPurchasesInput) (*PurchaseListResult, error) {
	cursor, err := pagination.ParseCursor(input.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(input.Limit)
	rows, err := s.repo.List(ctx, ListFilter{
		Status: input.Status,
		Limit:  limit,
		Cursor: cursor,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list purchases")
	}

	result := &PurchaseListResult{Purchases: make([]PurchaseDTO, 0, len(rows))}
	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}
	for i := range rows {
		result.Purchases = append(result.Purchases, *toDTO(&rows[i]))
	}
	if hasMore {
		last := rows[len(rows)-1]
		result.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return result, nil
}

// MarkReceived books the goods in: every line's quantity is added to its
// product's stock and the purchase flips to received, all in one transaction.
func (s *service) MarkReceived(ctx context.Context, id uuid.UUID) (*PurchaseDTO, error) {
	purchase, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if purchase.Status != enums.PurchaseStatusOrdered {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("purchase is already %s", purchase.Status))
	}

	now := time.Now().UTC()
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		// The status flip claims the row first so a concurrent receive
		// cannot book the same goods in twice.
		claimed, err := s.repo.WithTx(tx).ClaimStatus(ctx, id,
			enums.PurchaseStatusOrdered, enums.PurchaseStatusReceived, &now)
		if err != nil {
			return err
		}
		if !claimed {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "purchase is no longer awaiting receipt")
		}
		catalog := s.products.WithTx(tx)
		for _, item := range purchase.Items {
			if err := catalog.AdjustStock(ctx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, asServiceError(err, "receive purchase")
	}
	purchase.Status = enums.PurchaseStatusReceived
	purchase.ReceivedAt = &now
	return toDTO(purchase), nil
}

// CancelPurchase voids an ordered purchase before receipt.
func (s *service) CancelPurchase(ctx context.Context, id uuid.UUID) (*PurchaseDTO, error) {
	purchase, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if purchase.Status != enums.PurchaseStatusOrdered {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("purchase is already %s", purchase.Status))
	}

	claimed, err := s.repo.ClaimStatus(ctx, id,
		enums.PurchaseStatusOrdered, enums.PurchaseStatusCancelled, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel purchase")
	}
	if !claimed {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "purchase is no longer awaiting receipt")
	}
	purchase.Status = enums.PurchaseStatusCancelled
	return toDTO(purchase), nil
}

// DeletePurchase removes the purchase record. Received purchases keep their
// stock effect; deletion is bookkeeping only.
func (s *service) DeletePurchase(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "purchase not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete purchase")
	}
	return nil
}

func (s *service) find(ctx context.Context, id uuid.UUID) (*models.Purchase, error) {
	purchase, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "purchase not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load purchase")
	}
	return purchase, nil
}

func toDTO(m *models.Purchase) *PurchaseDTO {
	if m == nil {
		return nil
	}
	dto := &PurchaseDTO{
		ID:           m.ID,
		SupplierName: m.SupplierName,
		Reference:    m.Reference,
		Status:       m.Status,
		TotalCents:   m.TotalCents,
		ReceivedAt:   m.ReceivedAt,
		Items:        make([]PurchaseLineItemDTO, 0, len(m.Items)),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	for _, item := range m.Items {
		dto.Items = append(dto.Items, PurchaseLineItemDTO{
			ID:             item.ID,
			ProductID:      item.ProductID,
			ProductName:    item.ProductName,
			UnitCostCents:  item.UnitCostCents,
			Quantity:       item.Quantity,
			LineTotalCents: item.LineTotalCents,
		})
	}
	return dto
}

// asServiceError keeps typed errors raised inside a transaction intact and
// wraps everything else as a dependency failure.
func asServiceError(err error, op string) error {
	var typed *pkgerrors.Error
	if errors.As(err, &typed) {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, op)
}
