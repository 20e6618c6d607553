package receipts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sterlingmedical/medsupply-backend/internal/orders"
	"github.com/sterlingmedical/medsupply-backend/pkg/db/models"
	"github.com/sterlingmedical/medsupply-backend/pkg/enums"
	pkgerrors "github.com/sterlingmedical/medsupply-backend/pkg/errors"
	"github.com/sterlingmedical/medsupply-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type orderLoader interface {
	GetOrder(ctx context.Context, id uuid.UUID) (*orders.OrderDTO, error)
}

// ReceiptDTO is the receipt shape returned to the back-office.
type ReceiptDTO struct {
	ID          uuid.UUID           `json:"id"`
	OrderID     uuid.UUID           `json:"order_id"`
	Number      string              `json:"number"`
	AmountCents int                 `json:"amount_cents"`
	Method      enums.PaymentMethod `json:"method"`
	IssuedAt    time.Time           `json:"issued_at"`
	VoidedAt    *time.Time          `json:"voided_at,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
}

// CreateReceiptInput issues a receipt against an order. A zero amount
// defaults to the order total.
type CreateReceiptInput struct {
	OrderID     uuid.UUID
	AmountCents int
	Method      enums.PaymentMethod
}

// ListReceiptsInput filters and paginates receipt queries.
type ListReceiptsInput struct {
	OrderID *uuid.UUID
	Limit   int
	Cursor  string
}

// ReceiptListResult is one page plus the cursor for the next.
type ReceiptListResult struct {
	Receipts   []ReceiptDTO `json:"receipts"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

// Service issues and voids payment receipts. Numbers are sequential within
// the issuing year and never reused, voided or not.
type Service interface {
	CreateReceipt(ctx context.Context, input CreateReceiptInput) (*ReceiptDTO, error)
	GetReceipt(ctx context.Context, id uuid.UUID) (*ReceiptDTO, error)
	ListReceipts(ctx context.Context, input ListReceiptsInput) (*ReceiptListResult, error)
	VoidReceipt(ctx context.Context, id uuid.UUID) (*ReceiptDTO, error)
}

type service struct {
	tx     txRunner
	repo   *Repository
	orders orderLoader
	now    func() time.Time
}

// NewService builds a receipt service backed by the provided stack.
func NewService(tx txRunner, repo *Repository, orderSvc orderLoader) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	if repo == nil {
		return nil, fmt.Errorf("receipt repository is required")
	}
	if orderSvc == nil {
		return nil, fmt.Errorf("order service is required")
	}
	return &service{tx: tx, repo: repo, orders: orderSvc, now: time.Now}, nil
}

// CreateReceipt issues the next number for the current year and records the
// payment. Number allocation and insert share one transaction so two
// concurrent issuers cannot mint the same number.
func (s *service) CreateReceipt(ctx context.Context, input CreateReceiptInput) (*ReceiptDTO, error) {
	if !input.Method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}
	if input.AmountCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount cannot be negative")
	}

	order, err := s.orders.GetOrder(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}

	amount := input.AmountCents
	if amount == 0 {
		amount = order.TotalCents
	}

	issuedAt := s.now().UTC()
	receipt := models.Receipt{
		OrderID:     order.ID,
		AmountCents: amount,
		Method:      input.Method,
		IssuedAt:    issuedAt,
	}
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		number, err := repo.NextNumber(ctx, issuedAt.Year())
		if err != nil {
			return err
		}
		receipt.Number = number
		return repo.Create(ctx, &receipt)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "issue receipt")
	}
	return toDTO(&receipt), nil
}

// GetReceipt loads one receipt.
func (s *service) GetReceipt(ctx context.Context, id uuid.UUID) (*ReceiptDTO, error) {
	receipt, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDTO(receipt), nil
}

// ListReceipts returns one page of receipts, newest first.
func (s *service) ListReceipts(ctx context.Context, input ListReceiptsInput) (*ReceiptListResult, error) {
	cursor, err := pagination.ParseCursor(input.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(input.Limit)
	rows, err := s.repo.List(ctx, ListFilter{
		OrderID: input.OrderID,
		Limit:   limit,
		Cursor:  cursor,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list receipts")
	}

	result := &ReceiptListResult{Receipts: make([]ReceiptDTO, 0, len(rows))}
	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}
	for i := range rows {
		result.Receipts = append(result.Receipts, *toDTO(&rows[i]))
	}
	if hasMore {
		last := rows[len(rows)-1]
		result.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return result, nil
}

// VoidReceipt marks the receipt void. The number stays burned.
func (s *service) VoidReceipt(ctx context.Context, id uuid.UUID) (*ReceiptDTO, error) {
	receipt, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if receipt.VoidedAt != nil {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "receipt is already void")
	}

	now := s.now().UTC()
	receipt.VoidedAt = &now
	if err := s.repo.Update(ctx, receipt); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "void receipt")
	}
	return toDTO(receipt), nil
}

func (s *service) find(ctx context.Context, id uuid.UUID) (*models.Receipt, error) {
	receipt, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "receipt not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load receipt")
	}
	return receipt, nil
}

func toDTO(m *models.Receipt) *ReceiptDTO {
	if m == nil {
		return nil
	}
	return &ReceiptDTO{
		ID:          m.ID,
		OrderID:     m.OrderID,
		Number:      m.Number,
		AmountCents: m.AmountCents,
		Method:      m.Method,
		IssuedAt:    m.IssuedAt,
		VoidedAt:    m.VoidedAt,
		CreatedAt:   m.CreatedAt,
	}
}
