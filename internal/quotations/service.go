package quotations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sterlingmedical/medsupply-backend/internal/customers"
	"github.com/sterlingmedical/medsupply-backend/internal/orders"
	"github.com/sterlingmedical/medsupply-backend/internal/products"
	"github.com/sterlingmedical/medsupply-backend/pkg/db/models"
	"github.com/sterlingmedical/medsupply-backend/pkg/enums"
	pkgerrors "github.com/sterlingmedical/medsupply-backend/pkg/errors"
	"github.com/sterlingmedical/medsupply-backend/pkg/pagination"
)

type orderPlacer interface {
	CreateOrder(ctx context.Context, input orders.CreateOrderInput) (*orders.OrderDTO, error)
}

// QuotationDTO is the quotation shape returned to the back-office.
type QuotationDTO struct {
	ID         uuid.UUID              `json:"id"`
	CustomerID uuid.UUID              `json:"customer_id"`
	Status     enums.QuotationStatus  `json:"status"`
	ValidUntil *time.Time             `json:"valid_until,omitempty"`
	TotalCents int                    `json:"total_cents"`
	Notes      *string                `json:"notes,omitempty"`
	Items      []QuotationLineItemDTO `json:"items"`
	CreatedAt  time.Time              `json:"created_at"`
	UpdatedAt  time.Time              `json:"updated_at"`
}

// QuotationLineItemDTO is one quoted line.
type QuotationLineItemDTO struct {
	ID             uuid.UUID `json:"id"`
	ProductID      uuid.UUID `json:"product_id"`
	ProductName    string    `json:"product_name"`
	UnitPriceCents int       `json:"unit_price_cents"`
	Quantity       int       `json:"quantity"`
	LineTotalCents int       `json:"line_total_cents"`
}

// UpsertQuotationInput carries a draft's header and full line set. Updates
// replace the lines wholesale.
type UpsertQuotationInput struct {
	CustomerID uuid.UUID
	ValidUntil *time.Time
	Notes      *string
	Items      []QuotationLineInput
}

// QuotationLineInput is one requested line; the price defaults to the
// product's current price when no override is given.
type QuotationLineInput struct {
	ProductID          uuid.UUID
	Quantity           int
	UnitPriceCentsOver *int
}

// ListQuotationsInput filters and paginates quotation queries.
type ListQuotationsInput struct {
	Status     *enums.QuotationStatus
	CustomerID *uuid.UUID
	Limit      int
	Cursor     string
}

// QuotationListResult is one page plus the cursor for the next.
type QuotationListResult struct {
	Quotations []QuotationDTO `json:"quotations"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

// Service owns the quotation lifecycle: draft, send, decide, and convert an
// accepted quotation into an order at the quoted prices.
type Service interface {
	CreateQuotation(ctx context.Context, input UpsertQuotationInput) (*QuotationDTO, error)
	UpdateQuotation(ctx context.Context, id uuid.UUID, input UpsertQuotationInput) (*QuotationDTO, error)
	GetQuotation(ctx context.Context, id uuid.UUID) (*QuotationDTO, error)
	ListQuotations(ctx context.Context, input ListQuotationsInput) (*QuotationListResult, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, next enums.QuotationStatus) (*QuotationDTO, error)
	ConvertToOrder(ctx context.Context, id uuid.UUID) (*orders.OrderDTO, error)
	DeleteQuotation(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo      *Repository
	products  *products.Repository
	customers *customers.Repository
	orders    orderPlacer
}

// NewService builds a quotation service backed by the provided stack.
func NewService(repo *Repository, productRepo *products.Repository, customerRepo *customers.Repository, placer orderPlacer) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("quotation repository is required")
	}
	if productRepo == nil {
		return nil, fmt.Errorf("product repository is required")
	}
	if customerRepo == nil {
		return nil, fmt.Errorf("customer repository is required")
	}
	if placer == nil {
		return nil, fmt.Errorf("order service is required")
	}
	return &service{repo: repo, products: productRepo, customers: customerRepo, orders: placer}, nil
}

// CreateQuotation drafts a quotation for the customer.
func (s *service) CreateQuotation(ctx context.Context, input UpsertQuotationInput) (*QuotationDTO, error) {
	if _, err := s.findCustomer(ctx, input.CustomerID); err != nil {
		return nil, err
	}
	items, total, err := s.resolveLines(ctx, input.Items)
	if err != nil {
		return nil, err
	}

	quotation := models.Quotation{
		CustomerID: input.CustomerID,
		Status:     enums.QuotationStatusDraft,
		ValidUntil: input.ValidUntil,
		TotalCents: total,
		Notes:      input.Notes,
		Items:      items,
	}
	if err := s.repo.Create(ctx, &quotation); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create quotation")
	}
	return toDTO(&quotation), nil
}

// UpdateQuotation rewrites a draft's header and lines. Anything past draft
// is frozen.
func (s *service) UpdateQuotation(ctx context.Context, id uuid.UUID, input UpsertQuotationInput) (*QuotationDTO, error) {
	quotation, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if quotation.Status != enums.QuotationStatusDraft {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot edit a %s quotation", quotation.Status))
	}
	if _, err := s.findCustomer(ctx, input.CustomerID); err != nil {
		return nil, err
	}
	items, total, err := s.resolveLines(ctx, input.Items)
	if err != nil {
		return nil, err
	}

	quotation.CustomerID = input.CustomerID
	quotation.ValidUntil = input.ValidUntil
	quotation.Notes = input.Notes
	quotation.TotalCents = total
	if err := s.repo.Update(ctx, quotation); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update quotation")
	}
	if err := s.repo.ReplaceItems(ctx, quotation.ID, items); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace quotation lines")
	}
	quotation.Items = items
	return toDTO(quotation), nil
}

// GetQuotation loads one quotation with its lines.
func (s *service) GetQuotation(ctx context.Context, id uuid.UUID) (*QuotationDTO, error) {
	quotation, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDTO(quotation), nil
}

// ListQuotations returns one page of quotations, newest first.
func (s *service) ListQuotations(ctx context.Context, input ListQuotationsInput) (*QuotationListResult, error) {
	cursor, err := pagination.ParseCursor(input.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(input.Limit)
	rows, err := s.repo.List(ctx, ListFilter{
		Status:     input.Status,
		CustomerID: input.CustomerID,
		Limit:      limit,
		Cursor:     cursor,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list quotations")
	}

	result := &QuotationListResult{Quotations: make([]QuotationDTO, 0, len(rows))}
	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}
	for i := range rows {
		result.Quotations = append(result.Quotations, *toDTO(&rows[i]))
	}
	if hasMore {
		last := rows[len(rows)-1]
		result.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return result, nil
}

// UpdateStatus advances the quotation along draft → sent → accepted/declined.
func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, next enums.QuotationStatus) (*QuotationDTO, error) {
	if !next.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid quotation status")
	}

	quotation, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !quotation.Status.CanTransitionTo(next) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move quotation from %s to %s", quotation.Status, next))
	}

	quotation.Status = next
	if err := s.repo.Update(ctx, quotation); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update quotation status")
	}
	return toDTO(quotation), nil
}

// ConvertToOrder places an order for an accepted quotation at the quoted
// prices. Stock is decremented at conversion time, not at acceptance.
func (s *service) ConvertToOrder(ctx context.Context, id uuid.UUID) (*orders.OrderDTO, error) {
	quotation, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if quotation.Status != enums.QuotationStatusAccepted {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			"only accepted quotations can be converted")
	}

	customer, err := s.findCustomer(ctx, quotation.CustomerID)
	if err != nil {
		return nil, err
	}

	lines := make([]orders.CreateOrderLineInput, 0, len(quotation.Items))
	for _, item := range quotation.Items {
		price := item.UnitPriceCents
		lines = append(lines, orders.CreateOrderLineInput{
			ProductID:          item.ProductID,
			Quantity:           item.Quantity,
			UnitPriceCentsOver: &price,
		})
	}

	customerID := customer.ID
	return s.orders.CreateOrder(ctx, orders.CreateOrderInput{
		CustomerID:    &customerID,
		CustomerName:  customer.Name,
		CustomerEmail: customer.Email,
		Items:         lines,
	})
}

// DeleteQuotation removes the quotation and its lines.
func (s *service) DeleteQuotation(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "quotation not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete quotation")
	}
	return nil
}

func (s *service) find(ctx context.Context, id uuid.UUID) (*models.Quotation, error) {
	quotation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "quotation not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load quotation")
	}
	return quotation, nil
}

func (s *service) findCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	customer, err := s.customers.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}
	return customer, nil
}

// resolveLines prices each requested line against the catalog.
func (s *service) resolveLines(ctx context.Context, lines []QuotationLineInput) ([]models.QuotationLineItem, int, error) {
	if len(lines) == 0 {
		return nil, 0, pkgerrors.New(pkgerrors.CodeValidation, "quotation needs at least one line")
	}

	total := 0
	items := make([]models.QuotationLineItem, 0, len(lines))
	for _, line := range lines {
		if line.Quantity < 1 {
			return nil, 0, pkgerrors.New(pkgerrors.CodeValidation, "line quantity must be at least 1")
		}
		product, err := s.products.FindByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, 0, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}

		price := product.PriceCents
		if line.UnitPriceCentsOver != nil {
			if *line.UnitPriceCentsOver < 0 {
				return nil, 0, pkgerrors.New(pkgerrors.CodeValidation, "unit price cannot be negative")
			}
			price = *line.UnitPriceCentsOver
		}
		lineTotal := price * line.Quantity
		total += lineTotal
		items = append(items, models.QuotationLineItem{
			ProductID:      product.ID,
			ProductName:    product.Name,
			UnitPriceCents: price,
			Quantity:       line.Quantity,
			LineTotalCents: lineTotal,
		})
	}
	return items, total, nil
}

func toDTO(m *models.Quotation) *QuotationDTO {
	if m == nil {
		return nil
	}
	dto := &QuotationDTO{
		ID:         m.ID,
		CustomerID: m.CustomerID,
		Status:     m.Status,
		ValidUntil: m.ValidUntil,
		TotalCents: m.TotalCents,
		Notes:      m.Notes,
		Items:      make([]QuotationLineItemDTO, 0, len(m.Items)),
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
	for _, item := range m.Items {
		dto.Items = append(dto.Items, QuotationLineItemDTO{
			ID:             item.ID,
			ProductID:      item.ProductID,
			ProductName:    item.ProductName,
			UnitPriceCents: item.UnitPriceCents,
			Quantity:       item.Quantity,
			LineTotalCents: item.LineTotalCents,
		})
	}
	return dto
}
