package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/sterlingmedical/medsupply-backend/pkg/db/models"
	"github.com/sterlingmedical/medsupply-backend/pkg/enums"
)

// OrderDTO is the order shape returned to the back-office and to the
// storefront confirmation screen.
type OrderDTO struct {
	ID            uuid.UUID          `json:"id"`
	CustomerID    *uuid.UUID         `json:"customer_id,omitempty"`
	CustomerName  string             `json:"customer_name"`
	CustomerEmail string             `json:"customer_email"`
	Status        enums.OrderStatus  `json:"status"`
	SubtotalCents int                `json:"subtotal_cents"`
	TotalCents    int                `json:"total_cents"`
	Items         []OrderLineItemDTO `json:"items"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// OrderLineItemDTO is one snapshotted line of an order.
type OrderLineItemDTO struct {
	ID             uuid.UUID `json:"id"`
	ProductID      uuid.UUID `json:"product_id"`
	ProductName    string    `json:"product_name"`
	UnitPriceCents int       `json:"unit_price_cents"`
	UnitCostCents  int       `json:"unit_cost_cents"`
	Quantity       int       `json:"quantity"`
	LineTotalCents int       `json:"line_total_cents"`
}

// PlaceFromCartInput places a storefront order by consuming a cart slot.
type PlaceFromCartInput struct {
	CartToken     string
	CustomerID    *uuid.UUID
	CustomerName  string
	CustomerEmail string
}

// CreateOrderInput places a back-office order with explicit lines.
type CreateOrderInput struct {
	CustomerID    *uuid.UUID
	CustomerName  string
	CustomerEmail string
	Items         []CreateOrderLineInput
}

// CreateOrderLineInput is one requested line; the price defaults to the
// product's current price when no override is given.
type CreateOrderLineInput struct {
	ProductID          uuid.UUID
	Quantity           int
	UnitPriceCentsOver *int
}

// ListOrdersInput filters and paginates order queries.
type ListOrdersInput struct {
	Status *enums.OrderStatus
	Limit  int
	Cursor string
}

// OrderListResult is one page plus the cursor for the next.
type OrderListResult struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

func toDTO(m *models.Order) *OrderDTO {
	if m == nil {
		return nil
	}
	dto := &OrderDTO{
		ID:            m.ID,
		CustomerID:    m.CustomerID,
		CustomerName:  m.CustomerName,
		CustomerEmail: m.CustomerEmail,
		Status:        m.Status,
		SubtotalCents: m.SubtotalCents,
		TotalCents:    m.TotalCents,
		Items:         make([]OrderLineItemDTO, 0, len(m.Items)),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	for _, item := range m.Items {
		dto.Items = append(dto.Items, OrderLineItemDTO{
			ID:             item.ID,
			ProductID:      item.ProductID,
			ProductName:    item.ProductName,
			UnitPriceCents: item.UnitPriceCents,
			UnitCostCents:  item.UnitCostCents,
			Quantity:       item.Quantity,
			LineTotalCents: item.LineTotalCents,
		})
	}
	return dto
}
