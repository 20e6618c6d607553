package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sterlingmedical/medsupply-backend/internal/cart"
	"github.com/sterlingmedical/medsupply-backend/internal/products"
	"github.com/sterlingmedical/medsupply-backend/pkg/db/models"
	"github.com/sterlingmedical/medsupply-backend/pkg/enums"
	pkgerrors "github.com/sterlingmedical/medsupply-backend/pkg/errors"
	"github.com/sterlingmedical/medsupply-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type cartSlots interface {
	Load(ctx context.Context, token string) (cart.State, error)
	Drop(ctx context.Context, token string) error
}

// Service owns order placement and the back-office order lifecycle.
type Service interface {
	PlaceFromCart(ctx context.Context, input PlaceFromCartInput) (*OrderDTO, error)
	CreateOrder(ctx context.Context, input CreateOrderInput) (*OrderDTO, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*OrderDTO, error)
	ListOrders(ctx context.Context, input ListOrdersInput) (*OrderListResult, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, next enums.OrderStatus) (*OrderDTO, error)
	DeleteOrder(ctx context.Context, id uuid.UUID) error
}

type service struct {
	tx       txRunner
	repo     *Repository
	products *products.Repository
	carts    cartSlots
}

// NewService builds an order service backed by the provided stack.
func NewService(tx txRunner, repo *Repository, productRepo *products.Repository, carts cartSlots) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	if repo == nil {
		return nil, fmt.Errorf("order repository is required")
	}
	if productRepo == nil {
		return nil, fmt.Errorf("product repository is required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart store is required")
	}
	return &service{tx: tx, repo: repo, products: productRepo, carts: carts}, nil
}

// PlaceFromCart turns the token's cart slot into an order. The stock
// decrement and the order insert share one transaction; the slot is dropped
// only after the commit so a failed placement leaves the cart intact.
func (s *service) PlaceFromCart(ctx context.Context, input PlaceFromCartInput) (*OrderDTO, error) {
	if strings.TrimSpace(input.CartToken) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart token is required")
	}
	if err := validateCustomer(input.CustomerName, input.CustomerEmail); err != nil {
		return nil, err
	}

	state, err := s.carts.Load(ctx, input.CartToken)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if len(state) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	lines := make([]CreateOrderLineInput, 0, len(state))
	for _, item := range state {
		productID, err := uuid.Parse(item.ID)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart holds an invalid product id")
		}
		lines = append(lines, CreateOrderLineInput{ProductID: productID, Quantity: item.Quantity})
	}

	order, err := s.place(ctx, models.Order{
		CustomerID:    input.CustomerID,
		CustomerName:  strings.TrimSpace(input.CustomerName),
		CustomerEmail: strings.TrimSpace(input.CustomerEmail),
		Status:        enums.OrderStatusPending,
	}, lines)
	if err != nil {
		return nil, err
	}

	if err := s.carts.Drop(ctx, input.CartToken); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "consume cart slot")
	}
	return toDTO(order), nil
}

// CreateOrder places a back-office order with explicit lines, decrementing
// stock the same way storefront placement does.
func (s *service) CreateOrder(ctx context.Context, input CreateOrderInput) (*OrderDTO, error) {
	if err := validateCustomer(input.CustomerName, input.CustomerEmail); err != nil {
		return nil, err
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order needs at least one line")
	}
	for _, line := range input.Items {
		if line.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line quantity must be at least 1")
		}
	}

	order, err := s.place(ctx, models.Order{
		CustomerID:    input.CustomerID,
		CustomerName:  strings.TrimSpace(input.CustomerName),
		CustomerEmail: strings.TrimSpace(input.CustomerEmail),
		Status:        enums.OrderStatusPending,
	}, input.Items)
	if err != nil {
		return nil, err
	}
	return toDTO(order), nil
}

// place resolves lines against the catalog, decrements stock and inserts
// the order, all inside one transaction.
func (s *service) place(ctx context.Context, order models.Order, lines []CreateOrderLineInput) (*models.Order, error) {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		catalog := s.products.WithTx(tx)

		subtotal := 0
		items := make([]models.OrderLineItem, 0, len(lines))
		for _, line := range lines {
			product, err := catalog.FindByID(ctx, line.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
			}
			if !product.IsActive {
				return pkgerrors.New(pkgerrors.CodeConflict,
					fmt.Sprintf("product %q is no longer available", product.Name))
			}

			if err := catalog.AdjustStock(ctx, product.ID, -line.Quantity); err != nil {
				if errors.Is(err, products.ErrInsufficientStock) {
					return pkgerrors.New(pkgerrors.CodeConflict,
						fmt.Sprintf("insufficient stock for %q", product.Name))
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "adjust stock")
			}

			unitPrice := product.PriceCents
			if line.UnitPriceCentsOver != nil {
				unitPrice = *line.UnitPriceCentsOver
			}
			lineTotal := unitPrice * line.Quantity
			subtotal += lineTotal
			items = append(items, models.OrderLineItem{
				ProductID:      product.ID,
				ProductName:    product.Name,
				UnitPriceCents: unitPrice,
				UnitCostCents:  product.CostCents,
				Quantity:       line.Quantity,
				LineTotalCents: lineTotal,
			})
		}

		order.Items = items
		order.SubtotalCents = subtotal
		order.TotalCents = subtotal
		return s.repo.WithTx(tx).Create(ctx, &order)
	})
	if err != nil {
		return nil, asServiceError(err, "place order")
	}
	return &order, nil
}

// GetOrder loads one order with its lines.
func (s *service) GetOrder(ctx context.Context, id uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return toDTO(order), nil
}

// ListOrders returns one page of orders, newest first.
func (s *service) ListOrders(ctx context.Context, input ListOrdersInput) (*OrderListResult, error) {
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
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	result := &OrderListResult{Orders: make([]OrderDTO, 0, len(rows))}
	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}
	for i := range rows {
		result.Orders = append(result.Orders, *toDTO(&rows[i]))
	}
	if hasMore {
		last := rows[len(rows)-1]
		result.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return result, nil
}

// UpdateStatus advances the order along its lifecycle. Illegal jumps and
// moves out of a terminal state are refused.
func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, next enums.OrderStatus) (*OrderDTO, error) {
	if !next.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	if !order.Status.CanTransitionTo(next) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move order from %s to %s", order.Status, next))
	}

	if next == enums.OrderStatusCancelled {
		// Cancelling returns the reserved units to the shelf. The status
		// flip claims the row first so a concurrent cancel cannot restock
		// the same lines twice.
		err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			claimed, err := s.repo.WithTx(tx).UpdateStatusFrom(ctx, id, order.Status, next)
			if err != nil {
				return err
			}
			if !claimed {
				return pkgerrors.New(pkgerrors.CodeStateConflict,
					fmt.Sprintf("order is no longer %s", order.Status))
			}
			catalog := s.products.WithTx(tx)
			for _, item := range order.Items {
				err := catalog.AdjustStock(ctx, item.ProductID, item.Quantity)
				if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
					return err
				}
			}
			return nil
		})
	} else {
		var claimed bool
		claimed, err = s.repo.UpdateStatusFrom(ctx, id, order.Status, next)
		if err == nil && !claimed {
			err = pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("order is no longer %s", order.Status))
		}
	}
	if err != nil {
		return nil, asServiceError(err, "update order status")
	}
	order.Status = next
	return toDTO(order), nil
}

// DeleteOrder removes the order and its lines.
func (s *service) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order")
	}
	return nil
}

func validateCustomer(name, email string) error {
	if strings.TrimSpace(name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer name is required")
	}
	if strings.TrimSpace(email) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer email is required")
	}
	return nil
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
