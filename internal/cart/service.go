package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	products "github.com/sterlingmedical/medsupply-backend/internal/products"
	pkgerrors "github.com/sterlingmedical/medsupply-backend/pkg/errors"
	"gorm.io/gorm"
)

type productLoader interface {
	GetActiveProduct(ctx context.Context, id uuid.UUID) (*products.ProductDTO, error)
}

// View is the cart state plus its derived aggregates. The aggregates are
// recomputed from the state on every read and never stored.
type View struct {
	Items      []Item `json:"items"`
	TotalCents int    `json:"total_cents"`
	ItemCount  int    `json:"item_count"`
}

// Mutation is the outcome of a cart transition: the resulting view, the
// result code, and the display fields the HTTP layer needs to phrase a
// notification.
type Mutation struct {
	View        View
	Result      Result
	ProductName string
	Quantity    int
}

// Service owns the canonical cart state for each token and mediates all
// mutations. Construct once at startup and inject into consumers.
type Service interface {
	Get(ctx context.Context, token string) (*View, error)
	AddItem(ctx context.Context, token string, productID uuid.UUID, qty int) (*Mutation, error)
	SetQuantity(ctx context.Context, token, productID string, qty int) (*Mutation, error)
	RemoveItem(ctx context.Context, token, productID string) (*Mutation, error)
	Clear(ctx context.Context, token string) (*Mutation, error)
}

type service struct {
	store    Store
	products productLoader
}

// NewService builds a cart service backed by the provided stack.
func NewService(store Store, loader productLoader) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store is required")
	}
	if loader == nil {
		return nil, fmt.Errorf("product loader is required")
	}
	return &service{store: store, products: loader}, nil
}

// Get loads the current state and computes its aggregates.
func (s *service) Get(ctx context.Context, token string) (*View, error) {
	state, err := s.load(ctx, token)
	if err != nil {
		return nil, err
	}
	view := viewOf(state)
	return &view, nil
}

// AddItem snapshots the product from the catalog and merges qty units into
// the cart. The stock ceiling frozen into the line is the catalog stock at
// this moment.
func (s *service) AddItem(ctx context.Context, token string, productID uuid.UUID, qty int) (*Mutation, error) {
	state, err := s.load(ctx, token)
	if err != nil {
		return nil, err
	}

	product, err := s.products.GetActiveProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	next, result := Add(state, snapshotOf(product), qty)
	if err := s.persist(ctx, token, next, result); err != nil {
		return nil, err
	}
	return &Mutation{
		View:        viewOf(next),
		Result:      result,
		ProductName: product.Name,
		Quantity:    qty,
	}, nil
}

// SetQuantity pins a line to the given quantity, removing it when the
// quantity is non-positive.
func (s *service) SetQuantity(ctx context.Context, token, productID string, qty int) (*Mutation, error) {
	state, err := s.load(ctx, token)
	if err != nil {
		return nil, err
	}

	name := lineName(state, productID)
	next, result := SetQuantity(state, productID, qty)
	if err := s.persist(ctx, token, next, result); err != nil {
		return nil, err
	}
	return &Mutation{
		View:        viewOf(next),
		Result:      result,
		ProductName: name,
		Quantity:    qty,
	}, nil
}

// RemoveItem drops a line. Removing an absent product is a no-op notice.
func (s *service) RemoveItem(ctx context.Context, token, productID string) (*Mutation, error) {
	state, err := s.load(ctx, token)
	if err != nil {
		return nil, err
	}

	name := lineName(state, productID)
	next, result := Remove(state, productID)
	if err := s.persist(ctx, token, next, result); err != nil {
		return nil, err
	}
	return &Mutation{
		View:        viewOf(next),
		Result:      result,
		ProductName: name,
	}, nil
}

// Clear empties the cart and persists the empty state.
func (s *service) Clear(ctx context.Context, token string) (*Mutation, error) {
	if err := validateToken(token); err != nil {
		return nil, err
	}
	next, result := Clear(nil)
	if err := s.store.Save(ctx, token, next); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist cart")
	}
	return &Mutation{View: viewOf(next), Result: result}, nil
}

func (s *service) load(ctx context.Context, token string) (State, error) {
	if err := validateToken(token); err != nil {
		return nil, err
	}
	state, err := s.store.Load(ctx, token)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return state, nil
}

// persist writes the slot only for accepted transitions; rejected ones
// leave the stored state untouched.
func (s *service) persist(ctx context.Context, token string, state State, result Result) error {
	if result.Rejected() {
		return nil
	}
	if err := s.store.Save(ctx, token, state); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist cart")
	}
	return nil
}

func validateToken(token string) error {
	if strings.TrimSpace(token) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart token is required")
	}
	return nil
}

func viewOf(state State) View {
	items := state
	if items == nil {
		items = State{}
	}
	return View{
		Items:      items,
		TotalCents: state.TotalCents(),
		ItemCount:  state.ItemCount(),
	}
}

func snapshotOf(product *products.ProductDTO) Snapshot {
	snap := Snapshot{
		ID:         product.ID.String(),
		Name:       product.Name,
		PriceCents: product.PriceCents,
		Stock:      product.Stock,
		ImageURLs:  product.ImageURLs,
	}
	if product.Description != nil {
		snap.Description = *product.Description
	}
	return snap
}

func lineName(state State, productID string) string {
	for _, item := range state {
		if item.ID == productID {
			return item.Name
		}
	}
	return ""
}
