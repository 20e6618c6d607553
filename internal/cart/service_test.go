package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	products "github.com/sterlingmedical/medsupply-backend/internal/products"
	pkgerrors "github.com/sterlingmedical/medsupply-backend/pkg/errors"
)

type stubStore struct {
	slots   map[string]State
	loadErr error
	saveErr error
	saves   int
}

func newStubStore() *stubStore {
	return &stubStore{slots: map[string]State{}}
}

func (s *stubStore) Load(ctx context.Context, token string) (State, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.slots[token], nil
}

func (s *stubStore) Save(ctx context.Context, token string, state State) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saves++
	s.slots[token] = state
	return nil
}

func (s *stubStore) Drop(ctx context.Context, token string) error {
	delete(s.slots, token)
	return nil
}

type stubLoader struct {
	product *products.ProductDTO
	err     error
}

func (s *stubLoader) GetActiveProduct(ctx context.Context, id uuid.UUID) (*products.ProductDTO, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.product, nil
}

func testProduct(stock int) *products.ProductDTO {
	return &products.ProductDTO{
		ID:         uuid.New(),
		Name:       "nitrile gloves",
		PriceCents: 1299,
		Stock:      stock,
	}
}

func TestServiceGetEmptyCart(t *testing.T) {
	t.Parallel()

	svc, err := NewService(newStubStore(), &stubLoader{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	view, err := svc.Get(context.Background(), "tok")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.Items == nil || len(view.Items) != 0 {
		t.Fatalf("expected empty item list, got %+v", view.Items)
	}
	if view.TotalCents != 0 || view.ItemCount != 0 {
		t.Fatalf("expected zero aggregates, got %+v", view)
	}
}

func TestServiceGetRequiresToken(t *testing.T) {
	t.Parallel()

	svc, _ := NewService(newStubStore(), &stubLoader{})
	_, err := svc.Get(context.Background(), "  ")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestServiceAddItemPersistsAndAggregates(t *testing.T) {
	t.Parallel()

	store := newStubStore()
	product := testProduct(10)
	svc, _ := NewService(store, &stubLoader{product: product})

	mutation, err := svc.AddItem(context.Background(), "tok", product.ID, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mutation.Result != ResultAdded {
		t.Fatalf("unexpected result %s", mutation.Result)
	}
	if mutation.View.TotalCents != 3897 || mutation.View.ItemCount != 3 {
		t.Fatalf("unexpected aggregates %+v", mutation.View)
	}
	if mutation.ProductName != "nitrile gloves" {
		t.Fatalf("unexpected product name %q", mutation.ProductName)
	}
	if len(store.slots["tok"]) != 1 {
		t.Fatal("expected state persisted")
	}
}

func TestServiceAddItemUnknownProduct(t *testing.T) {
	t.Parallel()

	svc, _ := NewService(newStubStore(), &stubLoader{err: gorm.ErrRecordNotFound})
	_, err := svc.AddItem(context.Background(), "tok", uuid.New(), 1)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestServiceAddItemRejectionDoesNotPersist(t *testing.T) {
	t.Parallel()

	store := newStubStore()
	product := testProduct(2)
	svc, _ := NewService(store, &stubLoader{product: product})

	if _, err := svc.AddItem(context.Background(), "tok", product.ID, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	savesBefore := store.saves

	mutation, err := svc.AddItem(context.Background(), "tok", product.ID, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mutation.Result != ResultStockExceeded {
		t.Fatalf("unexpected result %s", mutation.Result)
	}
	if store.saves != savesBefore {
		t.Fatal("expected rejected transition to skip persistence")
	}
	if got := store.slots["tok"][0].Quantity; got != 2 {
		t.Fatalf("expected stored quantity 2, got %d", got)
	}
}

func TestServiceSetQuantityRemoveAndReject(t *testing.T) {
	t.Parallel()

	store := newStubStore()
	product := testProduct(5)
	svc, _ := NewService(store, &stubLoader{product: product})
	if _, err := svc.AddItem(context.Background(), "tok", product.ID, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	id := product.ID.String()

	mutation, err := svc.SetQuantity(context.Background(), "tok", id, 9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mutation.Result != ResultStockExceeded || mutation.ProductName != product.Name {
		t.Fatalf("unexpected mutation %+v", mutation)
	}

	mutation, err = svc.SetQuantity(context.Background(), "tok", id, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mutation.Result != ResultRemoved || mutation.View.ItemCount != 0 {
		t.Fatalf("unexpected mutation %+v", mutation)
	}
}

func TestServiceClear(t *testing.T) {
	t.Parallel()

	store := newStubStore()
	product := testProduct(5)
	svc, _ := NewService(store, &stubLoader{product: product})
	if _, err := svc.AddItem(context.Background(), "tok", product.ID, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mutation, err := svc.Clear(context.Background(), "tok")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mutation.Result != ResultCleared || mutation.View.ItemCount != 0 {
		t.Fatalf("unexpected mutation %+v", mutation)
	}
	if len(store.slots["tok"]) != 0 {
		t.Fatal("expected empty persisted state")
	}
}
