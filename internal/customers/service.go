package customers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sterlingmedical/medsupply-backend/pkg/db/models"
	pkgerrors "github.com/sterlingmedical/medsupply-backend/pkg/errors"
	"github.com/sterlingmedical/medsupply-backend/pkg/pagination"
)

// CustomerDTO is the customer shape exposed to the back-office.
type CustomerDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone,omitempty"`
	Address   *string   `json:"address,omitempty"`
	Notes     *string   `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpsertCustomerInput carries create/update payloads.
type UpsertCustomerInput struct {
	Name    string
	Email   string
	Phone   *string
	Address *string
	Notes   *string
}

// ListCustomersInput paginates and filters customer queries.
type ListCustomersInput struct {
	Search string
	Limit  int
	Cursor string
}

// CustomerListResult is one page plus the cursor for the next.
type CustomerListResult struct {
	Customers  []CustomerDTO `json:"customers"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

// Service exposes customer management operations.
type Service interface {
	Create(ctx context.Context, input UpsertCustomerInput) (*CustomerDTO, error)
	Update(ctx context.Context, customerID uuid.UUID, input UpsertCustomerInput) (*CustomerDTO, error)
	Delete(ctx context.Context, customerID uuid.UUID) error
	Get(ctx context.Context, customerID uuid.UUID) (*CustomerDTO, error)
	List(ctx context.Context, input ListCustomersInput) (*CustomerListResult, error)
}

type repository interface {
	Create(ctx context.Context, customer *models.Customer) error
	Update(ctx context.Context, customer *models.Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	FindByEmail(ctx context.Context, email string) (*models.Customer, error)
	List(ctx context.Context, search string, limit int, cursor *pagination.Cursor) ([]models.Customer, error)
}

type service struct {
	repo repository
}

// NewService builds a customer service backed by the provided repository.
func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("customer repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input UpsertCustomerInput) (*CustomerDTO, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByEmail(ctx, input.Email); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already in use")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check email")
	}

	customer := &models.Customer{
		Name:    input.Name,
		Email:   input.Email,
		Phone:   input.Phone,
		Address: input.Address,
		Notes:   input.Notes,
	}
	if err := s.repo.Create(ctx, customer); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create customer")
	}
	return toDTO(customer), nil
}

func (s *service) Update(ctx context.Context, customerID uuid.UUID, input UpsertCustomerInput) (*CustomerDTO, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	customer, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}

	if customer.Email != input.Email {
		if _, err := s.repo.FindByEmail(ctx, input.Email); err == nil {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already in use")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check email")
		}
	}

	customer.Name = input.Name
	customer.Email = input.Email
	customer.Phone = input.Phone
	customer.Address = input.Address
	customer.Notes = input.Notes

	if err := s.repo.Update(ctx, customer); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update customer")
	}
	return toDTO(customer), nil
}

func (s *service) Delete(ctx context.Context, customerID uuid.UUID) error {
	if err := s.repo.Delete(ctx, customerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete customer")
	}
	return nil
}

func (s *service) Get(ctx context.Context, customerID uuid.UUID) (*CustomerDTO, error) {
	customer, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}
	return toDTO(customer), nil
}

func (s *service) List(ctx context.Context, input ListCustomersInput) (*CustomerListResult, error) {
	cursor, err := pagination.ParseCursor(input.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	rows, err := s.repo.List(ctx, strings.TrimSpace(input.Search), input.Limit, cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list customers")
	}

	limit := pagination.NormalizeLimit(input.Limit)
	result := &CustomerListResult{Customers: make([]CustomerDTO, 0, len(rows))}
	for i := range rows {
		if i == limit {
			break
		}
		result.Customers = append(result.Customers, *toDTO(&rows[i]))
	}
	if len(rows) > limit {
		last := result.Customers[len(result.Customers)-1]
		result.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return result, nil
}

func validateInput(input UpsertCustomerInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if strings.TrimSpace(input.Email) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	return nil
}

func toDTO(m *models.Customer) *CustomerDTO {
	return &CustomerDTO{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Phone:     m.Phone,
		Address:   m.Address,
		Notes:     m.Notes,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
