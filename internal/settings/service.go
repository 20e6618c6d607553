package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/sterlingmedical/medsupply-backend/pkg/db/models"
	pkgerrors "github.com/sterlingmedical/medsupply-backend/pkg/errors"
)

// SettingsDTO is the single-row store configuration.
type SettingsDTO struct {
	StoreName         string    `json:"store_name"`
	ContactEmail      string    `json:"contact_email"`
	ContactPhone      *string   `json:"contact_phone,omitempty"`
	Address           *string   `json:"address,omitempty"`
	CurrencyCode      string    `json:"currency_code"`
	LowStockThreshold int       `json:"low_stock_threshold"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// PublicSettingsDTO is the storefront-safe subset.
type PublicSettingsDTO struct {
	StoreName    string  `json:"store_name"`
	ContactEmail string  `json:"contact_email"`
	ContactPhone *string `json:"contact_phone,omitempty"`
	Address      *string `json:"address,omitempty"`
	CurrencyCode string  `json:"currency_code"`
}

// UpdateSettingsInput replaces the editable fields.
type UpdateSettingsInput struct {
	StoreName         string
	ContactEmail      string
	ContactPhone      *string
	Address           *string
	CurrencyCode      string
	LowStockThreshold int
}

// Service exposes store settings reads and the back-office update path.
type Service interface {
	Get(ctx context.Context) (*SettingsDTO, error)
	GetPublic(ctx context.Context) (*PublicSettingsDTO, error)
	Update(ctx context.Context, input UpdateSettingsInput) (*SettingsDTO, error)
	LowStockThreshold(ctx context.Context) (int, error)
}

type repository interface {
	Get(ctx context.Context) (*models.StoreSettings, error)
	Upsert(ctx context.Context, settings *models.StoreSettings) error
}

type service struct {
	repo repository
}

// NewService builds a settings service backed by the provided repository.
func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("settings repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Get(ctx context.Context) (*SettingsDTO, error) {
	row, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return toDTO(row), nil
}

func (s *service) GetPublic(ctx context.Context) (*PublicSettingsDTO, error) {
	row, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return &PublicSettingsDTO{
		StoreName:    row.StoreName,
		ContactEmail: row.ContactEmail,
		ContactPhone: row.ContactPhone,
		Address:      row.Address,
		CurrencyCode: row.CurrencyCode,
	}, nil
}

func (s *service) Update(ctx context.Context, input UpdateSettingsInput) (*SettingsDTO, error) {
	if strings.TrimSpace(input.StoreName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store name is required")
	}
	if strings.TrimSpace(input.ContactEmail) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contact email is required")
	}
	if len(input.CurrencyCode) != 3 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "currency code must be a 3-letter ISO code")
	}
	if input.LowStockThreshold < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "low stock threshold cannot be negative")
	}

	row := &models.StoreSettings{
		ID:                models.SettingsRowID,
		StoreName:         input.StoreName,
		ContactEmail:      input.ContactEmail,
		ContactPhone:      input.ContactPhone,
		Address:           input.Address,
		CurrencyCode:      strings.ToUpper(input.CurrencyCode),
		LowStockThreshold: input.LowStockThreshold,
	}
	if err := s.repo.Upsert(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save settings")
	}
	return toDTO(row), nil
}

// LowStockThreshold reads just the restock threshold for report consumers.
func (s *service) LowStockThreshold(ctx context.Context) (int, error) {
	row, err := s.load(ctx)
	if err != nil {
		return 0, err
	}
	return row.LowStockThreshold, nil
}

func (s *service) load(ctx context.Context) (*models.StoreSettings, error) {
	row, err := s.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store settings not seeded")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load settings")
	}
	return row, nil
}

func toDTO(m *models.StoreSettings) *SettingsDTO {
	return &SettingsDTO{
		StoreName:         m.StoreName,
		ContactEmail:      m.ContactEmail,
		ContactPhone:      m.ContactPhone,
		Address:           m.Address,
		CurrencyCode:      m.CurrencyCode,
		LowStockThreshold: m.LowStockThreshold,
		UpdatedAt:         m.UpdatedAt,
	}
}
