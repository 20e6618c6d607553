package banners

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
)

// BannerDTO is the hero slide shape served to both surfaces.
type BannerDTO struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Subtitle  *string   `json:"subtitle,omitempty"`
	ImageURL  string    `json:"image_url"`
	LinkURL   *string   `json:"link_url,omitempty"`
	Position  int       `json:"position"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpsertBannerInput carries create/update payloads.
type UpsertBannerInput struct {
	Title    string
	Subtitle *string
	ImageURL string
	LinkURL  *string
	Position int
	IsActive bool
}

// Service exposes hero/banner content management.
type Service interface {
	Create(ctx context.Context, input UpsertBannerInput) (*BannerDTO, error)
	Update(ctx context.Context, bannerID uuid.UUID, input UpsertBannerInput) (*BannerDTO, error)
	Delete(ctx context.Context, bannerID uuid.UUID) error
	List(ctx context.Context) ([]BannerDTO, error)
	ActiveSlides(ctx context.Context) ([]BannerDTO, error)
	Reorder(ctx context.Context, orderedIDs []uuid.UUID) error
}

type repository interface {
	Create(ctx context.Context, banner *models.Banner) error
	Update(ctx context.Context, banner *models.Banner) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Banner, error)
	List(ctx context.Context, activeOnly bool) ([]models.Banner, error)
	SetPosition(ctx context.Context, id uuid.UUID, position int) error
}

type service struct {
	repo repository
}

// NewService builds a banner service backed by the provided repository.
func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("banner repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input UpsertBannerInput) (*BannerDTO, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	banner := &models.Banner{
		Title:    input.Title,
		Subtitle: input.Subtitle,
		ImageURL: input.ImageURL,
		LinkURL:  input.LinkURL,
		Position: input.Position,
		IsActive: input.IsActive,
	}
	if err := s.repo.Create(ctx, banner); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create banner")
	}
	return toDTO(banner), nil
}

func (s *service) Update(ctx context.Context, bannerID uuid.UUID, input UpsertBannerInput) (*BannerDTO, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	banner, err := s.repo.FindByID(ctx, bannerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "banner not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load banner")
	}

	banner.Title = input.Title
	banner.Subtitle = input.Subtitle
	banner.ImageURL = input.ImageURL
	banner.LinkURL = input.LinkURL
	banner.Position = input.Position
	banner.IsActive = input.IsActive

	if err := s.repo.Update(ctx, banner); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update banner")
	}
	return toDTO(banner), nil
}

func (s *service) Delete(ctx context.Context, bannerID uuid.UUID) error {
	if err := s.repo.Delete(ctx, bannerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "banner not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete banner")
	}
	return nil
}

func (s *service) List(ctx context.Context) ([]BannerDTO, error) {
	rows, err := s.repo.List(ctx, false)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list banners")
	}
	return toDTOs(rows), nil
}

// ActiveSlides is the storefront read path: live banners in display order.
func (s *service) ActiveSlides(ctx context.Context) ([]BannerDTO, error) {
	rows, err := s.repo.List(ctx, true)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list slides")
	}
	return toDTOs(rows), nil
}

// Reorder rewrites positions to match the supplied ordering.
func (s *service) Reorder(ctx context.Context, orderedIDs []uuid.UUID) error {
	if len(orderedIDs) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "ordered ids are required")
	}
	for position, id := range orderedIDs {
		if err := s.repo.SetPosition(ctx, id, position); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "banner not found").
					WithDetails(map[string]any{"banner_id": id.String()})
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reorder banners")
		}
	}
	return nil
}

func validateInput(input UpsertBannerInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if strings.TrimSpace(input.ImageURL) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "image url is required")
	}
	return nil
}

func toDTO(m *models.Banner) *BannerDTO {
	return &BannerDTO{
		ID:        m.ID,
		Title:     m.Title,
		Subtitle:  m.Subtitle,
		ImageURL:  m.ImageURL,
		LinkURL:   m.LinkURL,
		Position:  m.Position,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func toDTOs(rows []models.Banner) []BannerDTO {
	out := make([]BannerDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *toDTO(&rows[i]))
	}
	return out
}
