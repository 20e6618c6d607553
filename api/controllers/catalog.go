package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sterlingmedical/medsupply-backend/api/responses"
	"github.com/sterlingmedical/medsupply-backend/api/validators"
	"github.com/sterlingmedical/medsupply-backend/internal/banners"
	"github.com/sterlingmedical/medsupply-backend/internal/products"
	"github.com/sterlingmedical/medsupply-backend/internal/settings"
	"github.com/sterlingmedical/medsupply-backend/pkg/enums"
	pkgerrors "github.com/sterlingmedical/medsupply-backend/pkg/errors"
	"github.com/sterlingmedical/medsupply-backend/pkg/logger"
	"github.com/sterlingmedical/medsupply-backend/pkg/pagination"
)

// storefrontProduct is the public catalog shape; cost never leaves the
// back-office.
type storefrontProduct struct {
	ID          uuid.UUID             `json:"id"`
	SKU         string                `json:"sku"`
	Name        string                `json:"name"`
	Description *string               `json:"description,omitempty"`
	Category    enums.ProductCategory `json:"category"`
	PriceCents  int                   `json:"price_cents"`
	Stock       int                   `json:"stock"`
	ImageURLs   []string              `json:"image_urls"`
	IsFeatured  bool                  `json:"is_featured"`
	CreatedAt   time.Time             `json:"created_at"`
}

type storefrontProductList struct {
	Products   []storefrontProduct `json:"products"`
	NextCursor string              `json:"next_cursor,omitempty"`
}

// CatalogList serves the public product listing. Only active products are
// visible.
func CatalogList(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		featured, err := validators.ParseQueryBool(r, "featured")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := products.ListProductsInput{
			Search:       strings.TrimSpace(r.URL.Query().Get("search")),
			ActiveOnly:   true,
			FeaturedOnly: featured,
			Limit:        limit,
			Cursor:       r.URL.Query().Get("cursor"),
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("category")); raw != "" {
			category, err := enums.ParseProductCategory(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid category"))
				return
			}
			input.Category = &category
		}

		result, err := svc.ListProducts(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list := storefrontProductList{
			Products:   make([]storefrontProduct, 0, len(result.Products)),
			NextCursor: result.NextCursor,
		}
		for i := range result.Products {
			list.Products = append(list.Products, toStorefrontProduct(&result.Products[i]))
		}
		responses.WriteSuccess(w, list)
	}
}

// CatalogCategories lists the fixed category set the storefront filters by.
func CatalogCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, enums.ProductCategories())
	}
}

// CatalogProduct serves one active product's public detail.
func CatalogProduct(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetActiveProduct(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "product not found"))
			return
		}
		responses.WriteSuccess(w, toStorefrontProduct(product))
	}
}

// ActiveBanners serves the storefront hero carousel.
func ActiveBanners(svc banners.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slides, err := svc.ActiveSlides(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, slides)
	}
}

// PublicSettings serves the storefront-safe slice of store settings.
func PublicSettings(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		public, err := svc.GetPublic(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, public)
	}
}

func toStorefrontProduct(p *products.ProductDTO) storefrontProduct {
	return storefrontProduct{
		ID:          p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		PriceCents:  p.PriceCents,
		Stock:       p.Stock,
		ImageURLs:   p.ImageURLs,
		IsFeatured:  p.IsFeatured,
		CreatedAt:   p.CreatedAt,
	}
}
