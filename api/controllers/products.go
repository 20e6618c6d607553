package controllers

import (
	"net/http"
	"strings"

	"github.com/sterlingmedical/medsupply-backend/api/responses"
	"github.com/sterlingmedical/medsupply-backend/api/validators"
	"github.com/sterlingmedical/medsupply-backend/internal/products"
	"github.com/sterlingmedical/medsupply-backend/pkg/enums"
	pkgerrors "github.com/sterlingmedical/medsupply-backend/pkg/errors"
	"github.com/sterlingmedical/medsupply-backend/pkg/logger"
	"github.com/sterlingmedical/medsupply-backend/pkg/pagination"
)

type createProductRequest struct {
	SKU         string   `json:"sku" validate:"required"`
	Name        string   `json:"name" validate:"required"`
	Description *string  `json:"description,omitempty"`
	Category    string   `json:"category" validate:"required"`
	PriceCents  int      `json:"price_cents" validate:"min=0"`
	CostCents   int      `json:"cost_cents" validate:"min=0"`
	Stock       int      `json:"stock" validate:"min=0"`
	ImageURLs   []string `json:"image_urls,omitempty"`
	IsActive    *bool    `json:"is_active,omitempty"`
	IsFeatured  bool     `json:"is_featured"`
}

type updateProductRequest struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Category    *string  `json:"category,omitempty"`
	PriceCents  *int     `json:"price_cents,omitempty"`
	CostCents   *int     `json:"cost_cents,omitempty"`
	Stock       *int     `json:"stock,omitempty"`
	ImageURLs   []string `json:"image_urls,omitempty"`
	IsActive    *bool    `json:"is_active,omitempty"`
	IsFeatured  *bool    `json:"is_featured,omitempty"`
}

func AdminCreateProduct(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category, err := enums.ParseProductCategory(payload.Category)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid category"))
			return
		}

		active := true
		if payload.IsActive != nil {
			active = *payload.IsActive
		}

		product, err := svc.CreateProduct(r.Context(), products.CreateProductInput{
			SKU:         payload.SKU,
			Name:        payload.Name,
			Description: payload.Description,
			Category:    category,
			PriceCents:  payload.PriceCents,
			CostCents:   payload.CostCents,
			Stock:       payload.Stock,
			ImageURLs:   payload.ImageURLs,
			IsActive:    active,
			IsFeatured:  payload.IsFeatured,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

func AdminUpdateProduct(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := products.UpdateProductInput{
			Name:        payload.Name,
			Description: payload.Description,
			PriceCents:  payload.PriceCents,
			CostCents:   payload.CostCents,
			Stock:       payload.Stock,
			ImageURLs:   payload.ImageURLs,
			IsActive:    payload.IsActive,
			IsFeatured:  payload.IsFeatured,
		}
		if payload.Category != nil {
			category, err := enums.ParseProductCategory(*payload.Category)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid category"))
				return
			}
			input.Category = &category
		}

		product, err := svc.UpdateProduct(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func AdminDeleteProduct(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func AdminGetProduct(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func AdminListProducts(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := products.ListProductsInput{
			Search: strings.TrimSpace(r.URL.Query().Get("search")),
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
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
		responses.WriteSuccess(w, result)
	}
}
