package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/sterlingmedical/medsupply-backend/api/responses"
	"github.com/sterlingmedical/medsupply-backend/api/validators"
	"github.com/sterlingmedical/medsupply-backend/internal/banners"
	"github.com/sterlingmedical/medsupply-backend/pkg/logger"
)

type upsertBannerRequest struct {
	Title    string  `json:"title" validate:"required"`
	Subtitle *string `json:"subtitle,omitempty"`
	ImageURL string  `json:"image_url" validate:"required,url"`
	LinkURL  *string `json:"link_url,omitempty"`
	Position int     `json:"position" validate:"min=0"`
	IsActive bool    `json:"is_active"`
}

type reorderBannersRequest struct {
	BannerIDs []uuid.UUID `json:"banner_ids" validate:"required,min=1"`
}

func AdminCreateBanner(svc banners.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload upsertBannerRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		banner, err := svc.Create(r.Context(), toBannerInput(payload))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, banner)
	}
}

func AdminUpdateBanner(svc banners.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "bannerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload upsertBannerRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		banner, err := svc.Update(r.Context(), id, toBannerInput(payload))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, banner)
	}
}

func AdminDeleteBanner(svc banners.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "bannerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func AdminListBanners(svc banners.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"banners": rows})
	}
}

// AdminReorderBanners rewrites positions to match the submitted id order.
func AdminReorderBanners(svc banners.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload reorderBannersRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Reorder(r.Context(), payload.BannerIDs); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "reordered"})
	}
}

func toBannerInput(payload upsertBannerRequest) banners.UpsertBannerInput {
	return banners.UpsertBannerInput{
		Title:    payload.Title,
		Subtitle: payload.Subtitle,
		ImageURL: payload.ImageURL,
		LinkURL:  payload.LinkURL,
		Position: payload.Position,
		IsActive: payload.IsActive,
	}
}
