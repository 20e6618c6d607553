package controllers

import (
	"net/http"

	"github.com/sterlingmedical/medsupply-backend/api/responses"
	"github.com/sterlingmedical/medsupply-backend/api/validators"
	"github.com/sterlingmedical/medsupply-backend/internal/settings"
	"github.com/sterlingmedical/medsupply-backend/pkg/logger"
)

type updateSettingsRequest struct {
	StoreName         string  `json:"store_name" validate:"required"`
	ContactEmail      string  `json:"contact_email" validate:"required,email"`
	ContactPhone      *string `json:"contact_phone,omitempty"`
	Address           *string `json:"address,omitempty"`
	CurrencyCode      string  `json:"currency_code" validate:"required,len=3"`
	LowStockThreshold int     `json:"low_stock_threshold" validate:"min=0"`
}

func AdminGetSettings(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		current, err := svc.Get(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, current)
	}
}

func AdminUpdateSettings(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload updateSettingsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.Update(r.Context(), settings.UpdateSettingsInput{
			StoreName:         payload.StoreName,
			ContactEmail:      payload.ContactEmail,
			ContactPhone:      payload.ContactPhone,
			Address:           payload.Address,
			CurrencyCode:      payload.CurrencyCode,
			LowStockThreshold: payload.LowStockThreshold,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}
