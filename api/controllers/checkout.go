package controllers

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/sterlingmedical/medsupply-backend/api/middleware"
	"github.com/sterlingmedical/medsupply-backend/api/responses"
	"github.com/sterlingmedical/medsupply-backend/api/validators"
	"github.com/sterlingmedical/medsupply-backend/internal/notifications"
	"github.com/sterlingmedical/medsupply-backend/internal/orders"
	"github.com/sterlingmedical/medsupply-backend/pkg/enums"
	pkgerrors "github.com/sterlingmedical/medsupply-backend/pkg/errors"
	"github.com/sterlingmedical/medsupply-backend/pkg/logger"
)

type checkoutRequest struct {
	CustomerID    *uuid.UUID `json:"customer_id,omitempty"`
	CustomerName  string     `json:"customer_name" validate:"required"`
	CustomerEmail string     `json:"customer_email" validate:"required,email"`
}

// Checkout places an order from the request's cart token. A successful
// placement consumes the cart slot.
func Checkout(svc orders.Service, notifier notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := middleware.CartTokenFromContext(r.Context())
		if token == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "cart token header is required"))
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.PlaceFromCart(r.Context(), orders.PlaceFromCartInput{
			CartToken:     token,
			CustomerID:    payload.CustomerID,
			CustomerName:  payload.CustomerName,
			CustomerEmail: payload.CustomerEmail,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if notifier != nil {
			message := fmt.Sprintf("order placed by %s", order.CustomerName)
			if err := notifier.Notify(r.Context(), enums.NotificationSeveritySuccess, message); err != nil && logg != nil {
				logg.Warn(logg.WithField(r.Context(), "notify_error", err.Error()), "checkout.notify.dropped")
			}
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}
