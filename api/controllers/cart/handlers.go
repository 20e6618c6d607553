package cart

import (
	"fmt"
	"net/http"

	"github.com/sterlingmedical/medsupply-backend/api/middleware"
	"github.com/sterlingmedical/medsupply-backend/api/responses"
	"github.com/sterlingmedical/medsupply-backend/api/validators"
	cartsvc "github.com/sterlingmedical/medsupply-backend/internal/cart"
	"github.com/sterlingmedical/medsupply-backend/internal/notifications"
	"github.com/sterlingmedical/medsupply-backend/pkg/enums"
	pkgerrors "github.com/sterlingmedical/medsupply-backend/pkg/errors"
	"github.com/sterlingmedical/medsupply-backend/pkg/logger"
)

// CartFetch returns the current cart for the request's token.
func CartFetch(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := tokenFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Get(r.Context(), token)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// CartAddItem merges a product into the cart and emits the outcome
// notification.
func CartAddItem(svc cartsvc.Service, notifier notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := tokenFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		mutation, err := svc.AddItem(r.Context(), token, payload.ProductID, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		notifyAdd(r, notifier, logg, mutation)
		responses.WriteSuccess(w, newMutationResponse(mutation))
	}
}

// CartUpdateItem pins a line's quantity.
func CartUpdateItem(svc cartsvc.Service, notifier notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := tokenFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		mutation, err := svc.SetQuantity(r.Context(), token, productIDParam(r), payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		notify(r, notifier, logg, mutation)
		responses.WriteSuccess(w, newMutationResponse(mutation))
	}
}

// CartRemoveItem drops a line.
func CartRemoveItem(svc cartsvc.Service, notifier notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := tokenFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		mutation, err := svc.RemoveItem(r.Context(), token, productIDParam(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		notify(r, notifier, logg, mutation)
		responses.WriteSuccess(w, newMutationResponse(mutation))
	}
}

// CartClear empties the cart.
func CartClear(svc cartsvc.Service, notifier notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := tokenFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		mutation, err := svc.Clear(r.Context(), token)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		notify(r, notifier, logg, mutation)
		responses.WriteSuccess(w, newMutationResponse(mutation))
	}
}

// notifyAdd phrases the add confirmation. Merging into an existing line and
// appending a fresh one confirm the same way: the product name and the
// quantity just added.
func notifyAdd(r *http.Request, notifier notifications.Service, logg *logger.Logger, mutation *cartsvc.Mutation) {
	if notifier == nil || mutation == nil {
		return
	}
	if mutation.Result != cartsvc.ResultAdded && mutation.Result != cartsvc.ResultUpdated {
		notify(r, notifier, logg, mutation)
		return
	}
	name := mutation.ProductName
	if name == "" {
		name = "item"
	}
	message := fmt.Sprintf("%d x %s added to cart", mutation.Quantity, name)
	send(r, notifier, logg, enums.NotificationSeveritySuccess, message)
}

func tokenFromRequest(r *http.Request) (string, error) {
	token := middleware.CartTokenFromContext(r.Context())
	if token == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "cart token header is required")
	}
	return token, nil
}

// notify maps the mutation's result code onto the notification side channel.
// Notification failures never fail the cart request; they are logged and
// dropped.
func notify(r *http.Request, notifier notifications.Service, logg *logger.Logger, mutation *cartsvc.Mutation) {
	if notifier == nil || mutation == nil {
		return
	}

	severity, message := describeMutation(mutation)
	if message == "" {
		return
	}
	send(r, notifier, logg, severity, message)
}

func send(r *http.Request, notifier notifications.Service, logg *logger.Logger, severity enums.NotificationSeverity, message string) {
	if err := notifier.Notify(r.Context(), severity, message); err != nil && logg != nil {
		logg.Warn(logg.WithField(r.Context(), "notify_error", err.Error()), "cart.notify.dropped")
	}
}

func describeMutation(mutation *cartsvc.Mutation) (enums.NotificationSeverity, string) {
	name := mutation.ProductName
	if name == "" {
		name = "item"
	}
	switch mutation.Result {
	case cartsvc.ResultAdded:
		return enums.NotificationSeveritySuccess, fmt.Sprintf("%s added to cart", name)
	case cartsvc.ResultUpdated:
		return enums.NotificationSeveritySuccess, "cart updated"
	case cartsvc.ResultRemoved:
		return enums.NotificationSeverityInfo, fmt.Sprintf("%s removed from cart", name)
	case cartsvc.ResultCleared:
		return enums.NotificationSeverityInfo, "cart cleared"
	case cartsvc.ResultStockExceeded:
		return enums.NotificationSeverityError, fmt.Sprintf("not enough stock of %s available", name)
	}
	return "", ""
}
