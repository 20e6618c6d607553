package cart

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type addItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"min=0"`
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

func productIDParam(r *http.Request) string {
	return chi.URLParam(r, "productId")
}
