package cart

import (
	cartsvc "github.com/sterlingmedical/medsupply-backend/internal/cart"
)

type mutationResponse struct {
	Cart   cartsvc.View `json:"cart"`
	Result string       `json:"result"`
}

func newMutationResponse(mutation *cartsvc.Mutation) mutationResponse {
	return mutationResponse{
		Cart:   mutation.View,
		Result: string(mutation.Result),
	}
}
