package middleware

import (
	"net/http"
	"strings"

	"github.com/sterlingmedical/medsupply-backend/pkg/config"
	"github.com/sterlingmedical/medsupply-backend/pkg/logger"
)

// CartToken lifts the storefront cart token header into the request
// context. The token is client-minted; a request without one simply has no
// cart, and cart endpoints reject it downstream.
func CartToken(cfg config.StoreConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	header := cfg.CartTokenHeader
	if header == "" {
		header = "X-Cart-Token"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimSpace(r.Header.Get(header))
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := WithCartToken(r.Context(), token)
			if logg != nil {
				ctx = logg.WithCartToken(ctx, token)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
