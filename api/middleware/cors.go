package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/sterlingmedical/medsupply-backend/pkg/config"
)

// CORS returns middleware that applies the configured allowed origin policy.
func CORS(cfg config.StoreConfig) func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   cfg.Origins(),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", cfg.CartTokenHeader, "X-Requested-With"},
		ExposedHeaders:   []string{cfg.CartTokenHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
