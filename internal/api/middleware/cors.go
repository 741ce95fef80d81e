package middleware

import (
	"slices"

	"github.com/go-chi/cors"
)

// requestIDHeader is read and echoed by chi's RequestID middleware.
const requestIDHeader = "X-Request-Id"

// NewCORS creates the CORS middleware for allowedOrigins. Clients authenticate
// with bearer tokens, so credentials are only allowed for explicit origins;
// a "*" entry opens the API to any origin without them.
func NewCORS(allowedOrigins []string) *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{
			"Content-Type",
			"Authorization",
			requestIDHeader,
		},
		ExposedHeaders:   []string{"Content-Type", requestIDHeader},
		AllowCredentials: !slices.Contains(allowedOrigins, "*"),
		MaxAge:           300,
	})
}
