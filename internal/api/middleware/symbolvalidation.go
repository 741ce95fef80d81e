// Package middleware provides HTTP middleware for request validation and processing.
package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tahirturgut/exchange/internal/api/response"
	"github.com/tahirturgut/exchange/internal/validation"
)

// ValidateSymbolMiddleware validates that the symbol URL parameter is present and is a valid ticker.
// Returns 400 Bad Request if the symbol is missing or malformed.
//
// Example usage in router:
//
//	r.Route("/{symbol}", func(r chi.Router) {
//	    r.Use(middleware.ValidateSymbolMiddleware)
//	    r.Get("/", handler.GetInstrument)
//	})
func ValidateSymbolMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		symbol := chi.URLParam(r, "symbol")

		if err := validation.ValidateSymbol(symbol); err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid symbol", map[string]string{"symbol": err.Error()})
			return
		}

		next.ServeHTTP(w, r)
	})
}
