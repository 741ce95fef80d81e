package middleware

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/hlog"

	"github.com/tahirturgut/exchange/internal/api/response"
	"github.com/tahirturgut/exchange/internal/auth"
	"github.com/tahirturgut/exchange/internal/validation"
)

// Authenticate requires a valid "Authorization: Bearer <token>" header and
// stores the token's principal in the request context.
// Returns 401 Unauthorized when the header is missing or the token is invalid.
func Authenticate(issuer *auth.TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			scheme, token, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
				response.RespondError(w, http.StatusUnauthorized, "authentication required", nil)
				return
			}

			principal, err := issuer.Parse(strings.TrimSpace(token))
			if err == nil {
				err = validation.ValidateUUID(principal.ID)
			}
			if err != nil {
				hlog.FromRequest(r).Debug().Err(err).Msg("rejected token")
				response.RespondError(w, http.StatusUnauthorized, "invalid or expired token", nil)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), principal)))
		})
	}
}

// RequireRole rejects principals whose role differs from role with 403 Forbidden.
// It must run after Authenticate.
//
// Example usage in router:
//
//	r.With(middleware.RequireRole(model.RoleAdmin)).Post("/update-prices", handler.UpdatePrices)
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := auth.PrincipalFrom(r.Context())
			if !ok {
				response.RespondError(w, http.StatusUnauthorized, "authentication required", nil)
				return
			}
			if principal.Role != role {
				response.RespondError(w, http.StatusForbidden, "insufficient permissions", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
