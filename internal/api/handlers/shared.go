// Package handlers adapts HTTP requests to service calls. Handlers decode and
// validate request bodies, read the caller from the request context and map
// service errors to status codes.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/tahirturgut/exchange/internal/api/response"
	"github.com/tahirturgut/exchange/internal/apperrors"
	"github.com/tahirturgut/exchange/internal/auth"
	"github.com/tahirturgut/exchange/internal/validation"
)

// parseJSON decodes the request body into T. An empty body yields the zero value.
func parseJSON[T any](r *http.Request) (T, error) {
	var req T
	if r.Body == nil {
		return req, nil
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return req, err
	}
	return req, nil
}

// principal returns the authenticated caller, writing 401 if there is none.
func principal(w http.ResponseWriter, r *http.Request) (auth.Principal, bool) {
	p, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		response.RespondError(w, http.StatusUnauthorized, "authentication required", nil)
	}
	return p, ok
}

// respondServiceError maps err to a status code and writes the error envelope.
// Internal failures are logged with their cause and reported generically.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *validation.Error
	if errors.As(err, &vErr) {
		response.RespondError(w, http.StatusBadRequest, "validation failed", vErr.Fields)
		return
	}

	var sharesErr *apperrors.InsufficientSharesError
	if errors.As(err, &sharesErr) {
		response.RespondError(w, http.StatusBadRequest, sharesErr.Error(), map[string]int64{
			"available": sharesErr.Available,
			"requested": sharesErr.Requested,
		})
		return
	}

	switch {
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		response.RespondError(w, http.StatusUnauthorized, err.Error(), nil)
	case errors.Is(err, apperrors.ErrUserNotFound),
		errors.Is(err, apperrors.ErrPortfolioNotFound),
		errors.Is(err, apperrors.ErrInstrumentNotFound),
		errors.Is(err, apperrors.ErrHoldingNotFound):
		response.RespondError(w, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, apperrors.ErrDuplicatePortfolio),
		errors.Is(err, apperrors.ErrDuplicateUsername),
		errors.Is(err, apperrors.ErrDuplicateEmail),
		errors.Is(err, apperrors.ErrDuplicateInstrument):
		response.RespondError(w, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, apperrors.ErrInsufficientFunds),
		errors.Is(err, apperrors.ErrInvalidBalance),
		errors.Is(err, apperrors.ErrInvalidQuantity):
		response.RespondError(w, http.StatusBadRequest, err.Error(), nil)
	default:
		hlog.FromRequest(r).Error().Err(err).Msg("request failed")
		response.RespondError(w, http.StatusInternalServerError, "internal server error", nil)
	}
}
