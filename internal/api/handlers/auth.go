package handlers

import (
	"net/http"

	"github.com/tahirturgut/exchange/internal/api/request"
	"github.com/tahirturgut/exchange/internal/api/response"
	"github.com/tahirturgut/exchange/internal/service"
	"github.com/tahirturgut/exchange/internal/validation"
)

// AuthHandler handles HTTP requests for account endpoints.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler with the provided service dependency.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register handles POST requests to create an account with a default portfolio.
//
// Endpoint: POST /api/auth/register
// Request Body: RegisterRequest (username, email, password)
// Response: 201 Created with token and user
// Error: 400 Bad Request if validation fails
// Error: 409 Conflict if the username or email is taken
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.RegisterRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	if err := validation.ValidateRegister(req); err != nil {
		respondServiceError(w, r, err)
		return
	}

	result, err := h.authService.Register(r.Context(), req)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	response.RespondSuccess(w, http.StatusCreated, "user registered successfully", result)
}

// Login handles POST requests to exchange credentials for a token.
//
// Endpoint: POST /api/auth/login
// Request Body: LoginRequest (email or username, password)
// Response: 200 OK with token and user
// Error: 401 Unauthorized if the credentials do not match
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.LoginRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	if err := validation.ValidateLogin(req); err != nil {
		respondServiceError(w, r, err)
		return
	}

	result, err := h.authService.Login(r.Context(), req)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	response.RespondSuccess(w, http.StatusOK, "login successful", result)
}

// Unregister handles DELETE requests removing the caller's account and ledger.
//
// Endpoint: DELETE /api/auth/account
// Response: 200 OK
func (h *AuthHandler) Unregister(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	if err := h.authService.Unregister(r.Context(), p.ID); err != nil {
		respondServiceError(w, r, err)
		return
	}

	response.RespondSuccess(w, http.StatusOK, "account deleted", nil)
}
