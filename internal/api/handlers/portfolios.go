package handlers

import (
	"net/http"

	"github.com/tahirturgut/exchange/internal/api/request"
	"github.com/tahirturgut/exchange/internal/api/response"
	"github.com/tahirturgut/exchange/internal/service"
	"github.com/tahirturgut/exchange/internal/validation"
)

// PortfolioHandler handles portfolio-related HTTP requests
type PortfolioHandler struct {
	ledger *service.LedgerService
}

// NewPortfolioHandler creates a new PortfolioHandler
func NewPortfolioHandler(ledger *service.LedgerService) *PortfolioHandler {
	return &PortfolioHandler{
		ledger: ledger,
	}
}

// Portfolio handles GET requests for the caller's portfolio and its holdings.
//
// Endpoint: GET /api/trade/portfolio
// Response: 200 OK with portfolio snapshot, holdings and total value
// Error: 404 Not Found if the caller has no portfolio
func (h *PortfolioHandler) Portfolio(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	holdings, err := h.ledger.GetPortfolioHoldings(r.Context(), p.ID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	response.RespondSuccess(w, http.StatusOK, "", holdings)
}

// CreatePortfolio handles POST requests to create the caller's portfolio.
//
// Endpoint: POST /api/trade/portfolio
// Request Body: CreatePortfolioRequest (all fields optional)
// Response: 201 Created with portfolio and initial holdings summary
// Error: 400 Bad Request if validation fails
// Error: 409 Conflict if the caller already has a portfolio
func (h *PortfolioHandler) CreatePortfolio(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	req, err := parseJSON[request.CreatePortfolioRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	if err := validation.ValidateCreatePortfolio(req); err != nil {
		respondServiceError(w, r, err)
		return
	}

	created, err := h.ledger.CreatePortfolio(r.Context(), p.ID, req)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	response.RespondSuccess(w, http.StatusCreated, "portfolio created successfully", created)
}

// UpdatePortfolio handles PUT requests to rename the portfolio or set its balance.
//
// Endpoint: PUT /api/trade/portfolio
// Request Body: UpdatePortfolioRequest (name, newBalance)
// Response: 200 OK with the updated portfolio
// Error: 400 Bad Request if validation fails or the balance is negative
// Error: 404 Not Found if the caller has no portfolio
func (h *PortfolioHandler) UpdatePortfolio(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	req, err := parseJSON[request.UpdatePortfolioRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	if err := validation.ValidateUpdatePortfolio(req); err != nil {
		respondServiceError(w, r, err)
		return
	}

	updated, err := h.ledger.UpdatePortfolio(r.Context(), p.ID, req)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	response.RespondSuccess(w, http.StatusOK, "portfolio updated successfully", updated)
}

// DeletePortfolio handles DELETE requests removing the portfolio with its holdings and trades.
//
// Endpoint: DELETE /api/trade/portfolio
// Response: 200 OK with deletion counts
// Error: 404 Not Found if the caller has no portfolio
func (h *PortfolioHandler) DeletePortfolio(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	deleted, err := h.ledger.DeletePortfolio(r.Context(), p.ID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	response.RespondSuccess(w, http.StatusOK, "portfolio deleted successfully", deleted)
}
