package handlers

import (
	"net/http"
	"strconv"

	"github.com/tahirturgut/exchange/internal/api/request"
	"github.com/tahirturgut/exchange/internal/api/response"
	"github.com/tahirturgut/exchange/internal/model"
	"github.com/tahirturgut/exchange/internal/service"
	"github.com/tahirturgut/exchange/internal/validation"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

// TradeHandler handles HTTP requests for buying, selling, trade history and price updates.
type TradeHandler struct {
	ledger *service.LedgerService
}

// NewTradeHandler creates a new TradeHandler with the provided service dependency.
func NewTradeHandler(ledger *service.LedgerService) *TradeHandler {
	return &TradeHandler{
		ledger: ledger,
	}
}

// Buy handles POST requests to purchase shares at the current price.
//
// Endpoint: POST /api/trade/buy
// Request Body: TradeRequest (symbol, quantity)
// Response: 201 Created with trade, instrument and portfolio snapshot
// Error: 400 Bad Request if validation fails or funds are insufficient
// Error: 404 Not Found if the caller has no portfolio or the symbol is unknown
func (h *TradeHandler) Buy(w http.ResponseWriter, r *http.Request) {
	h.trade(w, r, model.TradeBuy)
}

// Sell handles POST requests to sell held shares at the current price.
//
// Endpoint: POST /api/trade/sell
// Request Body: TradeRequest (symbol, quantity)
// Response: 200 OK with trade, instrument and portfolio snapshot
// Error: 400 Bad Request if validation fails or not enough shares are held
// Error: 404 Not Found if the caller has no portfolio or the symbol is unknown
func (h *TradeHandler) Sell(w http.ResponseWriter, r *http.Request) {
	h.trade(w, r, model.TradeSell)
}

func (h *TradeHandler) trade(w http.ResponseWriter, r *http.Request, side model.TradeType) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	req, err := parseJSON[request.TradeRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	if err := validation.ValidateTrade(req); err != nil {
		respondServiceError(w, r, err)
		return
	}

	if side == model.TradeBuy {
		result, err := h.ledger.Buy(r.Context(), p.ID, req.Symbol, req.Quantity)
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		response.RespondSuccess(w, http.StatusCreated, "shares purchased successfully", result)
		return
	}

	result, err := h.ledger.Sell(r.Context(), p.ID, req.Symbol, req.Quantity)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	response.RespondSuccess(w, http.StatusOK, "shares sold successfully", result)
}

// History handles GET requests for the caller's trades, newest first.
//
// Endpoint: GET /api/trade/history?limit=N
// Response: 200 OK with array of trades
// Error: 400 Bad Request if limit is not a positive integer
// Error: 404 Not Found if the caller has no portfolio
func (h *TradeHandler) History(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			response.RespondError(w, http.StatusBadRequest, "validation failed", map[string]string{"limit": "limit must be a positive integer"})
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	trades, err := h.ledger.ListTrades(r.Context(), p.ID, limit)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	response.RespondSuccess(w, http.StatusOK, "", trades)
}

// UpdatePrices handles POST requests replacing the prices of listed instruments.
// Unknown symbols are skipped. Admin only (enforced by middleware).
//
// Endpoint: POST /api/trade/update-prices
// Request Body: UpdatePricesRequest (updates: [{symbol, price}])
// Response: 200 OK with the number of instruments updated
// Error: 400 Bad Request if validation fails
func (h *TradeHandler) UpdatePrices(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.UpdatePricesRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	if err := validation.ValidateUpdatePrices(req); err != nil {
		respondServiceError(w, r, err)
		return
	}

	updates := make([]model.PriceUpdate, len(req.Updates))
	for i, u := range req.Updates {
		updates[i] = model.PriceUpdate{Symbol: u.Symbol, Price: *u.Price}
	}

	result, err := h.ledger.UpdateInstrumentPrices(r.Context(), updates)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	response.RespondSuccess(w, http.StatusOK, "share prices updated successfully", result)
}
