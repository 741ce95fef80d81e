package request

import "github.com/shopspring/decimal"

// InitialHolding seeds a new portfolio with shares of one instrument
type InitialHolding struct {
	Symbol   string `json:"symbol"`
	Quantity int64  `json:"quantity"`
}

// CreatePortfolioRequest represents the request body for creating a portfolio.
// Omitted fields fall back to the configured defaults.
type CreatePortfolioRequest struct {
	Name            *string          `json:"name,omitempty"`
	InitialBalance  *decimal.Decimal `json:"initialBalance,omitempty"`
	InitialHoldings []InitialHolding `json:"initialShares,omitempty"`
}

// UpdatePortfolioRequest represents the request body for updating a portfolio.
// Only provided fields are changed.
type UpdatePortfolioRequest struct {
	Name       *string          `json:"name,omitempty"`
	NewBalance *decimal.Decimal `json:"newBalance,omitempty"`
}
