package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Portfolio represents a user's single portfolio and its cash balance.
type Portfolio struct {
	ID        string          `json:"id"`
	UserID    string          `json:"userId"`
	Name      string          `json:"name"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Snapshot returns the client-facing view of the portfolio.
func (p Portfolio) Snapshot() PortfolioSnapshot {
	return PortfolioSnapshot{ID: p.ID, Name: p.Name, Balance: p.Balance}
}

// PortfolioSnapshot is the portfolio state reported after an operation.
type PortfolioSnapshot struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Balance decimal.Decimal `json:"balance"`
}

// PortfolioHoldings is the read-only report of a portfolio and its open positions.
type PortfolioHoldings struct {
	Portfolio  PortfolioSnapshot `json:"portfolio"`
	Holdings   []HoldingDetail   `json:"holdings"`
	TotalValue decimal.Decimal   `json:"totalValue"` // Sum of position values, excluding cash
}

// InitialHoldingError describes one initial holding that could not be applied.
type InitialHoldingError struct {
	Symbol string `json:"symbol"`
	Error  string `json:"error"`
}

// InitialHoldingsSummary reports the outcome of seeding a new portfolio with holdings.
// Failed items do not prevent the portfolio from being created.
type InitialHoldingsSummary struct {
	Processed int                   `json:"processed"`
	Errors    []InitialHoldingError `json:"errors"`
}

// PortfolioCreation is the result of creating a portfolio.
type PortfolioCreation struct {
	Portfolio       Portfolio               `json:"portfolio"`
	InitialHoldings *InitialHoldingsSummary `json:"initialHoldings,omitempty"`
}

// PortfolioDeletion reports what was removed with a portfolio.
type PortfolioDeletion struct {
	PortfolioID     string `json:"portfolioId"`
	HoldingsDeleted int64  `json:"holdingsDeleted"`
	TradesDeleted   int64  `json:"tradesDeleted"`
}
