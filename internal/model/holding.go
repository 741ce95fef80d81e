package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Holding is the quantity of one instrument held by one portfolio.
// Rows are kept at zero quantity after a full sell.
type Holding struct {
	ID           string    `json:"id"`
	PortfolioID  string    `json:"portfolioId"`
	InstrumentID string    `json:"instrumentId"`
	Quantity     int64     `json:"quantity"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// HoldingDetail is a holding enriched with instrument data and its current value.
type HoldingDetail struct {
	InstrumentID string          `json:"instrumentId"`
	Symbol       string          `json:"symbol"`
	Name         string          `json:"name"`
	Quantity     int64           `json:"quantity"`
	CurrentPrice decimal.Decimal `json:"currentPrice"`
	TotalValue   decimal.Decimal `json:"totalValue"`
}
