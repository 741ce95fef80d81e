package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TradeType is the direction of a trade.
type TradeType string

// Trade directions.
const (
	TradeBuy  TradeType = "BUY"
	TradeSell TradeType = "SELL"
)

// TradeStatus is the lifecycle state of a trade. Only completed trades are
// written today; the other states are accepted by the schema.
type TradeStatus string

// Trade states.
const (
	TradeCompleted TradeStatus = "COMPLETED"
	TradeFailed    TradeStatus = "FAILED"
	TradePending   TradeStatus = "PENDING"
)

// Trade is an immutable record of an executed buy or sell.
type Trade struct {
	ID           string          `json:"id"`
	Type         TradeType       `json:"type"`
	PortfolioID  string          `json:"portfolioId"`
	InstrumentID string          `json:"instrumentId"`
	Quantity     int64           `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
	Total        decimal.Decimal `json:"total"`
	Status       TradeStatus     `json:"status"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// NewTrade builds a completed trade whose total is price × quantity.
func NewTrade(tradeType TradeType, portfolioID, instrumentID string, quantity int64, price decimal.Decimal, at time.Time) Trade {
	return Trade{
		ID:           uuid.New().String(),
		Type:         tradeType,
		PortfolioID:  portfolioID,
		InstrumentID: instrumentID,
		Quantity:     quantity,
		Price:        price,
		Total:        price.Mul(decimal.NewFromInt(quantity)),
		Status:       TradeCompleted,
		CreatedAt:    at,
	}
}

// TradeResult is returned by buy and sell.
type TradeResult struct {
	Trade      Trade              `json:"trade"`
	Instrument InstrumentSnapshot `json:"instrument"`
	Portfolio  PortfolioSnapshot  `json:"portfolio"`
}

// TradeHistoryEntry is a trade joined with its instrument for the history report.
type TradeHistoryEntry struct {
	Trade
	Symbol         string `json:"symbol"`
	InstrumentName string `json:"instrumentName"`
}
