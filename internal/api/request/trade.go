package request

import "github.com/shopspring/decimal"

// TradeRequest represents the request body for buying or selling shares
type TradeRequest struct {
	Symbol   string `json:"symbol"`
	Quantity int64  `json:"quantity"`
}

// PriceUpdateItem sets the price of one instrument
type PriceUpdateItem struct {
	Symbol string           `json:"symbol"`
	Price  *decimal.Decimal `json:"price"`
}

// UpdatePricesRequest represents the request body for a bulk price update
type UpdatePricesRequest struct {
	Updates []PriceUpdateItem `json:"updates"`
}
