package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Instrument is a tradeable share listed in the catalog.
type Instrument struct {
	ID           string          `json:"id"`
	Symbol       string          `json:"symbol"`
	Name         string          `json:"name"`
	CurrentPrice decimal.Decimal `json:"currentPrice"`
	LastUpdated  time.Time       `json:"lastUpdated"`
}

// Snapshot returns the instrument as reported alongside a trade.
func (i Instrument) Snapshot() InstrumentSnapshot {
	return InstrumentSnapshot{ID: i.ID, Symbol: i.Symbol, Name: i.Name, CurrentPrice: i.CurrentPrice}
}

// InstrumentSnapshot is the instrument state at the time of a trade.
type InstrumentSnapshot struct {
	ID           string          `json:"id"`
	Symbol       string          `json:"symbol"`
	Name         string          `json:"name"`
	CurrentPrice decimal.Decimal `json:"currentPrice"`
}

// PriceUpdate sets the price of the instrument listed under Symbol.
type PriceUpdate struct {
	Symbol string
	Price  decimal.Decimal
}

// PriceUpdateResult reports which symbols were updated. Unknown symbols are not listed.
type PriceUpdateResult struct {
	Updated int      `json:"updated"`
	Symbols []string `json:"symbols"`
}
