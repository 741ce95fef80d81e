package validation

import (
	"fmt"

	"github.com/tahirturgut/exchange/internal/api/request"
)

// ValidateTrade validates a buy or sell request.
// The symbol must be 3 upper-case letters and the quantity a positive integer.
func ValidateTrade(req request.TradeRequest) error {
	errors := make(map[string]string)

	if msg := symbolMessage(req.Symbol); msg != "" {
		errors["symbol"] = msg
	}

	if req.Quantity <= 0 {
		errors["quantity"] = "quantity must be a positive integer"
	}

	return result(errors)
}

// ValidateUpdatePrices validates a bulk price update. The list must not be
// empty and every item needs a symbol and a positive price. Symbols that are
// well formed but not listed are accepted here and skipped by the ledger.
func ValidateUpdatePrices(req request.UpdatePricesRequest) error {
	errors := make(map[string]string)

	if len(req.Updates) == 0 {
		errors["updates"] = "share price updates must be provided as a non-empty array"
		return result(errors)
	}

	for i, u := range req.Updates {
		if msg := symbolMessage(u.Symbol); msg != "" {
			errors[fmt.Sprintf("updates[%d].symbol", i)] = msg
		}
		switch {
		case u.Price == nil:
			errors[fmt.Sprintf("updates[%d].price", i)] = "price is required"
		case !u.Price.IsPositive():
			errors[fmt.Sprintf("updates[%d].price", i)] = "price must be a positive number"
		}
	}

	return result(errors)
}
