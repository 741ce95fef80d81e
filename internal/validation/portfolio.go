package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/tahirturgut/exchange/internal/api/request"
)

const (
	minPortfolioName = 3
	maxPortfolioName = 50
)

func portfolioNameMessage(name string) string {
	n := utf8.RuneCountInString(strings.TrimSpace(name))
	if n < minPortfolioName || n > maxPortfolioName {
		return fmt.Sprintf("name must be between %d and %d characters", minPortfolioName, maxPortfolioName)
	}
	return ""
}

// ValidateCreatePortfolio validates a portfolio creation request.
// All fields are optional, but if provided:
//   - name: 3 to 50 characters
//   - initialBalance: not negative
//   - initialShares: each item needs a valid symbol and a positive quantity
func ValidateCreatePortfolio(req request.CreatePortfolioRequest) error {
	errors := make(map[string]string)

	if req.Name != nil {
		if msg := portfolioNameMessage(*req.Name); msg != "" {
			errors["name"] = msg
		}
	}

	if req.InitialBalance != nil && req.InitialBalance.IsNegative() {
		errors["initialBalance"] = "initialBalance must be a non-negative number"
	}

	for i, h := range req.InitialHoldings {
		if msg := symbolMessage(h.Symbol); msg != "" {
			errors[fmt.Sprintf("initialShares[%d].symbol", i)] = msg
		}
		if h.Quantity <= 0 {
			errors[fmt.Sprintf("initialShares[%d].quantity", i)] = "quantity must be a positive integer"
		}
	}

	return result(errors)
}

// ValidateUpdatePortfolio validates a portfolio update request.
// Negative balances are rejected by the ledger itself so that the rule holds
// for every caller, not only HTTP clients.
func ValidateUpdatePortfolio(req request.UpdatePortfolioRequest) error {
	errors := make(map[string]string)

	if req.Name == nil && req.NewBalance == nil {
		errors["body"] = "at least one of name or newBalance is required"
	}

	if req.Name != nil {
		if msg := portfolioNameMessage(*req.Name); msg != "" {
			errors["name"] = msg
		}
	}

	return result(errors)
}
