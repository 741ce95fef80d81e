// Package validation checks the shape of API requests before they reach the services.
package validation

import (
	"fmt"
	"regexp"

	"github.com/google/uuid"
)

// Common validation errors
var (
	ErrInvalidUUID   = fmt.Errorf("invalid UUID format")
	ErrInvalidSymbol = fmt.Errorf("symbol must be 3 upper-case letters")
)

var symbolPattern = regexp.MustCompile(`^[A-Z]{3}$`)

// ValidateUUID checks if a string is a valid UUID
func ValidateUUID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidUUID, id)
	}
	return nil
}

// ValidateSymbol checks that symbol has the catalog format, for example "ABC".
func ValidateSymbol(symbol string) error {
	if !symbolPattern.MatchString(symbol) {
		return fmt.Errorf("%w: %q", ErrInvalidSymbol, symbol)
	}
	return nil
}

func symbolMessage(symbol string) string {
	if symbol == "" {
		return "symbol is required"
	}
	if ValidateSymbol(symbol) != nil {
		return ErrInvalidSymbol.Error()
	}
	return ""
}
