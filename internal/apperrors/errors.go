// Package apperrors defines the error values shared by the repository,
// service and HTTP layers. Callers classify failures with errors.Is and
// errors.As rather than by inspecting messages.
package apperrors

import (
	"errors"
	"fmt"
)

// Domain entity errors represent missing entities in the system.
var (
	// ErrUserNotFound indicates that a user with the given ID, username or email does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrPortfolioNotFound indicates that the user has no portfolio.
	ErrPortfolioNotFound = errors.New("portfolio not found")

	// ErrInstrumentNotFound indicates that no instrument is listed under the given symbol.
	ErrInstrumentNotFound = errors.New("instrument not found")

	// ErrHoldingNotFound indicates that the portfolio has never held the instrument.
	ErrHoldingNotFound = errors.New("holding not found")
)

// Conflict errors represent violations of uniqueness constraints.
var (
	// ErrDuplicatePortfolio indicates that the user already owns a portfolio.
	ErrDuplicatePortfolio = errors.New("user already has a portfolio")

	// ErrDuplicateUsername indicates that the username is already registered.
	ErrDuplicateUsername = errors.New("username already registered")

	// ErrDuplicateEmail indicates that the email address is already registered.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrDuplicateInstrument indicates that the symbol is already listed.
	ErrDuplicateInstrument = errors.New("instrument symbol already listed")
)

// Business logic errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrInsufficientFunds indicates that a buy costs more than the portfolio balance.
	ErrInsufficientFunds = errors.New("insufficient funds in portfolio")

	// ErrInsufficientShares indicates that a sell exceeds the held quantity.
	// Returned errors are *InsufficientSharesError values that match this sentinel.
	ErrInsufficientShares = errors.New("not enough shares available")

	// ErrInvalidBalance indicates an attempt to set a negative balance.
	ErrInvalidBalance = errors.New("balance cannot be negative")

	// ErrInvalidQuantity indicates a trade for zero or a negative number of shares.
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")

	// ErrInvalidCredentials indicates an unknown login or a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ErrInternal marks persistence or infrastructure failures. The cause is kept
// for logging and never shown to clients.
var ErrInternal = errors.New("internal error")

// InsufficientSharesError reports how many shares a sell asked for and how many were held.
type InsufficientSharesError struct {
	Symbol    string
	Available int64
	Requested int64
}

func (e *InsufficientSharesError) Error() string {
	return fmt.Sprintf("%s: you have %d shares of %s, but attempted to sell %d",
		ErrInsufficientShares, e.Available, e.Symbol, e.Requested)
}

// Is lets errors.Is(err, ErrInsufficientShares) match.
func (e *InsufficientSharesError) Is(target error) bool {
	return target == ErrInsufficientShares
}

// InternalError wraps a persistence failure with the operation that hit it.
type InternalError struct {
	Op  string
	Err error
}

// Internal wraps err as an internal failure of op.
func Internal(op string, err error) error {
	return &InternalError{Op: op, Err: err}
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *InternalError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrInternal) match.
func (e *InternalError) Is(target error) bool {
	return target == ErrInternal
}

var domainErrors = []error{
	ErrUserNotFound,
	ErrPortfolioNotFound,
	ErrInstrumentNotFound,
	ErrHoldingNotFound,
	ErrDuplicatePortfolio,
	ErrDuplicateUsername,
	ErrDuplicateEmail,
	ErrDuplicateInstrument,
	ErrInsufficientFunds,
	ErrInsufficientShares,
	ErrInvalidBalance,
	ErrInvalidQuantity,
	ErrInvalidCredentials,
}

// IsDomain reports whether err is one of the domain errors above, as opposed
// to an infrastructure failure.
func IsDomain(err error) bool {
	for _, target := range domainErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
