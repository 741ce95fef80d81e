package testutil

import (
	"context"
	"database/sql"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/tahirturgut/exchange/internal/auth"
	"github.com/tahirturgut/exchange/internal/cache"
	"github.com/tahirturgut/exchange/internal/model"
	"github.com/tahirturgut/exchange/internal/repository"
	"github.com/tahirturgut/exchange/internal/service"
)

// TestJWTSecret signs tokens issued by NewTestTokenIssuer.
const TestJWTSecret = "test-secret"

// TestPortfolioDefaults are the defaults used by test ledger services.
var TestPortfolioDefaults = service.PortfolioDefaults{
	Name:    "My Portfolio",
	Balance: decimal.RequireFromString("10000.00"),
}

func NewTestTokenIssuer(t *testing.T) *auth.TokenIssuer {
	t.Helper()
	return auth.NewTokenIssuer(TestJWTSecret, time.Hour)
}

func NewTestLedgerService(t *testing.T, db *sql.DB) *service.LedgerService {
	t.Helper()
	return NewTestLedgerServiceWithCache(t, db, cache.NewMemoryQuoteCache(time.Minute))
}

func NewTestLedgerServiceWithCache(t *testing.T, db *sql.DB, quotes cache.QuoteCache) *service.LedgerService {
	t.Helper()

	return service.NewLedgerService(
		db,
		repository.NewPortfolioRepository(db),
		repository.NewInstrumentRepository(db),
		repository.NewHoldingRepository(db),
		repository.NewTradeRepository(db),
		quotes,
		TestPortfolioDefaults,
		zerolog.Nop(),
	)
}

func NewTestAuthService(t *testing.T, db *sql.DB) *service.AuthService {
	t.Helper()

	return service.NewAuthService(
		db,
		repository.NewUserRepository(db),
		NewTestLedgerService(t, db),
		NewTestTokenIssuer(t),
		bcrypt.MinCost,
		zerolog.Nop(),
	)
}

func NewTestCatalogService(t *testing.T, db *sql.DB, quotes cache.QuoteCache) *service.CatalogService {
	t.Helper()

	return service.NewCatalogService(repository.NewInstrumentRepository(db), quotes, zerolog.Nop())
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	catalog := NewTestCatalogService(t, db, cache.NewMemoryQuoteCache(time.Minute))
	return service.NewSystemService(db, repository.NewHoldingRepository(db), catalog, zerolog.Nop())
}

// GetPortfolio reads the current state of a user's portfolio, failing the test if absent.
func GetPortfolio(t *testing.T, db *sql.DB, userID string) model.Portfolio {
	t.Helper()

	p, err := repository.NewPortfolioRepository(db).GetPortfolioByUserID(context.Background(), userID)
	if err != nil {
		t.Fatalf("Failed to read portfolio: %v", err)
	}
	return p
}

// GetHoldingQuantity returns the stored quantity for a holding, or -1 if no row exists.
func GetHoldingQuantity(t *testing.T, db *sql.DB, portfolioID, instrumentID string) int64 {
	t.Helper()

	var q int64
	err := db.QueryRow(`SELECT quantity FROM holding WHERE portfolio_id = ? AND instrument_id = ?`, portfolioID, instrumentID).Scan(&q)
	if err == sql.ErrNoRows {
		return -1
	}
	if err != nil {
		t.Fatalf("Failed to read holding: %v", err)
	}
	return q
}

// Dec parses a decimal literal, panicking on malformed input.
func Dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// MakeSymbol generates a random 3-letter upper-case ticker symbol.
// Collisions are possible across many calls; pass explicit symbols when a test
// creates more than a handful of instruments.
//
// Example usage:
//
//	symbol := testutil.MakeSymbol()
//	// Returns: "QJX"
func MakeSymbol() string {
	return randomFrom("ABCDEFGHIJKLMNOPQRSTUVWXYZ", 3)
}

// MakeUsername generates a unique username for testing.
//
// Example usage:
//
//	name := testutil.MakeUsername("trader")
//	// Returns: "trader_x1b2c3"
func MakeUsername(base string) string {
	if base == "" {
		base = "user"
	}
	return base + "_" + strings.ToLower(randomAlphanumeric(6))
}

// MakePortfolioName generates a unique portfolio name for testing.
//
// Example usage:
//
//	name := testutil.MakePortfolioName("MyPortfolio")
//	// Returns: "MyPortfolio ABC123"
func MakePortfolioName(base string) string {
	if base == "" {
		base = "Portfolio"
	}
	return base + " " + randomAlphanumeric(6)
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	return randomFrom("ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789", length)
}

func randomFrom(charset string, length int) string {
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}

// GetInstrument reads an instrument by symbol, failing the test if absent.
func GetInstrument(t *testing.T, db *sql.DB, symbol string) model.Instrument {
	t.Helper()

	inst, err := repository.NewInstrumentRepository(db).GetInstrumentBySymbol(context.Background(), symbol)
	if err != nil {
		t.Fatalf("Failed to read instrument %s: %v", symbol, err)
	}
	return inst
}

// LedgerFixture bundles a database, a ledger service and one user with a portfolio.
type LedgerFixture struct {
	DB        *sql.DB
	Ledger    *service.LedgerService
	User      model.User
	Portfolio model.Portfolio
}

// NewLedgerFixture creates a fresh database with one user whose portfolio holds balance.
//
// Example usage:
//
//	f := testutil.NewLedgerFixture(t, "1000.00")
//	_, err := f.Ledger.Buy(ctx, f.User.ID, "ABC", 1)
func NewLedgerFixture(t *testing.T, balance string) *LedgerFixture {
	t.Helper()

	db := SetupTestDB(t)
	user, portfolio := CreateUserWithPortfolio(t, db, balance)

	return &LedgerFixture{
		DB:        db,
		Ledger:    NewTestLedgerService(t, db),
		User:      user,
		Portfolio: portfolio,
	}
}

// AssertCounts checks how many holdings, trades and portfolios belong to the fixture's portfolio.
func (f *LedgerFixture) AssertCounts(t *testing.T, holdings, trades, portfolios int) {
	t.Helper()

	if n := CountRows(t, f.DB, "holding", "portfolio_id = ?", f.Portfolio.ID); n != holdings {
		t.Errorf("Expected %d holdings, got %d", holdings, n)
	}
	if n := CountRows(t, f.DB, "trade", "portfolio_id = ?", f.Portfolio.ID); n != trades {
		t.Errorf("Expected %d trades, got %d", trades, n)
	}
	if n := CountRows(t, f.DB, "portfolio", "id = ?", f.Portfolio.ID); n != portfolios {
		t.Errorf("Expected %d portfolios, got %d", portfolios, n)
	}
}
