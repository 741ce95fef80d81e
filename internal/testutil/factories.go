package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/tahirturgut/exchange/internal/model"
	"github.com/tahirturgut/exchange/internal/repository"
)

// DefaultPassword is the plain-text password of users created by UserBuilder.
const DefaultPassword = "password123"

// UserBuilder provides a fluent interface for creating test users.
//
// Example usage:
//
//	user := testutil.NewUser().Build(t, db)
//	admin := testutil.NewUser().WithUsername("admin_user").Admin().Build(t, db)
type UserBuilder struct {
	ID       string
	Username string
	Email    string
	Password string
	Role     string
}

// NewUser creates a UserBuilder with unique username and email.
func NewUser() *UserBuilder {
	username := MakeUsername("user")
	return &UserBuilder{
		ID:       MakeID(),
		Username: username,
		Email:    username + "@example.com",
		Password: DefaultPassword,
		Role:     model.RoleUser,
	}
}

// WithUsername sets a custom username.
func (b *UserBuilder) WithUsername(username string) *UserBuilder {
	b.Username = username
	return b
}

// WithEmail sets a custom email address.
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.Email = email
	return b
}

// WithPassword sets a custom plain-text password.
func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.Password = password
	return b
}

// Admin gives the user the admin role.
func (b *UserBuilder) Admin() *UserBuilder {
	b.Role = model.RoleAdmin
	return b
}

// Build creates the user in the database and returns it.
func (b *UserBuilder) Build(t *testing.T, db *sql.DB) model.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(b.Password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash test password: %v", err)
	}

	now := time.Now().UTC()
	_, err = db.Exec(`
		INSERT INTO "user" (id, username, email, password_hash, role, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, b.ID, b.Username, b.Email, string(hash), b.Role, repository.FormatTime(now), repository.FormatTime(now))
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return model.User{
		ID:           b.ID,
		Username:     b.Username,
		Email:        b.Email,
		PasswordHash: string(hash),
		Role:         b.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// PortfolioBuilder provides a fluent interface for creating test portfolios.
//
// Example usage:
//
//	portfolio := testutil.NewPortfolio(user.ID).WithBalance("100.00").Build(t, db)
type PortfolioBuilder struct {
	ID      string
	UserID  string
	Name    string
	Balance decimal.Decimal
}

// NewPortfolio creates a PortfolioBuilder owned by userID with a 10000.00 balance.
func NewPortfolio(userID string) *PortfolioBuilder {
	return &PortfolioBuilder{
		ID:      MakeID(),
		UserID:  userID,
		Name:    MakePortfolioName("Test Portfolio"),
		Balance: decimal.RequireFromString("10000.00"),
	}
}

// WithName sets a custom name.
func (b *PortfolioBuilder) WithName(name string) *PortfolioBuilder {
	b.Name = name
	return b
}

// WithBalance sets the cash balance from a decimal string.
func (b *PortfolioBuilder) WithBalance(balance string) *PortfolioBuilder {
	b.Balance = decimal.RequireFromString(balance)
	return b
}

// Build creates the portfolio in the database and returns it.
func (b *PortfolioBuilder) Build(t *testing.T, db *sql.DB) model.Portfolio {
	t.Helper()

	now := time.Now().UTC()
	_, err := db.Exec(`
		INSERT INTO portfolio (id, user_id, name, balance, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, b.ID, b.UserID, b.Name, b.Balance.String(), repository.FormatTime(now), repository.FormatTime(now))
	if err != nil {
		t.Fatalf("Failed to create test portfolio: %v", err)
	}

	return model.Portfolio{
		ID:        b.ID,
		UserID:    b.UserID,
		Name:      b.Name,
		Balance:   b.Balance,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// InstrumentBuilder provides a fluent interface for creating test instruments.
//
// Example usage:
//
//	instrument := testutil.NewInstrument().WithSymbol("ABC").WithPrice("150.50").Build(t, db)
type InstrumentBuilder struct {
	ID          string
	Symbol      string
	Name        string
	Price       decimal.Decimal
	LastUpdated time.Time
}

// NewInstrument creates an InstrumentBuilder with a random unique symbol, a
// 100.00 price and a last-updated time one day in the past.
func NewInstrument() *InstrumentBuilder {
	symbol := MakeSymbol()
	return &InstrumentBuilder{
		ID:          MakeID(),
		Symbol:      symbol,
		Name:        symbol + " Corporation",
		Price:       decimal.RequireFromString("100.00"),
		LastUpdated: time.Now().UTC().Add(-24 * time.Hour),
	}
}

// WithSymbol sets a custom symbol.
func (b *InstrumentBuilder) WithSymbol(symbol string) *InstrumentBuilder {
	b.Symbol = symbol
	return b
}

// WithName sets a custom display name.
func (b *InstrumentBuilder) WithName(name string) *InstrumentBuilder {
	b.Name = name
	return b
}

// WithPrice sets the current price from a decimal string.
func (b *InstrumentBuilder) WithPrice(price string) *InstrumentBuilder {
	b.Price = decimal.RequireFromString(price)
	return b
}

// Build creates the instrument in the database and returns it.
func (b *InstrumentBuilder) Build(t *testing.T, db *sql.DB) model.Instrument {
	t.Helper()

	ts := repository.FormatTime(b.LastUpdated)
	_, err := db.Exec(`
		INSERT INTO instrument (id, symbol, name, current_price, last_updated, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, b.ID, b.Symbol, b.Name, b.Price.String(), ts, ts)
	if err != nil {
		t.Fatalf("Failed to create test instrument: %v", err)
	}

	return model.Instrument{
		ID:           b.ID,
		Symbol:       b.Symbol,
		Name:         b.Name,
		CurrentPrice: b.Price,
		LastUpdated:  b.LastUpdated,
	}
}

// CreateHolding stores a holding of quantity shares and returns it.
func CreateHolding(t *testing.T, db *sql.DB, portfolioID, instrumentID string, quantity int64) model.Holding {
	t.Helper()

	h := model.Holding{
		ID:           MakeID(),
		PortfolioID:  portfolioID,
		InstrumentID: instrumentID,
		Quantity:     quantity,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}

	_, err := db.Exec(`
		INSERT INTO holding (id, portfolio_id, instrument_id, quantity, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, h.ID, h.PortfolioID, h.InstrumentID, h.Quantity, repository.FormatTime(h.CreatedAt), repository.FormatTime(h.UpdatedAt))
	if err != nil {
		t.Fatalf("Failed to create test holding: %v", err)
	}

	return h
}

// CreateTrade stores a completed trade and returns it.
func CreateTrade(t *testing.T, db *sql.DB, tradeType model.TradeType, portfolioID string, instrument model.Instrument, quantity int64, at time.Time) model.Trade {
	t.Helper()

	trade := model.NewTrade(tradeType, portfolioID, instrument.ID, quantity, instrument.CurrentPrice, at)

	_, err := db.Exec(`
		INSERT INTO trade (id, type, portfolio_id, instrument_id, quantity, price, total, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, trade.ID, string(trade.Type), trade.PortfolioID, trade.InstrumentID, trade.Quantity,
		trade.Price.String(), trade.Total.String(), string(trade.Status), repository.FormatTime(trade.CreatedAt))
	if err != nil {
		t.Fatalf("Failed to create test trade: %v", err)
	}

	return trade
}

// CreateUserWithPortfolio creates a user and a portfolio with the given balance.
//
// Example usage:
//
//	user, portfolio := testutil.CreateUserWithPortfolio(t, db, "100.00")
func CreateUserWithPortfolio(t *testing.T, db *sql.DB, balance string) (model.User, model.Portfolio) {
	t.Helper()

	user := NewUser().Build(t, db)
	portfolio := NewPortfolio(user.ID).WithBalance(balance).Build(t, db)
	return user, portfolio
}
