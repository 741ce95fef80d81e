// Package seed loads the demo catalog and accounts into an empty or partly
// seeded database. Running it again skips everything that already exists.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/tahirturgut/exchange/internal/api/request"
	"github.com/tahirturgut/exchange/internal/apperrors"
	"github.com/tahirturgut/exchange/internal/model"
	"github.com/tahirturgut/exchange/internal/repository"
	"github.com/tahirturgut/exchange/internal/service"
)

// Listing is a demo instrument.
type Listing struct {
	Symbol string
	Name   string
	Price  string
}

// Order is a demo trade applied through the ledger at the current price.
type Order struct {
	Type     model.TradeType
	Symbol   string
	Quantity int64
}

// Account is a demo user with their portfolio and opening trades.
type Account struct {
	Username      string
	Email         string
	Password      string
	Role          string
	PortfolioName string
	Balance       string
	Orders        []Order
}

// Listings is the demo catalog.
var Listings = []Listing{
	{Symbol: "ABC", Name: "ABC Corporation", Price: "150.50"},
	{Symbol: "XYZ", Name: "XYZ Technologies", Price: "75.25"},
	{Symbol: "EVA", Name: "EvaExchange Inc.", Price: "200.00"},
	{Symbol: "TRD", Name: "Traders Group", Price: "45.75"},
	{Symbol: "SUP", Name: "Super Traders LLC", Price: "95.80"},
}

// Accounts are the demo users.
var Accounts = []Account{
	{
		Username: "john_doe", Email: "john@example.com", Password: "password123", Role: model.RoleUser,
		PortfolioName: "John's Portfolio", Balance: "10000.00",
		Orders: []Order{
			{Type: model.TradeBuy, Symbol: "ABC", Quantity: 10},
			{Type: model.TradeBuy, Symbol: "EVA", Quantity: 5},
			{Type: model.TradeSell, Symbol: "ABC", Quantity: 2},
		},
	},
	{
		Username: "jane_smith", Email: "jane@example.com", Password: "password123", Role: model.RoleUser,
		PortfolioName: "Jane's Investments", Balance: "15000.00",
		Orders: []Order{
			{Type: model.TradeBuy, Symbol: "XYZ", Quantity: 15},
			{Type: model.TradeSell, Symbol: "XYZ", Quantity: 5},
		},
	},
	{
		Username: "admin_user", Email: "admin@example.com", Password: "admin123", Role: model.RoleAdmin,
		PortfolioName: "Admin's Portfolio", Balance: "20000.00",
		Orders: []Order{
			{Type: model.TradeBuy, Symbol: "SUP", Quantity: 20},
		},
	},
	{
		Username: "trader_joe", Email: "joe@example.com", Password: "password123", Role: model.RoleUser,
		PortfolioName: "Joe's Trades", Balance: "5000.00",
		Orders: []Order{
			{Type: model.TradeBuy, Symbol: "TRD", Quantity: 30},
		},
	},
	{
		Username: "investor_mary", Email: "mary@example.com", Password: "password123", Role: model.RoleUser,
		PortfolioName: "Mary's Investments", Balance: "25000.00",
	},
}

// Report counts what a seeding run created.
type Report struct {
	InstrumentsCreated int
	UsersCreated       int
	TradesApplied      int
}

// Seeder writes demo data through the regular services so every invariant
// of the ledger holds for seeded accounts too.
type Seeder struct {
	instrumentRepo *repository.InstrumentRepository
	userRepo       *repository.UserRepository
	authService    *service.AuthService
	ledger         *service.LedgerService
	logger         zerolog.Logger
}

// NewSeeder creates a new Seeder.
func NewSeeder(
	instrumentRepo *repository.InstrumentRepository,
	userRepo *repository.UserRepository,
	authService *service.AuthService,
	ledger *service.LedgerService,
	logger zerolog.Logger,
) *Seeder {
	return &Seeder{
		instrumentRepo: instrumentRepo,
		userRepo:       userRepo,
		authService:    authService,
		ledger:         ledger,
		logger:         logger.With().Str("component", "seed").Logger(),
	}
}

// Run seeds listings and then accounts. Existing symbols and usernames are skipped.
func (s *Seeder) Run(ctx context.Context, listings []Listing, accounts []Account) (Report, error) {
	var report Report

	for _, l := range listings {
		created, err := s.seedListing(ctx, l)
		if err != nil {
			return report, err
		}
		if created {
			report.InstrumentsCreated++
		}
	}

	for _, a := range accounts {
		trades, created, err := s.seedAccount(ctx, a)
		if err != nil {
			return report, err
		}
		if created {
			report.UsersCreated++
			report.TradesApplied += trades
		}
	}

	s.logger.Info().
		Int("instruments", report.InstrumentsCreated).
		Int("users", report.UsersCreated).
		Int("trades", report.TradesApplied).
		Msg("seeding finished")

	return report, nil
}

func (s *Seeder) seedListing(ctx context.Context, l Listing) (bool, error) {
	price, err := decimal.NewFromString(l.Price)
	if err != nil {
		return false, fmt.Errorf("invalid price for %s: %w", l.Symbol, err)
	}

	err = s.instrumentRepo.InsertInstrument(ctx, &model.Instrument{
		ID:           uuid.New().String(),
		Symbol:       l.Symbol,
		Name:         l.Name,
		CurrentPrice: price,
		LastUpdated:  time.Now().UTC(),
	})
	if errors.Is(err, apperrors.ErrDuplicateInstrument) {
		s.logger.Debug().Str("symbol", l.Symbol).Msg("instrument exists, skipping")
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to seed instrument %s: %w", l.Symbol, err)
	}
	return true, nil
}

func (s *Seeder) seedAccount(ctx context.Context, a Account) (int, bool, error) {
	_, err := s.userRepo.GetUserByUsername(ctx, a.Username)
	if err == nil {
		s.logger.Debug().Str("username", a.Username).Msg("user exists, skipping")
		return 0, false, nil
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return 0, false, fmt.Errorf("failed to look up %s: %w", a.Username, err)
	}

	registered, err := s.authService.RegisterWithRole(ctx, request.RegisterRequest{
		Username: a.Username,
		Email:    a.Email,
		Password: a.Password,
	}, a.Role)
	if err != nil {
		return 0, false, fmt.Errorf("failed to seed user %s: %w", a.Username, err)
	}
	userID := registered.User.ID

	balance, err := decimal.NewFromString(a.Balance)
	if err != nil {
		return 0, false, fmt.Errorf("invalid balance for %s: %w", a.Username, err)
	}
	name := a.PortfolioName
	if _, err := s.ledger.UpdatePortfolio(ctx, userID, request.UpdatePortfolioRequest{Name: &name, NewBalance: &balance}); err != nil {
		return 0, false, fmt.Errorf("failed to set up portfolio for %s: %w", a.Username, err)
	}

	for _, o := range a.Orders {
		if o.Type == model.TradeSell {
			_, err = s.ledger.Sell(ctx, userID, o.Symbol, o.Quantity)
		} else {
			_, err = s.ledger.Buy(ctx, userID, o.Symbol, o.Quantity)
		}
		if err != nil {
			return 0, false, fmt.Errorf("failed to apply %s %s x%d for %s: %w", o.Type, o.Symbol, o.Quantity, a.Username, err)
		}
	}

	return len(a.Orders), true, nil
}
