package cli

import (
	"database/sql"

	"golang.org/x/crypto/bcrypt"

	"github.com/tahirturgut/exchange/internal/api"
	"github.com/tahirturgut/exchange/internal/auth"
	"github.com/tahirturgut/exchange/internal/cache"
	"github.com/tahirturgut/exchange/internal/repository"
	"github.com/tahirturgut/exchange/internal/service"
)

// components is the wired object graph shared by serve and seed.
type components struct {
	issuer         *auth.TokenIssuer
	userRepo       *repository.UserRepository
	instrumentRepo *repository.InstrumentRepository
	services       api.Services
}

func (a *App) wire(db *sql.DB, quotes cache.QuoteCache) components {
	// Create repositories
	portfolioRepo := repository.NewPortfolioRepository(db)
	instrumentRepo := repository.NewInstrumentRepository(db)
	holdingRepo := repository.NewHoldingRepository(db)
	tradeRepo := repository.NewTradeRepository(db)
	userRepo := repository.NewUserRepository(db)

	issuer := auth.NewTokenIssuer(a.Config.Auth.JWTSecret, a.Config.Auth.TokenTTL)

	// Create services
	ledger := service.NewLedgerService(
		db,
		portfolioRepo,
		instrumentRepo,
		holdingRepo,
		tradeRepo,
		quotes,
		service.PortfolioDefaults{
			Name:    a.Config.Portfolio.DefaultName,
			Balance: a.Config.Portfolio.DefaultBalance,
		},
		a.Logger,
	)
	authService := service.NewAuthService(db, userRepo, ledger, issuer, bcrypt.DefaultCost, a.Logger)
	catalog := service.NewCatalogService(instrumentRepo, quotes, a.Logger)
	system := service.NewSystemService(db, holdingRepo, catalog, a.Logger)

	return components{
		issuer:         issuer,
		userRepo:       userRepo,
		instrumentRepo: instrumentRepo,
		services: api.Services{
			Auth:    authService,
			Ledger:  ledger,
			Catalog: catalog,
			System:  system,
		},
	}
}
