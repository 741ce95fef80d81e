package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/tahirturgut/exchange/internal/api/handlers"
	custommiddleware "github.com/tahirturgut/exchange/internal/api/middleware"
	"github.com/tahirturgut/exchange/internal/auth"
	"github.com/tahirturgut/exchange/internal/model"
	"github.com/tahirturgut/exchange/internal/service"
)

// Services groups the services the router dispatches to.
type Services struct {
	Auth    *service.AuthService
	Ledger  *service.LedgerService
	Catalog *service.CatalogService
	System  *service.SystemService
}

// NewRouter creates and configures the HTTP router
func NewRouter(services Services, issuer *auth.TokenIssuer, allowedOrigins []string, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger(logger))
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(allowedOrigins)
	r.Use(corsMiddleware.Handler)

	authenticate := custommiddleware.Authenticate(issuer)

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			authHandler := handlers.NewAuthHandler(services.Auth)
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.With(authenticate).Delete("/account", authHandler.Unregister)
		})

		// All trade routes require authentication
		r.Route("/trade", func(r chi.Router) {
			r.Use(authenticate)

			tradeHandler := handlers.NewTradeHandler(services.Ledger)
			r.Post("/buy", tradeHandler.Buy)
			r.Post("/sell", tradeHandler.Sell)
			r.Get("/history", tradeHandler.History)
			r.With(custommiddleware.RequireRole(model.RoleAdmin)).Post("/update-prices", tradeHandler.UpdatePrices)

			portfolioHandler := handlers.NewPortfolioHandler(services.Ledger)
			r.Get("/portfolio", portfolioHandler.Portfolio)
			r.Post("/portfolio", portfolioHandler.CreatePortfolio)
			r.Put("/portfolio", portfolioHandler.UpdatePortfolio)
			r.Delete("/portfolio", portfolioHandler.DeletePortfolio)
		})

		r.Route("/instrument", func(r chi.Router) {
			instrumentHandler := handlers.NewInstrumentHandler(services.Catalog)
			r.Get("/", instrumentHandler.Instruments)
			r.With(custommiddleware.ValidateSymbolMiddleware).Get("/{symbol}", instrumentHandler.Instrument)
		})

		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(services.System)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})
	})

	return r
}
