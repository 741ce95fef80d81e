package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/tahirturgut/exchange/internal/api/request"
	"github.com/tahirturgut/exchange/internal/apperrors"
	"github.com/tahirturgut/exchange/internal/cache"
	"github.com/tahirturgut/exchange/internal/model"
	"github.com/tahirturgut/exchange/internal/repository"
)

// PortfolioDefaults are applied when a portfolio is created without a name or balance.
type PortfolioDefaults struct {
	Name    string
	Balance decimal.Decimal
}

// LedgerService executes trades and manages portfolios. Every mutating method
// runs as one transaction across the portfolio, holding, trade and instrument
// tables: either all of its effects are committed or none are.
//
// Write transactions take the database write lock when they begin, so
// concurrent operations on the same portfolio observe each other's committed
// balance and holdings.
type LedgerService struct {
	db             *sql.DB
	portfolioRepo  *repository.PortfolioRepository
	instrumentRepo *repository.InstrumentRepository
	holdingRepo    *repository.HoldingRepository
	tradeRepo      *repository.TradeRepository
	quotes         cache.QuoteCache
	defaults       PortfolioDefaults
	logger         zerolog.Logger
	now            func() time.Time
}

// NewLedgerService creates a new LedgerService. quotes may be nil when no
// quote cache is in use.
func NewLedgerService(
	db *sql.DB,
	portfolioRepo *repository.PortfolioRepository,
	instrumentRepo *repository.InstrumentRepository,
	holdingRepo *repository.HoldingRepository,
	tradeRepo *repository.TradeRepository,
	quotes cache.QuoteCache,
	defaults PortfolioDefaults,
	logger zerolog.Logger,
) *LedgerService {
	return &LedgerService{
		db:             db,
		portfolioRepo:  portfolioRepo,
		instrumentRepo: instrumentRepo,
		holdingRepo:    holdingRepo,
		tradeRepo:      tradeRepo,
		quotes:         quotes,
		defaults:       defaults,
		logger:         logger.With().Str("component", "ledger").Logger(),
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// SetClock replaces the time source used to stamp trades and prices.
func (s *LedgerService) SetClock(now func() time.Time) {
	s.now = now
}

func (s *LedgerService) logFailure(op, userID string, err error) {
	event := s.logger.Warn()
	if errors.Is(err, apperrors.ErrInternal) {
		event = s.logger.Error()
	}
	event.Err(err).Str("op", op).Str("user_id", userID).Msg("operation rolled back")
}

// Buy purchases quantity shares of symbol for the user's portfolio at the
// instrument's current price.
//
// Fails with ErrPortfolioNotFound, ErrInstrumentNotFound or ErrInsufficientFunds
// without changing anything. On success the balance is debited by
// price × quantity, the holding is created or incremented and a BUY trade is appended.
func (s *LedgerService) Buy(ctx context.Context, userID, symbol string, quantity int64) (model.TradeResult, error) {
	if quantity <= 0 {
		return model.TradeResult{}, apperrors.ErrInvalidQuantity
	}

	var result model.TradeResult

	err := runInTx(ctx, s.db, nil, s.logger, "buy", func(tx *sql.Tx) error {
		portfolio, err := s.portfolioRepo.WithTx(tx).GetPortfolioByUserID(ctx, userID)
		if err != nil {
			return err
		}

		instrument, err := s.instrumentRepo.WithTx(tx).GetInstrumentBySymbol(ctx, symbol)
		if err != nil {
			return err
		}

		now := s.now()
		trade := model.NewTrade(model.TradeBuy, portfolio.ID, instrument.ID, quantity, instrument.CurrentPrice, now)

		if portfolio.Balance.LessThan(trade.Total) {
			return apperrors.ErrInsufficientFunds
		}

		portfolio.Balance = portfolio.Balance.Sub(trade.Total)
		if err := s.portfolioRepo.WithTx(tx).UpdateBalance(ctx, portfolio.ID, portfolio.Balance, now); err != nil {
			return err
		}

		if err := s.holdingRepo.WithTx(tx).AddQuantity(ctx, portfolio.ID, instrument.ID, quantity, now); err != nil {
			return err
		}

		if err := s.tradeRepo.WithTx(tx).InsertTrade(ctx, &trade); err != nil {
			return err
		}

		result = model.TradeResult{
			Trade:      trade,
			Instrument: instrument.Snapshot(),
			Portfolio:  portfolio.Snapshot(),
		}
		return nil
	})
	if err != nil {
		s.logFailure("buy", userID, err)
		return model.TradeResult{}, err
	}

	s.logger.Info().
		Str("user_id", userID).
		Str("trade_id", result.Trade.ID).
		Str("symbol", symbol).
		Int64("quantity", quantity).
		Stringer("total", result.Trade.Total).
		Msg("buy committed")

	return result, nil
}

// Sell sells quantity shares of symbol from the user's portfolio at the
// instrument's current price.
//
// Fails with ErrPortfolioNotFound, ErrInstrumentNotFound or an
// *apperrors.InsufficientSharesError reporting the held and requested
// quantities. A fully sold holding is kept at zero quantity.
func (s *LedgerService) Sell(ctx context.Context, userID, symbol string, quantity int64) (model.TradeResult, error) {
	if quantity <= 0 {
		return model.TradeResult{}, apperrors.ErrInvalidQuantity
	}

	var result model.TradeResult

	err := runInTx(ctx, s.db, nil, s.logger, "sell", func(tx *sql.Tx) error {
		portfolio, err := s.portfolioRepo.WithTx(tx).GetPortfolioByUserID(ctx, userID)
		if err != nil {
			return err
		}

		instrument, err := s.instrumentRepo.WithTx(tx).GetInstrumentBySymbol(ctx, symbol)
		if err != nil {
			return err
		}

		holdings := s.holdingRepo.WithTx(tx)
		holding, err := holdings.GetHolding(ctx, portfolio.ID, instrument.ID)
		if err != nil && !errors.Is(err, apperrors.ErrHoldingNotFound) {
			return err
		}
		if holding.Quantity < quantity {
			return &apperrors.InsufficientSharesError{Symbol: symbol, Available: holding.Quantity, Requested: quantity}
		}

		now := s.now()
		if err := holdings.RemoveQuantity(ctx, holding.ID, quantity, now); err != nil {
			if errors.Is(err, apperrors.ErrHoldingNotFound) {
				return &apperrors.InsufficientSharesError{Symbol: symbol, Available: holding.Quantity, Requested: quantity}
			}
			return err
		}

		trade := model.NewTrade(model.TradeSell, portfolio.ID, instrument.ID, quantity, instrument.CurrentPrice, now)

		portfolio.Balance = portfolio.Balance.Add(trade.Total)
		if err := s.portfolioRepo.WithTx(tx).UpdateBalance(ctx, portfolio.ID, portfolio.Balance, now); err != nil {
			return err
		}

		if err := s.tradeRepo.WithTx(tx).InsertTrade(ctx, &trade); err != nil {
			return err
		}

		result = model.TradeResult{
			Trade:      trade,
			Instrument: instrument.Snapshot(),
			Portfolio:  portfolio.Snapshot(),
		}
		return nil
	})
	if err != nil {
		s.logFailure("sell", userID, err)
		return model.TradeResult{}, err
	}

	s.logger.Info().
		Str("user_id", userID).
		Str("trade_id", result.Trade.ID).
		Str("symbol", symbol).
		Int64("quantity", quantity).
		Stringer("total", result.Trade.Total).
		Msg("sell committed")

	return result, nil
}

// GetPortfolioHoldings reports the user's portfolio with every holding of
// positive quantity, valued at current prices. Read-only.
func (s *LedgerService) GetPortfolioHoldings(ctx context.Context, userID string) (model.PortfolioHoldings, error) {
	portfolio, err := s.portfolioRepo.GetPortfolioByUserID(ctx, userID)
	if err != nil {
		return model.PortfolioHoldings{}, classify("get holdings", err)
	}

	holdings, err := s.holdingRepo.GetHoldingsByPortfolio(ctx, portfolio.ID)
	if err != nil {
		return model.PortfolioHoldings{}, classify("get holdings", err)
	}

	total := decimal.Zero
	for i := range holdings {
		holdings[i].TotalValue = holdings[i].CurrentPrice.Mul(decimal.NewFromInt(holdings[i].Quantity))
		total = total.Add(holdings[i].TotalValue)
	}

	return model.PortfolioHoldings{
		Portfolio:  portfolio.Snapshot(),
		Holdings:   holdings,
		TotalValue: total,
	}, nil
}

// ListTrades returns the most recent trades of the user's portfolio, newest first.
// A limit of zero or less returns every trade.
func (s *LedgerService) ListTrades(ctx context.Context, userID string, limit int) ([]model.TradeHistoryEntry, error) {
	portfolio, err := s.portfolioRepo.GetPortfolioByUserID(ctx, userID)
	if err != nil {
		return nil, classify("list trades", err)
	}

	trades, err := s.tradeRepo.GetTradesByPortfolio(ctx, portfolio.ID, limit)
	if err != nil {
		return nil, classify("list trades", err)
	}
	return trades, nil
}

// CreatePortfolio creates the user's portfolio in its own transaction.
// See CreatePortfolioTx.
func (s *LedgerService) CreatePortfolio(ctx context.Context, userID string, req request.CreatePortfolioRequest) (model.PortfolioCreation, error) {
	return s.CreatePortfolioTx(ctx, nil, userID, req)
}

// CreatePortfolioTx creates the user's portfolio, inside tx when it is non-nil.
//
// Omitted name and balance fall back to the configured defaults. Fails with
// ErrDuplicatePortfolio if the user already owns one. Initial holdings whose
// symbol is not listed are skipped and reported in the summary without failing
// the creation. Initial holdings are granted as-is: they are not charged to the
// balance and no trades are recorded for them.
func (s *LedgerService) CreatePortfolioTx(ctx context.Context, tx *sql.Tx, userID string, req request.CreatePortfolioRequest) (model.PortfolioCreation, error) {
	name := s.defaults.Name
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
	}

	balance := s.defaults.Balance
	if req.InitialBalance != nil {
		balance = *req.InitialBalance
	}
	if balance.IsNegative() {
		return model.PortfolioCreation{}, apperrors.ErrInvalidBalance
	}

	var result model.PortfolioCreation

	err := runInTx(ctx, s.db, tx, s.logger, "create portfolio", func(tx *sql.Tx) error {
		portfolios := s.portfolioRepo.WithTx(tx)

		_, err := portfolios.GetPortfolioByUserID(ctx, userID)
		if err == nil {
			return apperrors.ErrDuplicatePortfolio
		}
		if !errors.Is(err, apperrors.ErrPortfolioNotFound) {
			return err
		}

		now := s.now()
		portfolio := model.Portfolio{
			ID:        uuid.New().String(),
			UserID:    userID,
			Name:      name,
			Balance:   balance,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := portfolios.InsertPortfolio(ctx, &portfolio); err != nil {
			return err
		}
		result.Portfolio = portfolio

		if len(req.InitialHoldings) == 0 {
			return nil
		}

		summary := &model.InitialHoldingsSummary{Errors: []model.InitialHoldingError{}}
		instruments := s.instrumentRepo.WithTx(tx)
		holdings := s.holdingRepo.WithTx(tx)

		for _, h := range req.InitialHoldings {
			if h.Quantity <= 0 {
				summary.Errors = append(summary.Errors, model.InitialHoldingError{Symbol: h.Symbol, Error: "quantity must be positive"})
				continue
			}

			instrument, err := instruments.GetInstrumentBySymbol(ctx, h.Symbol)
			if errors.Is(err, apperrors.ErrInstrumentNotFound) {
				summary.Errors = append(summary.Errors, model.InitialHoldingError{Symbol: h.Symbol, Error: err.Error()})
				continue
			}
			if err != nil {
				return err
			}

			if err := holdings.AddQuantity(ctx, portfolio.ID, instrument.ID, h.Quantity, now); err != nil {
				return err
			}
			summary.Processed++
		}

		result.InitialHoldings = summary
		return nil
	})
	if err != nil {
		s.logFailure("create portfolio", userID, err)
		return model.PortfolioCreation{}, err
	}

	s.logger.Info().
		Str("user_id", userID).
		Str("portfolio_id", result.Portfolio.ID).
		Stringer("balance", result.Portfolio.Balance).
		Msg("portfolio created")

	return result, nil
}

// UpdatePortfolio changes the name and/or balance of the user's portfolio.
// Only provided fields are changed. A negative balance fails with
// ErrInvalidBalance and nothing is written.
func (s *LedgerService) UpdatePortfolio(ctx context.Context, userID string, req request.UpdatePortfolioRequest) (model.Portfolio, error) {
	var updated model.Portfolio

	err := runInTx(ctx, s.db, nil, s.logger, "update portfolio", func(tx *sql.Tx) error {
		portfolios := s.portfolioRepo.WithTx(tx)

		portfolio, err := portfolios.GetPortfolioByUserID(ctx, userID)
		if err != nil {
			return err
		}

		if req.NewBalance != nil {
			if req.NewBalance.IsNegative() {
				return apperrors.ErrInvalidBalance
			}
			portfolio.Balance = *req.NewBalance
		}
		if req.Name != nil {
			portfolio.Name = strings.TrimSpace(*req.Name)
		}
		portfolio.UpdatedAt = s.now()

		if err := portfolios.UpdatePortfolio(ctx, &portfolio); err != nil {
			return err
		}

		updated = portfolio
		return nil
	})
	if err != nil {
		s.logFailure("update portfolio", userID, err)
		return model.Portfolio{}, err
	}

	s.logger.Info().Str("user_id", userID).Str("portfolio_id", updated.ID).Msg("portfolio updated")
	return updated, nil
}

// DeletePortfolio deletes the user's portfolio in its own transaction.
// See DeletePortfolioTx.
func (s *LedgerService) DeletePortfolio(ctx context.Context, userID string) (model.PortfolioDeletion, error) {
	return s.DeletePortfolioTx(ctx, nil, userID)
}

// DeletePortfolioTx deletes the user's holdings, then trades, then the
// portfolio itself. With a non-nil tx it joins the caller's transaction and
// leaves commit or rollback to the caller.
func (s *LedgerService) DeletePortfolioTx(ctx context.Context, tx *sql.Tx, userID string) (model.PortfolioDeletion, error) {
	var result model.PortfolioDeletion

	err := runInTx(ctx, s.db, tx, s.logger, "delete portfolio", func(tx *sql.Tx) error {
		portfolios := s.portfolioRepo.WithTx(tx)

		portfolio, err := portfolios.GetPortfolioByUserID(ctx, userID)
		if err != nil {
			return err
		}
		result.PortfolioID = portfolio.ID

		if result.HoldingsDeleted, err = s.holdingRepo.WithTx(tx).DeleteHoldingsByPortfolio(ctx, portfolio.ID); err != nil {
			return err
		}

		if result.TradesDeleted, err = s.tradeRepo.WithTx(tx).DeleteTradesByPortfolio(ctx, portfolio.ID); err != nil {
			return err
		}

		return portfolios.DeletePortfolio(ctx, portfolio.ID)
	})
	if err != nil {
		s.logFailure("delete portfolio", userID, err)
		return model.PortfolioDeletion{}, err
	}

	s.logger.Info().
		Str("user_id", userID).
		Str("portfolio_id", result.PortfolioID).
		Int64("holdings", result.HoldingsDeleted).
		Int64("trades", result.TradesDeleted).
		Msg("portfolio deleted")

	return result, nil
}

// UpdateInstrumentPrices sets the price of every listed symbol in updates and
// stamps its last-updated time, in one transaction. Symbols that are not listed
// are skipped. Authorization is the caller's concern.
//
// Cached quotes of the updated symbols are dropped after the commit.
func (s *LedgerService) UpdateInstrumentPrices(ctx context.Context, updates []model.PriceUpdate) (model.PriceUpdateResult, error) {
	result := model.PriceUpdateResult{Symbols: []string{}}

	err := runInTx(ctx, s.db, nil, s.logger, "update prices", func(tx *sql.Tx) error {
		instruments := s.instrumentRepo.WithTx(tx)
		now := s.now()

		for _, u := range updates {
			instrument, err := instruments.GetInstrumentBySymbol(ctx, u.Symbol)
			if errors.Is(err, apperrors.ErrInstrumentNotFound) {
				continue
			}
			if err != nil {
				return err
			}

			if err := instruments.UpdatePrice(ctx, instrument.ID, u.Price, now); err != nil {
				return err
			}
			result.Updated++
			result.Symbols = append(result.Symbols, instrument.Symbol)
		}
		return nil
	})
	if err != nil {
		s.logFailure("update prices", "", err)
		return model.PriceUpdateResult{}, err
	}

	if s.quotes != nil && len(result.Symbols) > 0 {
		if err := s.quotes.Delete(ctx, result.Symbols...); err != nil {
			s.logger.Warn().Err(err).Strs("symbols", result.Symbols).Msg("failed to invalidate cached quotes")
		}
	}

	s.logger.Info().Int("updated", result.Updated).Int("requested", len(updates)).Msg("prices updated")
	return result, nil
}
