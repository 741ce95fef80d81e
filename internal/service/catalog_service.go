package service

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tahirturgut/exchange/internal/cache"
	"github.com/tahirturgut/exchange/internal/model"
	"github.com/tahirturgut/exchange/internal/repository"
)

// warmConcurrency bounds parallel cache writes during WarmCache.
const warmConcurrency = 4

// CatalogService serves instrument quotes, preferring the quote cache.
type CatalogService struct {
	instrumentRepo *repository.InstrumentRepository
	quotes         cache.QuoteCache
	logger         zerolog.Logger
}

// NewCatalogService creates a new CatalogService. quotes must not be nil.
func NewCatalogService(instrumentRepo *repository.InstrumentRepository, quotes cache.QuoteCache, logger zerolog.Logger) *CatalogService {
	return &CatalogService{
		instrumentRepo: instrumentRepo,
		quotes:         quotes,
		logger:         logger.With().Str("component", "catalog").Logger(),
	}
}

// ListInstruments returns the whole catalog ordered by symbol.
func (s *CatalogService) ListInstruments(ctx context.Context) ([]model.Instrument, error) {
	instruments, err := s.instrumentRepo.GetInstruments(ctx)
	if err != nil {
		return nil, classify("list instruments", err)
	}
	return instruments, nil
}

// GetInstrument returns the quote for symbol from the cache, falling back to
// the catalog and caching the result. Cache failures are logged and bypassed.
func (s *CatalogService) GetInstrument(ctx context.Context, symbol string) (model.Instrument, error) {
	instrument, ok, err := s.quotes.Get(ctx, symbol)
	if err != nil {
		s.logger.Warn().Err(err).Str("symbol", symbol).Msg("quote cache read failed")
	}
	if ok {
		return instrument, nil
	}

	instrument, err = s.instrumentRepo.GetInstrumentBySymbol(ctx, symbol)
	if err != nil {
		return model.Instrument{}, classify("get instrument", err)
	}

	if err := s.quotes.Set(ctx, instrument); err != nil {
		s.logger.Warn().Err(err).Str("symbol", symbol).Msg("quote cache write failed")
	}
	return instrument, nil
}

// WarmCache loads every instrument into the quote cache and returns how many were cached.
func (s *CatalogService) WarmCache(ctx context.Context) (int, error) {
	instruments, err := s.instrumentRepo.GetInstruments(ctx)
	if err != nil {
		return 0, classify("warm cache", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(warmConcurrency)
	for _, instrument := range instruments {
		instrument := instrument
		g.Go(func() error {
			return s.quotes.Set(gctx, instrument)
		})
	}
	if err := g.Wait(); err != nil {
		return 0, classify("warm cache", err)
	}

	s.logger.Debug().Int("instruments", len(instruments)).Msg("quote cache warmed")
	return len(instruments), nil
}
