package service

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/tahirturgut/exchange/internal/database"
	"github.com/tahirturgut/exchange/internal/model"
	"github.com/tahirturgut/exchange/internal/repository"
	"github.com/tahirturgut/exchange/internal/version"
)

// SystemService handles system-related operations
type SystemService struct {
	db          *sql.DB
	holdingRepo *repository.HoldingRepository
	catalog     *CatalogService
	logger      zerolog.Logger
}

// NewSystemService creates a new SystemService
func NewSystemService(db *sql.DB, holdingRepo *repository.HoldingRepository, catalog *CatalogService, logger zerolog.Logger) *SystemService {
	return &SystemService{
		db:          db,
		holdingRepo: holdingRepo,
		catalog:     catalog,
		logger:      logger.With().Str("component", "system").Logger(),
	}
}

// CheckHealth checks the health of the system
func (s *SystemService) CheckHealth(ctx context.Context) error {
	return database.HealthCheck(ctx, s.db)
}

// CheckVersion reports the application version and the applied schema version.
func (s *SystemService) CheckVersion(ctx context.Context) (model.VersionInfo, error) {
	dbVersion, err := database.SchemaVersion(ctx, s.db)
	if err != nil {
		return model.VersionInfo{}, classify("check version", err)
	}

	return model.VersionInfo{
		AppVersion: version.Version,
		DbVersion:  strconv.FormatInt(dbVersion, 10),
	}, nil
}

// RunMaintenance refreshes the query planner statistics, reports how many
// fully sold holdings are kept as history and reloads the quote cache.
func (s *SystemService) RunMaintenance(ctx context.Context) (model.MaintenanceReport, error) {
	if _, err := s.db.ExecContext(ctx, "PRAGMA optimize"); err != nil {
		return model.MaintenanceReport{}, classify("maintenance", fmt.Errorf("failed to optimize database: %w", err))
	}

	zero, err := s.holdingRepo.CountZeroHoldings(ctx)
	if err != nil {
		return model.MaintenanceReport{}, classify("maintenance", err)
	}

	cached, err := s.catalog.WarmCache(ctx)
	if err != nil {
		return model.MaintenanceReport{}, err
	}

	report := model.MaintenanceReport{ZeroHoldings: zero, InstrumentsCached: cached}
	s.logger.Info().
		Int64("zero_holdings", report.ZeroHoldings).
		Int("instruments_cached", report.InstrumentsCached).
		Msg("maintenance finished")

	return report, nil
}
