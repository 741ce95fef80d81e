package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tahirturgut/exchange/internal/apperrors"
	"github.com/tahirturgut/exchange/internal/model"
)

// HoldingRepository provides data access methods for the holding table.
type HoldingRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewHoldingRepository creates a new HoldingRepository with the provided database connection.
func NewHoldingRepository(db *sql.DB) *HoldingRepository {
	return &HoldingRepository{db: db}
}

// WithTx returns a new HoldingRepository scoped to the provided transaction.
func (r *HoldingRepository) WithTx(tx *sql.Tx) *HoldingRepository {
	return &HoldingRepository{
		db: r.db,
		tx: tx,
	}
}

// getQuerier returns the active transaction if one is set, otherwise the database connection.
func (r *HoldingRepository) getQuerier() querier {
	return pick(r.db, r.tx)
}

// GetHolding retrieves the holding of one instrument in one portfolio, including
// zero-quantity rows. Returns ErrHoldingNotFound if the pair was never held.
func (r *HoldingRepository) GetHolding(ctx context.Context, portfolioID, instrumentID string) (model.Holding, error) {
	query := `
        SELECT id, portfolio_id, instrument_id, quantity, created_at, updated_at
        FROM holding
        WHERE portfolio_id = ? AND instrument_id = ?
    `

	var h model.Holding
	var createdStr, updatedStr string

	err := r.getQuerier().QueryRowContext(ctx, query, portfolioID, instrumentID).Scan(
		&h.ID,
		&h.PortfolioID,
		&h.InstrumentID,
		&h.Quantity,
		&createdStr,
		&updatedStr,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Holding{}, apperrors.ErrHoldingNotFound
	}
	if err != nil {
		return model.Holding{}, fmt.Errorf("failed to query holding: %w", err)
	}

	if h.CreatedAt, err = ParseTime(createdStr); err != nil {
		return model.Holding{}, err
	}
	if h.UpdatedAt, err = ParseTime(updatedStr); err != nil {
		return model.Holding{}, err
	}

	return h, nil
}

// GetHoldingsByPortfolio retrieves the open positions of a portfolio joined with
// their instruments. Zero-quantity rows are filtered out. Results are ordered by symbol.
func (r *HoldingRepository) GetHoldingsByPortfolio(ctx context.Context, portfolioID string) ([]model.HoldingDetail, error) {
	query := `
        SELECT i.id, i.symbol, i.name, h.quantity, i.current_price
        FROM holding h
        INNER JOIN instrument i ON i.id = h.instrument_id
        WHERE h.portfolio_id = ? AND h.quantity > 0
        ORDER BY i.symbol ASC
    `

	rows, err := r.getQuerier().QueryContext(ctx, query, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to query holding table: %w", err)
	}
	defer rows.Close()

	holdings := []model.HoldingDetail{}
	for rows.Next() {
		var d model.HoldingDetail
		if err := rows.Scan(&d.InstrumentID, &d.Symbol, &d.Name, &d.Quantity, &d.CurrentPrice); err != nil {
			return nil, fmt.Errorf("failed to scan holding table results: %w", err)
		}
		holdings = append(holdings, d)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holding table: %w", err)
	}

	return holdings, nil
}

// AddQuantity creates the holding for (portfolioID, instrumentID) or increments
// an existing one in a single statement, so concurrent first buys cannot
// create two rows.
func (r *HoldingRepository) AddQuantity(ctx context.Context, portfolioID, instrumentID string, quantity int64, at time.Time) error {
	query := `
        INSERT INTO holding (id, portfolio_id, instrument_id, quantity, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?)
        ON CONFLICT (portfolio_id, instrument_id)
        DO UPDATE SET quantity = quantity + excluded.quantity, updated_at = excluded.updated_at
    `

	ts := FormatTime(at)
	_, err := r.getQuerier().ExecContext(ctx, query,
		uuid.New().String(),
		portfolioID,
		instrumentID,
		quantity,
		ts,
		ts,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert holding: %w", err)
	}

	return nil
}

// RemoveQuantity decrements a holding only if it still holds at least quantity.
// Returns ErrHoldingNotFound when the guard fails.
func (r *HoldingRepository) RemoveQuantity(ctx context.Context, holdingID string, quantity int64, at time.Time) error {
	query := `
        UPDATE holding
        SET quantity = quantity - ?, updated_at = ?
        WHERE id = ? AND quantity >= ?
    `

	result, err := r.getQuerier().ExecContext(ctx, query, quantity, FormatTime(at), holdingID, quantity)
	if err != nil {
		return fmt.Errorf("failed to decrement holding: %w", err)
	}

	n, err := affected(result)
	if err != nil {
		return err
	}
	if n == 0 {
		return apperrors.ErrHoldingNotFound
	}
	return nil
}

// DeleteHoldingsByPortfolio removes every holding row of a portfolio and returns how many were removed.
func (r *HoldingRepository) DeleteHoldingsByPortfolio(ctx context.Context, portfolioID string) (int64, error) {
	result, err := r.getQuerier().ExecContext(ctx, `DELETE FROM holding WHERE portfolio_id = ?`, portfolioID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete holdings: %w", err)
	}
	return affected(result)
}

// CountZeroHoldings returns the number of fully sold holdings kept as history.
func (r *HoldingRepository) CountZeroHoldings(ctx context.Context) (int64, error) {
	var n int64
	if err := r.getQuerier().QueryRowContext(ctx, `SELECT COUNT(*) FROM holding WHERE quantity = 0`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count zero holdings: %w", err)
	}
	return n, nil
}
