package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tahirturgut/exchange/internal/model"
)

// TradeRepository provides data access methods for the append-only trade table.
type TradeRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewTradeRepository creates a new TradeRepository with the provided database connection.
func NewTradeRepository(db *sql.DB) *TradeRepository {
	return &TradeRepository{db: db}
}

// WithTx returns a new TradeRepository scoped to the provided transaction.
func (r *TradeRepository) WithTx(tx *sql.Tx) *TradeRepository {
	return &TradeRepository{
		db: r.db,
		tx: tx,
	}
}

// getQuerier returns the active transaction if one is set, otherwise the database connection.
func (r *TradeRepository) getQuerier() querier {
	return pick(r.db, r.tx)
}

// InsertTrade appends a trade record.
func (r *TradeRepository) InsertTrade(ctx context.Context, t *model.Trade) error {
	query := `
        INSERT INTO trade (id, type, portfolio_id, instrument_id, quantity, price, total, status, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
    `

	_, err := r.getQuerier().ExecContext(ctx, query,
		t.ID,
		string(t.Type),
		t.PortfolioID,
		t.InstrumentID,
		t.Quantity,
		t.Price.String(),
		t.Total.String(),
		string(t.Status),
		FormatTime(t.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert trade: %w", err)
	}

	return nil
}

// GetTradesByPortfolio retrieves the trades of a portfolio, newest first.
// A limit of zero or less returns every trade.
func (r *TradeRepository) GetTradesByPortfolio(ctx context.Context, portfolioID string, limit int) ([]model.TradeHistoryEntry, error) {
	query := `
        SELECT t.id, t.type, t.portfolio_id, t.instrument_id, t.quantity, t.price, t.total, t.status, t.created_at,
               i.symbol, i.name
        FROM trade t
        INNER JOIN instrument i ON i.id = t.instrument_id
        WHERE t.portfolio_id = ?
        ORDER BY t.created_at DESC, t.rowid DESC
    `
	args := []any{portfolioID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query trade table: %w", err)
	}
	defer rows.Close()

	trades := []model.TradeHistoryEntry{}
	for rows.Next() {
		var e model.TradeHistoryEntry
		var tradeType, status, createdStr string

		err := rows.Scan(
			&e.ID,
			&tradeType,
			&e.PortfolioID,
			&e.InstrumentID,
			&e.Quantity,
			&e.Price,
			&e.Total,
			&status,
			&createdStr,
			&e.Symbol,
			&e.InstrumentName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade table results: %w", err)
		}

		e.Type = model.TradeType(tradeType)
		e.Status = model.TradeStatus(status)
		if e.CreatedAt, err = ParseTime(createdStr); err != nil {
			return nil, err
		}

		trades = append(trades, e)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trade table: %w", err)
	}

	return trades, nil
}

// CountTradesByPortfolio returns the number of trades recorded for a portfolio.
func (r *TradeRepository) CountTradesByPortfolio(ctx context.Context, portfolioID string) (int64, error) {
	var n int64
	err := r.getQuerier().QueryRowContext(ctx, `SELECT COUNT(*) FROM trade WHERE portfolio_id = ?`, portfolioID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count trades: %w", err)
	}
	return n, nil
}

// DeleteTradesByPortfolio removes every trade of a portfolio and returns how many were removed.
func (r *TradeRepository) DeleteTradesByPortfolio(ctx context.Context, portfolioID string) (int64, error) {
	result, err := r.getQuerier().ExecContext(ctx, `DELETE FROM trade WHERE portfolio_id = ?`, portfolioID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete trades: %w", err)
	}
	return affected(result)
}
