package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tahirturgut/exchange/internal/apperrors"
	"github.com/tahirturgut/exchange/internal/model"
)

// InstrumentRepository provides data access methods for the instrument table,
// the catalog of tradeable shares and their current prices.
type InstrumentRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewInstrumentRepository creates a new InstrumentRepository with the provided database connection.
func NewInstrumentRepository(db *sql.DB) *InstrumentRepository {
	return &InstrumentRepository{db: db}
}

// WithTx returns a new InstrumentRepository scoped to the provided transaction.
func (r *InstrumentRepository) WithTx(tx *sql.Tx) *InstrumentRepository {
	return &InstrumentRepository{
		db: r.db,
		tx: tx,
	}
}

// getQuerier returns the active transaction if one is set, otherwise the database connection.
func (r *InstrumentRepository) getQuerier() querier {
	return pick(r.db, r.tx)
}

func scanInstrument(row interface{ Scan(dest ...any) error }) (model.Instrument, error) {
	var i model.Instrument
	var updatedStr string

	if err := row.Scan(&i.ID, &i.Symbol, &i.Name, &i.CurrentPrice, &updatedStr); err != nil {
		return model.Instrument{}, err
	}

	t, err := ParseTime(updatedStr)
	if err != nil {
		return model.Instrument{}, err
	}
	i.LastUpdated = t
	return i, nil
}

// GetInstruments retrieves the whole catalog ordered by symbol.
// Returns an empty slice if no instruments are listed.
func (r *InstrumentRepository) GetInstruments(ctx context.Context) ([]model.Instrument, error) {
	query := `
        SELECT id, symbol, name, current_price, last_updated
        FROM instrument
        ORDER BY symbol ASC
    `

	rows, err := r.getQuerier().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query instrument table: %w", err)
	}
	defer rows.Close()

	instruments := []model.Instrument{}
	for rows.Next() {
		i, err := scanInstrument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan instrument table results: %w", err)
		}
		instruments = append(instruments, i)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating instrument table: %w", err)
	}

	return instruments, nil
}

// GetInstrumentBySymbol retrieves the instrument listed under symbol.
// Returns ErrInstrumentNotFound if no such symbol exists.
func (r *InstrumentRepository) GetInstrumentBySymbol(ctx context.Context, symbol string) (model.Instrument, error) {
	query := `
        SELECT id, symbol, name, current_price, last_updated
        FROM instrument
        WHERE symbol = ?
    `

	i, err := scanInstrument(r.getQuerier().QueryRowContext(ctx, query, symbol))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Instrument{}, apperrors.ErrInstrumentNotFound
	}
	if err != nil {
		return model.Instrument{}, fmt.Errorf("failed to query instrument: %w", err)
	}

	return i, nil
}

// InsertInstrument lists a new instrument. A duplicate symbol is reported as ErrDuplicateInstrument.
func (r *InstrumentRepository) InsertInstrument(ctx context.Context, i *model.Instrument) error {
	query := `
        INSERT INTO instrument (id, symbol, name, current_price, last_updated, created_at)
        VALUES (?, ?, ?, ?, ?, ?)
    `

	ts := FormatTime(i.LastUpdated)
	_, err := r.getQuerier().ExecContext(ctx, query,
		i.ID,
		i.Symbol,
		i.Name,
		i.CurrentPrice.String(),
		ts,
		ts,
	)
	if isUniqueViolation(err, "instrument.symbol") {
		return apperrors.ErrDuplicateInstrument
	}
	if err != nil {
		return fmt.Errorf("failed to insert instrument: %w", err)
	}

	return nil
}

// UpdatePrice sets the current price of an instrument and stamps last_updated.
func (r *InstrumentRepository) UpdatePrice(ctx context.Context, instrumentID string, price decimal.Decimal, at time.Time) error {
	result, err := r.getQuerier().ExecContext(ctx,
		`UPDATE instrument SET current_price = ?, last_updated = ? WHERE id = ?`,
		price.String(),
		FormatTime(at),
		instrumentID,
	)
	if err != nil {
		return fmt.Errorf("failed to update instrument price: %w", err)
	}

	n, err := affected(result)
	if err != nil {
		return err
	}
	if n == 0 {
		return apperrors.ErrInstrumentNotFound
	}
	return nil
}
