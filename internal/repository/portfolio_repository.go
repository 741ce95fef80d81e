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

// PortfolioRepository provides data access methods for the portfolio table.
// A user owns at most one portfolio, enforced by a unique index on user_id.
type PortfolioRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewPortfolioRepository creates a new PortfolioRepository with the provided database connection.
func NewPortfolioRepository(db *sql.DB) *PortfolioRepository {
	return &PortfolioRepository{db: db}
}

// WithTx returns a new PortfolioRepository scoped to the provided transaction.
func (r *PortfolioRepository) WithTx(tx *sql.Tx) *PortfolioRepository {
	return &PortfolioRepository{
		db: r.db,
		tx: tx,
	}
}

// getQuerier returns the active transaction if one is set, otherwise the database connection.
func (r *PortfolioRepository) getQuerier() querier {
	return pick(r.db, r.tx)
}

// GetPortfolioByUserID retrieves the portfolio owned by userID.
// Returns ErrPortfolioNotFound if the user has none.
func (r *PortfolioRepository) GetPortfolioByUserID(ctx context.Context, userID string) (model.Portfolio, error) {
	query := `
        SELECT id, user_id, name, balance, created_at, updated_at
        FROM portfolio
        WHERE user_id = ?
    `

	var p model.Portfolio
	var createdStr, updatedStr string

	err := r.getQuerier().QueryRowContext(ctx, query, userID).Scan(
		&p.ID,
		&p.UserID,
		&p.Name,
		&p.Balance,
		&createdStr,
		&updatedStr,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Portfolio{}, apperrors.ErrPortfolioNotFound
	}
	if err != nil {
		return model.Portfolio{}, fmt.Errorf("failed to query portfolio: %w", err)
	}

	if p.CreatedAt, err = ParseTime(createdStr); err != nil {
		return model.Portfolio{}, err
	}
	if p.UpdatedAt, err = ParseTime(updatedStr); err != nil {
		return model.Portfolio{}, err
	}

	return p, nil
}

// InsertPortfolio stores a new portfolio. A second portfolio for the same
// user is reported as ErrDuplicatePortfolio.
func (r *PortfolioRepository) InsertPortfolio(ctx context.Context, p *model.Portfolio) error {
	query := `
        INSERT INTO portfolio (id, user_id, name, balance, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?)
    `

	_, err := r.getQuerier().ExecContext(ctx, query,
		p.ID,
		p.UserID,
		p.Name,
		p.Balance.String(),
		FormatTime(p.CreatedAt),
		FormatTime(p.UpdatedAt),
	)
	if isUniqueViolation(err, "portfolio.user_id") {
		return apperrors.ErrDuplicatePortfolio
	}
	if err != nil {
		return fmt.Errorf("failed to insert portfolio: %w", err)
	}

	return nil
}

// UpdatePortfolio writes the name and balance of an existing portfolio.
func (r *PortfolioRepository) UpdatePortfolio(ctx context.Context, p *model.Portfolio) error {
	query := `
        UPDATE portfolio
        SET name = ?, balance = ?, updated_at = ?
        WHERE id = ?
    `

	result, err := r.getQuerier().ExecContext(ctx, query,
		p.Name,
		p.Balance.String(),
		FormatTime(p.UpdatedAt),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update portfolio: %w", err)
	}

	n, err := affected(result)
	if err != nil {
		return err
	}
	if n == 0 {
		return apperrors.ErrPortfolioNotFound
	}
	return nil
}

// UpdateBalance sets the balance of a portfolio.
func (r *PortfolioRepository) UpdateBalance(ctx context.Context, portfolioID string, balance decimal.Decimal, at time.Time) error {
	result, err := r.getQuerier().ExecContext(ctx,
		`UPDATE portfolio SET balance = ?, updated_at = ? WHERE id = ?`,
		balance.String(),
		FormatTime(at),
		portfolioID,
	)
	if err != nil {
		return fmt.Errorf("failed to update portfolio balance: %w", err)
	}

	n, err := affected(result)
	if err != nil {
		return err
	}
	if n == 0 {
		return apperrors.ErrPortfolioNotFound
	}
	return nil
}

// DeletePortfolio removes a portfolio row. Holdings and trades must be removed first
// by the caller so that the counts can be reported.
func (r *PortfolioRepository) DeletePortfolio(ctx context.Context, portfolioID string) error {
	result, err := r.getQuerier().ExecContext(ctx, `DELETE FROM portfolio WHERE id = ?`, portfolioID)
	if err != nil {
		return fmt.Errorf("failed to delete portfolio: %w", err)
	}

	n, err := affected(result)
	if err != nil {
		return err
	}
	if n == 0 {
		return apperrors.ErrPortfolioNotFound
	}
	return nil
}
