package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tahirturgut/exchange/internal/apperrors"
)

// runInTx executes fn as one atomic unit.
//
// When tx is non-nil the caller owns the unit: fn runs inside it and nothing
// is committed or rolled back here. Otherwise a new transaction is opened,
// committed if fn returns nil and rolled back if it returns an error.
//
// Domain errors are returned unchanged; anything else is wrapped with
// apperrors.Internal so that callers can tell infrastructure failures apart.
func runInTx(ctx context.Context, db *sql.DB, tx *sql.Tx, logger zerolog.Logger, op string, fn func(tx *sql.Tx) error) error {
	if tx != nil {
		return classify(op, fn(tx))
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.Internal(op, fmt.Errorf("failed to begin transaction: %w", err))
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error().Err(rbErr).Str("op", op).Msg("rollback failed")
		}
		return classify(op, err)
	}

	if err := tx.Commit(); err != nil {
		return apperrors.Internal(op, fmt.Errorf("failed to commit transaction: %w", err))
	}
	return nil
}

func classify(op string, err error) error {
	if err == nil || apperrors.IsDomain(err) || errors.Is(err, apperrors.ErrInternal) {
		return err
	}
	return apperrors.Internal(op, err)
}
