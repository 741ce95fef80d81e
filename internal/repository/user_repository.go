package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tahirturgut/exchange/internal/apperrors"
	"github.com/tahirturgut/exchange/internal/model"
)

// UserRepository provides data access methods for the user table.
type UserRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewUserRepository creates a new UserRepository with the provided database connection.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// WithTx returns a new UserRepository scoped to the provided transaction.
func (r *UserRepository) WithTx(tx *sql.Tx) *UserRepository {
	return &UserRepository{
		db: r.db,
		tx: tx,
	}
}

// getQuerier returns the active transaction if one is set, otherwise the database connection.
func (r *UserRepository) getQuerier() querier {
	return pick(r.db, r.tx)
}

const userColumns = `id, username, email, password_hash, role, created_at, updated_at`

func scanUser(row interface{ Scan(dest ...any) error }) (model.User, error) {
	var u model.User
	var createdStr, updatedStr string

	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &createdStr, &updatedStr); err != nil {
		return model.User{}, err
	}

	var err error
	if u.CreatedAt, err = ParseTime(createdStr); err != nil {
		return model.User{}, err
	}
	if u.UpdatedAt, err = ParseTime(updatedStr); err != nil {
		return model.User{}, err
	}
	return u, nil
}

func (r *UserRepository) getOne(ctx context.Context, where string, arg string) (model.User, error) {
	//#nosec G202 -- Safe: where is one of the fixed column predicates below
	query := `SELECT ` + userColumns + ` FROM "user" WHERE ` + where

	u, err := scanUser(r.getQuerier().QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, apperrors.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to query user: %w", err)
	}
	return u, nil
}

// GetUser retrieves a user by ID.
func (r *UserRepository) GetUser(ctx context.Context, userID string) (model.User, error) {
	return r.getOne(ctx, "id = ?", userID)
}

// GetUserByUsername retrieves a user by username.
func (r *UserRepository) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	return r.getOne(ctx, "username = ?", username)
}

// GetUserByEmail retrieves a user by email address.
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	return r.getOne(ctx, "email = ?", email)
}

// InsertUser stores a new user. Unique violations are reported as
// ErrDuplicateUsername or ErrDuplicateEmail.
func (r *UserRepository) InsertUser(ctx context.Context, u *model.User) error {
	query := `
        INSERT INTO "user" (id, username, email, password_hash, role, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)
    `

	_, err := r.getQuerier().ExecContext(ctx, query,
		u.ID,
		u.Username,
		u.Email,
		u.PasswordHash,
		u.Role,
		FormatTime(u.CreatedAt),
		FormatTime(u.UpdatedAt),
	)
	switch {
	case isUniqueViolation(err, "user.username"):
		return apperrors.ErrDuplicateUsername
	case isUniqueViolation(err, "user.email"):
		return apperrors.ErrDuplicateEmail
	case err != nil:
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// DeleteUser removes a user. Returns ErrUserNotFound when nothing was deleted.
func (r *UserRepository) DeleteUser(ctx context.Context, userID string) error {
	result, err := r.getQuerier().ExecContext(ctx, `DELETE FROM "user" WHERE id = ?`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	n, err := affected(result)
	if err != nil {
		return err
	}
	if n == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}
