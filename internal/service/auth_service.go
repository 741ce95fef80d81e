package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/tahirturgut/exchange/internal/api/request"
	"github.com/tahirturgut/exchange/internal/apperrors"
	"github.com/tahirturgut/exchange/internal/auth"
	"github.com/tahirturgut/exchange/internal/model"
	"github.com/tahirturgut/exchange/internal/repository"
)

// AuthService handles account registration, login and removal.
type AuthService struct {
	db       *sql.DB
	userRepo *repository.UserRepository
	ledger   *LedgerService
	issuer   *auth.TokenIssuer
	hashCost int
	logger   zerolog.Logger
}

// NewAuthService creates a new AuthService. hashCost is the bcrypt cost used
// for new password hashes.
func NewAuthService(
	db *sql.DB,
	userRepo *repository.UserRepository,
	ledger *LedgerService,
	issuer *auth.TokenIssuer,
	hashCost int,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		db:       db,
		userRepo: userRepo,
		ledger:   ledger,
		issuer:   issuer,
		hashCost: hashCost,
		logger:   logger.With().Str("component", "auth").Logger(),
	}
}

// Register creates a user with the "user" role. See RegisterWithRole.
func (s *AuthService) Register(ctx context.Context, req request.RegisterRequest) (model.AuthResult, error) {
	return s.RegisterWithRole(ctx, req, model.RoleUser)
}

// RegisterWithRole creates a user and their default portfolio in one
// transaction and returns a signed token. Fails with ErrDuplicateUsername or
// ErrDuplicateEmail if either is taken.
func (s *AuthService) RegisterWithRole(ctx context.Context, req request.RegisterRequest, role string) (model.AuthResult, error) {
	if role != model.RoleUser && role != model.RoleAdmin {
		return model.AuthResult{}, fmt.Errorf("unknown role %q", role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		return model.AuthResult{}, apperrors.Internal("register", fmt.Errorf("failed to hash password: %w", err))
	}

	now := time.Now().UTC()
	user := model.User{
		ID:           uuid.New().String(),
		Username:     strings.TrimSpace(req.Username),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = runInTx(ctx, s.db, nil, s.logger, "register", func(tx *sql.Tx) error {
		users := s.userRepo.WithTx(tx)

		if _, err := users.GetUserByUsername(ctx, user.Username); err == nil {
			return apperrors.ErrDuplicateUsername
		} else if !errors.Is(err, apperrors.ErrUserNotFound) {
			return err
		}

		if _, err := users.GetUserByEmail(ctx, user.Email); err == nil {
			return apperrors.ErrDuplicateEmail
		} else if !errors.Is(err, apperrors.ErrUserNotFound) {
			return err
		}

		if err := users.InsertUser(ctx, &user); err != nil {
			return err
		}

		_, err := s.ledger.CreatePortfolioTx(ctx, tx, user.ID, request.CreatePortfolioRequest{})
		return err
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("username", user.Username).Msg("registration failed")
		return model.AuthResult{}, err
	}

	token, err := s.issuer.Issue(user)
	if err != nil {
		return model.AuthResult{}, apperrors.Internal("register", err)
	}

	s.logger.Info().Str("user_id", user.ID).Str("role", role).Msg("user registered")
	return model.AuthResult{Token: token, User: user}, nil
}

// Login verifies the password of the user identified by email or username.
// Unknown users and wrong passwords both fail with ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, req request.LoginRequest) (model.AuthResult, error) {
	var user model.User
	var err error
	if req.Email != "" {
		user, err = s.userRepo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	} else {
		user, err = s.userRepo.GetUserByUsername(ctx, strings.TrimSpace(req.Username))
	}
	if errors.Is(err, apperrors.ErrUserNotFound) {
		return model.AuthResult{}, apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return model.AuthResult{}, classify("login", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return model.AuthResult{}, apperrors.ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(user)
	if err != nil {
		return model.AuthResult{}, apperrors.Internal("login", err)
	}

	return model.AuthResult{Token: token, User: user}, nil
}

// Unregister deletes the user's portfolio, holdings and trades, then the user,
// in one transaction. A user without a portfolio is deleted all the same.
func (s *AuthService) Unregister(ctx context.Context, userID string) error {
	err := runInTx(ctx, s.db, nil, s.logger, "unregister", func(tx *sql.Tx) error {
		if _, err := s.ledger.DeletePortfolioTx(ctx, tx, userID); err != nil && !errors.Is(err, apperrors.ErrPortfolioNotFound) {
			return err
		}
		return s.userRepo.WithTx(tx).DeleteUser(ctx, userID)
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("unregister failed")
		return err
	}

	s.logger.Info().Str("user_id", userID).Msg("user unregistered")
	return nil
}
