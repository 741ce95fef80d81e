package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tahirturgut/exchange/internal/apperrors"
	"github.com/tahirturgut/exchange/internal/model"
	"github.com/tahirturgut/exchange/internal/repository"
	"github.com/tahirturgut/exchange/internal/testutil"
)

// TestPortfolioRepository_GetPortfolioByUserID tests portfolio lookup by owner.
//
// WHY: Every ledger operation resolves the portfolio through its owner, and the
// balance must round-trip through TEXT storage without losing cents.
func TestPortfolioRepository_GetPortfolioByUserID(t *testing.T) {
	t.Run("returns stored portfolio", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewPortfolioRepository(db)
		user, created := testutil.CreateUserWithPortfolio(t, db, "1234.56")

		got, err := repo.GetPortfolioByUserID(context.Background(), user.ID)
		if err != nil {
			t.Fatalf("GetPortfolioByUserID() returned unexpected error: %v", err)
		}

		if got.ID != created.ID {
			t.Errorf("Expected ID %s, got %s", created.ID, got.ID)
		}
		if !got.Balance.Equal(testutil.Dec("1234.56")) {
			t.Errorf("Expected balance 1234.56, got %s", got.Balance)
		}
		if got.CreatedAt.IsZero() {
			t.Error("Expected CreatedAt to be parsed")
		}
	})

	t.Run("returns ErrPortfolioNotFound for user without portfolio", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewPortfolioRepository(db)
		user := testutil.NewUser().Build(t, db)

		_, err := repo.GetPortfolioByUserID(context.Background(), user.ID)
		if !errors.Is(err, apperrors.ErrPortfolioNotFound) {
			t.Errorf("Expected ErrPortfolioNotFound, got %v", err)
		}
	})

	t.Run("handles closed database connection", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewPortfolioRepository(db)
		db.Close()

		_, err := repo.GetPortfolioByUserID(context.Background(), testutil.MakeID())
		if err == nil {
			t.Fatal("Expected error when database is closed, got nil")
		}
		if errors.Is(err, apperrors.ErrPortfolioNotFound) {
			t.Error("Expected infrastructure error, got ErrPortfolioNotFound")
		}
	})
}

func TestPortfolioRepository_InsertPortfolio(t *testing.T) {
	t.Run("second portfolio for same user is a duplicate", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewPortfolioRepository(db)
		user, _ := testutil.CreateUserWithPortfolio(t, db, "100")

		now := time.Now()
		err := repo.InsertPortfolio(context.Background(), &model.Portfolio{
			ID:        testutil.MakeID(),
			UserID:    user.ID,
			Name:      "Second",
			Balance:   testutil.Dec("1"),
			CreatedAt: now,
			UpdatedAt: now,
		})
		if !errors.Is(err, apperrors.ErrDuplicatePortfolio) {
			t.Errorf("Expected ErrDuplicatePortfolio, got %v", err)
		}
	})

	t.Run("negative balance violates the schema", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewPortfolioRepository(db)
		user := testutil.NewUser().Build(t, db)

		now := time.Now()
		err := repo.InsertPortfolio(context.Background(), &model.Portfolio{
			ID:        testutil.MakeID(),
			UserID:    user.ID,
			Name:      "Broken",
			Balance:   testutil.Dec("-0.01"),
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err == nil {
			t.Error("Expected CHECK constraint failure, got nil")
		}
	})
}

func TestPortfolioRepository_UpdateAndDelete(t *testing.T) {
	t.Run("updates name and balance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewPortfolioRepository(db)
		user, p := testutil.CreateUserWithPortfolio(t, db, "100")

		p.Name = "Renamed"
		p.Balance = testutil.Dec("42.10")
		p.UpdatedAt = time.Now()
		if err := repo.UpdatePortfolio(context.Background(), &p); err != nil {
			t.Fatalf("UpdatePortfolio() returned unexpected error: %v", err)
		}

		got := testutil.GetPortfolio(t, db, user.ID)
		if got.Name != "Renamed" || !got.Balance.Equal(testutil.Dec("42.10")) {
			t.Errorf("Unexpected portfolio after update: %+v", got)
		}
	})

	t.Run("update balance of unknown portfolio", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewPortfolioRepository(db)

		err := repo.UpdateBalance(context.Background(), testutil.MakeID(), testutil.Dec("1"), time.Now())
		if !errors.Is(err, apperrors.ErrPortfolioNotFound) {
			t.Errorf("Expected ErrPortfolioNotFound, got %v", err)
		}
	})

	t.Run("delete unknown portfolio", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewPortfolioRepository(db)

		err := repo.DeletePortfolio(context.Background(), testutil.MakeID())
		if !errors.Is(err, apperrors.ErrPortfolioNotFound) {
			t.Errorf("Expected ErrPortfolioNotFound, got %v", err)
		}
	})

	t.Run("WithTx writes are discarded on rollback", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewPortfolioRepository(db)
		user, p := testutil.CreateUserWithPortfolio(t, db, "100")

		tx, err := db.Begin()
		if err != nil {
			t.Fatalf("failed to begin: %v", err)
		}
		if err := repo.WithTx(tx).UpdateBalance(context.Background(), p.ID, testutil.Dec("0"), time.Now()); err != nil {
			t.Fatalf("UpdateBalance() returned unexpected error: %v", err)
		}
		if err := tx.Rollback(); err != nil {
			t.Fatalf("failed to roll back: %v", err)
		}

		got := testutil.GetPortfolio(t, db, user.ID)
		if !got.Balance.Equal(testutil.Dec("100")) {
			t.Errorf("Expected balance 100 after rollback, got %s", got.Balance)
		}
	})
}
