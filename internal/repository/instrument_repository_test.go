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

func TestInstrumentRepository(t *testing.T) {
	t.Run("GetInstruments returns empty slice on empty catalog", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewInstrumentRepository(db)

		instruments, err := repo.GetInstruments(context.Background())
		if err != nil {
			t.Fatalf("GetInstruments() returned unexpected error: %v", err)
		}
		if instruments == nil || len(instruments) != 0 {
			t.Errorf("Expected empty non-nil slice, got %v", instruments)
		}
	})

	t.Run("GetInstruments orders by symbol", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewInstrumentRepository(db)
		for _, s := range []string{"XYZ", "ABC", "EVA"} {
			testutil.NewInstrument().WithSymbol(s).Build(t, db)
		}

		instruments, err := repo.GetInstruments(context.Background())
		if err != nil {
			t.Fatalf("GetInstruments() returned unexpected error: %v", err)
		}

		want := []string{"ABC", "EVA", "XYZ"}
		for i, inst := range instruments {
			if inst.Symbol != want[i] {
				t.Errorf("Position %d: expected %s, got %s", i, want[i], inst.Symbol)
			}
		}
	})

	t.Run("GetInstrumentBySymbol unknown symbol", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewInstrumentRepository(db)

		_, err := repo.GetInstrumentBySymbol(context.Background(), "NOP")
		if !errors.Is(err, apperrors.ErrInstrumentNotFound) {
			t.Errorf("Expected ErrInstrumentNotFound, got %v", err)
		}
	})

	t.Run("InsertInstrument rejects duplicate symbol", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewInstrumentRepository(db)
		testutil.NewInstrument().WithSymbol("ABC").Build(t, db)

		err := repo.InsertInstrument(context.Background(), &model.Instrument{
			ID:           testutil.MakeID(),
			Symbol:       "ABC",
			Name:         "Again",
			CurrentPrice: testutil.Dec("1"),
			LastUpdated:  time.Now(),
		})
		if !errors.Is(err, apperrors.ErrDuplicateInstrument) {
			t.Errorf("Expected ErrDuplicateInstrument, got %v", err)
		}
	})

	t.Run("UpdatePrice sets price and timestamp", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewInstrumentRepository(db)
		inst := testutil.NewInstrument().WithSymbol("ABC").WithPrice("150.50").Build(t, db)
		at := time.Date(2030, 5, 1, 9, 30, 0, 0, time.UTC)

		if err := repo.UpdatePrice(context.Background(), inst.ID, testutil.Dec("151.25"), at); err != nil {
			t.Fatalf("UpdatePrice() returned unexpected error: %v", err)
		}

		got, err := repo.GetInstrumentBySymbol(context.Background(), "ABC")
		if err != nil {
			t.Fatalf("GetInstrumentBySymbol() returned unexpected error: %v", err)
		}
		if !got.CurrentPrice.Equal(testutil.Dec("151.25")) {
			t.Errorf("Expected price 151.25, got %s", got.CurrentPrice)
		}
		if !got.LastUpdated.Equal(at) {
			t.Errorf("Expected last updated %v, got %v", at, got.LastUpdated)
		}
	})
}
