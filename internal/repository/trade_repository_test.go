package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/tahirturgut/exchange/internal/model"
	"github.com/tahirturgut/exchange/internal/repository"
	"github.com/tahirturgut/exchange/internal/testutil"
)

func TestTradeRepository(t *testing.T) {
	t.Run("GetTradesByPortfolio returns newest first with limit", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewTradeRepository(db)
		_, p := testutil.CreateUserWithPortfolio(t, db, "100")
		inst := testutil.NewInstrument().WithSymbol("ABC").WithPrice("10.00").Build(t, db)

		base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		for i := 0; i < 3; i++ {
			testutil.CreateTrade(t, db, model.TradeBuy, p.ID, inst, int64(i+1), base.Add(time.Duration(i)*time.Minute))
		}

		trades, err := repo.GetTradesByPortfolio(context.Background(), p.ID, 2)
		if err != nil {
			t.Fatalf("GetTradesByPortfolio() returned unexpected error: %v", err)
		}

		if len(trades) != 2 {
			t.Fatalf("Expected 2 trades, got %d", len(trades))
		}
		if trades[0].Quantity != 3 || trades[1].Quantity != 2 {
			t.Errorf("Expected quantities [3 2], got [%d %d]", trades[0].Quantity, trades[1].Quantity)
		}
		if trades[0].Symbol != "ABC" {
			t.Errorf("Expected symbol ABC, got %s", trades[0].Symbol)
		}
		if !trades[0].Total.Equal(testutil.Dec("30")) {
			t.Errorf("Expected total 30, got %s", trades[0].Total)
		}
	})

	t.Run("count and delete by portfolio", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewTradeRepository(db)
		_, p := testutil.CreateUserWithPortfolio(t, db, "100")
		_, other := testutil.CreateUserWithPortfolio(t, db, "100")
		inst := testutil.NewInstrument().WithSymbol("ABC").Build(t, db)
		testutil.CreateTrade(t, db, model.TradeBuy, p.ID, inst, 1, time.Now())
		testutil.CreateTrade(t, db, model.TradeSell, p.ID, inst, 1, time.Now())
		testutil.CreateTrade(t, db, model.TradeBuy, other.ID, inst, 1, time.Now())
		ctx := context.Background()

		n, err := repo.CountTradesByPortfolio(ctx, p.ID)
		if err != nil || n != 2 {
			t.Errorf("Expected 2 trades, got %d (err=%v)", n, err)
		}

		deleted, err := repo.DeleteTradesByPortfolio(ctx, p.ID)
		if err != nil || deleted != 2 {
			t.Errorf("Expected 2 deleted, got %d (err=%v)", deleted, err)
		}
		if remaining := testutil.CountRows(t, db, "trade", ""); remaining != 1 {
			t.Errorf("Expected the other portfolio's trade to remain, got %d rows", remaining)
		}
	})
}
