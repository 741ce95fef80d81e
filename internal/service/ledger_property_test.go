package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"

	"github.com/tahirturgut/exchange/internal/apperrors"
	"github.com/tahirturgut/exchange/internal/model"
	"github.com/tahirturgut/exchange/internal/testutil"
)

func propertyParameters() *gopter.TestParameters {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 30
	return parameters
}

// Property: a buy either debits exactly price × quantity and adds quantity to
// the holding, or is refused for insufficient funds and changes nothing.
// The balance never goes negative.
func TestProperty_BuyConservesCash(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestLedgerService(t, db)
	inst := testutil.NewInstrument().WithSymbol("ABC").Build(t, db)
	ctx := context.Background()

	properties := gopter.NewProperties(propertyParameters())

	properties.Property("buy debits price × quantity or changes nothing", prop.ForAll(
		func(balanceCents, priceCents, quantity int64) bool {
			price := decimal.New(priceCents, -2)
			if _, err := svc.UpdateInstrumentPrices(ctx, []model.PriceUpdate{{Symbol: "ABC", Price: price}}); err != nil {
				t.Logf("UpdateInstrumentPrices() failed: %v", err)
				return false
			}

			balance := decimal.New(balanceCents, -2)
			user, p := testutil.CreateUserWithPortfolio(t, db, balance.String())
			cost := price.Mul(decimal.NewFromInt(quantity))

			result, err := svc.Buy(ctx, user.ID, "ABC", quantity)
			stored := testutil.GetPortfolio(t, db, user.ID).Balance
			held := testutil.GetHoldingQuantity(t, db, p.ID, inst.ID)

			if stored.IsNegative() {
				t.Logf("negative balance %s", stored)
				return false
			}

			if err != nil {
				return errors.Is(err, apperrors.ErrInsufficientFunds) &&
					cost.GreaterThan(balance) &&
					stored.Equal(balance) &&
					held == -1
			}

			return !cost.GreaterThan(balance) &&
				stored.Equal(balance.Sub(cost)) &&
				result.Trade.Total.Equal(cost) &&
				held == quantity
		},
		gen.Int64Range(0, 1_000_000),
		gen.Int64Range(1, 50_000),
		gen.Int64Range(1, 100),
	))

	properties.TestingRun(t)
}

// Property: buying and then selling the same quantity at an unchanged price
// restores the original balance and leaves a zero holding.
func TestProperty_BuyThenSellRoundTrip(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestLedgerService(t, db)
	inst := testutil.NewInstrument().WithSymbol("XYZ").Build(t, db)
	ctx := context.Background()

	properties := gopter.NewProperties(propertyParameters())

	properties.Property("sell after buy restores balance", prop.ForAll(
		func(priceCents, quantity int64) bool {
			price := decimal.New(priceCents, -2)
			if _, err := svc.UpdateInstrumentPrices(ctx, []model.PriceUpdate{{Symbol: "XYZ", Price: price}}); err != nil {
				t.Logf("UpdateInstrumentPrices() failed: %v", err)
				return false
			}

			user, p := testutil.CreateUserWithPortfolio(t, db, "100000000.00")
			before := testutil.GetPortfolio(t, db, user.ID).Balance

			if _, err := svc.Buy(ctx, user.ID, "XYZ", quantity); err != nil {
				t.Logf("Buy() failed: %v", err)
				return false
			}
			if _, err := svc.Sell(ctx, user.ID, "XYZ", quantity); err != nil {
				t.Logf("Sell() failed: %v", err)
				return false
			}

			after := testutil.GetPortfolio(t, db, user.ID).Balance
			return after.Equal(before) && testutil.GetHoldingQuantity(t, db, p.ID, inst.ID) == 0
		},
		gen.Int64Range(1, 100_000),
		gen.Int64Range(1, 500),
	))

	properties.TestingRun(t)
}

// Property: a sell larger than the holding is refused and reports exactly the
// held and requested quantities.
func TestProperty_OversellRefused(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestLedgerService(t, db)
	inst := testutil.NewInstrument().WithSymbol("EVA").Build(t, db)
	ctx := context.Background()

	properties := gopter.NewProperties(propertyParameters())

	properties.Property("oversell is refused with held and requested quantities", prop.ForAll(
		func(held, extra int64) bool {
			user, p := testutil.CreateUserWithPortfolio(t, db, "0")
			if held > 0 {
				testutil.CreateHolding(t, db, p.ID, inst.ID, held)
			}

			_, err := svc.Sell(ctx, user.ID, "EVA", held+extra)

			var sharesErr *apperrors.InsufficientSharesError
			if !errors.As(err, &sharesErr) {
				t.Logf("expected InsufficientSharesError, got %v", err)
				return false
			}
			return sharesErr.Available == held &&
				sharesErr.Requested == held+extra &&
				testutil.GetPortfolio(t, db, user.ID).Balance.IsZero()
		},
		gen.Int64Range(0, 1000),
		gen.Int64Range(1, 1000),
	))

	properties.TestingRun(t)
}
