package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tahirturgut/exchange/internal/cache"
	"github.com/tahirturgut/exchange/internal/seed"
)

func newSeedCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the demo instruments and accounts",
		Long: `Load the demo catalog and five demo accounts, including admin_user.

Instruments and usernames that already exist are skipped, so running the
command twice is harmless.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			db, _, err := app.openDatabase(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			quotes, err := cache.New(ctx, app.Config.Cache.RedisURL, app.Config.Cache.TTL)
			if err != nil {
				return fmt.Errorf("failed to create quote cache: %w", err)
			}
			defer quotes.Close()

			c := app.wire(db, quotes)
			seeder := seed.NewSeeder(c.instrumentRepo, c.userRepo, c.services.Auth, c.services.Ledger, app.Logger)

			report, err := seeder.Run(ctx, seed.Listings, seed.Accounts)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "instruments: %d, users: %d, trades: %d\n",
				report.InstrumentsCreated, report.UsersCreated, report.TradesApplied)
			return nil
		},
	}
}
