package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMigrateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, version, err := app.openDatabase(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", version)
			return nil
		},
	}
}
