// Package cli provides the command-line interface of the exchange server.
package cli

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tahirturgut/exchange/internal/config"
	"github.com/tahirturgut/exchange/internal/database"
	"github.com/tahirturgut/exchange/internal/logging"
)

// App holds what every command needs once configuration is loaded.
type App struct {
	Viper  *viper.Viper
	Config *config.Config
	Logger zerolog.Logger

	logCloser io.Closer
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd() *cobra.Command {
	app := &App{
		Viper:  config.New(),
		Logger: zerolog.Nop(),
	}

	rootCmd := &cobra.Command{
		Use:   "exchange",
		Short: "Brokerage simulation backend",
		Long: `exchange runs the trading ledger HTTP API.

Use 'exchange serve' to start the server, 'exchange migrate' to bring the
database schema up to date and 'exchange seed' to load demo data.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.load()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if app.logCloser != nil {
				return app.logCloser.Close()
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().String("db", "", "path to the SQLite database (DB_PATH)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (LOG_LEVEL)")
	_ = app.Viper.BindPFlag("DB_PATH", rootCmd.PersistentFlags().Lookup("db"))
	_ = app.Viper.BindPFlag("LOG_LEVEL", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(newServeCmd(app))
	rootCmd.AddCommand(newMigrateCmd(app))
	rootCmd.AddCommand(newSeedCmd(app))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// load reads the configuration and builds the logger.
func (a *App) load() error {
	cfg, err := config.LoadViper(a.Viper)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, closer, err := logging.NewLogger(logging.Options{
		Level: cfg.Log.Level,
		File:  cfg.Log.File,
		JSON:  cfg.IsProduction(),
	})
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	a.Config = cfg
	a.Logger = logger
	a.logCloser = closer
	return nil
}

// openDatabase opens the configured database and applies pending migrations.
func (a *App) openDatabase(ctx context.Context) (*sql.DB, int64, error) {
	db, err := database.Open(a.Config.Database.Path)
	if err != nil {
		return nil, 0, err
	}

	version, err := database.Migrate(ctx, db)
	if err != nil {
		db.Close()
		return nil, 0, err
	}

	a.Logger.Info().
		Str("path", a.Config.Database.Path).
		Int64("schema_version", version).
		Msg("database ready")
	return db, version, nil
}
