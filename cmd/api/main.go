// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/angelamos/artvia-backend/internal/config"
	"github.com/angelamos/artvia-backend/internal/core"
	"github.com/angelamos/artvia-backend/internal/logging"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "artvia",
	Short: "Artvia marketplace backend",
	Long: `Artvia serves the handmade marketplace REST API and ships the
maintenance commands that go with it: schema migrations, category seeding
and password resets.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load .env: %w", err)
		}
		return nil
	},
}

func init() {
	decimal.MarshalJSONWithoutQuotes = true

	rootCmd.PersistentFlags().StringVar(
		&configPath,
		"config",
		"",
		"path to a YAML config file (environment variables always apply)",
	)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(passwordCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// env is what every command needs before it does real work.
type env struct {
	cfg    *config.Config
	logger *logging.Logger
	db     *core.Database
}

func bootstrap(ctx context.Context) (*env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger := logging.New(ctx, cfg.Log)
	slog.SetDefault(logger.Logger)

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		_ = logger.Close(ctx) //nolint:errcheck // already failing
		return nil, err
	}

	return &env{cfg: cfg, logger: logger, db: db}, nil
}

func (e *env) close(ctx context.Context) {
	if err := e.db.Close(); err != nil {
		e.logger.Error("database close error", "error", err)
	}
	if err := e.logger.Close(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "log sink close error:", err)
	}
}
