package main

import (
	"context"
	"database/sql"
	"errors"
	"ev-route-service/internal/adapters/repositories"
	"ev-route-service/internal/config"
	"ev-route-service/internal/platform/db"
	"ev-route-service/internal/platform/logging"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var seedPath string

var rootCmd = &cobra.Command{
	Use:           "dbtool",
	Short:         "Manage the EV planner database",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd.Context(), func(ctx context.Context, conn *sql.DB, log *zap.Logger) error {
			log.Info("initializing database schema")
			if err := repositories.InitSchema(ctx, conn); err != nil {
				return err
			}
			log.Info("schema ready")
			return nil
		})
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the schema and load vehicles from a JSON file",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd.Context(), func(ctx context.Context, conn *sql.DB, log *zap.Logger) error {
			if err := repositories.InitSchema(ctx, conn); err != nil {
				return err
			}
			log.Info("seeding vehicles", zap.String("file", seedPath))
			if err := repositories.SeedVehiclesFromJSON(ctx, conn, seedPath); err != nil {
				return err
			}
			log.Info("seeding complete")
			return nil
		})
	},
}

func init() {
	seedCmd.Flags().StringVarP(&seedPath, "file", "f",
		config.Get("SEED_PATH", "data/seeds/vehicles.json"), "vehicle seed file")
	rootCmd.AddCommand(initCmd, seedCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func withDB(ctx context.Context, fn func(context.Context, *sql.DB, *zap.Logger) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if strings.TrimSpace(cfg.Database.URL) == "" {
		return errors.New("database.url is required (set EVR_DATABASE__URL)")
	}

	log, err := logging.New(cfg.Log.Level)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	conn, err := db.Open(cfg.Database.URL)
	if err != nil {
		return err
	}
	defer conn.Close()

	return fn(ctx, conn, log)
}
