package main

import (
	"chebyshev-board/internal/adapters/repositories"
	"chebyshev-board/internal/config"
	"chebyshev-board/internal/platform/db"
	"chebyshev-board/internal/platform/logging"
	"chebyshev-board/internal/ports"
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// dbtool creates the schema of the configured store and loads the demo boards.
func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config failed", "err", err)
		os.Exit(1)
	}

	log := logging.Init(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat}).
		With(slog.String("component", "dbtool"), slog.String("store", cfg.StoreDriver))

	seedPath := cfg.SeedPath
	if len(os.Args) > 1 {
		seedPath = os.Args[1]
	}

	if err := initAndSeed(context.Background(), cfg, seedPath, log); err != nil {
		log.Error("dbtool failed", "err", err)
		os.Exit(1)
	}
}

func initAndSeed(ctx context.Context, cfg *config.Config, seedPath string, log *slog.Logger) error {
	var (
		conn  *sql.DB
		store ports.WaypointStore
		err   error
	)

	log.Info("initializing database schema")
	if cfg.StoreDriver == "postgres" {
		if conn, err = db.Open(cfg.DatabaseURL); err != nil {
			return err
		}
		defer conn.Close()
		if err := repositories.InitPostgresSchema(conn); err != nil {
			return err
		}
		store = repositories.NewSQLWaypointStore(conn, cfg.WaypointTTL)
	} else {
		if conn, err = db.OpenSQLite(cfg.DBPath); err != nil {
			return err
		}
		defer conn.Close()
		if err := repositories.InitSchema(conn); err != nil {
			return err
		}
		store = repositories.NewSqliteWaypointStore(conn, cfg.WaypointTTL)
	}
	log.Info("schema ready")

	log.Info("seeding demo boards", "path", seedPath)
	if err := repositories.SeedFromJSON(ctx, store, seedPath); err != nil {
		return err
	}
	log.Info("seeding complete")

	return nil
}
