package main

import (
	"chebyshev-board/internal/adapters/cache"
	"chebyshev-board/internal/adapters/llm"
	"chebyshev-board/internal/adapters/repositories"
	"chebyshev-board/internal/api"
	"chebyshev-board/internal/config"
	"chebyshev-board/internal/i18n"
	"chebyshev-board/internal/platform/db"
	"chebyshev-board/internal/platform/logging"
	"chebyshev-board/internal/ports"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

// main is the application composition root.
// It wires concrete adapters (SQLite/Postgres, Redis, LLM) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config failed", "err", err)
		os.Exit(1)
	}

	log := logging.Init(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
	})

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "err", err)
		_ = logging.Close()
		os.Exit(1)
	}
	_ = logging.Close()
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tr, err := i18n.New(cfg.DefaultLanguage)
	if err != nil {
		return err
	}

	conn, store, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer conn.Close()

	explanationCache, closeCache, err := openCache(ctx, cfg, conn)
	if err != nil {
		return err
	}
	defer closeCache()

	generator, err := newGenerator(cfg, tr)
	if err != nil {
		return err
	}

	router := api.NewRouter(api.RouterDeps{
		Store:          store,
		Cache:          explanationCache,
		Generator:      generator,
		Translator:     tr,
		BoardSize:      cfg.BoardSize,
		ExplanationTTL: cfg.ExplanationTTL,
		Concurrency:    cfg.LLMConcurrency,
	})

	// WriteTimeout leaves room for a cold-cache explanation batch (LLM latency plus retries).
	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening",
			"addr", srv.Addr,
			"store", cfg.StoreDriver,
			"cache", cfg.CacheDriver,
			"llm", cfg.LLMProvider,
			"languages", tr.Supported(),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// openStore opens the configured database, creates the schema and returns the waypoint store.
// The local sqlite database gets any missing demo boards on startup.
func openStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (*sql.DB, ports.WaypointStore, error) {
	switch cfg.StoreDriver {
	case "postgres":
		conn, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := repositories.InitPostgresSchema(conn); err != nil {
			conn.Close()
			return nil, nil, err
		}
		return conn, repositories.NewSQLWaypointStore(conn, cfg.WaypointTTL), nil

	default:
		conn, err := db.OpenSQLite(cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		if err := repositories.InitSchema(conn); err != nil {
			conn.Close()
			return nil, nil, err
		}

		store := repositories.NewSqliteWaypointStore(conn, cfg.WaypointTTL)
		if cfg.SeedPath != "" {
			if err := repositories.SeedFromJSON(ctx, store, cfg.SeedPath); err != nil {
				log.Warn("seed demo boards failed", "path", cfg.SeedPath, "err", err)
			}
		}
		return conn, store, nil
	}
}

// openCache returns the explanation cache selected by CACHE_DRIVER and a func releasing it.
func openCache(ctx context.Context, cfg *config.Config, conn *sql.DB) (ports.ExplanationCache, func(), error) {
	noop := func() {}

	switch cfg.CacheDriver {
	case "none":
		return nil, noop, nil
	case "redis":
		client, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, noop, err
		}
		return cache.NewRedisExplanationCache(client), func() { _ = client.Close() }, nil
	default:
		if cfg.StoreDriver == "postgres" {
			return cache.NewSQLExplanationCache(conn), noop, nil
		}
		return cache.NewSqliteExplanationCache(conn), noop, nil
	}
}

// newGenerator returns the explanation generator selected by LLM_PROVIDER, or nil when disabled.
func newGenerator(cfg *config.Config, tr *i18n.Translator) (ports.ExplanationGenerator, error) {
	switch cfg.LLMProvider {
	case "openai":
		return llm.NewChatExplanationGenerator(llm.ChatConfig{
			BaseURL: cfg.LLMBaseURL,
			APIKey:  cfg.LLMAPIKey,
			Model:   cfg.LLMModel,
			Timeout: cfg.LLMTimeout,
		}, tr)
	case "mock":
		return llm.NewMockExplanationGenerator(tr), nil
	default:
		return nil, nil
	}
}
