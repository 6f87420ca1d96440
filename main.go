package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/LovationAdmin/expense-api/config"
	"github.com/LovationAdmin/expense-api/events"
	"github.com/LovationAdmin/expense-api/handlers"
	"github.com/LovationAdmin/expense-api/middleware"
	"github.com/LovationAdmin/expense-api/migration"
	"github.com/LovationAdmin/expense-api/routes"
	"github.com/LovationAdmin/expense-api/services"
	"github.com/LovationAdmin/expense-api/store"
	"github.com/LovationAdmin/expense-api/utils"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "backfill-legacy" {
		if err := backfill(); err != nil {
			slog.Error("Backfill failed", "error", err)
			os.Exit(1)
		}
		return
	}

	if err := run(); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

// backfill upgrades documents written by the previous service, then exits.
func backfill() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	utils.IsProduction = utils.IsProduction || cfg.IsProduction()
	utils.SetupLogger()

	if cfg.StoreBackend != config.BackendMongo {
		return fmt.Errorf("backfill-legacy needs STORE_BACKEND=mongo, got %s", cfg.StoreBackend)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return err
	}
	defer st.Close()

	stats, err := migration.BackfillLegacyExpenses(ctx, st.Collection())
	if err != nil {
		return err
	}
	if stats.Failed > 0 {
		return fmt.Errorf("%d user documents could not be migrated", stats.Failed)
	}
	return nil
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	utils.IsProduction = utils.IsProduction || cfg.IsProduction()
	utils.SetupLogger()
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	utils.LogStartup("expense-api", handlers.Version, cfg.Port)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()
	slog.Info("Store connected", "backend", cfg.StoreBackend)

	generator := services.NewTextGenerator(ctx, cfg.LLM)
	if c, ok := generator.(io.Closer); ok {
		defer c.Close()
	}
	extractor := services.NewExtractor(generator, cfg.LLM.ExtractionTimeout)

	ws := handlers.NewWSHandler()
	defer ws.Close()
	notifiers := []services.Notifier{ws}

	if cfg.AMQPURL != "" {
		publisher, err := events.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPRoutingKey)
		if err != nil {
			return fmt.Errorf("failed to connect to AMQP: %w", err)
		}
		defer publisher.Close()
		notifiers = append(notifiers, publisher)
		slog.Info("Publishing expense events", "exchange", cfg.AMQPExchange, "routing_key", cfg.AMQPRoutingKey)
	}

	ledger := services.NewLedgerService(st, extractor, notifiers...)

	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
	limiter.StartCleanup(ctx)

	router := routes.NewRouter(routes.Dependencies{
		Ledger:         ledger,
		WS:             ws,
		RateLimiter:    limiter,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.StoreBackend {
	case config.BackendMongo:
		return store.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
	case config.BackendMemory:
		slog.Warn("Using in-memory store, expenses are lost on restart")
		return store.NewMemoryStore(), nil
	default:
		db, dialect, err := config.InitDB(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := config.RunMigrations(db, dialect); err != nil {
			db.Close()
			return nil, err
		}
		return store.NewSQLStore(db, store.Dialect(dialect)), nil
	}
}
