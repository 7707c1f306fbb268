package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"

	"orderpad/internal/config"
	"orderpad/internal/db"
	"orderpad/internal/events"
	"orderpad/internal/httpserver"
	"orderpad/internal/pricing"
	"orderpad/internal/repository/kv"
	"orderpad/internal/service/draft"
	"orderpad/internal/service/order"
	"orderpad/internal/session"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()

	var (
		dbpool *pgxpool.Pool
		repo   kv.Repository
		snaps  kv.Snapshots
	)
	if cfg.DBConnString != "" {
		pool, err := db.Connect(ctx, cfg.DBConnString)
		if err != nil {
			logger.Fatalf("connect to db: %v", err)
		}
		defer pool.Close()
		dbpool = pool
		repo = kv.NewPostgres(pool)
		snaps = kv.NewPostgresSnapshots(pool)
	} else {
		logger.Printf("DB_DSN empty, drafts are kept in memory")
		repo = kv.NewMemory()
		snaps = kv.NewMemorySnapshots()
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.AMQPURL != "" {
		p, err := events.NewAMQPPublisher(cfg.AMQPURL)
		if err != nil {
			logger.Fatalf("connect to broker: %v", err)
		}
		defer p.Close()
		publisher = p
	} else {
		logger.Printf("AMQP_URL empty, order events are discarded")
	}

	drafts := draft.New(repo, snaps, logger)
	resolver := pricing.NewClient(cfg.PricingBaseURL, cfg.PricingKey, cfg.PricingTimeout, logger)
	sessions := session.NewManager(resolver, drafts, logger)
	orders := order.New(publisher, logger)

	srv := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		Sessions:       sessions,
		Orders:         orders,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
