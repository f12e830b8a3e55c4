package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"paguen/internal/config"
	"paguen/internal/events"
	"paguen/internal/service"
	"paguen/internal/storage"
	"paguen/internal/storage/sqlite"
	"paguen/pkg/logging"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	logging.SetupWithLevel(logging.Level(cfg.LogLevel))
	slog.Info("Starting paguen-worker")

	store, err := sqlite.New(cfg.SQLiteDBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.SQLiteDBPath)

	var publisher events.Publisher
	if cfg.AMQPURL != "" {
		client, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPSettledQueue, cfg.AMQPSuggestsQueue)
		if err != nil {
			slog.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer client.Close()
		publisher = client
		slog.Info("AMQP client initialized", "exchange", cfg.AMQPExchange)
	} else {
		slog.Info("AMQP disabled - no AMQP_URL provided")
	}

	balances := service.NewBalanceService(store)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Expose Prometheus metrics alongside the worker loop.
	metricsServer := &http.Server{Addr: cfg.MetricsAddr, Handler: promhttp.Handler()}
	go func() {
		slog.Info("Metrics server listening", "address", cfg.MetricsAddr)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Metrics server failed", "error", err)
		}
	}()

	// One pass at startup so a fresh deployment does not wait a full
	// interval before suggesting anything.
	if err := suggestSettlements(ctx, store, balances, publisher); err != nil {
		slog.Error("Startup settlement pass failed", "error", err)
	}

	ticker := time.NewTicker(cfg.SuggestInterval)
	defer ticker.Stop()

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case <-ticker.C:
			if err := suggestSettlements(ctx, store, balances, publisher); err != nil {
				slog.Error("Settlement pass failed", "error", err)
			}
		}
	}

	slog.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		slog.Warn("Metrics server shutdown failed", "error", err)
	}
	slog.Info("Worker shutdown complete")
}

// suggestSettlements computes the balance of every household and
// publishes netting instructions for the ones where somebody owes
// somebody else.
func suggestSettlements(ctx context.Context, store storage.Store, balances *service.BalanceService, publisher events.Publisher) error {
	households, err := store.ListHouseholds(ctx)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, h := range households {
		g.Go(func() error {
			balance, err := balances.ComputeBalance(gctx, h.ID)
			if err != nil {
				return err
			}
			if len(balance.Instructions) == 0 {
				return nil
			}

			var payments []events.SuggestedPayment
			for from, instructions := range balance.Instructions {
				for _, in := range instructions {
					payments = append(payments, events.SuggestedPayment{
						FromMemberID: from,
						ToMemberID:   in.To,
						Amount:       in.Amount.IntPart(),
					})
				}
			}

			slog.Info("Settlement suggested",
				"household_id", h.ID,
				"payments", len(payments))
			if publisher == nil {
				return nil
			}
			return publisher.PublishSettlementSuggested(gctx, events.NewSettlementSuggestedMessage(h.ID, payments))
		})
	}
	return g.Wait()
}
