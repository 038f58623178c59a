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

	"github.com/hotelier/booking-saga/internal/booking-api/infra/adapters/store"
	"github.com/hotelier/booking-saga/internal/booking-api/infra/httpx"
	"github.com/hotelier/booking-saga/internal/coordinator"
	"github.com/hotelier/booking-saga/internal/coordinator/sagalog"
	sagasqlite "github.com/hotelier/booking-saga/internal/coordinator/sagalog/sqlite"
	"github.com/hotelier/booking-saga/internal/docstore"
	"github.com/hotelier/booking-saga/internal/pkg/cache"
	"github.com/hotelier/booking-saga/internal/pkg/telemetry"
)

func main() {
	// .env is a local-dev convenience; absence is not an error.
	_ = godotenv.Load()

	telemetry.InitLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.SetupTracer(ctx, getEnv("OTEL_SERVICE_NAME", "booking-api"))
	if err != nil {
		slog.Error("failed to initialise tracer", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			slog.Error("tracer shutdown error", "error", err)
		}
	}()

	docs := docstore.New(getEnv("STORE_URL", "http://localhost:3000"))

	redisCache := cache.NewRedisCache(getEnv("REDIS_ADDR", "localhost:6379"), "booking")

	// The saga log is an audit trail, not a dependency of the booking flow:
	// if it cannot be opened the service still boots, minus the status
	// endpoint and the durable trail.
	var logRepo sagalog.Repository
	sagaDB, err := sagasqlite.Open(getEnv("SAGA_DB_PATH", "./data/saga.db"))
	if err != nil {
		slog.Warn("saga log unavailable, continuing without it", "error", err)
	} else {
		defer sagaDB.Close()
		logRepo = sagaDB
	}

	hotels := store.NewHotels(docs, redisCache)
	reservations := store.NewReservations(docs, hotels)
	transactions := store.NewTransactions(docs)

	saga := coordinator.New(reservations, transactions, logRepo)
	handler := httpx.NewHandler(saga, reservations, hotels, logRepo, redisCache)

	addr := ":" + getEnv("PORT", "8080")
	server := &http.Server{
		Addr:    addr,
		Handler: httpx.NewRouter(handler),
	}

	go func() {
		slog.Info("booking API running", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("http shutdown error", "error", err)
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
