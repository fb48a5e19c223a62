package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdg-garage/flight-booking-api/internal/auth"
	"github.com/gdg-garage/flight-booking-api/internal/booking"
	"github.com/gdg-garage/flight-booking-api/internal/config"
	"github.com/gdg-garage/flight-booking-api/internal/database"
	"github.com/gdg-garage/flight-booking-api/internal/handlers"
	"github.com/gdg-garage/flight-booking-api/internal/logging"
	"github.com/gdg-garage/flight-booking-api/internal/metrics"
	"github.com/gdg-garage/flight-booking-api/internal/notifier"
	"github.com/gdg-garage/flight-booking-api/internal/pricing"
	"github.com/gdg-garage/flight-booking-api/internal/session"
	"github.com/gdg-garage/flight-booking-api/internal/store"
	"github.com/go-chi/chi/v5"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logging.Init(cfg.AppEnv); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logging.Close()

	// Connect to Database
	db, err := database.Connect(cfg)
	if err != nil {
		logging.Fatal("Failed to connect to database", "error", err.Error())
	}
	s := store.New(db)

	sessions := newSessionStore(ctx, cfg)
	reg := metrics.NewRegistry()

	opts := []booking.Option{booking.WithMetrics(reg)}
	discordNotifier, err := notifier.FromConfig(cfg)
	if err != nil {
		logging.Warn("Discord notifier not initialized", "error", err.Error())
	} else if discordNotifier != nil {
		opts = append(opts, booking.WithNotifier(discordNotifier))
	}

	// Initialize Handlers
	authHandler := auth.NewAuthHandler(cfg, s, sessions, reg)
	flightHandler := handlers.NewFlightHandler(s, store.NewAirportCache(s, 10*time.Minute), sessions, pricing.SystemClock)
	bookingHandler := handlers.NewBookingHandler(s, booking.NewManager(s, opts...), sessions, authHandler)

	r := chi.NewRouter()
	handlers.RegisterRoutes(r, cfg, reg, authHandler, flightHandler, bookingHandler)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logging.Info("Starting server", "port", cfg.Port, "env", cfg.AppEnv, "sessions", cfg.SessionBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("Failed to start server", "error", err.Error())
		}
	}()

	<-ctx.Done()
	logging.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error("Graceful shutdown failed", "error", err.Error())
	}
}

// newSessionStore picks the configured backend. An unreachable redis falls
// back to memory so a single instance still serves.
func newSessionStore(ctx context.Context, cfg *config.Config) session.Store {
	if cfg.SessionBackend == "redis" {
		client, err := session.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err == nil {
			return session.NewRedisStore(client, cfg.SessionTTL)
		}
		logging.Warn("Redis unavailable, keeping sessions in memory", "addr", cfg.RedisAddr, "error", err.Error())
	}
	return session.NewMemoryStore(cfg.SessionTTL)
}
