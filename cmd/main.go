package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anzzxx/E-lern-backend/config"
	"github.com/anzzxx/E-lern-backend/internal/auth"
	"github.com/anzzxx/E-lern-backend/internal/postgres"
	"github.com/anzzxx/E-lern-backend/internal/room"
	"github.com/anzzxx/E-lern-backend/internal/service"
	httpx "github.com/anzzxx/E-lern-backend/internal/transport/http"
	"github.com/anzzxx/E-lern-backend/internal/transport/ws"
	"github.com/anzzxx/E-lern-backend/pkg/logger"
)

func main() {
	// --- config ---
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger.Init(logger.Config{
		Env:       logger.Env(cfg.Logging.Env),
		Service:   cfg.Logging.Service,
		Version:   cfg.Logging.Version,
		Backend:   logger.Backend(cfg.Logging.Backend),
		AddSource: cfg.Logging.AddSource,
		Debug:     cfg.Logging.Debug,
	})
	slog.Info("starting realtime-service",
		"env", cfg.Logging.Env, "version", cfg.Logging.Version)

	// --- postgres ---
	ctx := context.Background()
	db, err := postgres.New(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer db.Close()

	// --- repos ---
	msgRepo := postgres.NewMessageRepository(db.Pool)
	userRepo := postgres.NewUserRepository(db.Pool)

	// --- coordinator core ---
	registry := room.NewRegistry()
	bc := room.NewBroadcaster()
	router := room.NewRouter(bc)

	// --- services ---
	verifier := auth.NewTokenVerifier(cfg.Auth.JWTSecret, userRepo)
	commentSvc := service.NewCommentService(msgRepo, userRepo)
	notifySvc := service.NewNotificationService(registry, bc)

	// --- WS & HTTP ---
	wsServer := ws.NewServer(registry, bc, router, verifier, commentSvc)
	handler := httpx.NewHandler(msgRepo, notifySvc)
	httpSrv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      httpx.NewRouter(handler, wsServer),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 0, // WS-соединения живут дольше любого таймаута записи
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http listen", "addr", cfg.HTTP.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// --- graceful shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal", "sig", sig)
	case err := <-errCh:
		slog.Error("server error", "err", err)
	}

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = httpSrv.Shutdown(ctxShutdown)
	slog.Info("stopped")
}
