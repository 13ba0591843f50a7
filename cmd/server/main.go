package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mmuslimabdulj/roomchat/internal/auth"
	"github.com/mmuslimabdulj/roomchat/internal/config"
	httpHandler "github.com/mmuslimabdulj/roomchat/internal/delivery/http"
	"github.com/mmuslimabdulj/roomchat/internal/delivery/ws"
	"github.com/mmuslimabdulj/roomchat/internal/logging"
	"github.com/mmuslimabdulj/roomchat/internal/middleware"
	"github.com/mmuslimabdulj/roomchat/internal/storage"
	"github.com/mmuslimabdulj/roomchat/internal/usecase"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	if cfg.UsesDevSecret() {
		logger.Warn("SESSION_SECRET is the development default; set it before deploying")
	}

	store, err := storage.Open(storage.Options{Path: cfg.DBPath, InMemory: cfg.DBInMemory}, logger)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("close storage", "error", err)
		}
	}()

	// Initialize dependencies
	hub := ws.NewHub(store, ws.Options{
		MaxMessageSize: cfg.MaxMessageSize,
		SendBufferSize: cfg.SendBufferSize,
		MessageRate:    config.Limit(cfg.RateLimitMessages),
		MessageBurst:   cfg.MessageBurst,
	}, logger)

	secret := []byte(cfg.SessionSecret)
	sessions := auth.NewSessionManager(secret, cfg.SessionTTL, cfg.SecureCookies)
	tokens := auth.NewTokenIssuer(secret, cfg.TokenTTL)

	handler := httpHandler.NewHandler(httpHandler.Deps{
		Accounts:       usecase.NewAccountService(store, logger),
		Rooms:          usecase.NewRoomService(store, store, hub, logger),
		Hub:            hub,
		Identity:       auth.NewIdentityProvider(store, sessions, tokens),
		Sessions:       sessions,
		Tokens:         tokens,
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         logger,
	})

	limits := middleware.NewLimiters(
		config.Limit(cfg.RateLimitAPI),
		config.Limit(cfg.RateLimitWS),
		config.Limit(cfg.RateLimitStrict),
	)
	defer limits.Stop()

	// WriteTimeout stays zero: hijacked websocket connections manage their own deadlines
	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler.Routes(limits),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("roomchat listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Stop accepting first. The server does not track hijacked websockets,
	// so the hub closes those afterwards and refuses any late upgrade.
	err = server.Shutdown(shutdownCtx)
	hub.Shutdown()
	if err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	logger.Info("server exited gracefully")
	return nil
}
