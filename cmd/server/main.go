package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"kicks/internal/auth"
	"kicks/internal/config"
	"kicks/internal/handlers"
	"kicks/internal/logging"
	"kicks/internal/models"
	"kicks/internal/storage"

	"github.com/rs/cors"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	db, err := storage.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if cfg.HasSeed() {
		if err := seedAccount(db, cfg, logger); err != nil {
			return err
		}
	}

	h := handlers.NewHandlers(db, logger, cfg.SecureCookie)
	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           setupRouter(h, logger, cfg.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", server.Addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// setupRouter wraps the API with request logging and CORS for the browser
// client, which sends credentials.
func setupRouter(h *handlers.Handlers, logger *zap.Logger, allowedOrigins []string) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
		AllowedHeaders:   []string{"Content-Type", handlers.RequestIDHeader},
		ExposedHeaders:   []string{handlers.RequestIDHeader},
		AllowCredentials: true,
	})
	return c.Handler(handlers.RequestLogger(logger)(h.Routes()))
}

// seedAccount creates the configured account when the database has no
// users yet.
func seedAccount(db *storage.DB, cfg config.Config, logger *zap.Logger) error {
	count, err := db.UserCount()
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	params := models.SignUpParams{
		Name:     strings.TrimSpace(cfg.SeedName),
		Email:    models.NormalizeEmail(cfg.SeedEmail),
		Password: cfg.SeedPassword,
	}
	if errs := params.Validate(); len(errs) > 0 {
		return fmt.Errorf("invalid seed account: %s", strings.Join(errs, "; "))
	}

	hash, err := auth.HashPassword(params.Password)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}
	token, err := auth.GenerateSessionToken()
	if err != nil {
		return fmt.Errorf("generate session token: %w", err)
	}

	user, err := db.CreateUser(params.Name, params.Email, hash, token)
	if err != nil {
		return fmt.Errorf("create seed account: %w", err)
	}
	logger.Info("seed account created", zap.Int64("user_id", user.ID), zap.String("email", user.Email))
	return nil
}
