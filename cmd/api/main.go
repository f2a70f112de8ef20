package main

import (
	"context"
	"digital-goods-fulfillment/internal/client"
	"digital-goods-fulfillment/internal/config"
	"digital-goods-fulfillment/internal/handler"
	"digital-goods-fulfillment/internal/logger"
	"digital-goods-fulfillment/internal/repository"
	"digital-goods-fulfillment/internal/server"
	"digital-goods-fulfillment/internal/service"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(&cfg.Log, os.Stdout)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("fulfillment server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx := context.Background()

	credentials, err := newCredentialProvider(ctx, &cfg.Actions)
	if err != nil {
		return err
	}

	db, err := client.InitDatabaseClient(&cfg.Database)
	if err != nil {
		return err
	}

	sessionRepo, err := newSessionRepository(ctx, cfg, db)
	if err != nil {
		return err
	}
	eventRepo := repository.NewPurchaseEventRepository(db)

	catalogClient := client.NewCatalogClient(&cfg.Actions, &cfg.Catalog, credentials)
	entitlementClient := client.NewEntitlementClient(&cfg.Actions, credentials)

	purchaseService := service.NewPurchaseService(
		catalogClient,
		entitlementClient,
		eventRepo,
		&cfg.Catalog,
		&cfg.Purchase,
		log,
	)

	srv := server.NewServer(
		handler.NewFulfillmentHandler(purchaseService, sessionRepo, cfg.Purchase.ContextLifespan, log),
		handler.NewPurchaseEventHandler(eventRepo),
		cfg.Webhook.JWTSecret,
		cfg.Webhook.JWTAudience,
		log,
	)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	errCh := make(chan error, 1)
	log.Info("starting HTTP server", "addr", serverAddr, "environment", cfg.Environment.Name)
	go func() {
		if err := srv.Start(serverAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-sigChan:
	}
	log.Info("signal received, starting graceful shutdown")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}

func newCredentialProvider(ctx context.Context, actionsCfg *config.Actions) (client.CredentialProvider, error) {
	key, err := actionsCfg.ServiceAccount()
	if err != nil {
		return nil, err
	}
	if len(key) > 0 {
		return client.NewServiceAccountProvider(ctx, key)
	}
	if actionsCfg.AccessToken != "" {
		return client.NewStaticTokenProvider(actionsCfg.AccessToken), nil
	}
	return nil, errors.New("no Actions API credentials: set ACTIONS_SERVICE_ACCOUNT_FILE or ACTIONS_SERVICE_ACCOUNT_JSON")
}

func newSessionRepository(ctx context.Context, cfg *config.Config, db *gorm.DB) (repository.SessionRepository, error) {
	switch cfg.Session.Store {
	case "redis":
		rdb, err := client.InitRedisClient(ctx, &cfg.Session)
		if err != nil {
			return nil, err
		}
		return repository.NewRedisSessionRepository(rdb, cfg.Session.TTL), nil
	case "database", "":
		return repository.NewSessionRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported session store %q", cfg.Session.Store)
	}
}
