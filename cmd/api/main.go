package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/trndfy/samplevault-backend/api/routes"
	"github.com/trndfy/samplevault-backend/internal/checkout"
	"github.com/trndfy/samplevault-backend/internal/connect"
	"github.com/trndfy/samplevault-backend/internal/orders"
	"github.com/trndfy/samplevault-backend/internal/vault"
	stripewebhook "github.com/trndfy/samplevault-backend/internal/webhooks/stripe"
	"github.com/trndfy/samplevault-backend/pkg/config"
	"github.com/trndfy/samplevault-backend/pkg/db"
	"github.com/trndfy/samplevault-backend/pkg/env"
	"github.com/trndfy/samplevault-backend/pkg/logger"
	"github.com/trndfy/samplevault-backend/pkg/mailer"
	"github.com/trndfy/samplevault-backend/pkg/migrate"
	"github.com/trndfy/samplevault-backend/pkg/redis"
	"github.com/trndfy/samplevault-backend/pkg/storage/gcs"
	"github.com/trndfy/samplevault-backend/pkg/stripeconnect"
)

// Processed webhook event ids are remembered long enough to outlast the
// provider's retry schedule.
const webhookIdempotencyTTL = 24 * time.Hour

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	gcsClient, err := gcs.NewClient(context.Background(), cfg.GCS, cfg.GCP, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap storage", err)
		os.Exit(1)
	}

	mailClient, err := mailer.NewClient(context.Background(), cfg.Mail, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap mailer", err)
		os.Exit(1)
	}

	stripeClient, err := stripeconnect.NewClient(context.Background(), stripeconnect.Config{
		SecretKey:     cfg.Stripe.SecretKey,
		ClientID:      cfg.Stripe.ClientID,
		WebhookSecret: cfg.Stripe.WebhookSecret,
		Environment:   cfg.Stripe.Environment(),
	}, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap stripe client", err)
		os.Exit(1)
	}

	ordersRepo := orders.NewRepository(dbClient.DB())

	checkoutService, err := checkout.NewService(ordersRepo, dbClient, stripeClient, checkout.URLs{
		Success: cfg.Checkout.SuccessURL,
		Cancel:  cfg.Checkout.CancelURL,
	}, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	vaultService, err := vault.NewService(vault.ServiceParams{
		Orders:    ordersRepo,
		Signer:    gcsClient,
		URLExpiry: cfg.GCS.DownloadURLExpiry,
		Logger:    logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create vault service", err)
		os.Exit(1)
	}

	connectService, err := connect.NewService(connect.ServiceParams{
		Repo:        connect.NewRepository(dbClient.DB()),
		OAuth:       stripeClient,
		RedirectURI: cfg.Stripe.ConnectRedirectURI,
		Logger:      logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create connect service", err)
		os.Exit(1)
	}

	webhookService, err := stripewebhook.NewService(stripewebhook.ServiceParams{
		Orders:   ordersRepo,
		Mailer:   mailClient,
		VaultURL: cfg.Checkout.VaultURL,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook service", err)
		os.Exit(1)
	}

	webhookGuard, err := stripewebhook.NewIdempotencyGuard(redisClient, webhookIdempotencyTTL, "stripe-webhook")
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook guard", err)
		os.Exit(1)
	}

	// Cloud Run style: the platform's PORT wins over configured port.
	addr := ":" + env.Get("PORT", cfg.App.Port)
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			gcsClient,
			checkoutService,
			vaultService,
			connectService,
			stripeClient,
			webhookService,
			webhookGuard,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
