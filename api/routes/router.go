package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/trndfy/samplevault-backend/api/controllers"
	webhookcontrollers "github.com/trndfy/samplevault-backend/api/controllers/webhooks"
	"github.com/trndfy/samplevault-backend/api/middleware"
	checkoutsvc "github.com/trndfy/samplevault-backend/internal/checkout"
	connectsvc "github.com/trndfy/samplevault-backend/internal/connect"
	vaultsvc "github.com/trndfy/samplevault-backend/internal/vault"
	stripewebhook "github.com/trndfy/samplevault-backend/internal/webhooks/stripe"
	"github.com/trndfy/samplevault-backend/pkg/config"
	"github.com/trndfy/samplevault-backend/pkg/db"
	"github.com/trndfy/samplevault-backend/pkg/logger"
	"github.com/trndfy/samplevault-backend/pkg/redis"
	"github.com/trndfy/samplevault-backend/pkg/storage/gcs"
	"github.com/trndfy/samplevault-backend/pkg/stripeconnect"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	gcsP gcs.Pinger,
	checkoutService checkoutsvc.Service,
	vaultService vaultsvc.Service,
	connectService connectsvc.Service,
	stripeClient *stripeconnect.Client,
	webhookService *stripewebhook.Service,
	webhookGuard *stripewebhook.IdempotencyGuard,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP, gcsP))
	})

	r.Post("/checkout", controllers.CheckoutStart(checkoutService, logg))
	r.Get("/checkout/status", controllers.CheckoutStatus(checkoutService, logg))

	r.Post("/webhook", webhookcontrollers.Stripe(webhookService, stripeClient, webhookGuard, logg))

	r.Get("/downloads", controllers.Downloads(vaultService, logg))

	r.Route("/connect", func(r chi.Router) {
		r.Get("/authorize", controllers.ConnectAuthorize(connectService, logg))
		r.Post("/exchange", controllers.ConnectExchange(connectService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/catalog", controllers.Catalog(cfg.GCS.PreviewBucket))
		r.Get("/vault", controllers.Vault(vaultService, logg))
	})

	return r
}
