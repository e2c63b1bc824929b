package webhooks

import (
	"context"
	"io"
	"net/http"

	"github.com/trndfy/samplevault-backend/api/responses"
	"github.com/trndfy/samplevault-backend/pkg/logger"
	"github.com/trndfy/samplevault-backend/pkg/stripeconnect"
)

const signatureHeader = "Stripe-Signature"

type eventHandler interface {
	HandleEvent(ctx context.Context, event *stripeconnect.Event) error
}

type idempotencyGuard interface {
	CheckAndMark(ctx context.Context, eventID string) (bool, error)
	Delete(ctx context.Context, eventID string) error
}

type signingSecretSource interface {
	SigningSecret() string
}

// Stripe receives provider events. The contract with the provider is blunt:
// 200 "ok" for anything verified (including types we ignore and orders we
// do not know), 400 for a bad signature, 5xx only when we want redelivery.
func Stripe(svc eventHandler, secrets signingSecretSource, guard idempotencyGuard, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		secret := ""
		if secrets != nil {
			secret = secrets.SigningSecret()
		}
		if secret == "" {
			logError(ctx, logg, "webhook signing secret not configured", nil)
			responses.WritePlainError(w, http.StatusInternalServerError, "Webhook secret not configured")
			return
		}

		payload, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
		if err != nil {
			logError(ctx, logg, "read webhook body", err)
			responses.WritePlainError(w, http.StatusBadRequest, "Bad request body")
			return
		}

		event, err := stripeconnect.ConstructEvent(payload, r.Header.Get(signatureHeader), secret)
		if err != nil {
			logError(ctx, logg, "webhook rejected", err)
			responses.WritePlainError(w, http.StatusBadRequest, "Bad signature")
			return
		}

		if guard != nil && event.ID != "" {
			seen, err := guard.CheckAndMark(ctx, event.ID)
			if err != nil {
				logError(ctx, logg, "idempotency check", err)
				responses.WritePlainError(w, http.StatusServiceUnavailable, "Temporarily unavailable")
				return
			}
			if seen {
				responses.WritePlainOK(w)
				return
			}
		}

		if err := svc.HandleEvent(ctx, event); err != nil {
			// Unmark so the provider's retry is not swallowed.
			if guard != nil && event.ID != "" {
				if delErr := guard.Delete(ctx, event.ID); delErr != nil {
					logError(ctx, logg, "idempotency rollback", delErr)
				}
			}
			logError(ctx, logg, "webhook processing failed", err)
			responses.WritePlainError(w, http.StatusInternalServerError, "Processing failed")
			return
		}

		responses.WritePlainOK(w)
	}
}

func logError(ctx context.Context, logg *logger.Logger, msg string, err error) {
	if logg == nil {
		return
	}
	logg.Error(ctx, msg, err)
}
