package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/trndfy/samplevault-backend/api/responses"
	"github.com/trndfy/samplevault-backend/internal/vault"
	pkgerrors "github.com/trndfy/samplevault-backend/pkg/errors"
	"github.com/trndfy/samplevault-backend/pkg/logger"
)

// Downloads exchanges a paid order id for time-limited signed URLs. The
// opaque order UUID is the access capability; guessing one is guessing a
// v4 UUID.
func Downloads(svc vault.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		orderID, err := uuid.Parse(r.URL.Query().Get("order"))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "order query parameter must be a uuid"))
			return
		}

		items, err := svc.Downloads(ctx, orderID)
		if err != nil {
			typed := pkgerrors.As(err)
			if typed != nil && typed.Code() == pkgerrors.CodeStateConflict {
				// Unpaid orders read as forbidden to the storefront.
				err = pkgerrors.New(pkgerrors.CodeForbidden, "order is not paid")
			}
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"downloads": items})
	}
}

// Vault lists an owner's paid orders by user id, email, or both.
func Vault(svc vault.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var userID *uuid.UUID
		if raw := r.URL.Query().Get("userId"); raw != "" {
			parsed, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "userId must be a uuid"))
				return
			}
			userID = &parsed
		}

		purchases, err := svc.ListPurchases(ctx, userID, r.URL.Query().Get("email"))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"purchases": purchases})
	}
}
