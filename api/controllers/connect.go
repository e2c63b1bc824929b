package controllers

import (
	"net/http"

	"github.com/trndfy/samplevault-backend/api/responses"
	"github.com/trndfy/samplevault-backend/api/validators"
	"github.com/trndfy/samplevault-backend/internal/connect"
	pkgerrors "github.com/trndfy/samplevault-backend/pkg/errors"
	"github.com/trndfy/samplevault-backend/pkg/logger"
)

// ConnectAuthorize redirects the merchant's browser into the provider's
// account-linking flow. State is the caller's CSRF token, passed through.
func ConnectAuthorize(svc connect.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		state := r.URL.Query().Get("state")
		if state == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "state query parameter required"))
			return
		}

		url, err := svc.AuthorizeURL(state, r.URL.Query().Get("email"))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		http.Redirect(w, r, url, http.StatusFound)
	}
}

type exchangeRequest struct {
	Code  string `json:"code" validate:"required"`
	State string `json:"state"`
}

// ConnectExchange swaps the one-time OAuth code for a persisted account link.
func ConnectExchange(svc connect.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req exchangeRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		linked, err := svc.Exchange(ctx, req.Code, req.State)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, linked)
	}
}
