package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/trndfy/samplevault-backend/api/responses"
	"github.com/trndfy/samplevault-backend/api/validators"
	"github.com/trndfy/samplevault-backend/internal/checkout"
	pkgerrors "github.com/trndfy/samplevault-backend/pkg/errors"
	"github.com/trndfy/samplevault-backend/pkg/logger"
)

type checkoutRequest struct {
	Email  string              `json:"email"`
	UserID *uuid.UUID          `json:"userId,omitempty"`
	Items  []checkout.CartItem `json:"items"`
}

// CheckoutStart creates the order and returns the hosted payment URL. The
// storefront renders validation failures verbatim, so those are plain text
// rather than the JSON envelope.
func CheckoutStart(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req checkoutRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WritePlainError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		result, err := svc.Start(ctx, checkout.StartParams{
			Email:  req.Email,
			UserID: req.UserID,
			Items:  req.Items,
		})
		if err != nil {
			typed := pkgerrors.As(err)
			if typed != nil && typed.Code() == pkgerrors.CodeValidation {
				responses.WritePlainError(w, http.StatusBadRequest, typed.Message())
				return
			}
			if logg != nil {
				logg.Error(ctx, "checkout failed", err)
			}
			responses.WritePlainError(w, http.StatusInternalServerError, "Checkout failed")
			return
		}

		// This endpoint's whole contract is envelope-free: plain-text errors
		// and a bare JSON body on success.
		responses.WriteBare(w, map[string]string{
			"url":     result.URL,
			"orderId": result.OrderID.String(),
		})
	}
}

// CheckoutStatus reports an order's payment state for post-redirect polling.
func CheckoutStatus(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		orderID, err := uuid.Parse(r.URL.Query().Get("order"))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "order query parameter must be a uuid"))
			return
		}

		status, err := svc.Status(ctx, orderID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, status)
	}
}
