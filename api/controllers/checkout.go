package controllers

import (
	"net/http"

	"github.com/tokoluma/luma-backend/api/responses"
	"github.com/tokoluma/luma-backend/api/validators"
	"github.com/tokoluma/luma-backend/internal/cart"
	checkoutsvc "github.com/tokoluma/luma-backend/internal/checkout"
	"github.com/tokoluma/luma-backend/pkg/logger"
)

// Checkout turns the request's cart into an order. Requires both a signed-in
// user and the cart profile header.
func Checkout(svc checkoutsvc.Service, manager *cart.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body checkoutsvc.Input
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ledger, err := openLedger(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Execute(r.Context(), userID, ledger, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}
