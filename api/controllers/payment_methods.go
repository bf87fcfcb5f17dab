package controllers

import (
	"net/http"

	"github.com/tokoluma/luma-backend/api/responses"
	"github.com/tokoluma/luma-backend/internal/payment"
)

// PaymentMethods serves the static payment catalog shown at checkout.
func PaymentMethods() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]any{"methods": payment.Catalog()})
	}
}
