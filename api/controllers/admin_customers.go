package controllers

import (
	"net/http"

	"github.com/tokoluma/luma-backend/api/responses"
	"github.com/tokoluma/luma-backend/api/validators"
	"github.com/tokoluma/luma-backend/internal/users"
	"github.com/tokoluma/luma-backend/pkg/logger"
)

func AdminCustomerList(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListCustomers(r.Context(), page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
