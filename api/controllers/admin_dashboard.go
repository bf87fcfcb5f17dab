package controllers

import (
	"net/http"

	"github.com/tokoluma/luma-backend/api/responses"
	"github.com/tokoluma/luma-backend/internal/dashboard"
	"github.com/tokoluma/luma-backend/pkg/logger"
)

func AdminDashboard(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := svc.Stats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}
