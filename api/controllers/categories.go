package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tokoluma/luma-backend/api/responses"
	category "github.com/tokoluma/luma-backend/internal/categories"
	"github.com/tokoluma/luma-backend/pkg/logger"
)

func CategoryList(svc category.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func CategoryDetail(svc category.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := svc.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
