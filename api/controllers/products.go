package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tokoluma/luma-backend/api/responses"
	"github.com/tokoluma/luma-backend/api/validators"
	product "github.com/tokoluma/luma-backend/internal/products"
	"github.com/tokoluma/luma-backend/pkg/logger"
)

// ProductList serves the storefront catalog listing with filters and cursor
// pagination.
func ProductList(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		featured, err := validators.ParseQueryBool(r, "featured")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		deals, err := validators.ParseQueryBool(r, "deals")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := product.ListFilters{
			CategorySlug: strings.TrimSpace(r.URL.Query().Get("category")),
			Search:       strings.TrimSpace(r.URL.Query().Get("search")),
			Featured:     featured,
			Deals:        deals,
		}

		result, err := svc.List(r.Context(), filters, page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// ProductDetail serves the product page payload by slug.
func ProductDetail(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		detail, err := svc.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}
