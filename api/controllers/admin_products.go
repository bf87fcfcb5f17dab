package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tokoluma/luma-backend/api/responses"
	"github.com/tokoluma/luma-backend/api/validators"
	product "github.com/tokoluma/luma-backend/internal/products"
	pkgerrors "github.com/tokoluma/luma-backend/pkg/errors"
	"github.com/tokoluma/luma-backend/pkg/logger"
)

type createProductRequest struct {
	CategoryID   uuid.UUID `json:"category_id" validate:"required"`
	Slug         string    `json:"slug" validate:"required,min=2,max=160"`
	Name         string    `json:"name" validate:"required,min=2,max=200"`
	Description  *string   `json:"description" validate:"omitempty,max=10000"`
	Price        int64     `json:"price" validate:"gte=0"`
	ComparePrice *int64    `json:"compare_price" validate:"omitempty,gte=0"`
	Images       []string  `json:"images" validate:"omitempty,dive,url"`
	Stock        int       `json:"stock" validate:"gte=0"`
	IsFeatured   bool      `json:"is_featured"`
	IsActive     bool      `json:"is_active"`
}

type updateProductRequest struct {
	CategoryID   *uuid.UUID `json:"category_id"`
	Slug         *string    `json:"slug" validate:"omitempty,min=2,max=160"`
	Name         *string    `json:"name" validate:"omitempty,min=2,max=200"`
	Description  *string    `json:"description" validate:"omitempty,max=10000"`
	Price        *int64     `json:"price" validate:"omitempty,gte=0"`
	ComparePrice *int64     `json:"compare_price" validate:"omitempty,gte=0"`
	ClearCompare bool       `json:"clear_compare"`
	Images       []string   `json:"images" validate:"omitempty,dive,url"`
	Stock        *int       `json:"stock" validate:"omitempty,gte=0"`
	IsFeatured   *bool      `json:"is_featured"`
	IsActive     *bool      `json:"is_active"`
}

func parseProductID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid product id")
	}
	return id, nil
}

// AdminProductList widens the catalog listing to inactive rows for the back
// office.
func AdminProductList(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := product.ListFilters{
			CategorySlug:    strings.TrimSpace(r.URL.Query().Get("category")),
			Search:          strings.TrimSpace(r.URL.Query().Get("search")),
			IncludeInactive: true,
		}

		result, err := svc.List(r.Context(), filters, page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func AdminProductCreate(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.Create(r.Context(), product.CreateInput{
			CategoryID:   body.CategoryID,
			Slug:         body.Slug,
			Name:         body.Name,
			Description:  body.Description,
			Price:        body.Price,
			ComparePrice: body.ComparePrice,
			Images:       body.Images,
			Stock:        body.Stock,
			IsFeatured:   body.IsFeatured,
			IsActive:     body.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, detail)
	}
}

func AdminProductUpdate(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseProductID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.Update(r.Context(), id, product.UpdateInput{
			CategoryID:   body.CategoryID,
			Slug:         body.Slug,
			Name:         body.Name,
			Description:  body.Description,
			Price:        body.Price,
			ComparePrice: body.ComparePrice,
			ClearCompare: body.ClearCompare,
			Images:       body.Images,
			Stock:        body.Stock,
			IsFeatured:   body.IsFeatured,
			IsActive:     body.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

func AdminProductDelete(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseProductID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
