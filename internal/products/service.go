package product

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tokoluma/luma-backend/pkg/db/models"
	pkgerrors "github.com/tokoluma/luma-backend/pkg/errors"
	"github.com/tokoluma/luma-backend/pkg/pagination"
)

// recentReviewLimit caps how many reviews ride along on the detail page.
const recentReviewLimit = 10

// Service exposes catalog reads and the admin product CRUD.
type Service interface {
	List(ctx context.Context, filters ListFilters, page pagination.Params) (Page, error)
	GetBySlug(ctx context.Context, slug string) (Detail, error)
	Create(ctx context.Context, input CreateInput) (Detail, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (Detail, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CreateInput carries a new product from the admin surface.
type CreateInput struct {
	CategoryID   uuid.UUID
	Slug         string
	Name         string
	Description  *string
	Price        int64
	ComparePrice *int64
	Images       []string
	Stock        int
	IsFeatured   bool
	IsActive     bool
}

// UpdateInput patches an existing product; nil fields are left untouched.
type UpdateInput struct {
	CategoryID   *uuid.UUID
	Slug         *string
	Name         *string
	Description  *string
	Price        *int64
	ComparePrice *int64
	ClearCompare bool
	Images       []string
	Stock        *int
	IsFeatured   *bool
	IsActive     *bool
}

type categoryLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
}

// ServiceParams groups dependencies for the product service.
type ServiceParams struct {
	Repo       *Repository
	Categories categoryLoader
}

type service struct {
	repo       *Repository
	categories categoryLoader
}

// NewService builds a product service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product repo is required")
	}
	if params.Categories == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category loader is required")
	}
	return &service{repo: params.Repo, categories: params.Categories}, nil
}

// List returns one page of product summaries for the storefront or admin.
func (s *service) List(ctx context.Context, filters ListFilters, page pagination.Params) (Page, error) {
	rows, nextCursor, err := s.repo.List(ctx, filters, page)
	if err != nil {
		return Page{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing products")
	}

	items := make([]Summary, 0, len(rows))
	for _, row := range rows {
		items = append(items, toSummary(row))
	}
	return Page{Items: items, NextCursor: nextCursor}, nil
}

// GetBySlug returns the active product detail for the storefront page.
func (s *service) GetBySlug(ctx context.Context, slug string) (Detail, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return Detail{}, pkgerrors.New(pkgerrors.CodeValidation, "product slug is required")
	}

	row, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Detail{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return Detail{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading product")
	}
	if !row.IsActive {
		return Detail{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	detail := toDetail(*row)
	average, count, err := s.repo.RatingSummary(ctx, row.ID)
	if err != nil {
		return Detail{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregating reviews")
	}
	detail.RatingAverage = average
	detail.ReviewCount = count
	if count > 0 {
		reviews, err := s.repo.RecentReviews(ctx, row.ID, recentReviewLimit)
		if err != nil {
			return Detail{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading reviews")
		}
		for _, review := range reviews {
			detail.Reviews = append(detail.Reviews, toReviewEntry(review))
		}
	}
	return detail, nil
}

// Create validates and inserts a new product.
func (s *service) Create(ctx context.Context, input CreateInput) (Detail, error) {
	input.Slug = strings.TrimSpace(input.Slug)
	input.Name = strings.TrimSpace(input.Name)
	if err := s.validateCore(ctx, input.CategoryID, input.Slug, input.Name, input.Price, input.ComparePrice, input.Stock, uuid.Nil); err != nil {
		return Detail{}, err
	}

	row := &models.Product{
		CategoryID:   input.CategoryID,
		Slug:         input.Slug,
		Name:         input.Name,
		Description:  input.Description,
		Price:        input.Price,
		ComparePrice: input.ComparePrice,
		Images:       input.Images,
		Stock:        input.Stock,
		IsFeatured:   input.IsFeatured,
		IsActive:     input.IsActive,
	}
	if _, err := s.repo.Create(ctx, row); err != nil {
		return Detail{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating product")
	}
	return toDetail(*row), nil
}

// Update applies a partial patch to a product.
func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (Detail, error) {
	if id == uuid.Nil {
		return Detail{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Detail{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return Detail{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading product")
	}

	if input.CategoryID != nil {
		row.CategoryID = *input.CategoryID
	}
	if input.Slug != nil {
		row.Slug = strings.TrimSpace(*input.Slug)
	}
	if input.Name != nil {
		row.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		row.Description = input.Description
	}
	if input.Price != nil {
		row.Price = *input.Price
	}
	if input.ClearCompare {
		row.ComparePrice = nil
	} else if input.ComparePrice != nil {
		row.ComparePrice = input.ComparePrice
	}
	if input.Images != nil {
		row.Images = input.Images
	}
	if input.Stock != nil {
		row.Stock = *input.Stock
	}
	if input.IsFeatured != nil {
		row.IsFeatured = *input.IsFeatured
	}
	if input.IsActive != nil {
		row.IsActive = *input.IsActive
	}

	if err := s.validateCore(ctx, row.CategoryID, row.Slug, row.Name, row.Price, row.ComparePrice, row.Stock, row.ID); err != nil {
		return Detail{}, err
	}

	if _, err := s.repo.Update(ctx, row); err != nil {
		return Detail{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating product")
	}
	return toDetail(*row), nil
}

// Delete removes a product from the catalog.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading product")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting product")
	}
	return nil
}

func (s *service) validateCore(ctx context.Context, categoryID uuid.UUID, slug, name string, price int64, comparePrice *int64, stock int, excludeID uuid.UUID) error {
	if slug == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product slug is required")
	}
	if name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if price < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if comparePrice != nil && *comparePrice < price {
		return pkgerrors.New(pkgerrors.CodeValidation, "compare price must be at least the sale price")
	}
	if stock < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}
	if categoryID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "category id is required")
	}

	if _, err := s.categories.FindByID(ctx, categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "category does not exist")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading category")
	}

	taken, err := s.repo.SlugTaken(ctx, slug, excludeID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checking slug")
	}
	if taken {
		return pkgerrors.New(pkgerrors.CodeConflict, "product slug is already in use")
	}
	return nil
}
