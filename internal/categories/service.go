package category

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	pkgerrors "github.com/tokoluma/luma-backend/pkg/errors"
)

// DTO is the category projection returned to clients.
type DTO struct {
	ID           string  `json:"id"`
	Slug         string  `json:"slug"`
	Name         string  `json:"name"`
	Description  *string `json:"description,omitempty"`
	Image        *string `json:"image,omitempty"`
	ProductCount int64   `json:"product_count"`
}

// Service exposes category reads.
type Service interface {
	List(ctx context.Context) ([]DTO, error)
	GetBySlug(ctx context.Context, slug string) (DTO, error)
}

// ServiceParams groups dependencies for the category service.
type ServiceParams struct {
	Repo *Repository
}

type service struct {
	repo *Repository
}

// NewService builds a category service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category repo is required")
	}
	return &service{repo: params.Repo}, nil
}

// List returns every category with its active product count.
func (s *service) List(ctx context.Context) ([]DTO, error) {
	rows, err := s.repo.ListWithCounts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing categories")
	}

	out := make([]DTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, DTO{
			ID:           row.ID.String(),
			Slug:         row.Slug,
			Name:         row.Name,
			Description:  row.Description,
			Image:        row.Image,
			ProductCount: row.ProductCount,
		})
	}
	return out, nil
}

// GetBySlug returns a single category without its count.
func (s *service) GetBySlug(ctx context.Context, slug string) (DTO, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return DTO{}, pkgerrors.New(pkgerrors.CodeValidation, "category slug is required")
	}

	row, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "category not found")
		}
		return DTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading category")
	}
	return DTO{
		ID:          row.ID.String(),
		Slug:        row.Slug,
		Name:        row.Name,
		Description: row.Description,
		Image:       row.Image,
	}, nil
}
