package wishlist

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	product "github.com/tokoluma/luma-backend/internal/products"
	"github.com/tokoluma/luma-backend/pkg/db"
	"github.com/tokoluma/luma-backend/pkg/db/models"
	pkgerrors "github.com/tokoluma/luma-backend/pkg/errors"
	"github.com/tokoluma/luma-backend/pkg/pagination"
)

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// ServiceParams groups dependencies for the wishlist service.
type ServiceParams struct {
	WishlistRepo *Repository
	ProductRepo  productLoader
}

// Service exposes business rules for wishlist management.
type Service interface {
	List(ctx context.Context, userID uuid.UUID, page pagination.Params) (PageDTO, error)
	ListIDs(ctx context.Context, userID uuid.UUID) (IDsDTO, error)
	AddItem(ctx context.Context, userID, productID uuid.UUID) error
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) error
}

type service struct {
	wishlistRepo *Repository
	productRepo  productLoader
}

// NewService builds a wishlist service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.WishlistRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wishlist repo is required")
	}
	if params.ProductRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product repo is required")
	}
	return &service{
		wishlistRepo: params.WishlistRepo,
		productRepo:  params.ProductRepo,
	}, nil
}

// List returns the paginated wishlist for the user.
func (s *service) List(ctx context.Context, userID uuid.UUID, page pagination.Params) (PageDTO, error) {
	if userID == uuid.Nil {
		return PageDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	rows, nextCursor, err := s.wishlistRepo.ListItems(ctx, userID, page)
	if err != nil {
		return PageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing wishlist")
	}

	items := make([]ItemDTO, 0, len(rows))
	for _, row := range rows {
		if row.Product == nil {
			continue
		}
		items = append(items, ItemDTO{
			Product: product.ToSummary(*row.Product),
			SavedAt: row.CreatedAt,
		})
	}
	return PageDTO{Items: items, NextCursor: nextCursor}, nil
}

// ListIDs returns all saved product IDs for the user.
func (s *service) ListIDs(ctx context.Context, userID uuid.UUID) (IDsDTO, error) {
	if userID == uuid.Nil {
		return IDsDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	ids, err := s.wishlistRepo.ListProductIDs(ctx, userID)
	if err != nil {
		return IDsDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing wishlist ids")
	}
	if ids == nil {
		ids = []uuid.UUID{}
	}
	return IDsDTO{ProductIDs: ids}, nil
}

// AddItem ensures the product exists and saves it. Saving a product twice is
// a conflict, not a silent no-op, so clients can reconcile their state.
func (s *service) AddItem(ctx context.Context, userID, productID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	if _, err := s.wishlistRepo.AddItem(ctx, userID, productID); err != nil {
		if db.IsUniqueViolation(err, "wishlist_items_user_product_key") {
			return pkgerrors.New(pkgerrors.CodeConflict, "product is already in the wishlist")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save wishlist item")
	}
	return nil
}

// RemoveItem drops the wishlist entry; removing an absent entry is not found.
func (s *service) RemoveItem(ctx context.Context, userID, productID uuid.UUID) error {
	if userID == uuid.Nil || productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id and product id are required")
	}

	removed, err := s.wishlistRepo.RemoveItem(ctx, userID, productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove wishlist item")
	}
	if !removed {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product is not in the wishlist")
	}
	return nil
}
