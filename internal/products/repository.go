package product

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tokoluma/luma-backend/pkg/db/models"
	"github.com/tokoluma/luma-backend/pkg/pagination"
)

// ListFilters narrows the storefront product listing.
type ListFilters struct {
	CategorySlug string
	Search       string
	Featured     bool
	// Deals selects products with a strike-through price above the sale price.
	Deals bool
	// IncludeInactive widens the listing for the back office.
	IncludeInactive bool
}

// Repository encapsulates product persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads the product without associations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindBySlug loads the product with its category for the detail page.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		First(&product, "slug = ?", slug).
		Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// Create inserts a new product row.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Update saves the full product row.
func (r *Repository) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes a product by ID.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{}).Error
}

// List returns one keyset page of products, newest first. It fetches one row
// beyond the page size to decide whether a next cursor exists.
func (r *Repository) List(ctx context.Context, filters ListFilters, page pagination.Params) ([]models.Product, string, error) {
	pageSize := pagination.NormalizeLimit(page.Limit)
	cursor, err := pagination.Decode(page.Cursor)
	if err != nil {
		return nil, "", err
	}

	qb := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Preload("Category")

	if !filters.IncludeInactive {
		qb = qb.Where("is_active = ?", true)
	}
	if slug := strings.TrimSpace(filters.CategorySlug); slug != "" {
		qb = qb.Where("category_id IN (?)", r.db.Model(&models.Category{}).Select("id").Where("slug = ?", slug))
	}
	if search := strings.TrimSpace(filters.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		qb = qb.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	if filters.Featured {
		qb = qb.Where("is_featured = ?", true)
	}
	if filters.Deals {
		qb = qb.Where("compare_price IS NOT NULL AND compare_price > price")
	}
	if cursor != nil {
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Product
	err = qb.Order("created_at DESC").Order("id DESC").
		Limit(pageSize + 1).
		Find(&rows).
		Error
	if err != nil {
		return nil, "", err
	}

	nextCursor := ""
	if len(rows) > pageSize {
		rows = rows[:pageSize]
		last := rows[len(rows)-1]
		nextCursor = pagination.Encode(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return rows, nextCursor, nil
}

// DecrementStock atomically reduces stock, refusing to oversell. It returns
// gorm.ErrRecordNotFound when the product is missing or stock is short.
func (r *Repository) DecrementStock(ctx context.Context, id uuid.UUID, quantity int) error {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock >= ?", id, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// RatingSummary aggregates the review average and count for one product.
// A product with no reviews yields a zero average.
func (r *Repository) RatingSummary(ctx context.Context, productID uuid.UUID) (float64, int, error) {
	var row struct {
		Average float64
		Count   int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Where("product_id = ?", productID).
		Scan(&row).
		Error
	if err != nil {
		return 0, 0, err
	}
	return row.Average, int(row.Count), nil
}

// RecentReviews returns the newest reviews for a product with the reviewer
// preloaded for display.
func (r *Repository) RecentReviews(ctx context.Context, productID uuid.UUID, limit int) ([]models.Review, error) {
	if limit <= 0 {
		limit = 10
	}
	var rows []models.Review
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// SlugTaken reports whether another product already uses the slug.
func (r *Repository) SlugTaken(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	var count int64
	qb := r.db.WithContext(ctx).Model(&models.Product{}).Where("slug = ?", slug)
	if excludeID != uuid.Nil {
		qb = qb.Where("id <> ?", excludeID)
	}
	if err := qb.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
