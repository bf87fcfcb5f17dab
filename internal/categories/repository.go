package category

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tokoluma/luma-backend/pkg/db/models"
)

// WithCount pairs a category with its active product count.
type WithCount struct {
	ID           uuid.UUID `gorm:"column:id"`
	Slug         string    `gorm:"column:slug"`
	Name         string    `gorm:"column:name"`
	Description  *string   `gorm:"column:description"`
	Image        *string   `gorm:"column:image"`
	ProductCount int64     `gorm:"column:product_count"`
}

// Repository encapsulates category persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID loads a category by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// FindBySlug loads a category by its slug.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// Create inserts a new category row.
func (r *Repository) Create(ctx context.Context, category *models.Category) (*models.Category, error) {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// ListWithCounts returns all categories by name with their active product counts.
func (r *Repository) ListWithCounts(ctx context.Context) ([]WithCount, error) {
	var rows []WithCount
	err := r.db.WithContext(ctx).
		Table("categories c").
		Select("c.*, (SELECT COUNT(*) FROM products p WHERE p.category_id = c.id AND p.is_active = ?) AS product_count", true).
		Order("c.name ASC").
		Scan(&rows).
		Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
