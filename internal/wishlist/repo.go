package wishlist

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tokoluma/luma-backend/pkg/db/models"
	"github.com/tokoluma/luma-backend/pkg/pagination"
)

// Repository encapsulates wishlist persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a wishlist repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// AddItem inserts a wishlist entry. Duplicate inserts surface the unique
// constraint error to the caller.
func (r *Repository) AddItem(ctx context.Context, userID, productID uuid.UUID) (*models.WishlistItem, error) {
	item := &models.WishlistItem{UserID: userID, ProductID: productID}
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// RemoveItem deletes the user-product entry and reports whether it existed.
func (r *Repository) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.WishlistItem{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Contains reports whether the product is already saved.
func (r *Repository) Contains(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.WishlistItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListItems returns one keyset page of the user's saved products with the
// product rows preloaded, newest saves first.
func (r *Repository) ListItems(ctx context.Context, userID uuid.UUID, page pagination.Params) ([]models.WishlistItem, string, error) {
	pageSize := pagination.NormalizeLimit(page.Limit)
	cursor, err := pagination.Decode(page.Cursor)
	if err != nil {
		return nil, "", err
	}

	qb := r.db.WithContext(ctx).
		Model(&models.WishlistItem{}).
		Preload("Product").
		Preload("Product.Category").
		Where("user_id = ?", userID)
	if cursor != nil {
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.WishlistItem
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

// ListProductIDs returns every saved product ID for the user.
func (r *Repository) ListProductIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.WishlistItem{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Pluck("product_id", &ids).
		Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
