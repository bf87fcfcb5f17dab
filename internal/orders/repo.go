package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tokoluma/luma-backend/pkg/db/models"
	"github.com/tokoluma/luma-backend/pkg/enums"
	"github.com/tokoluma/luma-backend/pkg/pagination"
)

// ListFilters narrows the back-office order listing.
type ListFilters struct {
	Status enums.OrderStatus
}

// Repository encapsulates order persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts the order together with its item rows.
func (r *Repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// FindByID loads an order with its items.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByIDForUser loads an order with its items, scoped to the owner.
func (r *Repository) FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ? AND user_id = ?", id, userID).
		Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByUser returns one keyset page of the user's orders, newest first,
// items included.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, page pagination.Params) ([]models.Order, string, error) {
	pageSize := pagination.NormalizeLimit(page.Limit)
	cursor, err := pagination.Decode(page.Cursor)
	if err != nil {
		return nil, "", err
	}

	qb := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Preload("Items").
		Where("user_id = ?", userID)
	if cursor != nil {
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Order
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

// ListAll returns one keyset page across all orders for the back office,
// customer rows preloaded for display names.
func (r *Repository) ListAll(ctx context.Context, filters ListFilters, page pagination.Params) ([]models.Order, string, error) {
	pageSize := pagination.NormalizeLimit(page.Limit)
	cursor, err := pagination.Decode(page.Cursor)
	if err != nil {
		return nil, "", err
	}

	qb := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Preload("Items").
		Preload("User")
	if filters.Status != "" {
		qb = qb.Where("status = ?", filters.Status)
	}
	if cursor != nil {
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Order
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

// UpdateStatus persists a status change on the row.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdatePaymentStatus persists a payment status change on the row.
func (r *Repository) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status enums.PaymentStatus) error {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update("payment_status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
