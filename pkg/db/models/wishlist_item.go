package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WishlistItem links a user to a saved product.
type WishlistItem struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index:wishlist_items_user_id_idx;uniqueIndex:wishlist_items_user_product_key"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:wishlist_items_user_product_key"`
	Product   *Product  `gorm:"foreignKey:ProductID"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (w *WishlistItem) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}
