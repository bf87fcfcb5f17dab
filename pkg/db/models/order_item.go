package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderItem snapshots one cart line at checkout. Name, price, and image are
// copied rather than joined so later catalog edits never rewrite history.
type OrderItem struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	OrderID   uuid.UUID  `gorm:"column:order_id;type:uuid;not null;index:order_items_order_id_idx"`
	ProductID *uuid.UUID `gorm:"column:product_id;type:uuid"`
	Name      string     `gorm:"column:name;not null"`
	Slug      string     `gorm:"column:slug;not null"`
	Image     *string    `gorm:"column:image"`
	UnitPrice int64      `gorm:"column:unit_price;not null"`
	Quantity  int        `gorm:"column:quantity;not null"`
	Total     int64      `gorm:"column:total;not null"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
