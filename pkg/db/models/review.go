package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review is a customer rating on a product. Rating is 1..5 stars; the
// comment is optional.
type Review struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;index:reviews_product_id_idx"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null"`
	Rating    int       `gorm:"column:rating;not null"`
	Comment   *string   `gorm:"column:comment"`
	User      *User     `gorm:"foreignKey:UserID"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
