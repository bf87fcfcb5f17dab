package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product is a storefront listing. Prices are whole rupiah; ComparePrice is
// the optional strike-through price used for discount display.
type Product struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	CategoryID   uuid.UUID `gorm:"column:category_id;type:uuid;not null;index:products_category_id_idx"`
	Slug         string    `gorm:"column:slug;not null;uniqueIndex:products_slug_key"`
	Name         string    `gorm:"column:name;not null"`
	Description  *string   `gorm:"column:description"`
	Price        int64     `gorm:"column:price;not null"`
	ComparePrice *int64    `gorm:"column:compare_price"`
	Images       []string  `gorm:"column:images;type:jsonb;serializer:json"`
	Stock        int       `gorm:"column:stock;not null;default:0"`
	IsFeatured   bool      `gorm:"column:is_featured;not null;default:false"`
	// No default tag: gorm skips zero-valued fields that carry one, which
	// would turn an explicit IsActive=false into the column default (true).
	IsActive  bool      `gorm:"column:is_active;not null"`
	Category  *Category `gorm:"foreignKey:CategoryID"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
