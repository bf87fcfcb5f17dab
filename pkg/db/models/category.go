package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category groups products for browsing.
type Category struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Slug        string    `gorm:"column:slug;not null;uniqueIndex:categories_slug_key"`
	Name        string    `gorm:"column:name;not null"`
	Description *string   `gorm:"column:description"`
	Image       *string   `gorm:"column:image"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
