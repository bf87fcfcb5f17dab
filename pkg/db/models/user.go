package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tokoluma/luma-backend/pkg/enums"
)

// User represents a storefront account, customer or admin.
type User struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	Email        string     `gorm:"column:email;not null;uniqueIndex:users_email_key"`
	PasswordHash string     `gorm:"column:password_hash;not null"`
	Name         string     `gorm:"column:name;not null"`
	Phone        *string    `gorm:"column:phone"`
	Role         enums.Role `gorm:"column:role;type:text;not null;default:'customer'"`
	// No default tag, same reason as Product.IsActive: a deactivated
	// account written with IsActive=false must not snap back to true.
	IsActive    bool       `gorm:"column:is_active;not null"`
	LastLoginAt *time.Time `gorm:"column:last_login_at"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
