package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/tokoluma/luma-backend/pkg/db/models"
	"github.com/tokoluma/luma-backend/pkg/enums"
)

// UserDTO is the account projection returned to clients. The password hash
// never leaves the service layer.
type UserDTO struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Phone       *string    `json:"phone,omitempty"`
	Role        enums.Role `json:"role"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// FromModel maps the persisted user onto the client projection.
func FromModel(user *models.User) UserDTO {
	if user == nil {
		return UserDTO{}
	}
	return UserDTO{
		ID:          user.ID,
		Email:       user.Email,
		Name:        user.Name,
		Phone:       user.Phone,
		Role:        user.Role,
		IsActive:    user.IsActive,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
	}
}

// Page is one cursor page of users for the back office.
type Page struct {
	Items      []UserDTO `json:"items"`
	NextCursor string    `json:"next_cursor,omitempty"`
}
