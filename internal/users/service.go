package users

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tokoluma/luma-backend/pkg/config"
	"github.com/tokoluma/luma-backend/pkg/db/models"
	"github.com/tokoluma/luma-backend/pkg/enums"
	pkgerrors "github.com/tokoluma/luma-backend/pkg/errors"
	"github.com/tokoluma/luma-backend/pkg/pagination"
	"github.com/tokoluma/luma-backend/pkg/security"
)

// UpdateProfileInput patches the signed-in user's profile; nil fields are
// left untouched.
type UpdateProfileInput struct {
	Name     *string
	Phone    *string
	Password *string
}

// Service exposes profile reads and edits for the signed-in user.
type Service interface {
	Get(ctx context.Context, id uuid.UUID) (UserDTO, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, input UpdateProfileInput) (UserDTO, error)
	ListCustomers(ctx context.Context, page pagination.Params) (Page, error)
}

// ServiceParams groups dependencies for the users service.
type ServiceParams struct {
	Repo           *Repository
	PasswordConfig config.PasswordConfig
}

type service struct {
	repo        *Repository
	passwordCfg config.PasswordConfig
}

// NewService builds a users service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "users repo is required")
	}
	return &service{repo: params.Repo, passwordCfg: params.PasswordConfig}, nil
}

// Get returns the profile for the given user ID.
func (s *service) Get(ctx context.Context, id uuid.UUID) (UserDTO, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return UserDTO{}, err
	}
	return FromModel(user), nil
}

// UpdateProfile applies the patch and re-hashes the password when provided.
func (s *service) UpdateProfile(ctx context.Context, id uuid.UUID, input UpdateProfileInput) (UserDTO, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return UserDTO{}, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return UserDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		user.Name = name
	}
	if input.Phone != nil {
		phone := strings.TrimSpace(*input.Phone)
		if phone == "" {
			user.Phone = nil
		} else {
			user.Phone = &phone
		}
	}
	if input.Password != nil {
		if len(*input.Password) < 8 {
			return UserDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
		}
		hash, err := security.HashPassword(*input.Password, s.passwordCfg)
		if err != nil {
			return UserDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
		}
		user.PasswordHash = hash
	}

	if err := s.repo.Save(ctx, user); err != nil {
		return UserDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving profile")
	}
	return FromModel(user), nil
}

// ListCustomers returns one page of customer accounts for the back office.
func (s *service) ListCustomers(ctx context.Context, page pagination.Params) (Page, error) {
	rows, nextCursor, err := s.repo.ListByRole(ctx, enums.RoleCustomer, page)
	if err != nil {
		return Page{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing customers")
	}

	items := make([]UserDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, FromModel(&row))
	}
	return Page{Items: items, NextCursor: nextCursor}, nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading user")
	}
	return user, nil
}
