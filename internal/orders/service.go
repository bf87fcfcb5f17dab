package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tokoluma/luma-backend/pkg/db/models"
	"github.com/tokoluma/luma-backend/pkg/enums"
	pkgerrors "github.com/tokoluma/luma-backend/pkg/errors"
	"github.com/tokoluma/luma-backend/pkg/pagination"
)

// ServiceParams groups dependencies for the orders service.
type ServiceParams struct {
	Repo *Repository
}

// Service exposes order history reads and back-office status management.
type Service interface {
	Get(ctx context.Context, userID, orderID uuid.UUID) (OrderDTO, error)
	List(ctx context.Context, userID uuid.UUID, page pagination.Params) (PageDTO, error)
	AdminList(ctx context.Context, filters ListFilters, page pagination.Params) (PageDTO, error)
	AdminGet(ctx context.Context, orderID uuid.UUID) (OrderDTO, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, next enums.OrderStatus) (OrderDTO, error)
}

type service struct {
	repo *Repository
}

// NewService builds the orders service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "orders repo is required")
	}
	return &service{repo: params.Repo}, nil
}

// Get loads one order scoped to its owner. A foreign order reads as not
// found rather than forbidden so order IDs leak nothing.
func (s *service) Get(ctx context.Context, userID, orderID uuid.UUID) (OrderDTO, error) {
	if userID == uuid.Nil || orderID == uuid.Nil {
		return OrderDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id and order id are required")
	}

	row, err := s.repo.FindByIDForUser(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "order not found")
		}
		return OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return ToDTO(*row), nil
}

// List returns the user's order history, newest first.
func (s *service) List(ctx context.Context, userID uuid.UUID, page pagination.Params) (PageDTO, error) {
	if userID == uuid.Nil {
		return PageDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	rows, nextCursor, err := s.repo.ListByUser(ctx, userID, page)
	if err != nil {
		return PageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing orders")
	}
	return toPageDTO(rows, nextCursor), nil
}

// AdminList returns orders across all customers for the back office.
func (s *service) AdminList(ctx context.Context, filters ListFilters, page pagination.Params) (PageDTO, error) {
	if filters.Status != "" && !filters.Status.IsValid() {
		return PageDTO{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order status %q", filters.Status))
	}

	rows, nextCursor, err := s.repo.ListAll(ctx, filters, page)
	if err != nil {
		return PageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing orders")
	}
	return toPageDTO(rows, nextCursor), nil
}

// AdminGet loads one order regardless of owner.
func (s *service) AdminGet(ctx context.Context, orderID uuid.UUID) (OrderDTO, error) {
	if orderID == uuid.Nil {
		return OrderDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}

	row, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "order not found")
		}
		return OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return ToDTO(*row), nil
}

// UpdateStatus moves an order along the fulfillment state machine. Illegal
// transitions are rejected without touching the row.
func (s *service) UpdateStatus(ctx context.Context, orderID uuid.UUID, next enums.OrderStatus) (OrderDTO, error) {
	if orderID == uuid.Nil {
		return OrderDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if !next.IsValid() {
		return OrderDTO{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order status %q", next))
	}

	row, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "order not found")
		}
		return OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	if !row.Status.CanTransitionTo(next) {
		return OrderDTO{}, pkgerrors.New(
			pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move order from %s to %s", row.Status, next),
		)
	}

	if err := s.repo.UpdateStatus(ctx, orderID, next); err != nil {
		return OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	row.Status = next
	return ToDTO(*row), nil
}

func toPageDTO(rows []models.Order, nextCursor string) PageDTO {
	items := make([]OrderDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, ToDTO(row))
	}
	return PageDTO{Items: items, NextCursor: nextCursor}
}
