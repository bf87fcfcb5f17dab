package dashboard

import (
	"context"

	"gorm.io/gorm"

	"github.com/tokoluma/luma-backend/internal/orders"
	"github.com/tokoluma/luma-backend/pkg/db/models"
	"github.com/tokoluma/luma-backend/pkg/enums"
	pkgerrors "github.com/tokoluma/luma-backend/pkg/errors"
)

const recentOrderCount = 5

// Stats is the back-office landing page summary.
type Stats struct {
	TotalOrders    int64 `json:"total_orders"`
	TotalCustomers int64 `json:"total_customers"`
	TotalProducts  int64 `json:"total_products"`
	// Revenue sums the totals of paid orders, in whole rupiah.
	Revenue      int64             `json:"revenue"`
	RecentOrders []orders.OrderDTO `json:"recent_orders"`
}

// ServiceParams groups dependencies for the dashboard service.
type ServiceParams struct {
	DB *gorm.DB
}

// Service aggregates the admin dashboard numbers.
type Service interface {
	Stats(ctx context.Context) (Stats, error)
}

type service struct {
	db *gorm.DB
}

// NewService builds the dashboard service.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "db is required")
	}
	return &service{db: params.DB}, nil
}

// Stats runs the aggregate queries and the recent-order fetch in one pass.
func (s *service) Stats(ctx context.Context) (Stats, error) {
	var stats Stats

	err := s.db.WithContext(ctx).Model(&models.Order{}).Count(&stats.TotalOrders).Error
	if err != nil {
		return Stats{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "counting orders")
	}

	err = s.db.WithContext(ctx).Model(&models.User{}).
		Where("role = ?", enums.RoleCustomer).
		Count(&stats.TotalCustomers).Error
	if err != nil {
		return Stats{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "counting customers")
	}

	err = s.db.WithContext(ctx).Model(&models.Product{}).Count(&stats.TotalProducts).Error
	if err != nil {
		return Stats{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "counting products")
	}

	var revenue *int64
	err = s.db.WithContext(ctx).Model(&models.Order{}).
		Where("payment_status = ?", enums.PaymentStatusPaid).
		Select("SUM(total)").
		Scan(&revenue).Error
	if err != nil {
		return Stats{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "summing revenue")
	}
	if revenue != nil {
		stats.Revenue = *revenue
	}

	var recent []models.Order
	err = s.db.WithContext(ctx).Model(&models.Order{}).
		Preload("Items").
		Preload("User").
		Order("created_at DESC").Order("id DESC").
		Limit(recentOrderCount).
		Find(&recent).Error
	if err != nil {
		return Stats{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading recent orders")
	}

	stats.RecentOrders = make([]orders.OrderDTO, 0, len(recent))
	for _, row := range recent {
		stats.RecentOrders = append(stats.RecentOrders, orders.ToDTO(row))
	}
	return stats, nil
}
