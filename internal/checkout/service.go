package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tokoluma/luma-backend/internal/cart"
	"github.com/tokoluma/luma-backend/internal/orders"
	"github.com/tokoluma/luma-backend/internal/payment"
	"github.com/tokoluma/luma-backend/internal/pricing"
	product "github.com/tokoluma/luma-backend/internal/products"
	"github.com/tokoluma/luma-backend/pkg/db/models"
	"github.com/tokoluma/luma-backend/pkg/enums"
	pkgerrors "github.com/tokoluma/luma-backend/pkg/errors"
	"github.com/tokoluma/luma-backend/pkg/logger"
	"github.com/tokoluma/luma-backend/pkg/metrics"
	"github.com/tokoluma/luma-backend/pkg/types"
)

// Checkout outcome labels for the conversion counter.
const (
	outcomeCompleted = "completed"
	outcomeRejected  = "rejected"
	outcomeFailed    = "failed"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Input is the buyer's checkout submission.
type Input struct {
	Payment         payment.Selection `json:"payment"`
	ShippingAddress types.Address     `json:"shipping_address"`
}

// ServiceParams groups dependencies for the checkout service.
type ServiceParams struct {
	Tx          txRunner
	OrdersRepo  *orders.Repository
	ProductRepo *product.Repository
	Pricing     *pricing.Calculator
	Logger      *logger.Logger
	Metrics     *metrics.CartMetrics
	// Now is swappable for tests; defaults to time.Now.
	Now func() time.Time
}

// Service turns a cart ledger into a persisted order.
type Service interface {
	Execute(ctx context.Context, userID uuid.UUID, ledger *cart.Ledger, input Input) (orders.OrderDTO, error)
}

type service struct {
	tx          txRunner
	ordersRepo  *orders.Repository
	productRepo *product.Repository
	pricing     *pricing.Calculator
	logg        *logger.Logger
	metrics     *metrics.CartMetrics
	now         func() time.Time
}

// NewService builds the checkout service.
func NewService(params ServiceParams) (Service, error) {
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tx runner is required")
	}
	if params.OrdersRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "orders repo is required")
	}
	if params.ProductRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product repo is required")
	}
	if params.Pricing == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pricing calculator is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		tx:          params.Tx,
		ordersRepo:  params.OrdersRepo,
		productRepo: params.ProductRepo,
		pricing:     params.Pricing,
		logg:        params.Logger,
		metrics:     params.Metrics,
		now:         now,
	}, nil
}

// Execute validates the cart snapshot, payment choice, and address, then
// creates the order and its item rows in one transaction. The ledger is
// cleared only after the transaction commits; any failure leaves the cart
// exactly as the buyer left it.
func (s *service) Execute(ctx context.Context, userID uuid.UUID, ledger *cart.Ledger, input Input) (orders.OrderDTO, error) {
	if userID == uuid.Nil {
		return orders.OrderDTO{}, s.rejected(pkgerrors.New(pkgerrors.CodeValidation, "user id is required"))
	}
	if ledger == nil {
		return orders.OrderDTO{}, s.rejected(pkgerrors.New(pkgerrors.CodeValidation, "cart is required"))
	}

	snapshot := ledger.Items()
	if len(snapshot) == 0 {
		return orders.OrderDTO{}, s.rejected(pkgerrors.New(pkgerrors.CodeValidation, "cart is empty"))
	}
	s.metrics.ObserveCheckoutSize(totalUnits(snapshot))

	if field := input.ShippingAddress.Validate(); field != "" {
		return orders.OrderDTO{}, s.rejected(pkgerrors.New(
			pkgerrors.CodeValidation,
			fmt.Sprintf("shipping address is missing %s", field),
		))
	}

	lines, err := resolveLines(snapshot)
	if err != nil {
		return orders.OrderDTO{}, s.rejected(err)
	}

	// Totals are always recomputed server-side from the ledger snapshot.
	quote := s.pricing.Quote(subtotal(snapshot))

	method, err := payment.ValidateSelection(input.Payment, quote.Total)
	if err != nil {
		return orders.OrderDTO{}, s.rejected(err)
	}

	order := &models.Order{
		OrderNumber:     orders.NewOrderNumber(s.now()),
		UserID:          userID,
		Status:          enums.OrderStatusPending,
		PaymentStatus:   payment.SettlementStatus(method),
		PaymentMethod:   input.Payment.Kind,
		PaymentOption:   input.Payment.Option,
		Subtotal:        quote.Subtotal,
		Tax:             quote.Tax,
		ShippingFee:     quote.ShippingFee,
		Total:           quote.Total,
		ShippingAddress: input.ShippingAddress,
		Items:           buildItems(lines),
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		productRepo := s.productRepo.WithTx(tx)
		for _, line := range lines {
			if err := productRepo.DecrementStock(ctx, line.productID, line.item.Quantity); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(
						pkgerrors.CodeStateConflict,
						fmt.Sprintf("insufficient stock for %s", line.item.Name),
					)
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reserve stock")
			}
		}
		if _, err := s.ordersRepo.WithTx(tx).Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		return nil
	})
	if err != nil {
		coded := pkgerrors.As(err)
		if coded != nil && coded.Code() == pkgerrors.CodeStateConflict {
			s.metrics.IncCheckout(outcomeRejected)
			return orders.OrderDTO{}, err
		}
		s.metrics.IncCheckout(outcomeFailed)
		s.logg.Error(ctx, "checkout transaction failed", err)
		return orders.OrderDTO{}, err
	}

	// The cart survives everything up to here; only a committed order
	// consumes it.
	ledger.Clear(ctx)
	s.metrics.IncCheckout(outcomeCompleted)

	return orders.ToDTO(*order), nil
}

func (s *service) rejected(err error) error {
	s.metrics.IncCheckout(outcomeRejected)
	return err
}

type resolvedLine struct {
	productID uuid.UUID
	item      cart.LineItem
}

// resolveLines parses the ledger's string IDs back into product UUIDs.
func resolveLines(snapshot []cart.LineItem) ([]resolvedLine, error) {
	lines := make([]resolvedLine, 0, len(snapshot))
	for _, item := range snapshot {
		id, err := uuid.Parse(item.ID)
		if err != nil {
			return nil, pkgerrors.Wrap(
				pkgerrors.CodeValidation, err,
				fmt.Sprintf("cart line %q has no valid product id", item.Name),
			)
		}
		lines = append(lines, resolvedLine{productID: id, item: item})
	}
	return lines, nil
}

func buildItems(lines []resolvedLine) []models.OrderItem {
	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		productID := line.productID
		row := models.OrderItem{
			ProductID: &productID,
			Name:      line.item.Name,
			Slug:      line.item.Slug,
			UnitPrice: line.item.UnitPrice,
			Quantity:  line.item.Quantity,
			Total:     line.item.LineTotal(),
		}
		if line.item.Image != "" {
			image := line.item.Image
			row.Image = &image
		}
		items = append(items, row)
	}
	return items
}

func subtotal(items []cart.LineItem) int64 {
	var total int64
	for _, item := range items {
		total += item.LineTotal()
	}
	return total
}

func totalUnits(items []cart.LineItem) int {
	total := 0
	for _, item := range items {
		total += item.Quantity
	}
	return total
}
