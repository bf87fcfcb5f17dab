package orders

import (
	"context"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/tokoluma/luma-backend/pkg/db/models"
	"github.com/tokoluma/luma-backend/pkg/enums"
	pkgerrors "github.com/tokoluma/luma-backend/pkg/errors"
	"github.com/tokoluma/luma-backend/pkg/pagination"
	"github.com/tokoluma/luma-backend/pkg/types"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	err = conn.AutoMigrate(&models.User{}, &models.Order{}, &models.OrderItem{})
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return conn
}

func mustCreateUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{Email: email, PasswordHash: "hash", Name: "Dewi Lestari", IsActive: true}
	require.NoError(t, db.Create(user).Error)
	return user
}

type testOrderOpts struct {
	status    enums.OrderStatus
	total     int64
	createdAt time.Time
}

func mustCreateOrder(t *testing.T, db *gorm.DB, userID uuid.UUID, opts testOrderOpts) *models.Order {
	t.Helper()

	status := opts.status
	if status == "" {
		status = enums.OrderStatusPending
	}
	total := opts.total
	if total == 0 {
		total = 327_500
	}

	order := &models.Order{
		OrderNumber:   NewOrderNumber(time.Now()),
		UserID:        userID,
		Status:        status,
		PaymentStatus: enums.PaymentStatusUnpaid,
		PaymentMethod: enums.PaymentMethodBankTransfer,
		PaymentOption: "bca",
		Subtotal:      250_000,
		Tax:           27_500,
		ShippingFee:   50_000,
		Total:         total,
		ShippingAddress: types.Address{
			Recipient:  "Dewi Lestari",
			Phone:      "081234567890",
			Street:     "Jl. Melati No. 5",
			City:       "Bandung",
			Province:   "Jawa Barat",
			PostalCode: "40115",
		},
		Items: []models.OrderItem{
			{Name: "Kopi Gayo 250g", Slug: "kopi-gayo", UnitPrice: 85_000, Quantity: 2, Total: 170_000},
			{Name: "Teh Melati", Slug: "teh-melati", UnitPrice: 40_000, Quantity: 2, Total: 80_000},
		},
	}
	require.NoError(t, db.Create(order).Error)
	if !opts.createdAt.IsZero() {
		require.NoError(t, db.Model(&models.Order{}).Where("id = ?", order.ID).
			UpdateColumn("created_at", opts.createdAt).Error)
		order.CreatedAt = opts.createdAt
	}
	return order
}

func newTestService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Repo: NewRepository(db)})
	require.NoError(t, err)
	return svc
}

func orderErrCode(t *testing.T, err error) pkgerrors.Code {
	t.Helper()
	require.Error(t, err)
	coded := pkgerrors.As(err)
	require.NotNil(t, coded, "expected coded error, got %v", err)
	return coded.Code()
}

func TestGetReturnsOwnOrderWithItems(t *testing.T) {
	db := openTestDB(t)
	user := mustCreateUser(t, db, "dewi@example.com")
	order := mustCreateOrder(t, db, user.ID, testOrderOpts{})
	svc := newTestService(t, db)

	dto, err := svc.Get(context.Background(), user.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.OrderNumber, dto.OrderNumber)
	assert.Equal(t, int64(327_500), dto.Total)
	assert.Equal(t, "Bandung", dto.ShippingAddress.City)
	require.Len(t, dto.Items, 2)
	assert.Equal(t, int64(170_000), dto.Items[0].Total)
}

func TestGetForeignOrderIsNotFound(t *testing.T) {
	db := openTestDB(t)
	owner := mustCreateUser(t, db, "dewi@example.com")
	other := mustCreateUser(t, db, "budi@example.com")
	order := mustCreateOrder(t, db, owner.ID, testOrderOpts{})
	svc := newTestService(t, db)

	_, err := svc.Get(context.Background(), other.ID, order.ID)
	assert.Equal(t, pkgerrors.CodeNotFound, orderErrCode(t, err))
}

func TestListPaginatesNewestFirst(t *testing.T) {
	db := openTestDB(t)
	user := mustCreateUser(t, db, "dewi@example.com")
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		mustCreateOrder(t, db, user.ID, testOrderOpts{createdAt: base.Add(time.Duration(i) * time.Minute)})
	}
	svc := newTestService(t, db)
	ctx := context.Background()

	seen := map[uuid.UUID]bool{}
	cursor := ""
	pages := 0
	for {
		page, err := svc.List(ctx, user.ID, pagination.Params{Limit: 2, Cursor: cursor})
		require.NoError(t, err)
		for _, item := range page.Items {
			assert.False(t, seen[item.ID], "order %s repeated across pages", item.ID)
			seen[item.ID] = true
		}
		pages++
		if page.NextCursor == "" {
			break
		}
		cursor = page.NextCursor
	}
	assert.Equal(t, 3, pages)
	assert.Len(t, seen, 5)
}

func TestListIsScopedToUser(t *testing.T) {
	db := openTestDB(t)
	owner := mustCreateUser(t, db, "dewi@example.com")
	other := mustCreateUser(t, db, "budi@example.com")
	mustCreateOrder(t, db, owner.ID, testOrderOpts{})
	svc := newTestService(t, db)

	page, err := svc.List(context.Background(), other.ID, pagination.Params{})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestAdminListFiltersByStatusAndShowsCustomer(t *testing.T) {
	db := openTestDB(t)
	user := mustCreateUser(t, db, "dewi@example.com")
	mustCreateOrder(t, db, user.ID, testOrderOpts{status: enums.OrderStatusPending})
	mustCreateOrder(t, db, user.ID, testOrderOpts{status: enums.OrderStatusShipped})
	svc := newTestService(t, db)

	page, err := svc.AdminList(context.Background(), ListFilters{Status: enums.OrderStatusShipped}, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, enums.OrderStatusShipped, page.Items[0].Status)
	assert.Equal(t, "Dewi Lestari", page.Items[0].CustomerName)
	assert.Equal(t, "dewi@example.com", page.Items[0].CustomerEmail)
}

func TestAdminListRejectsUnknownStatus(t *testing.T) {
	db := openTestDB(t)
	svc := newTestService(t, db)

	_, err := svc.AdminList(context.Background(), ListFilters{Status: "misplaced"}, pagination.Params{})
	assert.Equal(t, pkgerrors.CodeValidation, orderErrCode(t, err))
}

func TestUpdateStatusFollowsTransitions(t *testing.T) {
	db := openTestDB(t)
	user := mustCreateUser(t, db, "dewi@example.com")
	order := mustCreateOrder(t, db, user.ID, testOrderOpts{})
	svc := newTestService(t, db)
	ctx := context.Background()

	dto, err := svc.UpdateStatus(ctx, order.ID, enums.OrderStatusProcessing)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusProcessing, dto.Status)

	dto, err = svc.UpdateStatus(ctx, order.ID, enums.OrderStatusShipped)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusShipped, dto.Status)

	var stored models.Order
	require.NoError(t, db.First(&stored, "id = ?", order.ID).Error)
	assert.Equal(t, enums.OrderStatusShipped, stored.Status)
}

func TestUpdateStatusRejectsIllegalMove(t *testing.T) {
	db := openTestDB(t)
	user := mustCreateUser(t, db, "dewi@example.com")
	order := mustCreateOrder(t, db, user.ID, testOrderOpts{status: enums.OrderStatusPending})
	svc := newTestService(t, db)

	_, err := svc.UpdateStatus(context.Background(), order.ID, enums.OrderStatusDelivered)
	assert.Equal(t, pkgerrors.CodeStateConflict, orderErrCode(t, err))

	var stored models.Order
	require.NoError(t, db.First(&stored, "id = ?", order.ID).Error)
	assert.Equal(t, enums.OrderStatusPending, stored.Status)
}

func TestUpdateStatusTerminalStatesAreFrozen(t *testing.T) {
	db := openTestDB(t)
	user := mustCreateUser(t, db, "dewi@example.com")
	delivered := mustCreateOrder(t, db, user.ID, testOrderOpts{status: enums.OrderStatusDelivered})
	cancelled := mustCreateOrder(t, db, user.ID, testOrderOpts{status: enums.OrderStatusCancelled})
	svc := newTestService(t, db)
	ctx := context.Background()

	_, err := svc.UpdateStatus(ctx, delivered.ID, enums.OrderStatusProcessing)
	assert.Equal(t, pkgerrors.CodeStateConflict, orderErrCode(t, err))

	_, err = svc.UpdateStatus(ctx, cancelled.ID, enums.OrderStatusProcessing)
	assert.Equal(t, pkgerrors.CodeStateConflict, orderErrCode(t, err))
}

func TestUpdateStatusMissingOrder(t *testing.T) {
	db := openTestDB(t)
	svc := newTestService(t, db)

	_, err := svc.UpdateStatus(context.Background(), uuid.New(), enums.OrderStatusProcessing)
	assert.Equal(t, pkgerrors.CodeNotFound, orderErrCode(t, err))
}

func TestNewOrderNumberShape(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	pattern := regexp.MustCompile(`^LMA-20260901-[23456789A-HJ-NP-Z]{6}$`)

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		number := NewOrderNumber(now)
		assert.Regexp(t, pattern, number)
		seen[number] = true
	}
	assert.Greater(t, len(seen), 1, "order numbers should not repeat deterministically")
}
