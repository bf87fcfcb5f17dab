package users

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/tokoluma/luma-backend/pkg/config"
	"github.com/tokoluma/luma-backend/pkg/db/models"
	"github.com/tokoluma/luma-backend/pkg/enums"
	pkgerrors "github.com/tokoluma/luma-backend/pkg/errors"
	"github.com/tokoluma/luma-backend/pkg/pagination"
	"github.com/tokoluma/luma-backend/pkg/security"
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
	if err := conn.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return conn
}

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8 * 1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func newTestService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Repo: NewRepository(db), PasswordConfig: testPasswordConfig()})
	require.NoError(t, err)
	return svc
}

func createUser(t *testing.T, db *gorm.DB, email string, role enums.Role, createdAt time.Time) *models.User {
	t.Helper()
	user := &models.User{Email: email, PasswordHash: "hash", Name: "Dewi", Role: role, IsActive: true}
	require.NoError(t, db.Create(user).Error)
	require.NoError(t, db.Model(user).UpdateColumn("created_at", createdAt).Error)
	user.CreatedAt = createdAt
	return user
}

func TestGetReturnsProfile(t *testing.T) {
	db := openTestDB(t)
	svc := newTestService(t, db)
	user := createUser(t, db, "dewi@example.com", enums.RoleCustomer, time.Now())

	dto, err := svc.Get(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, dto.ID)
	assert.Equal(t, "dewi@example.com", dto.Email)
	assert.Equal(t, enums.RoleCustomer, dto.Role)
}

func TestGetUnknownUserReturnsNotFound(t *testing.T) {
	db := openTestDB(t)
	svc := newTestService(t, db)

	_, err := svc.Get(context.Background(), uuid.New())
	require.Error(t, err)
	coded := pkgerrors.As(err)
	require.NotNil(t, coded)
	assert.Equal(t, pkgerrors.CodeNotFound, coded.Code())
}

func TestUpdateProfilePatchesOnlyProvidedFields(t *testing.T) {
	db := openTestDB(t)
	svc := newTestService(t, db)
	user := createUser(t, db, "dewi@example.com", enums.RoleCustomer, time.Now())

	name := "Dewi Lestari"
	dto, err := svc.UpdateProfile(context.Background(), user.ID, UpdateProfileInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Dewi Lestari", dto.Name)
	assert.Nil(t, dto.Phone)

	var row models.User
	require.NoError(t, db.First(&row, "id = ?", user.ID).Error)
	assert.Equal(t, "Dewi Lestari", row.Name)
	assert.Equal(t, "hash", row.PasswordHash)
}

func TestUpdateProfileRejectsEmptyName(t *testing.T) {
	db := openTestDB(t)
	svc := newTestService(t, db)
	user := createUser(t, db, "dewi@example.com", enums.RoleCustomer, time.Now())

	name := "   "
	_, err := svc.UpdateProfile(context.Background(), user.ID, UpdateProfileInput{Name: &name})
	require.Error(t, err)
	coded := pkgerrors.As(err)
	require.NotNil(t, coded)
	assert.Equal(t, pkgerrors.CodeValidation, coded.Code())
}

func TestUpdateProfileBlankPhoneClearsIt(t *testing.T) {
	db := openTestDB(t)
	svc := newTestService(t, db)
	user := createUser(t, db, "dewi@example.com", enums.RoleCustomer, time.Now())

	phone := "+62811111111"
	_, err := svc.UpdateProfile(context.Background(), user.ID, UpdateProfileInput{Phone: &phone})
	require.NoError(t, err)

	blank := ""
	dto, err := svc.UpdateProfile(context.Background(), user.ID, UpdateProfileInput{Phone: &blank})
	require.NoError(t, err)
	assert.Nil(t, dto.Phone)
}

func TestUpdateProfileRehashesPassword(t *testing.T) {
	db := openTestDB(t)
	svc := newTestService(t, db)
	user := createUser(t, db, "dewi@example.com", enums.RoleCustomer, time.Now())

	password := "rahasia-baru"
	_, err := svc.UpdateProfile(context.Background(), user.ID, UpdateProfileInput{Password: &password})
	require.NoError(t, err)

	var row models.User
	require.NoError(t, db.First(&row, "id = ?", user.ID).Error)
	ok, err := security.VerifyPassword(password, row.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUpdateProfileRejectsShortPassword(t *testing.T) {
	db := openTestDB(t)
	svc := newTestService(t, db)
	user := createUser(t, db, "dewi@example.com", enums.RoleCustomer, time.Now())

	password := "pendek"
	_, err := svc.UpdateProfile(context.Background(), user.ID, UpdateProfileInput{Password: &password})
	require.Error(t, err)
	coded := pkgerrors.As(err)
	require.NotNil(t, coded)
	assert.Equal(t, pkgerrors.CodeValidation, coded.Code())
}

func TestListCustomersScopesAndPaginates(t *testing.T) {
	db := openTestDB(t)
	svc := newTestService(t, db)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		createUser(t, db, fmt.Sprintf("customer%d@example.com", i), enums.RoleCustomer, base.Add(time.Duration(i)*time.Minute))
	}
	createUser(t, db, "admin@example.com", enums.RoleAdmin, base.Add(time.Hour))

	first, err := svc.ListCustomers(context.Background(), pagination.Params{Limit: 3})
	require.NoError(t, err)
	require.Len(t, first.Items, 3)
	assert.NotEmpty(t, first.NextCursor)
	assert.Equal(t, "customer4@example.com", first.Items[0].Email)
	for _, item := range first.Items {
		assert.Equal(t, enums.RoleCustomer, item.Role)
	}

	second, err := svc.ListCustomers(context.Background(), pagination.Params{Limit: 3, Cursor: first.NextCursor})
	require.NoError(t, err)
	require.Len(t, second.Items, 2)
	assert.Empty(t, second.NextCursor)
	assert.Equal(t, "customer0@example.com", second.Items[1].Email)
}
