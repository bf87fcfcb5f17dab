package category

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/tokoluma/luma-backend/pkg/db/models"
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
	if err := conn.AutoMigrate(&models.Category{}, &models.Product{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return conn
}

func mustCreateCategory(t *testing.T, db *gorm.DB, slug, name string) *models.Category {
	t.Helper()
	row := &models.Category{Slug: slug, Name: name}
	if err := db.Create(row).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}
	return row
}

func mustCreateProduct(t *testing.T, db *gorm.DB, categoryID uuid.UUID, active bool) {
	t.Helper()
	row := &models.Product{
		CategoryID: categoryID,
		Slug:       fmt.Sprintf("product-%s", uuid.NewString()),
		Name:       "Product",
		Price:      50_000,
		IsActive:   active,
	}
	if err := db.Create(row).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
}

func TestListWithCountsOnlyCountsActiveProducts(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	kopi := mustCreateCategory(t, db, "kopi", "Kopi")
	teh := mustCreateCategory(t, db, "teh", "Teh")

	mustCreateProduct(t, db, kopi.ID, true)
	mustCreateProduct(t, db, kopi.ID, true)
	mustCreateProduct(t, db, kopi.ID, false)

	rows, err := repo.ListWithCounts(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Ordered by name: Kopi before Teh.
	assert.Equal(t, "kopi", rows[0].Slug)
	assert.Equal(t, int64(2), rows[0].ProductCount)
	assert.Equal(t, teh.Slug, rows[1].Slug)
	assert.Zero(t, rows[1].ProductCount)
}

func TestFindBySlug(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	mustCreateCategory(t, db, "kopi", "Kopi")

	row, err := repo.FindBySlug(ctx, "kopi")
	require.NoError(t, err)
	assert.Equal(t, "Kopi", row.Name)

	_, err = repo.FindBySlug(ctx, "nope")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestServiceListMapsDTOs(t *testing.T) {
	db := openTestDB(t)
	svc, err := NewService(ServiceParams{Repo: NewRepository(db)})
	require.NoError(t, err)

	kopi := mustCreateCategory(t, db, "kopi", "Kopi")
	mustCreateProduct(t, db, kopi.ID, true)

	out, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, kopi.ID.String(), out[0].ID)
	assert.Equal(t, int64(1), out[0].ProductCount)
}
