package product

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tokoluma/luma-backend/pkg/pagination"
)

func int64ptr(v int64) *int64 { return &v }

func TestRepositoryFindBySlugPreloadsCategory(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	category := mustCreateTestCategory(t, db, "kopi")
	mustCreateTestProduct(t, db, category.ID, testProductOpts{slug: "kopi-gayo", active: true, stock: 10})

	row, err := repo.FindBySlug(ctx, "kopi-gayo")
	require.NoError(t, err)
	require.NotNil(t, row.Category)
	assert.Equal(t, "kopi", row.Category.Slug)
	assert.Equal(t, []string{"https://cdn.example.com/kopi-gayo.jpg"}, row.Images)
}

func TestRepositoryListFiltersAndPaginates(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	kopi := mustCreateTestCategory(t, db, "kopi")
	teh := mustCreateTestCategory(t, db, "teh")

	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	mustCreateTestProduct(t, db, kopi.ID, testProductOpts{slug: "kopi-gayo", active: true, createdAt: base})
	mustCreateTestProduct(t, db, kopi.ID, testProductOpts{slug: "kopi-toraja", active: true, featured: true, createdAt: base.Add(time.Minute)})
	mustCreateTestProduct(t, db, teh.ID, testProductOpts{slug: "teh-melati", active: true, comparePrice: int64ptr(150_000), createdAt: base.Add(2 * time.Minute)})
	mustCreateTestProduct(t, db, teh.ID, testProductOpts{slug: "teh-hijau", active: false, createdAt: base.Add(3 * time.Minute)})

	// Inactive products stay out of the storefront listing.
	rows, next, err := repo.List(ctx, ListFilters{}, pagination.Params{})
	require.NoError(t, err)
	assert.Len(t, rows, 3)
	assert.Empty(t, next)
	assert.Equal(t, "teh-melati", rows[0].Slug)

	// Category filter.
	rows, _, err = repo.List(ctx, ListFilters{CategorySlug: "kopi"}, pagination.Params{})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	// Search is case-insensitive over name.
	rows, _, err = repo.List(ctx, ListFilters{Search: "TORAJA"}, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "kopi-toraja", rows[0].Slug)

	// Featured and deals flags.
	rows, _, err = repo.List(ctx, ListFilters{Featured: true}, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "kopi-toraja", rows[0].Slug)

	rows, _, err = repo.List(ctx, ListFilters{Deals: true}, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "teh-melati", rows[0].Slug)

	// Admin view sees inactive rows too.
	rows, _, err = repo.List(ctx, ListFilters{IncludeInactive: true}, pagination.Params{})
	require.NoError(t, err)
	assert.Len(t, rows, 4)
}

func TestRepositoryListKeysetPagination(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	category := mustCreateTestCategory(t, db, "kopi")
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		mustCreateTestProduct(t, db, category.ID, testProductOpts{active: true, createdAt: base.Add(time.Duration(i) * time.Minute)})
	}

	seen := map[string]bool{}
	cursor := ""
	pages := 0
	for {
		rows, next, err := repo.List(ctx, ListFilters{}, pagination.Params{Limit: 2, Cursor: cursor})
		require.NoError(t, err)
		for _, row := range rows {
			require.False(t, seen[row.Slug], "row %s repeated across pages", row.Slug)
			seen[row.Slug] = true
		}
		pages++
		if next == "" {
			break
		}
		cursor = next
	}

	assert.Len(t, seen, 5)
	assert.Equal(t, 3, pages)
}

func TestRepositoryDecrementStock(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	category := mustCreateTestCategory(t, db, "kopi")
	created := mustCreateTestProduct(t, db, category.ID, testProductOpts{active: true, stock: 3})

	require.NoError(t, repo.DecrementStock(ctx, created.ID, 2))

	row, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, row.Stock)

	// Refuses to oversell.
	err = repo.DecrementStock(ctx, created.ID, 2)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	row, err = repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, row.Stock)
}

func TestRepositorySlugTaken(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	category := mustCreateTestCategory(t, db, "kopi")
	created := mustCreateTestProduct(t, db, category.ID, testProductOpts{slug: "kopi-gayo", active: true})

	taken, err := repo.SlugTaken(ctx, "kopi-gayo", created.ID)
	require.NoError(t, err)
	assert.False(t, taken, "a product does not collide with itself")

	taken, err = repo.SlugTaken(ctx, "kopi-gayo", uuid.Nil)
	require.NoError(t, err)
	assert.True(t, taken)
}
