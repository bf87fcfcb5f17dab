package product

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tokoluma/luma-backend/pkg/db/models"
)

func mustCreateTestCategory(t *testing.T, tx *gorm.DB, slug string) *models.Category {
	t.Helper()
	category := &models.Category{
		ID:   uuid.New(),
		Slug: slug,
		Name: "Category " + slug,
	}
	if err := tx.Create(category).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}
	return category
}

type testProductOpts struct {
	slug         string
	price        int64
	comparePrice *int64
	featured     bool
	active       bool
	stock        int
	createdAt    time.Time
}

func mustCreateTestProduct(t *testing.T, tx *gorm.DB, categoryID uuid.UUID, opts testProductOpts) *models.Product {
	t.Helper()
	if opts.slug == "" {
		opts.slug = fmt.Sprintf("product-%s", uuid.NewString())
	}
	if opts.price == 0 {
		opts.price = 100_000
	}
	if opts.createdAt.IsZero() {
		opts.createdAt = time.Now().UTC()
	}

	product := &models.Product{
		ID:           uuid.New(),
		CategoryID:   categoryID,
		Slug:         opts.slug,
		Name:         "Test " + opts.slug,
		Price:        opts.price,
		ComparePrice: opts.comparePrice,
		Images:       []string{"https://cdn.example.com/" + opts.slug + ".jpg"},
		Stock:        opts.stock,
		IsFeatured:   opts.featured,
		IsActive:     opts.active,
		CreatedAt:    opts.createdAt,
	}
	if err := tx.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}

func mustCreateTestReview(t *testing.T, tx *gorm.DB, productID uuid.UUID, name string, rating int, comment string, createdAt time.Time) *models.Review {
	t.Helper()
	user := &models.User{
		Email:        fmt.Sprintf("%s@example.com", uuid.NewString()),
		PasswordHash: "hash",
		Name:         name,
		IsActive:     true,
	}
	if err := tx.Create(user).Error; err != nil {
		t.Fatalf("create reviewer: %v", err)
	}

	review := &models.Review{
		ProductID: productID,
		UserID:    user.ID,
		Rating:    rating,
	}
	if comment != "" {
		review.Comment = &comment
	}
	if err := tx.Create(review).Error; err != nil {
		t.Fatalf("create review: %v", err)
	}
	if err := tx.Model(review).UpdateColumn("created_at", createdAt).Error; err != nil {
		t.Fatalf("backdate review: %v", err)
	}
	return review
}
