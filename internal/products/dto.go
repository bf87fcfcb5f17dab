package product

import (
	"time"

	"github.com/google/uuid"

	"github.com/tokoluma/luma-backend/internal/pricing"
	"github.com/tokoluma/luma-backend/pkg/db/models"
)

// CategoryRef is the slim category projection embedded in product reads.
type CategoryRef struct {
	ID   uuid.UUID `json:"id"`
	Slug string    `json:"slug"`
	Name string    `json:"name"`
}

// Summary is the card-sized product projection used by listings.
type Summary struct {
	ID              uuid.UUID    `json:"id"`
	Slug            string       `json:"slug"`
	Name            string       `json:"name"`
	Price           int64        `json:"price"`
	ComparePrice    *int64       `json:"compare_price,omitempty"`
	DiscountPercent int          `json:"discount_percent,omitempty"`
	Image           string       `json:"image,omitempty"`
	Stock           int          `json:"stock"`
	IsFeatured      bool         `json:"is_featured"`
	Category        *CategoryRef `json:"category,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
}

// ReviewEntry is one customer review shown on the detail page.
type ReviewEntry struct {
	ID        uuid.UUID `json:"id"`
	UserName  string    `json:"user_name"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Detail is the full product projection for the detail page.
type Detail struct {
	Summary
	Description   string        `json:"description,omitempty"`
	Images        []string      `json:"images"`
	IsActive      bool          `json:"is_active"`
	RatingAverage float64       `json:"rating_average"`
	ReviewCount   int           `json:"review_count"`
	Reviews       []ReviewEntry `json:"reviews"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// Page is one cursor page of product summaries.
type Page struct {
	Items      []Summary `json:"items"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

func toCategoryRef(category *models.Category) *CategoryRef {
	if category == nil {
		return nil
	}
	return &CategoryRef{ID: category.ID, Slug: category.Slug, Name: category.Name}
}

// ToSummary maps a product row onto the card projection. Other packages use
// it to embed product cards in their own reads.
func ToSummary(row models.Product) Summary {
	return toSummary(row)
}

func toSummary(row models.Product) Summary {
	summary := Summary{
		ID:           row.ID,
		Slug:         row.Slug,
		Name:         row.Name,
		Price:        row.Price,
		ComparePrice: row.ComparePrice,
		Stock:        row.Stock,
		IsFeatured:   row.IsFeatured,
		Category:     toCategoryRef(row.Category),
		CreatedAt:    row.CreatedAt,
	}
	if row.ComparePrice != nil {
		summary.DiscountPercent = pricing.DiscountPercent(row.Price, *row.ComparePrice)
	}
	if len(row.Images) > 0 {
		summary.Image = row.Images[0]
	}
	return summary
}

func toDetail(row models.Product) Detail {
	detail := Detail{
		Summary:   toSummary(row),
		Images:    row.Images,
		IsActive:  row.IsActive,
		Reviews:   []ReviewEntry{},
		UpdatedAt: row.UpdatedAt,
	}
	if row.Description != nil {
		detail.Description = *row.Description
	}
	if detail.Images == nil {
		detail.Images = []string{}
	}
	return detail
}

func toReviewEntry(row models.Review) ReviewEntry {
	entry := ReviewEntry{
		ID:        row.ID,
		Rating:    row.Rating,
		CreatedAt: row.CreatedAt,
	}
	if row.User != nil {
		entry.UserName = row.User.Name
	}
	if row.Comment != nil {
		entry.Comment = *row.Comment
	}
	return entry
}
