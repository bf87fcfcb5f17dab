package wishlist

import (
	"time"

	"github.com/google/uuid"

	product "github.com/tokoluma/luma-backend/internal/products"
)

// ItemDTO wraps the product summary included in a wishlist row.
type ItemDTO struct {
	Product product.Summary `json:"product"`
	SavedAt time.Time       `json:"saved_at"`
}

// PageDTO returns a cursor-paginated wishlist view.
type PageDTO struct {
	Items      []ItemDTO `json:"items"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

// IDsDTO is a lightweight projection containing only saved product IDs.
type IDsDTO struct {
	ProductIDs []uuid.UUID `json:"product_ids"`
}
