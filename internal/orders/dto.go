package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/tokoluma/luma-backend/pkg/db/models"
	"github.com/tokoluma/luma-backend/pkg/enums"
	"github.com/tokoluma/luma-backend/pkg/types"
)

// ItemDTO is one snapshotted line of an order.
type ItemDTO struct {
	ID        uuid.UUID  `json:"id"`
	ProductID *uuid.UUID `json:"product_id,omitempty"`
	Name      string     `json:"name"`
	Slug      string     `json:"slug"`
	Image     string     `json:"image,omitempty"`
	UnitPrice int64      `json:"unit_price"`
	Quantity  int        `json:"quantity"`
	Total     int64      `json:"total"`
}

// OrderDTO is the order projection returned to buyers and the back office.
type OrderDTO struct {
	ID              uuid.UUID               `json:"id"`
	OrderNumber     string                  `json:"order_number"`
	Status          enums.OrderStatus       `json:"status"`
	PaymentStatus   enums.PaymentStatus     `json:"payment_status"`
	PaymentMethod   enums.PaymentMethodKind `json:"payment_method"`
	PaymentOption   string                  `json:"payment_option,omitempty"`
	Subtotal        int64                   `json:"subtotal"`
	Tax             int64                   `json:"tax"`
	ShippingFee     int64                   `json:"shipping_fee"`
	Total           int64                   `json:"total"`
	ShippingAddress types.Address           `json:"shipping_address"`
	Items           []ItemDTO               `json:"items"`
	// CustomerName and CustomerEmail are only populated on admin reads.
	CustomerName  string    `json:"customer_name,omitempty"`
	CustomerEmail string    `json:"customer_email,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// PageDTO is one cursor page of orders.
type PageDTO struct {
	Items      []OrderDTO `json:"items"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

// ToDTO maps an order row, items included, onto the read projection.
func ToDTO(row models.Order) OrderDTO {
	dto := OrderDTO{
		ID:              row.ID,
		OrderNumber:     row.OrderNumber,
		Status:          row.Status,
		PaymentStatus:   row.PaymentStatus,
		PaymentMethod:   row.PaymentMethod,
		PaymentOption:   row.PaymentOption,
		Subtotal:        row.Subtotal,
		Tax:             row.Tax,
		ShippingFee:     row.ShippingFee,
		Total:           row.Total,
		ShippingAddress: row.ShippingAddress,
		Items:           make([]ItemDTO, 0, len(row.Items)),
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
	for _, item := range row.Items {
		dto.Items = append(dto.Items, toItemDTO(item))
	}
	if row.User != nil {
		dto.CustomerName = row.User.Name
		dto.CustomerEmail = row.User.Email
	}
	return dto
}

func toItemDTO(row models.OrderItem) ItemDTO {
	item := ItemDTO{
		ID:        row.ID,
		ProductID: row.ProductID,
		Name:      row.Name,
		Slug:      row.Slug,
		UnitPrice: row.UnitPrice,
		Quantity:  row.Quantity,
		Total:     row.Total,
	}
	if row.Image != nil {
		item.Image = *row.Image
	}
	return item
}
