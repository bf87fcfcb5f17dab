package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tokoluma/luma-backend/pkg/enums"
	"github.com/tokoluma/luma-backend/pkg/types"
)

// Order is the persisted result of a successful checkout. Amounts are whole
// rupiah, snapshotted from the pricing quote at checkout time.
type Order struct {
	ID              uuid.UUID               `gorm:"column:id;type:uuid;primaryKey"`
	OrderNumber     string                  `gorm:"column:order_number;not null;uniqueIndex:orders_order_number_key"`
	UserID          uuid.UUID               `gorm:"column:user_id;type:uuid;not null;index:orders_user_id_idx"`
	Status          enums.OrderStatus       `gorm:"column:status;type:text;not null;default:'pending'"`
	PaymentStatus   enums.PaymentStatus     `gorm:"column:payment_status;type:text;not null;default:'unpaid'"`
	PaymentMethod   enums.PaymentMethodKind `gorm:"column:payment_method;type:text;not null"`
	PaymentOption   string                  `gorm:"column:payment_option;not null"`
	Subtotal        int64                   `gorm:"column:subtotal;not null"`
	Tax             int64                   `gorm:"column:tax;not null"`
	ShippingFee     int64                   `gorm:"column:shipping_fee;not null"`
	Total           int64                   `gorm:"column:total;not null"`
	ShippingAddress types.Address           `gorm:"column:shipping_address;type:jsonb;serializer:json"`
	Items           []OrderItem             `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	User            *User                   `gorm:"foreignKey:UserID"`
	CreatedAt       time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
