package models

import (
	"time"

	"github.com/google/uuid"
)

// Order is created once from a validated cart. Items and the delivery
// address are denormalized so later catalog changes never alter historical
// orders. Amount equals the sum of unit price times quantity over the
// items, fixed at creation time.
type Order struct {
	ID                 uuid.UUID  `json:"id" bson:"_id"`
	OrderNumber        string     `json:"order_number" bson:"order_number"`
	CustomerID         uuid.UUID  `json:"customer_id" bson:"customer_id"`
	Amount             int        `json:"amount" bson:"amount"`
	Items              []CartItem `json:"items" bson:"items"`
	DeliveryAddress    Address    `json:"delivery_address" bson:"delivery_address"`
	IsDelivered        bool       `json:"is_delivered" bson:"is_delivered"`
	IsCancelled        bool       `json:"is_cancelled" bson:"is_cancelled"`
	IsPaymentCompleted bool       `json:"is_payment_completed" bson:"is_payment_completed"`
	CreatedAt          time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at" bson:"updated_at"`
}

// OrderFlagUpdate carries the admin-updatable lifecycle flags. Nil means
// leave the flag untouched.
type OrderFlagUpdate struct {
	IsDelivered        *bool `json:"is_delivered"`
	IsCancelled        *bool `json:"is_cancelled"`
	IsPaymentCompleted *bool `json:"is_payment_completed"`
}
