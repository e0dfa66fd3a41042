package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is a single cart line. UnitPrice is a snapshot of the catalog
// price taken when the line was saved; order totals are computed from it
// and never recomputed against the live catalog.
type CartItem struct {
	ProductID uuid.UUID `json:"product_id" bson:"product_id"`
	Title     string    `json:"title" bson:"title"`
	Color     string    `json:"color" bson:"color"`
	Size      string    `json:"size" bson:"size"`
	UnitPrice int       `json:"unit_price" bson:"unit_price"`
	Quantity  int       `json:"quantity" bson:"quantity"`
}

// Cart holds the single active cart of a customer.
type Cart struct {
	ID              uuid.UUID  `json:"id" bson:"_id"`
	CustomerID      uuid.UUID  `json:"customer_id" bson:"customer_id"`
	Items           []CartItem `json:"items" bson:"items"`
	DeliveryAddress Address    `json:"delivery_address" bson:"delivery_address"`
	CreatedAt       time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" bson:"updated_at"`
}

// CartIssue reports a requested line item that could not be honored and the
// quantity it was clamped to.
type CartIssue struct {
	ProductID uuid.UUID `json:"product_id"`
	Size      string    `json:"size"`
	Reason    string    `json:"reason"`
	Clamped   int       `json:"clamped_quantity"`
}
