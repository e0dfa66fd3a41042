package models

import (
	"time"

	"github.com/google/uuid"
)

// Reservation marks one inventory unit as consumed by an order. Entries
// are per unit: a line of quantity 2 produces two reservations, matching
// the one-unit conditional decrement applied at settlement.
type Reservation struct {
	ProductID uuid.UUID `json:"product_id" bson:"product_id"`
	Color     string    `json:"color" bson:"color"`
	Size      string    `json:"size" bson:"size"`
}

// SettlementRecord is the per-order idempotency and audit record. It is
// created in the same atomic unit as the order and remembers which
// inventory decrements were reserved and whether the gateway outcome has
// been durably applied (Delivered). The raw last-seen gateway event is
// kept for audit and debugging.
type SettlementRecord struct {
	ID           uuid.UUID     `json:"id" bson:"_id"`
	OrderID      uuid.UUID     `json:"order_id" bson:"order_id"`
	OrderNumber  string        `json:"order_number" bson:"order_number"`
	CustomerID   uuid.UUID     `json:"customer_id" bson:"customer_id"`
	Amount       int           `json:"amount" bson:"amount"`
	Reservations []Reservation `json:"reservations" bson:"reservations"`
	Delivered    bool          `json:"delivered" bson:"delivered"`
	GatewayEvent []byte        `json:"-" bson:"gateway_event,omitempty"`
	CreatedAt    time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at" bson:"updated_at"`
}
