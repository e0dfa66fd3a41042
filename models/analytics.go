package models

import (
	"time"

	"github.com/google/uuid"
)

// DashboardName is the name of the single running-totals row.
const DashboardName = "dashboard"

// Analytics is a single mutable row of running totals. It is only ever
// mutated through $inc operations co-located in the transaction of the
// event that changes a count, never recomputed by full scan.
type Analytics struct {
	Name             string    `json:"name" bson:"name"`
	TotalCustomers   int64     `json:"total_customers" bson:"total_customers"`
	TotalProducts    int64     `json:"total_products" bson:"total_products"`
	TotalOrders      int64     `json:"total_orders" bson:"total_orders"`
	TotalOrderAmount int64     `json:"total_order_amount" bson:"total_order_amount"`
	UpdatedAt        time.Time `json:"updated_at" bson:"updated_at"`
}

// BestSelling is a per-product running sale counter, incremented once per
// unit sold on confirmed payment. Read-only to checkout.
type BestSelling struct {
	ProductID uuid.UUID `json:"product_id" bson:"_id"`
	Quantity  int64     `json:"quantity" bson:"quantity"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}
