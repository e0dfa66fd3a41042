package models

import (
	"time"

	"github.com/google/uuid"
)

// Address is the delivery address shape shared by customers, carts and
// orders. A snapshot of it is denormalized onto every order.
type Address struct {
	Line1    string `json:"line1" bson:"line1"`
	Line2    string `json:"line2,omitempty" bson:"line2,omitempty"`
	Landmark string `json:"landmark,omitempty" bson:"landmark,omitempty"`
	City     string `json:"city" bson:"city"`
	State    string `json:"state" bson:"state"`
	Country  string `json:"country" bson:"country"`
	Pincode  int    `json:"pincode" bson:"pincode"`
}

// IsComplete reports whether all required address fields are present.
func (a Address) IsComplete() bool {
	return a.Line1 != "" && a.City != "" && a.State != "" && a.Country != "" && a.Pincode != 0
}

type Customer struct {
	ID          uuid.UUID `json:"id" bson:"_id"`
	Name        string    `json:"name" bson:"name"`
	Email       string    `json:"email" bson:"email"`
	Password    string    `json:"-" bson:"password"`
	PhoneNumber string    `json:"phone_number,omitempty" bson:"phone_number,omitempty"`
	Address     Address   `json:"address" bson:"address"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}
