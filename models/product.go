package models

import (
	"time"

	"github.com/google/uuid"
)

// VariantSize holds the sellable unit for a (variant, size) combination.
// InventoryQuantity is never negative and is mutated only through atomic
// conditional increments, never through a blind overwrite.
type VariantSize struct {
	Size              string `json:"size" bson:"size"`
	Price             int    `json:"price" bson:"price"` // minor currency units
	CompareAtPrice    int    `json:"compare_at_price,omitempty" bson:"compare_at_price,omitempty"`
	SKU               string `json:"sku,omitempty" bson:"sku,omitempty"`
	InventoryQuantity int    `json:"inventory_quantity" bson:"inventory_quantity"`
}

type Variant struct {
	Title string        `json:"title,omitempty" bson:"title,omitempty"`
	Color string        `json:"color" bson:"color"`
	Sizes []VariantSize `json:"sizes" bson:"sizes"`
}

type Product struct {
	ID          uuid.UUID `json:"id" bson:"_id"`
	Title       string    `json:"title" bson:"title"`
	ProductType string    `json:"product_type,omitempty" bson:"product_type,omitempty"`
	Status      string    `json:"status,omitempty" bson:"status,omitempty"`
	Variants    []Variant `json:"variants" bson:"variants"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

// FindSize resolves the inventory unit for an exact (color, size) tuple.
func (p *Product) FindSize(color, size string) *VariantSize {
	for i := range p.Variants {
		if p.Variants[i].Color != color {
			continue
		}
		for j := range p.Variants[i].Sizes {
			if p.Variants[i].Sizes[j].Size == size {
				return &p.Variants[i].Sizes[j]
			}
		}
	}
	return nil
}
