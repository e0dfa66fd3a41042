package models_test

import (
	"testing"

	"checkout-service/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindSizeMatchesExactColorAndSize(t *testing.T) {
	product := &models.Product{
		ID:    uuid.New(),
		Title: "Linen Shirt",
		Variants: []models.Variant{
			{Color: "white", Sizes: []models.VariantSize{{Size: "M", Price: 100}, {Size: "L", Price: 110}}},
			{Color: "black", Sizes: []models.VariantSize{{Size: "M", Price: 120}}},
		},
	}

	unit := product.FindSize("black", "M")
	require.NotNil(t, unit)
	assert.Equal(t, 120, unit.Price)

	assert.Nil(t, product.FindSize("white", "XL"))
	assert.Nil(t, product.FindSize("red", "M"))
}

func TestFindSizeReturnsMutableUnit(t *testing.T) {
	product := &models.Product{
		Variants: []models.Variant{
			{Color: "white", Sizes: []models.VariantSize{{Size: "M", InventoryQuantity: 3}}},
		},
	}

	product.FindSize("white", "M").InventoryQuantity--
	assert.Equal(t, 2, product.Variants[0].Sizes[0].InventoryQuantity)
}

func TestAddressIsComplete(t *testing.T) {
	complete := models.Address{Line1: "14 Hill Road", City: "Mumbai", State: "MH", Country: "IN", Pincode: 400050}
	assert.True(t, complete.IsComplete())

	missingPincode := complete
	missingPincode.Pincode = 0
	assert.False(t, missingPincode.IsComplete())

	missingLine := complete
	missingLine.Line1 = ""
	assert.False(t, missingLine.IsComplete())

	// Line2 and landmark are optional.
	complete.Line2 = ""
	complete.Landmark = ""
	assert.True(t, complete.IsComplete())
}
