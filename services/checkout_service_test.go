package services_test

import (
	"context"
	stderrors "errors"
	"testing"

	apperrors "checkout-service/errors"
	"checkout-service/models"
	"checkout-service/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type checkoutFixture struct {
	carts       *fakeCartRepo
	customers   *fakeCustomerRepo
	products    *fakeProductRepo
	orders      *fakeOrderRepo
	settlements *fakeSettlementRepo
	gateway     *fakeGateway
	service     *services.CheckoutService

	customerID uuid.UUID
	productID  uuid.UUID
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()

	f := &checkoutFixture{
		carts:       newFakeCartRepo(),
		customers:   newFakeCustomerRepo(),
		products:    newFakeProductRepo(),
		orders:      newFakeOrderRepo(),
		settlements: newFakeSettlementRepo(),
		gateway:     &fakeGateway{},
		customerID:  uuid.New(),
		productID:   uuid.New(),
	}
	tx := &fakeTx{stores: []snapshotter{f.carts, f.customers, f.products, f.orders, f.settlements}}
	f.service = services.NewCheckoutService(
		f.carts, f.customers, f.products, f.orders, f.settlements,
		f.gateway, tx, "inr", zap.NewNop(),
	)

	f.customers.customers[f.customerID] = &models.Customer{
		ID:    f.customerID,
		Name:  "Asha",
		Email: "asha@example.com",
	}
	f.products.products[f.productID] = &models.Product{
		ID:    f.productID,
		Title: "Linen Shirt",
		Variants: []models.Variant{{
			Color: "white",
			Sizes: []models.VariantSize{{Size: "M", Price: 149900, InventoryQuantity: 5}},
		}},
	}
	return f
}

func (f *checkoutFixture) seedCart(items ...models.CartItem) {
	f.carts.carts[f.customerID] = &models.Cart{
		ID:         uuid.New(),
		CustomerID: f.customerID,
		Items:      items,
		DeliveryAddress: models.Address{
			Line1: "14 Hill Road", City: "Mumbai", State: "MH", Country: "IN", Pincode: 400050,
		},
	}
}

func (f *checkoutFixture) shirtLine(quantity int) models.CartItem {
	return models.CartItem{
		ProductID: f.productID,
		Title:     "Linen Shirt",
		Color:     "white",
		Size:      "M",
		UnitPrice: 149900,
		Quantity:  quantity,
	}
}

func TestCheckoutCreatesOrderAndSettlement(t *testing.T) {
	f := newCheckoutFixture(t)
	f.seedCart(f.shirtLine(2))

	result, err := f.service.Checkout(context.Background(), f.customerID)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, 299800, result.Amount)
	assert.Len(t, result.OrderNumber, 10)
	assert.Equal(t, "pi_test_secret", result.ClientSecret)

	order, err := f.orders.FindByID(context.Background(), result.OrderID)
	require.NoError(t, err)
	assert.Equal(t, f.customerID, order.CustomerID)
	assert.Equal(t, 299800, order.Amount)
	assert.False(t, order.IsPaymentCompleted)
	assert.False(t, order.IsDelivered)
	assert.False(t, order.IsCancelled)

	// One reservation entry per unit, not per line.
	settlement := f.settlements.byOrderID(result.OrderID)
	require.NotNil(t, settlement)
	assert.Len(t, settlement.Reservations, 2)
	assert.False(t, settlement.Delivered)
	assert.Equal(t, order.OrderNumber, settlement.OrderNumber)

	// The cart is consumed, and inventory stays untouched until the
	// payment outcome arrives.
	_, err = f.carts.FindByCustomerID(context.Background(), f.customerID)
	assert.Error(t, err)
	assert.Equal(t, 5, f.products.quantity(f.productID, "white", "M"))

	assert.Equal(t, 1, f.gateway.calls)
	assert.Equal(t, result.OrderID, f.gateway.lastReq.OrderID)
	assert.Equal(t, "asha@example.com", f.gateway.lastReq.ReceiptEmail)
	assert.Equal(t, int64(299800), f.gateway.lastReq.Amount)
}

func TestCheckoutCartNotFound(t *testing.T) {
	f := newCheckoutFixture(t)

	_, err := f.service.Checkout(context.Background(), f.customerID)
	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.Code)
}

func TestCheckoutEmptyCart(t *testing.T) {
	f := newCheckoutFixture(t)
	f.seedCart()

	_, err := f.service.Checkout(context.Background(), f.customerID)
	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.Code)
	assert.Equal(t, "Cart is empty", appErr.Message)
	assert.Zero(t, f.gateway.calls)
}

func TestCheckoutOutOfStockLeavesNothingBehind(t *testing.T) {
	f := newCheckoutFixture(t)
	f.seedCart(f.shirtLine(9)) // only 5 in stock

	_, err := f.service.Checkout(context.Background(), f.customerID)
	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Message, "out of stock")

	assert.Empty(t, f.orders.orders)
	assert.Empty(t, f.settlements.records)
	cart, err := f.carts.FindByCustomerID(context.Background(), f.customerID)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
	assert.Zero(t, f.gateway.calls)
}

func TestCheckoutGatewayFailureRollsBack(t *testing.T) {
	f := newCheckoutFixture(t)
	f.seedCart(f.shirtLine(1))
	f.gateway.err = stderrors.New("stripe: connection reset")

	_, err := f.service.Checkout(context.Background(), f.customerID)
	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 502, appErr.Code)

	// Compensation removed the order and settlement and put the cart
	// back, so the customer can simply retry.
	assert.Empty(t, f.orders.orders)
	assert.Empty(t, f.settlements.records)
	cart, err := f.carts.FindByCustomerID(context.Background(), f.customerID)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
	assert.Equal(t, 1, cart.Items[0].Quantity)
}

func TestCheckoutAmountUsesSnapshotPrices(t *testing.T) {
	f := newCheckoutFixture(t)
	line := f.shirtLine(1)
	line.UnitPrice = 99900 // price saved when the cart was built
	f.seedCart(line)

	// Catalog price moved after the cart was saved.
	f.products.products[f.productID].Variants[0].Sizes[0].Price = 199900

	result, err := f.service.Checkout(context.Background(), f.customerID)
	require.NoError(t, err)
	assert.Equal(t, 99900, result.Amount)
}
