package services

import (
	"context"
	stderrors "errors"

	"checkout-service/database"
	"checkout-service/errors"
	"checkout-service/models"
	"checkout-service/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CheckoutResult is returned to the caller on a committed checkout.
type CheckoutResult struct {
	OrderID      uuid.UUID `json:"order_id"`
	OrderNumber  string    `json:"order_number"`
	Amount       int       `json:"amount"`
	ClientSecret string    `json:"client_secret"`
}

// CheckoutService converts a customer's cart into a committed order:
// validate the cart, fix the total, create the order and its settlement
// record, request a payment intent, clear the cart. Inventory is NOT
// decremented here; the decrement happens on confirmed payment, so an
// unconfirmed payment can never starve other customers.
type CheckoutService struct {
	carts       repository.CartRepository
	customers   repository.CustomerRepository
	products    repository.ProductRepository
	orders      repository.OrderRepository
	settlements repository.SettlementRepository
	gateway     PaymentGateway
	tx          database.TxRunner
	currency    string
	logger      *zap.Logger
}

func NewCheckoutService(
	carts repository.CartRepository,
	customers repository.CustomerRepository,
	products repository.ProductRepository,
	orders repository.OrderRepository,
	settlements repository.SettlementRepository,
	gateway PaymentGateway,
	tx database.TxRunner,
	currency string,
	logger *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		carts:       carts,
		customers:   customers,
		products:    products,
		orders:      orders,
		settlements: settlements,
		gateway:     gateway,
		tx:          tx,
		currency:    currency,
		logger:      logger,
	}
}

// Checkout runs one checkout attempt for the customer. All record writes
// happen inside a single transaction; the only action outside it is the
// gateway call, whose failure triggers an explicit compensating rollback
// so the customer can retry from an unmodified cart.
func (s *CheckoutService) Checkout(ctx context.Context, customerID uuid.UUID) (*CheckoutResult, error) {
	var (
		cart         *models.Cart
		order        *models.Order
		receiptEmail string
	)

	err := s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		var err error
		cart, err = s.carts.FindByCustomerID(txCtx, customerID)
		if err != nil {
			if stderrors.Is(err, repository.ErrNotFound) {
				return errors.NotFound("Cart not found")
			}
			return err
		}
		if len(cart.Items) == 0 {
			return errors.Validation("Cart is empty")
		}

		customer, err := s.customers.FindByID(txCtx, customerID)
		if err != nil {
			if stderrors.Is(err, repository.ErrNotFound) {
				return errors.NotFound("Customer not found")
			}
			return err
		}
		receiptEmail = customer.Email

		// The cart was validated when it was saved, but inventory may
		// have moved since; re-resolve every line.
		if err := s.validateAvailability(txCtx, cart); err != nil {
			return err
		}

		amount := 0
		for _, item := range cart.Items {
			amount += item.UnitPrice * item.Quantity
		}

		orderNumber, err := GenerateOrderNumber()
		if err != nil {
			return err
		}

		order = &models.Order{
			ID:              uuid.New(),
			OrderNumber:     orderNumber,
			CustomerID:      customerID,
			Amount:          amount,
			Items:           cart.Items,
			DeliveryAddress: cart.DeliveryAddress,
		}
		if err := s.orders.Create(txCtx, order); err != nil {
			return err
		}

		settlement := &models.SettlementRecord{
			ID:           uuid.New(),
			OrderID:      order.ID,
			OrderNumber:  orderNumber,
			CustomerID:   customerID,
			Amount:       amount,
			Reservations: expandReservations(cart.Items),
		}
		if err := s.settlements.Create(txCtx, settlement); err != nil {
			return err
		}

		return s.carts.DeleteByCustomerID(txCtx, customerID)
	})
	if err != nil {
		return nil, err
	}

	intent, err := s.gateway.CreatePaymentIntent(ctx, PaymentIntentRequest{
		Amount:       int64(order.Amount),
		Currency:     s.currency,
		ReceiptEmail: receiptEmail,
		OrderID:      order.ID,
		OrderNumber:  order.OrderNumber,
		CustomerID:   customerID,
	})
	if err != nil {
		s.logger.Warn("Payment intent creation failed, rolling checkout back",
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
		if compErr := s.compensate(ctx, order.ID, customerID, cart); compErr != nil {
			s.logger.Error("Checkout compensation failed",
				zap.String("order_id", order.ID.String()),
				zap.Error(compErr),
			)
		}
		return nil, errors.Gateway(err)
	}

	s.logger.Info("Checkout committed",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.Int("amount", order.Amount),
	)

	return &CheckoutResult{
		OrderID:      order.ID,
		OrderNumber:  order.OrderNumber,
		Amount:       order.Amount,
		ClientSecret: intent.ClientSecret,
	}, nil
}

// validateAvailability re-checks every line against current inventory.
func (s *CheckoutService) validateAvailability(ctx context.Context, cart *models.Cart) error {
	ids := make([]uuid.UUID, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.ProductID)
	}

	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	byID := make(map[uuid.UUID]*models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	for _, item := range cart.Items {
		product := byID[item.ProductID]
		if product == nil {
			return errors.OutOfStock(item.Title, item.Size)
		}
		unit := product.FindSize(item.Color, item.Size)
		if unit == nil || unit.InventoryQuantity == 0 || unit.InventoryQuantity < item.Quantity {
			return errors.OutOfStock(product.Title, item.Size)
		}
	}
	return nil
}

// compensate undoes a checkout whose gateway call failed: the order and
// settlement record are removed and the cart restored verbatim, all in
// one transaction.
func (s *CheckoutService) compensate(ctx context.Context, orderID, customerID uuid.UUID, cart *models.Cart) error {
	return s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.settlements.DeleteByOrderID(txCtx, orderID); err != nil {
			return err
		}
		if err := s.orders.Delete(txCtx, orderID); err != nil {
			return err
		}
		return s.carts.Save(txCtx, cart)
	})
}

// expandReservations records one reservation entry per unit: a line of
// quantity 2 produces two entries, matching the one-unit conditional
// decrement applied at settlement.
func expandReservations(items []models.CartItem) []models.Reservation {
	var reservations []models.Reservation
	for _, item := range items {
		for i := 0; i < item.Quantity; i++ {
			reservations = append(reservations, models.Reservation{
				ProductID: item.ProductID,
				Color:     item.Color,
				Size:      item.Size,
			})
		}
	}
	return reservations
}
