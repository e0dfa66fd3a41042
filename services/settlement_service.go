package services

import (
	"context"
	stderrors "errors"

	"checkout-service/database"
	"checkout-service/models"
	"checkout-service/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// GatewayEvent is a verified payment-outcome notification reduced to what
// reconciliation needs: the event type, the order identity attached at
// checkout and the raw payload for the audit trail.
type GatewayEvent struct {
	Type        string
	OrderID     uuid.UUID
	OrderNumber string
	Raw         []byte
}

// OrderConfirmation is the structured message handed off for delivery on a
// confirmed payment.
type OrderConfirmation struct {
	OrderID         uuid.UUID         `json:"order_id"`
	OrderNumber     string            `json:"order_number"`
	CustomerID      uuid.UUID         `json:"customer_id"`
	Amount          int               `json:"amount"`
	Items           []models.CartItem `json:"items"`
	DeliveryAddress models.Address    `json:"delivery_address"`
}

// ConfirmationPublisher hands a confirmation off to the notification
// collaborator. Delivery failures never roll back a committed settlement.
type ConfirmationPublisher interface {
	Publish(ctx context.Context, confirmation OrderConfirmation) error
}

// CacheInvalidator drops derived read caches after a settlement changed
// the counters behind them.
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

// errReservationLost aborts the settlement transaction when a reserved
// unit was already consumed by a concurrent settlement.
var errReservationLost = stderrors.New("reserved inventory unit no longer available")

// SettlementService applies the gateway's asynchronous payment outcome to
// a settlement record exactly once, regardless of notification
// duplication or reordering. The record's Delivered flag, checked and set
// inside one transaction, is the sole idempotency mechanism.
type SettlementService struct {
	settlements repository.SettlementRepository
	orders      repository.OrderRepository
	products    repository.ProductRepository
	analytics   repository.AnalyticsRepository
	tx          database.TxRunner
	publisher   ConfirmationPublisher
	cache       CacheInvalidator
	logger      *zap.Logger
}

func NewSettlementService(
	settlements repository.SettlementRepository,
	orders repository.OrderRepository,
	products repository.ProductRepository,
	analytics repository.AnalyticsRepository,
	tx database.TxRunner,
	publisher ConfirmationPublisher,
	cache CacheInvalidator,
	logger *zap.Logger,
) *SettlementService {
	return &SettlementService{
		settlements: settlements,
		orders:      orders,
		products:    products,
		analytics:   analytics,
		tx:          tx,
		publisher:   publisher,
		cache:       cache,
		logger:      logger,
	}
}

// HandleGatewayEvent reconciles one notification. A nil return means the
// webhook response is success; processing errors bubble up so the gateway
// retries with its own policy.
func (s *SettlementService) HandleGatewayEvent(ctx context.Context, evt GatewayEvent) error {
	var (
		settled      bool
		lostRecordID uuid.UUID
		lostOrderID  uuid.UUID
		confirmation OrderConfirmation
	)

	err := s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		record, err := s.settlements.FindByOrderID(txCtx, evt.OrderID)
		if err != nil {
			if stderrors.Is(err, repository.ErrNotFound) {
				// Not an order this service created, or its scope has
				// changed. Record and suppress gateway retries.
				s.logger.Warn("Gateway event for unknown settlement",
					zap.String("order_id", evt.OrderID.String()),
					zap.String("order_number", evt.OrderNumber),
				)
				return nil
			}
			return err
		}

		if record.OrderNumber != evt.OrderNumber {
			// The order id is the idempotency key; a disagreeing order
			// number means the metadata was tampered with or crossed.
			s.logger.Warn("Gateway event order number mismatch",
				zap.String("order_id", evt.OrderID.String()),
				zap.String("event_order_number", evt.OrderNumber),
				zap.String("record_order_number", record.OrderNumber),
			)
			return nil
		}

		if record.Delivered {
			// Duplicate delivery; the outcome is already applied.
			s.logger.Info("Skipping duplicate gateway event",
				zap.String("order_id", evt.OrderID.String()),
				zap.String("event_type", evt.Type),
			)
			return nil
		}

		order, err := s.orders.FindByID(txCtx, record.OrderID)
		if err != nil {
			if stderrors.Is(err, repository.ErrNotFound) {
				// Terminal inconsistency: the settlement points at an
				// order that no longer resolves. Flag it, don't act on it.
				s.logger.Error("Settlement references a missing order",
					zap.String("order_id", record.OrderID.String()),
					zap.String("order_number", record.OrderNumber),
				)
				return s.settlements.MarkDelivered(txCtx, record.ID, evt.Raw)
			}
			return err
		}

		if evt.Type != EventPaymentSucceeded {
			// Failed or cancelled payment: no inventory or analytics
			// change, just record the outcome.
			return s.settlements.MarkDelivered(txCtx, record.ID, evt.Raw)
		}

		for _, reservation := range record.Reservations {
			ok, err := s.products.ReserveOneUnit(txCtx, reservation.ProductID, reservation.Color, reservation.Size)
			if err != nil {
				return err
			}
			if !ok {
				// A concurrent settlement took the last unit between
				// checkout and confirmation. Abort so none of this
				// transaction's decrements survive.
				lostRecordID = record.ID
				lostOrderID = order.ID
				return errReservationLost
			}
		}

		if err := s.analytics.IncrementOrders(txCtx, record.Amount); err != nil {
			return err
		}
		for productID, units := range unitsByProduct(record.Reservations) {
			if err := s.analytics.IncrementSold(txCtx, productID, units); err != nil {
				return err
			}
		}

		if err := s.orders.UpdateFlags(txCtx, order.ID, bson.M{"is_payment_completed": true}); err != nil {
			return err
		}
		if err := s.settlements.MarkDelivered(txCtx, record.ID, evt.Raw); err != nil {
			return err
		}

		settled = true
		confirmation = OrderConfirmation{
			OrderID:         order.ID,
			OrderNumber:     order.OrderNumber,
			CustomerID:      order.CustomerID,
			Amount:          record.Amount,
			Items:           order.Items,
			DeliveryAddress: order.DeliveryAddress,
		}
		return nil
	})

	if stderrors.Is(err, errReservationLost) {
		return s.cancelLostOrder(ctx, lostRecordID, lostOrderID, evt)
	}
	if err != nil {
		return err
	}

	if settled {
		s.afterSettlement(ctx, confirmation)
	}
	return nil
}

// cancelLostOrder is the compensating path for an order that lost the race
// for its reserved inventory: the order is cancelled, the settlement is
// marked delivered with the event attached, and the inconsistency is
// surfaced for operator review. The gateway still gets a success response.
func (s *SettlementService) cancelLostOrder(ctx context.Context, recordID, orderID uuid.UUID, evt GatewayEvent) error {
	s.logger.Error("Reserved inventory no longer available, cancelling order",
		zap.String("order_id", orderID.String()),
		zap.String("order_number", evt.OrderNumber),
	)
	return s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.orders.UpdateFlags(txCtx, orderID, bson.M{"is_cancelled": true}); err != nil {
			return err
		}
		return s.settlements.MarkDelivered(txCtx, recordID, evt.Raw)
	})
}

// afterSettlement runs the best-effort side effects of a committed
// settlement. Failures are logged and never undo the settlement.
func (s *SettlementService) afterSettlement(ctx context.Context, confirmation OrderConfirmation) {
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, confirmation); err != nil {
			s.logger.Error("Failed to hand off order confirmation",
				zap.String("order_id", confirmation.OrderID.String()),
				zap.Error(err),
			)
		}
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.Warn("Failed to invalidate best-seller cache", zap.Error(err))
		}
	}
}

func unitsByProduct(reservations []models.Reservation) map[uuid.UUID]int {
	units := make(map[uuid.UUID]int)
	for _, r := range reservations {
		units[r.ProductID]++
	}
	return units
}
