package services

import (
	"context"
	stderrors "errors"

	"checkout-service/errors"
	"checkout-service/models"
	"checkout-service/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

type OrderResponse struct {
	Orders []models.Order `json:"orders"`
	Meta   MetaData       `json:"meta"`
}

type MetaData struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	TotalOrders int64 `json:"total_orders"`
	TotalPages  int64 `json:"total_pages"`
	HasMore     bool  `json:"has_more"`
}

// OrderService serves order reads and the admin flag updates. Orders are
// immutable apart from their lifecycle flags.
type OrderService struct {
	orders repository.OrderRepository
	logger *zap.Logger
}

func NewOrderService(orders repository.OrderRepository, logger *zap.Logger) *OrderService {
	return &OrderService{orders: orders, logger: logger}
}

// GetCustomerOrders retrieves paginated orders for a specific customer
func (s *OrderService) GetCustomerOrders(ctx context.Context, customerID uuid.UUID, page, limit int) (*OrderResponse, error) {
	orders, total, err := s.orders.FindByCustomerID(ctx, customerID, page, limit)
	if err != nil {
		return nil, err
	}
	return paginatedResponse(orders, total, page, limit), nil
}

// GetAllOrders retrieves paginated orders for all customers (admin only)
func (s *OrderService) GetAllOrders(ctx context.Context, page, limit int) (*OrderResponse, error) {
	orders, total, err := s.orders.FindAll(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	return paginatedResponse(orders, total, page, limit), nil
}

// GetOrderByID retrieves a specific order for a customer
func (s *OrderService) GetOrderByID(ctx context.Context, customerID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.orders.FindByIDAndCustomerID(ctx, orderID, customerID)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFound("Order not found")
		}
		return nil, err
	}
	return order, nil
}

// UpdateFlags applies admin lifecycle flag updates. A delivered order can
// never also be cancelled; settlement owns is_payment_completed but the
// flag stays admin-correctable for support cases.
func (s *OrderService) UpdateFlags(ctx context.Context, orderID uuid.UUID, update models.OrderFlagUpdate) (*models.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFound("Order not found")
		}
		return nil, err
	}

	delivered := order.IsDelivered
	cancelled := order.IsCancelled
	if update.IsDelivered != nil {
		delivered = *update.IsDelivered
	}
	if update.IsCancelled != nil {
		cancelled = *update.IsCancelled
	}
	if delivered && cancelled {
		return nil, errors.Conflict("An order cannot be both delivered and cancelled")
	}

	updates := bson.M{}
	if update.IsDelivered != nil {
		updates["is_delivered"] = *update.IsDelivered
	}
	if update.IsCancelled != nil {
		updates["is_cancelled"] = *update.IsCancelled
	}
	if update.IsPaymentCompleted != nil {
		updates["is_payment_completed"] = *update.IsPaymentCompleted
	}
	if len(updates) == 0 {
		return order, nil
	}

	if err := s.orders.UpdateFlags(ctx, orderID, updates); err != nil {
		return nil, err
	}

	s.logger.Info("Order flags updated", zap.String("order_id", orderID.String()))
	return s.orders.FindByID(ctx, orderID)
}

func paginatedResponse(orders []models.Order, total int64, page, limit int) *OrderResponse {
	return &OrderResponse{
		Orders: orders,
		Meta: MetaData{
			Page:        page,
			Limit:       limit,
			TotalOrders: total,
			TotalPages:  calculateTotalPages(total, limit),
			HasMore:     total > int64(page*limit),
		},
	}
}

func calculateTotalPages(total int64, limit int) int64 {
	if limit == 0 {
		return 0
	}
	return (total + int64(limit) - 1) / int64(limit)
}
