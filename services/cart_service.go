package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"checkout-service/database"
	"checkout-service/errors"
	"checkout-service/models"
	"checkout-service/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CartItemRequest is one requested cart line.
type CartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Color     string    `json:"color" binding:"required"`
	Size      string    `json:"size" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

// UpsertCartRequest replaces the customer's cart contents.
type UpsertCartRequest struct {
	Items              []CartItemRequest `json:"items" binding:"required,dive"`
	IsDefaultAddress   bool              `json:"is_default_address"`
	NewDeliveryAddress *models.Address   `json:"new_delivery_address"`
}

type CartService struct {
	carts     repository.CartRepository
	customers repository.CustomerRepository
	products  repository.ProductRepository
	tx        database.TxRunner
	logger    *zap.Logger
}

func NewCartService(
	carts repository.CartRepository,
	customers repository.CustomerRepository,
	products repository.ProductRepository,
	tx database.TxRunner,
	logger *zap.Logger,
) *CartService {
	return &CartService{
		carts:     carts,
		customers: customers,
		products:  products,
		tx:        tx,
		logger:    logger,
	}
}

// UpsertCart validates the requested line items against current inventory
// and stores the cart. A line item is eligible only if available quantity
// is positive and covers the requested quantity. Ineligible items are
// reported back with a reason and clamped to the quantity already stored
// in the cart, so a customer is never silently pushed to request more than
// what is actually held for them.
func (s *CartService) UpsertCart(ctx context.Context, customerID uuid.UUID, req *UpsertCartRequest) (*models.Cart, []models.CartIssue, error) {
	var (
		cart   *models.Cart
		issues []models.CartIssue
	)

	err := s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		customer, err := s.customers.FindByID(txCtx, customerID)
		if err != nil {
			if stderrors.Is(err, repository.ErrNotFound) {
				return errors.NotFound("Customer not found")
			}
			return err
		}

		address := customer.Address
		if !req.IsDefaultAddress {
			if req.NewDeliveryAddress == nil {
				return errors.Validation("Delivery address is required")
			}
			address = *req.NewDeliveryAddress
		}
		if !address.IsComplete() {
			return errors.Validation("Delivery address is incomplete")
		}

		previous, err := s.carts.FindByCustomerID(txCtx, customerID)
		if err != nil && !stderrors.Is(err, repository.ErrNotFound) {
			return err
		}

		items, lineIssues, err := s.resolveItems(txCtx, req.Items, previous)
		if err != nil {
			return err
		}
		issues = lineIssues

		cart = &models.Cart{
			ID:              uuid.New(),
			CustomerID:      customerID,
			Items:           items,
			DeliveryAddress: address,
		}
		if previous != nil {
			cart.ID = previous.ID
			cart.CreatedAt = previous.CreatedAt
		}
		return s.carts.Save(txCtx, cart)
	})
	if err != nil {
		return nil, nil, err
	}
	return cart, issues, nil
}

// resolveItems checks every requested line against current inventory and
// returns the lines to store plus the issues found.
func (s *CartService) resolveItems(ctx context.Context, requested []CartItemRequest, previous *models.Cart) ([]models.CartItem, []models.CartIssue, error) {
	ids := make([]uuid.UUID, 0, len(requested))
	for _, item := range requested {
		if item.Quantity < 1 {
			return nil, nil, errors.Validation("Line item quantity must be at least 1")
		}
		ids = append(ids, item.ProductID)
	}

	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	byID := make(map[uuid.UUID]*models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	var (
		items  []models.CartItem
		issues []models.CartIssue
	)
	for _, item := range requested {
		product := byID[item.ProductID]
		if product == nil {
			issues = append(issues, s.clampLine(item, previous, "product is no longer available", &items))
			continue
		}
		unit := product.FindSize(item.Color, item.Size)
		if unit == nil {
			issues = append(issues, s.clampLine(item, previous, fmt.Sprintf("%s has no size %s variant", product.Title, item.Size), &items))
			continue
		}
		if unit.InventoryQuantity == 0 || unit.InventoryQuantity < item.Quantity {
			reason := fmt.Sprintf("%s of size %s is out of stock", product.Title, item.Size)
			if unit.InventoryQuantity > 0 {
				reason = fmt.Sprintf("only %d of %s in size %s left", unit.InventoryQuantity, product.Title, item.Size)
			}
			issues = append(issues, s.clampLine(item, previous, reason, &items))
			continue
		}

		items = append(items, models.CartItem{
			ProductID: product.ID,
			Title:     product.Title,
			Color:     item.Color,
			Size:      item.Size,
			UnitPrice: unit.Price,
			Quantity:  item.Quantity,
		})
	}
	return items, issues, nil
}

// clampLine keeps an ineligible line at the quantity the stored cart
// already holds for it; a line with no stored predecessor is dropped.
func (s *CartService) clampLine(item CartItemRequest, previous *models.Cart, reason string, items *[]models.CartItem) models.CartIssue {
	clamped := 0
	if previous != nil {
		for _, prev := range previous.Items {
			if prev.ProductID == item.ProductID && prev.Size == item.Size && prev.Color == item.Color {
				clamped = prev.Quantity
				*items = append(*items, prev)
				break
			}
		}
	}
	return models.CartIssue{
		ProductID: item.ProductID,
		Size:      item.Size,
		Reason:    reason,
		Clamped:   clamped,
	}
}

// GetCart returns the customer's cart, lazily creating an empty one tied
// to the customer's stored address when none exists.
func (s *CartService) GetCart(ctx context.Context, customerID uuid.UUID) (*models.Cart, error) {
	cart, err := s.carts.FindByCustomerID(ctx, customerID)
	if err == nil {
		return cart, nil
	}
	if !stderrors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	customer, err := s.customers.FindByID(ctx, customerID)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFound("Customer not found")
		}
		return nil, err
	}

	cart = &models.Cart{
		ID:              uuid.New(),
		CustomerID:      customerID,
		Items:           []models.CartItem{},
		DeliveryAddress: customer.Address,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	s.logger.Info("Created empty cart", zap.String("customer_id", customerID.String()))
	return cart, nil
}
