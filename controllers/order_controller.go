package controllers

import (
	"net/http"
	"strconv"

	"checkout-service/models"
	"checkout-service/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OrderController struct {
	checkoutService *services.CheckoutService
	orderService    *services.OrderService
}

func NewOrderController(checkoutService *services.CheckoutService, orderService *services.OrderService) *OrderController {
	return &OrderController{
		checkoutService: checkoutService,
		orderService:    orderService,
	}
}

// CreateOrder runs a checkout attempt for the authenticated customer and
// returns the payment handle on success.
func (oc *OrderController) CreateOrder(ctx *gin.Context) {
	customerID, ok := customerIDFrom(ctx)
	if !ok {
		return
	}

	result, err := oc.checkoutService.Checkout(ctx.Request.Context(), customerID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Order created successfully", "order": result})
}

// GetOrders returns paginated orders for the authenticated customer
func (oc *OrderController) GetOrders(ctx *gin.Context) {
	customerID, ok := customerIDFrom(ctx)
	if !ok {
		return
	}

	page, limit := parsePaginationParams(ctx)

	result, err := oc.orderService.GetCustomerOrders(ctx.Request.Context(), customerID, page, limit)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, result)
}

// GetOrderByID returns a specific order for the authenticated customer
func (oc *OrderController) GetOrderByID(ctx *gin.Context) {
	customerID, ok := customerIDFrom(ctx)
	if !ok {
		return
	}

	orderID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID format"})
		return
	}

	order, err := oc.orderService.GetOrderByID(ctx.Request.Context(), customerID, orderID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"order": order})
}

// GetAllOrders returns paginated orders for all customers (admin only)
func (oc *OrderController) GetAllOrders(ctx *gin.Context) {
	page, limit := parsePaginationParams(ctx)

	result, err := oc.orderService.GetAllOrders(ctx.Request.Context(), page, limit)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, result)
}

// UpdateOrder applies admin lifecycle flag updates to an order.
func (oc *OrderController) UpdateOrder(ctx *gin.Context) {
	orderID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID format"})
		return
	}

	var update models.OrderFlagUpdate
	if err := ctx.ShouldBindJSON(&update); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	order, err := oc.orderService.UpdateFlags(ctx.Request.Context(), orderID, update)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Order updated successfully", "order": order})
}

// parsePaginationParams extracts and validates pagination parameters
func parsePaginationParams(ctx *gin.Context) (int, int) {
	const MaxLimit = 100

	pageInt := 1
	limitInt := 10

	if p, err := strconv.Atoi(ctx.DefaultQuery("page", "1")); err == nil && p > 0 {
		pageInt = p
	}
	if l, err := strconv.Atoi(ctx.DefaultQuery("limit", "10")); err == nil && l > 0 {
		limitInt = l
		if limitInt > MaxLimit {
			limitInt = MaxLimit
		}
	}

	return pageInt, limitInt
}
