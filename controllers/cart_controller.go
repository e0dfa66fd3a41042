package controllers

import (
	"net/http"

	apperrors "checkout-service/errors"
	"checkout-service/middleware"
	"checkout-service/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CartController struct {
	cartService *services.CartService
}

func NewCartController(cartService *services.CartService) *CartController {
	return &CartController{cartService: cartService}
}

// UpsertCart replaces the authenticated customer's cart contents.
func (cc *CartController) UpsertCart(ctx *gin.Context) {
	customerID, ok := customerIDFrom(ctx)
	if !ok {
		return
	}

	var req services.UpsertCartRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	cart, issues, err := cc.cartService.UpsertCart(ctx.Request.Context(), customerID, &req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"cart": cart, "issues": issues})
}

// GetCart returns the customer's cart, creating an empty one if needed.
func (cc *CartController) GetCart(ctx *gin.Context) {
	customerID, ok := customerIDFrom(ctx)
	if !ok {
		return
	}

	cart, err := cc.cartService.GetCart(ctx.Request.Context(), customerID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"cart": cart})
}

// customerIDFrom resolves the authenticated customer id or writes the
// error response itself.
func customerIDFrom(ctx *gin.Context) (uuid.UUID, bool) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return uuid.Nil, false
	}
	id, err := uuid.Parse(userID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer ID format"})
		return uuid.Nil, false
	}
	return id, true
}

// respondError renders an application error with its status code.
func respondError(ctx *gin.Context, err error) {
	if appErr, ok := err.(*apperrors.Error); ok {
		ctx.JSON(appErr.Code, gin.H{"error": appErr.Message})
		return
	}
	ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
