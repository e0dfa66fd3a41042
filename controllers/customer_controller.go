package controllers

import (
	"net/http"

	"checkout-service/services"

	"github.com/gin-gonic/gin"
)

type CustomerController struct {
	customerService *services.CustomerService
}

func NewCustomerController(customerService *services.CustomerService) *CustomerController {
	return &CustomerController{customerService: customerService}
}

// UpdatePassword hashes and stores a new password for the authenticated
// customer.
func (cc *CustomerController) UpdatePassword(ctx *gin.Context) {
	customerID, ok := customerIDFrom(ctx)
	if !ok {
		return
	}

	var req struct {
		Password string `json:"password" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	if err := cc.customerService.HashAndStore(ctx.Request.Context(), customerID, req.Password); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}
