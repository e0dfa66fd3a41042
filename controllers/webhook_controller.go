package controllers

import (
	"encoding/json"
	"net/http"

	"checkout-service/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"
)

type WebhookController struct {
	stripeService     *services.StripeService
	settlementService *services.SettlementService
	logger            *zap.Logger
}

func NewWebhookController(stripeService *services.StripeService, settlementService *services.SettlementService, logger *zap.Logger) *WebhookController {
	return &WebhookController{
		stripeService:     stripeService,
		settlementService: settlementService,
		logger:            logger,
	}
}

// StripeWebhook receives payment-outcome notifications. The signature is
// verified before any processing; unverifiable payloads are rejected with
// a client error and no state change.
func (wc *WebhookController) StripeWebhook(c *gin.Context) {
	event, err := wc.stripeService.ParseWebhook(c.Request)
	if err != nil {
		wc.logger.Warn("Stripe webhook signature verification failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid webhook"})
		return
	}

	wc.logger.Info("Processing Stripe webhook",
		zap.String("event_type", string(event.Type)),
		zap.String("event_id", event.ID),
	)

	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		wc.logger.Error("Failed to unmarshal payment intent", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed event payload"})
		return
	}

	orderID, orderNumber := pi.Metadata[services.MetadataOrderID], pi.Metadata[services.MetadataOrderNumber]
	if orderID == "" || orderNumber == "" {
		// Not a payment this service initiated; acknowledge and move on.
		wc.logger.Warn("Stripe event without order metadata",
			zap.String("event_id", event.ID),
			zap.Any("metadata", pi.Metadata),
		)
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	orderUUID, err := uuid.Parse(orderID)
	if err != nil {
		wc.logger.Warn("Stripe event with malformed order id",
			zap.String("event_id", event.ID),
			zap.String("order_id", orderID),
		)
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	rawEvent, _ := json.Marshal(event)

	err = wc.settlementService.HandleGatewayEvent(c.Request.Context(), services.GatewayEvent{
		Type:        string(event.Type),
		OrderID:     orderUUID,
		OrderNumber: orderNumber,
		Raw:         rawEvent,
	})
	if err != nil {
		wc.logger.Error("Failed to process gateway event",
			zap.String("event_id", event.ID),
			zap.String("order_id", orderID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "settlement processing failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "received"})
}
