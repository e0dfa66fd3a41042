package routes

import (
	"checkout-service/controllers"
	"checkout-service/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.Engine,
	cartController *controllers.CartController,
	orderController *controllers.OrderController,
	webhookController *controllers.WebhookController,
	analyticsController *controllers.AnalyticsController,
	customerController *controllers.CustomerController,
) {
	cartRoutes := r.Group("/cart")
	cartRoutes.Use(middleware.AuthMiddleware())
	cartRoutes.GET("", cartController.GetCart)
	cartRoutes.POST("", cartController.UpsertCart)

	orderRoutes := r.Group("/order")
	orderRoutes.Use(middleware.AuthMiddleware())
	orderRoutes.POST("", orderController.CreateOrder)
	orderRoutes.GET("", orderController.GetOrders)
	orderRoutes.GET("/:id", orderController.GetOrderByID)
	orderRoutes.PUT("/:id", middleware.AdminOnly(), orderController.UpdateOrder)

	customerRoutes := r.Group("/customer")
	customerRoutes.Use(middleware.AuthMiddleware())
	customerRoutes.PUT("/password", customerController.UpdatePassword)

	adminRoutes := r.Group("/admin")
	adminRoutes.Use(middleware.AuthMiddleware(), middleware.AdminOnly())
	adminRoutes.GET("/orders", orderController.GetAllOrders)
	adminRoutes.GET("/analytics", analyticsController.GetDashboard)

	r.GET("/products/best-selling", analyticsController.GetBestSelling)

	// Stripe webhook (no auth, signature-verified, rate limited)
	r.POST("/stripe/webhook", middleware.RateLimitMiddleware(), webhookController.StripeWebhook)
}
