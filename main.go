package main

import (
	"log"
	"strings"

	"checkout-service/config"
	"checkout-service/controllers"
	"checkout-service/database"
	"checkout-service/errors"
	"checkout-service/kafka"
	"checkout-service/logger"
	"checkout-service/repository"
	"checkout-service/routes"
	"checkout-service/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env if present; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("[CheckoutService] Failed to load config:", err)
	}

	logger.Initialize(cfg.Environment)
	defer logger.Log.Sync()

	if err := database.Connect(cfg.MongoURI, cfg.MongoDB); err != nil {
		log.Fatal("[CheckoutService] Failed to connect to MongoDB:", err)
	}
	defer database.Close()

	redisClient := database.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword)
	txRunner := database.NewTxRunner()

	// Repositories
	cartRepo := repository.NewMongoCartRepository(database.DB)
	customerRepo := repository.NewMongoCustomerRepository(database.DB)
	productRepo := repository.NewMongoProductRepository(database.DB)
	orderRepo := repository.NewMongoOrderRepository(database.DB)
	settlementRepo := repository.NewMongoSettlementRepository(database.DB)
	analyticsRepo := repository.NewMongoAnalyticsRepository(database.DB)

	// Outbound collaborators
	stripeSvc := services.NewStripeService(cfg.StripeSecretKey, cfg.StripeWebhookKey)
	confirmationProducer := kafka.NewConfirmationProducer(
		strings.Split(cfg.KafkaBrokers, ","),
		cfg.ConfirmationTopic,
		logger.Log,
	)
	defer confirmationProducer.Close()
	bestSellerCache := services.NewBestSellerCache(redisClient, logger.Log)

	// Services
	cartService := services.NewCartService(cartRepo, customerRepo, productRepo, txRunner, logger.Log)
	checkoutService := services.NewCheckoutService(
		cartRepo, customerRepo, productRepo, orderRepo, settlementRepo,
		stripeSvc, txRunner, cfg.Currency, logger.Log,
	)
	settlementService := services.NewSettlementService(
		settlementRepo, orderRepo, productRepo, analyticsRepo,
		txRunner, confirmationProducer, bestSellerCache, logger.Log,
	)
	orderService := services.NewOrderService(orderRepo, logger.Log)
	customerService := services.NewCustomerService(customerRepo, logger.Log)

	// HTTP server
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger())
	r.Use(errors.ErrorMiddleware())

	routes.RegisterRoutes(r,
		controllers.NewCartController(cartService),
		controllers.NewOrderController(checkoutService, orderService),
		controllers.NewWebhookController(stripeSvc, settlementService, logger.Log),
		controllers.NewAnalyticsController(analyticsRepo, bestSellerCache),
		controllers.NewCustomerController(customerService),
	)

	log.Println("[CheckoutService] Running on port", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("[CheckoutService] Server failed:", err)
	}
}
