package config

import (
	"fmt"
	"os"
)

type Config struct {
	Port        string
	Environment string

	MongoURI string
	MongoDB  string

	RedisAddr     string
	RedisPassword string

	StripeSecretKey  string
	StripeWebhookKey string
	Currency         string

	KafkaBrokers      string
	ConfirmationTopic string
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "8084"),
		Environment: getEnv("ENVIRONMENT", "development"),

		MongoURI: os.Getenv("MONGO_URI"),
		MongoDB:  getEnv("MONGO_DB", "storefront"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		StripeSecretKey:  os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookKey: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		Currency:         getEnv("CURRENCY", "inr"),

		KafkaBrokers:      os.Getenv("KAFKA_BROKERS"),
		ConfirmationTopic: getEnv("CONFIRMATION_TOPIC", "order.confirmed"),
	}

	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGO_URI is required")
	}
	if cfg.StripeSecretKey == "" || cfg.StripeWebhookKey == "" {
		return nil, fmt.Errorf("stripe config incomplete")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
