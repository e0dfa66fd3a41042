package repository

import (
	"context"
	"time"

	"checkout-service/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// SettlementRepository defines the interface for settlement record access.
type SettlementRepository interface {
	Create(ctx context.Context, record *models.SettlementRecord) error
	DeleteByOrderID(ctx context.Context, orderID uuid.UUID) error
	FindByOrderID(ctx context.Context, orderID uuid.UUID) (*models.SettlementRecord, error)
	MarkDelivered(ctx context.Context, id uuid.UUID, gatewayEvent []byte) error
}

type MongoSettlementRepository struct {
	collection *mongo.Collection
}

func NewMongoSettlementRepository(db *mongo.Database) *MongoSettlementRepository {
	return &MongoSettlementRepository{collection: db.Collection("settlements")}
}

func (r *MongoSettlementRepository) Create(ctx context.Context, record *models.SettlementRecord) error {
	now := time.Now().UTC()
	record.CreatedAt = now
	record.UpdatedAt = now
	_, err := r.collection.InsertOne(ctx, record)
	return err
}

// DeleteByOrderID removes the settlement record during checkout
// compensation. Delivered records are never deleted.
func (r *MongoSettlementRepository) DeleteByOrderID(ctx context.Context, orderID uuid.UUID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"order_id": orderID})
	return err
}

// FindByOrderID looks a settlement up by its canonical idempotency key,
// the order id. The order number on the record is audit data, not part of
// the key.
func (r *MongoSettlementRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) (*models.SettlementRecord, error) {
	var record models.SettlementRecord
	err := r.collection.FindOne(ctx, bson.M{"order_id": orderID}).Decode(&record)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// MarkDelivered flags the gateway outcome as durably applied and attaches
// the raw event for audit.
func (r *MongoSettlementRepository) MarkDelivered(ctx context.Context, id uuid.UUID, gatewayEvent []byte) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"delivered":     true,
			"gateway_event": gatewayEvent,
			"updated_at":    time.Now().UTC(),
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
