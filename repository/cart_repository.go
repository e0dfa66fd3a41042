package repository

import (
	"context"
	"errors"
	"time"

	"checkout-service/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when a looked-up record does not exist.
var ErrNotFound = errors.New("record not found")

// CartRepository defines the interface for cart data access. There is at
// most one cart per customer.
type CartRepository interface {
	FindByCustomerID(ctx context.Context, customerID uuid.UUID) (*models.Cart, error)
	Save(ctx context.Context, cart *models.Cart) error
	DeleteByCustomerID(ctx context.Context, customerID uuid.UUID) error
}

type MongoCartRepository struct {
	collection *mongo.Collection
}

func NewMongoCartRepository(db *mongo.Database) *MongoCartRepository {
	return &MongoCartRepository{collection: db.Collection("carts")}
}

func (r *MongoCartRepository) FindByCustomerID(ctx context.Context, customerID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := r.collection.FindOne(ctx, bson.M{"customer_id": customerID}).Decode(&cart)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// Save upserts the customer's cart, keyed by customer id.
func (r *MongoCartRepository) Save(ctx context.Context, cart *models.Cart) error {
	cart.UpdatedAt = time.Now().UTC()
	if cart.CreatedAt.IsZero() {
		cart.CreatedAt = cart.UpdatedAt
	}
	_, err := r.collection.ReplaceOne(ctx,
		bson.M{"customer_id": cart.CustomerID},
		cart,
		options.Replace().SetUpsert(true),
	)
	return err
}

func (r *MongoCartRepository) DeleteByCustomerID(ctx context.Context, customerID uuid.UUID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"customer_id": customerID})
	return err
}
