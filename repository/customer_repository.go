package repository

import (
	"context"
	"time"

	"checkout-service/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// CustomerRepository exposes the customer read path used by the cart store
// and the explicit password write path.
type CustomerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, hashed string) error
}

type MongoCustomerRepository struct {
	collection *mongo.Collection
}

func NewMongoCustomerRepository(db *mongo.Database) *MongoCustomerRepository {
	return &MongoCustomerRepository{collection: db.Collection("customers")}
}

func (r *MongoCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&customer)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// UpdatePassword stores an already-hashed password. Hashing happens in the
// service write path, never in a save hook.
func (r *MongoCustomerRepository) UpdatePassword(ctx context.Context, id uuid.UUID, hashed string) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"password": hashed, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
