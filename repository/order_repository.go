package repository

import (
	"context"
	"time"

	"checkout-service/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// OrderRepository defines the interface for order data access
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByIDAndCustomerID(ctx context.Context, id, customerID uuid.UUID) (*models.Order, error)
	FindByCustomerID(ctx context.Context, customerID uuid.UUID, page, limit int) ([]models.Order, int64, error)
	FindAll(ctx context.Context, page, limit int) ([]models.Order, int64, error)
	UpdateFlags(ctx context.Context, id uuid.UUID, updates bson.M) error
}

type MongoOrderRepository struct {
	collection *mongo.Collection
}

func NewMongoOrderRepository(db *mongo.Database) *MongoOrderRepository {
	return &MongoOrderRepository{collection: db.Collection("orders")}
}

func (r *MongoOrderRepository) Create(ctx context.Context, order *models.Order) error {
	now := time.Now().UTC()
	order.CreatedAt = now
	order.UpdatedAt = now
	_, err := r.collection.InsertOne(ctx, order)
	return err
}

// Delete removes an order. Only the checkout compensation path uses it;
// settled orders are never deleted.
func (r *MongoOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *MongoOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *MongoOrderRepository) FindByIDAndCustomerID(ctx context.Context, id, customerID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "customer_id": customerID}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByCustomerID retrieves orders for a specific customer with pagination
func (r *MongoOrderRepository) FindByCustomerID(ctx context.Context, customerID uuid.UUID, page, limit int) ([]models.Order, int64, error) {
	return r.findPaginated(ctx, bson.M{"customer_id": customerID}, page, limit)
}

// FindAll retrieves all orders with pagination
func (r *MongoOrderRepository) FindAll(ctx context.Context, page, limit int) ([]models.Order, int64, error) {
	return r.findPaginated(ctx, bson.M{}, page, limit)
}

func (r *MongoOrderRepository) findPaginated(ctx context.Context, filter bson.M, page, limit int) ([]models.Order, int64, error) {
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err = cursor.All(ctx, &orders); err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// UpdateFlags applies lifecycle flag updates to an order.
func (r *MongoOrderRepository) UpdateFlags(ctx context.Context, id uuid.UUID, updates bson.M) error {
	updates["updated_at"] = time.Now().UTC()
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updates})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
