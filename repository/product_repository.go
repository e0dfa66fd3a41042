package repository

import (
	"context"

	"checkout-service/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ProductRepository is the inventory ledger. Reads resolve current
// availability; the only exposed mutation is the one-unit conditional
// decrement.
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Product, error)
	ReserveOneUnit(ctx context.Context, productID uuid.UUID, color, size string) (bool, error)
}

type MongoProductRepository struct {
	collection *mongo.Collection
}

func NewMongoProductRepository(db *mongo.Database) *MongoProductRepository {
	return &MongoProductRepository{collection: db.Collection("products")}
}

func (r *MongoProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *MongoProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Product, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []*models.Product
	if err = cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// ReserveOneUnit decrements the matching size's quantity by exactly one,
// only if it is currently greater than zero. The filter and the update
// target the same element, so concurrent decrements from parallel
// settlements stay commutative and the quantity can never go negative.
// Returns whether the decrement took effect.
func (r *MongoProductRepository) ReserveOneUnit(ctx context.Context, productID uuid.UUID, color, size string) (bool, error) {
	filter := bson.M{
		"_id":            productID,
		"variants.color": color,
		"variants.sizes": bson.M{
			"$elemMatch": bson.M{"size": size, "inventory_quantity": bson.M{"$gt": 0}},
		},
	}
	update := bson.M{
		"$inc": bson.M{"variants.$[v].sizes.$[s].inventory_quantity": -1},
	}
	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{
			bson.M{"v.color": color},
			bson.M{"s.size": size, "s.inventory_quantity": bson.M{"$gt": 0}},
		},
	})

	res, err := r.collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}
