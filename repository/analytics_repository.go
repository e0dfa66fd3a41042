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

// AnalyticsRepository maintains the running-totals row and the per-product
// best-selling counters. All writes are relative $inc upserts.
type AnalyticsRepository interface {
	IncrementOrders(ctx context.Context, amount int) error
	IncrementSold(ctx context.Context, productID uuid.UUID, units int) error
	GetDashboard(ctx context.Context) (*models.Analytics, error)
	TopSelling(ctx context.Context, limit int) ([]models.BestSelling, error)
}

type MongoAnalyticsRepository struct {
	analytics   *mongo.Collection
	bestSelling *mongo.Collection
}

func NewMongoAnalyticsRepository(db *mongo.Database) *MongoAnalyticsRepository {
	return &MongoAnalyticsRepository{
		analytics:   db.Collection("analytics"),
		bestSelling: db.Collection("best_selling"),
	}
}

// IncrementOrders bumps the order count and revenue on the dashboard row.
func (r *MongoAnalyticsRepository) IncrementOrders(ctx context.Context, amount int) error {
	_, err := r.analytics.UpdateOne(ctx,
		bson.M{"name": models.DashboardName},
		bson.M{
			"$inc": bson.M{"total_orders": 1, "total_order_amount": amount},
			"$set": bson.M{"updated_at": time.Now().UTC()},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

// IncrementSold bumps a product's sale counter by the units sold.
func (r *MongoAnalyticsRepository) IncrementSold(ctx context.Context, productID uuid.UUID, units int) error {
	_, err := r.bestSelling.UpdateOne(ctx,
		bson.M{"_id": productID},
		bson.M{
			"$inc": bson.M{"quantity": units},
			"$set": bson.M{"updated_at": time.Now().UTC()},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

func (r *MongoAnalyticsRepository) GetDashboard(ctx context.Context) (*models.Analytics, error) {
	var snapshot models.Analytics
	err := r.analytics.FindOne(ctx, bson.M{"name": models.DashboardName}).Decode(&snapshot)
	if err == mongo.ErrNoDocuments {
		return &models.Analytics{Name: models.DashboardName}, nil
	}
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (r *MongoAnalyticsRepository) TopSelling(ctx context.Context, limit int) ([]models.BestSelling, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "quantity", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.bestSelling.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var top []models.BestSelling
	if err = cursor.All(ctx, &top); err != nil {
		return nil, err
	}
	return top, nil
}
