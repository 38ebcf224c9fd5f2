package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/righttechcentre/lms-api/internal/core/domain"
)

// AnalyticsRepository implements ports.AnalyticsRepository using MongoDB.
type AnalyticsRepository struct {
	db *mongo.Database
}

func NewAnalyticsRepository(db *mongo.Database) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

func (r *AnalyticsRepository) CountUsers(ctx context.Context) (int64, error) {
	return r.count(ctx, collectionUsers)
}

func (r *AnalyticsRepository) CountCourses(ctx context.Context) (int64, error) {
	return r.count(ctx, collectionCourses)
}

func (r *AnalyticsRepository) CountEnrollments(ctx context.Context) (int64, error) {
	return r.count(ctx, collectionEnrollments)
}

func (r *AnalyticsRepository) CountCertificates(ctx context.Context) (int64, error) {
	return r.count(ctx, collectionCertificates)
}

// PaidRevenue sums the amount of every paid transaction.
func (r *AnalyticsRepository) PaidRevenue(ctx context.Context) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"payment_status": string(domain.PaymentPaid)}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$amount"}}}},
	}
	cur, err := r.db.Collection(collectionPayments).Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("aggregate revenue: %w", err)
	}
	defer cur.Close(ctx)

	var row struct {
		Total float64 `bson:"total"`
	}
	if cur.Next(ctx) {
		if err := cur.Decode(&row); err != nil {
			return 0, err
		}
	}
	return row.Total, cur.Err()
}

func (r *AnalyticsRepository) UsersByRole(ctx context.Context) (map[string]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$role", "count": bson.M{"$sum": 1}}}},
	}
	cur, err := r.db.Collection(collectionUsers).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate users by role: %w", err)
	}
	defer cur.Close(ctx)

	out := map[string]int64{}
	for cur.Next(ctx) {
		var row struct {
			Role  string `bson:"_id"`
			Count int64  `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		out[row.Role] = row.Count
	}
	return out, cur.Err()
}

func (r *AnalyticsRepository) count(ctx context.Context, collection string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.db.Collection(collection).CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", collection, err)
	}
	return n, nil
}
