package mongo

import (
	"context"
	"fmt"
	"slices"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/righttechcentre/lms-api/internal/core/domain"
)

// ChatRepository implements ports.ChatRepository using MongoDB.
type ChatRepository struct {
	col *mongo.Collection
}

func NewChatRepository(db *mongo.Database) *ChatRepository {
	return &ChatRepository{col: db.Collection(collectionChats)}
}

func (r *ChatRepository) Insert(ctx context.Context, ex *domain.ChatExchange) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, ex); err != nil {
		return fmt.Errorf("insert chat exchange: %w", err)
	}
	return nil
}

// ListByUser returns the latest limit exchanges in chronological order.
func (r *ChatRepository) ListByUser(ctx context.Context, userID, courseID string, limit int64) ([]*domain.ChatExchange, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"user_id": userID}
	if courseID != "" {
		filter["course_id"] = courseID
	}
	opts := options.Find().
		SetProjection(noID).
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list chat history: %w", err)
	}
	out, err := decodeAll[domain.ChatExchange](ctx, cur)
	if err != nil {
		return nil, err
	}
	slices.Reverse(out)
	return out, nil
}
