package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/righttechcentre/lms-api/internal/core/domain"
)

// PaymentRepository implements ports.PaymentRepository using MongoDB.
type PaymentRepository struct {
	col *mongo.Collection
}

func NewPaymentRepository(db *mongo.Database) *PaymentRepository {
	return &PaymentRepository{col: db.Collection(collectionPayments)}
}

func (r *PaymentRepository) Create(ctx context.Context, tx *domain.PaymentTransaction) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, tx); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateTransaction
		}
		return fmt.Errorf("insert payment transaction: %w", err)
	}
	return nil
}

func (r *PaymentRepository) FindBySession(ctx context.Context, sessionID string) (*domain.PaymentTransaction, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var tx domain.PaymentTransaction
	err := r.col.FindOne(ctx, bson.M{"session_id": sessionID}, options.FindOne().SetProjection(noID)).Decode(&tx)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("find payment transaction: %w", err)
	}
	return &tx, nil
}

func (r *PaymentRepository) ListByUser(ctx context.Context, userID string) ([]*domain.PaymentTransaction, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetProjection(noID).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list payment transactions: %w", err)
	}
	return decodeAll[domain.PaymentTransaction](ctx, cur)
}

// Transition is a compare-and-set on status: only a pending document matches,
// so a final status is never overwritten.
func (r *PaymentRepository) Transition(ctx context.Context, sessionID string, status domain.TransactionStatus, paymentStatus domain.PaymentStatus) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"session_id": sessionID, "status": string(domain.TransactionPending)}
	update := bson.M{"$set": bson.M{
		"status":         string(status),
		"payment_status": string(paymentStatus),
		"updated_at":     time.Now().UTC(),
	}}
	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("transition payment: %w", err)
	}
	return res.ModifiedCount == 1, nil
}

func (r *PaymentRepository) ListPendingBefore(ctx context.Context, cutoff time.Time, limit int64) ([]*domain.PaymentTransaction, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"status":     string(domain.TransactionPending),
		"created_at": bson.M{"$lt": cutoff.UTC()},
	}
	opts := options.Find().SetProjection(noID).SetSort(bson.D{{Key: "created_at", Value: 1}}).SetLimit(limit)
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list pending payments: %w", err)
	}
	return decodeAll[domain.PaymentTransaction](ctx, cur)
}
