package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/righttechcentre/lms-api/internal/core/domain"
)

// CertificateRepository implements ports.CertificateRepository using MongoDB.
type CertificateRepository struct {
	col *mongo.Collection
}

func NewCertificateRepository(db *mongo.Database) *CertificateRepository {
	return &CertificateRepository{col: db.Collection(collectionCertificates)}
}

func (r *CertificateRepository) Create(ctx context.Context, c *domain.Certificate) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, c); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrCertificateExists
		}
		return fmt.Errorf("insert certificate: %w", err)
	}
	return nil
}

func (r *CertificateRepository) FindByID(ctx context.Context, id string) (*domain.Certificate, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

func (r *CertificateRepository) FindByNumber(ctx context.Context, number string) (*domain.Certificate, error) {
	return r.findOne(ctx, bson.M{"certificate_number": number})
}

func (r *CertificateRepository) FindByUserCourse(ctx context.Context, userID, courseID string) (*domain.Certificate, error) {
	return r.findOne(ctx, bson.M{"user_id": userID, "course_id": courseID})
}

func (r *CertificateRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Certificate, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetProjection(noID).SetSort(bson.D{{Key: "issued_at", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list certificates: %w", err)
	}
	return decodeAll[domain.Certificate](ctx, cur)
}

func (r *CertificateRepository) findOne(ctx context.Context, filter bson.M) (*domain.Certificate, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var c domain.Certificate
	if err := r.col.FindOne(ctx, filter, options.FindOne().SetProjection(noID)).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCertificateNotFound
		}
		return nil, fmt.Errorf("find certificate: %w", err)
	}
	return &c, nil
}
