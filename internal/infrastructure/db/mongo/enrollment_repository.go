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

// EnrollmentRepository implements ports.EnrollmentRepository using MongoDB.
//
// With transactions enabled (replica set required) the enrollment insert and
// the course counter increment commit together. Without them the increment
// follows the insert and the scheduled recount repairs any drift.
type EnrollmentRepository struct {
	db           *mongo.Database
	col          *mongo.Collection
	courses      *mongo.Collection
	transactions bool
}

func NewEnrollmentRepository(db *mongo.Database, transactions bool) *EnrollmentRepository {
	return &EnrollmentRepository{
		db:           db,
		col:          db.Collection(collectionEnrollments),
		courses:      db.Collection(collectionCourses),
		transactions: transactions,
	}
}

func (r *EnrollmentRepository) CreateCounted(ctx context.Context, e *domain.Enrollment) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if !r.transactions {
		return r.insertAndCount(ctx, e)
	}

	sess, err := r.db.Client().StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, r.insertAndCount(sc, e)
	})
	return err
}

func (r *EnrollmentRepository) insertAndCount(ctx context.Context, e *domain.Enrollment) error {
	if _, err := r.col.InsertOne(ctx, e); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrAlreadyEnrolled
		}
		return fmt.Errorf("insert enrollment: %w", err)
	}
	_, err := r.courses.UpdateOne(ctx, bson.M{"id": e.CourseID}, bson.M{"$inc": bson.M{"enrolled_count": 1}})
	if err != nil {
		return fmt.Errorf("increment enrolled_count: %w", err)
	}
	return nil
}

func (r *EnrollmentRepository) FindByID(ctx context.Context, id, userID string) (*domain.Enrollment, error) {
	return r.findOne(ctx, bson.M{"id": id, "user_id": userID})
}

func (r *EnrollmentRepository) FindByUserCourse(ctx context.Context, userID, courseID string) (*domain.Enrollment, error) {
	return r.findOne(ctx, bson.M{"user_id": userID, "course_id": courseID})
}

func (r *EnrollmentRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Enrollment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetProjection(noID).SetSort(bson.D{{Key: "enrolled_at", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	return decodeAll[domain.Enrollment](ctx, cur)
}

// AddCompletedModule uses $addToSet so concurrent completions of different
// modules never lose each other.
func (r *EnrollmentRepository) AddCompletedModule(ctx context.Context, id, userID, moduleID string) (*domain.Enrollment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After).SetProjection(noID)
	var e domain.Enrollment
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"id": id, "user_id": userID},
		bson.M{"$addToSet": bson.M{"completed_modules": moduleID}},
		opts,
	).Decode(&e)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("add completed module: %w", err)
	}
	return &e, nil
}

func (r *EnrollmentRepository) SaveProgress(ctx context.Context, id string, progress float64, completedAt *time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$max": bson.M{"progress": progress}}); err != nil {
		return false, fmt.Errorf("save progress: %w", err)
	}
	if completedAt == nil {
		return false, nil
	}

	// Only an active enrollment can complete, so completed_at is written once.
	res, err := r.col.UpdateOne(ctx,
		bson.M{"id": id, "status": string(domain.EnrollmentActive)},
		bson.M{"$set": bson.M{"status": string(domain.EnrollmentCompleted), "completed_at": completedAt.UTC()}},
	)
	if err != nil {
		return false, fmt.Errorf("complete enrollment: %w", err)
	}
	return res.ModifiedCount == 1, nil
}

func (r *EnrollmentRepository) CountByCourse(ctx context.Context) (map[string]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$course_id", "count": bson.M{"$sum": 1}}}},
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("count enrollments by course: %w", err)
	}
	defer cur.Close(ctx)

	out := map[string]int64{}
	for cur.Next(ctx) {
		var row struct {
			CourseID string `bson:"_id"`
			Count    int64  `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		out[row.CourseID] = row.Count
	}
	return out, cur.Err()
}

func (r *EnrollmentRepository) findOne(ctx context.Context, filter bson.M) (*domain.Enrollment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var e domain.Enrollment
	if err := r.col.FindOne(ctx, filter, options.FindOne().SetProjection(noID)).Decode(&e); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("find enrollment: %w", err)
	}
	return &e, nil
}
