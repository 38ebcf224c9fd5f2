package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/righttechcentre/lms-api/internal/core/domain"
	"github.com/righttechcentre/lms-api/internal/core/ports"
)

// CourseRepository implements ports.CourseRepository using MongoDB.
type CourseRepository struct {
	col *mongo.Collection
}

func NewCourseRepository(db *mongo.Database) *CourseRepository {
	return &CourseRepository{col: db.Collection(collectionCourses)}
}

func (r *CourseRepository) Create(ctx context.Context, c *domain.Course) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, c); err != nil {
		return fmt.Errorf("insert course: %w", err)
	}
	return nil
}

func (r *CourseRepository) InsertMany(ctx context.Context, courses []*domain.Course) error {
	if len(courses) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	docs := make([]interface{}, len(courses))
	for i, c := range courses {
		docs[i] = c
	}
	if _, err := r.col.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert courses: %w", err)
	}
	return nil
}

func (r *CourseRepository) FindByID(ctx context.Context, id string) (*domain.Course, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var c domain.Course
	err := r.col.FindOne(ctx, bson.M{"id": id}, options.FindOne().SetProjection(noID)).Decode(&c)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCourseNotFound
		}
		return nil, fmt.Errorf("find course: %w", err)
	}
	return &c, nil
}

// List applies the catalog filters. Search is a case-insensitive literal
// match on title or description.
func (r *CourseRepository) List(ctx context.Context, f ports.ListCoursesFilter) ([]*domain.Course, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if f.Type != "" {
		filter["course_type"] = string(f.Type)
	}
	if f.Published != nil {
		filter["is_published"] = *f.Published
	}
	if f.Search != "" {
		pattern := bson.M{"$regex": regexp.QuoteMeta(f.Search), "$options": "i"}
		filter["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"description": pattern},
		}
	}

	opts := options.Find().SetProjection(noID).SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "title", Value: 1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return decodeAll[domain.Course](ctx, cur)
}

// Update sets only the fields present in patch and returns the stored result.
func (r *CourseRepository) Update(ctx context.Context, id string, p domain.CoursePatch) (*domain.Course, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{}
	if p.Title != nil {
		set["title"] = *p.Title
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	if p.Type != nil {
		set["course_type"] = string(*p.Type)
	}
	if p.Thumbnail != nil {
		set["thumbnail"] = *p.Thumbnail
	}
	if p.Price != nil {
		set["price"] = *p.Price
	}
	if p.CreditHours != nil {
		set["credit_hours"] = *p.CreditHours
	}
	if p.DurationMonths != nil {
		set["duration_months"] = *p.DurationMonths
	}
	if p.Published != nil {
		set["is_published"] = *p.Published
	}
	if p.Modules != nil {
		set["modules"] = *p.Modules
	}
	if len(set) == 0 {
		return r.FindByID(ctx, id)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After).SetProjection(noID)
	var c domain.Course
	err := r.col.FindOneAndUpdate(ctx, bson.M{"id": id}, bson.M{"$set": set}, opts).Decode(&c)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCourseNotFound
		}
		return nil, fmt.Errorf("update course: %w", err)
	}
	return &c, nil
}

func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrCourseNotFound
	}
	return nil
}

func (r *CourseRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.col.CountDocuments(ctx, bson.M{})
}

func (r *CourseRepository) IncrementEnrolled(ctx context.Context, id string, delta int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$inc": bson.M{"enrolled_count": delta}})
	if err != nil {
		return fmt.Errorf("increment enrolled_count: %w", err)
	}
	return nil
}

// SetEnrolledCounts overwrites enrolled_count from counts; courses missing
// from counts are reset to zero.
func (r *CourseRepository) SetEnrolledCounts(ctx context.Context, counts map[string]int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	ids := make([]string, 0, len(counts))
	models := make([]mongo.WriteModel, 0, len(counts)+1)
	for id, n := range counts {
		ids = append(ids, id)
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"id": id}).
			SetUpdate(bson.M{"$set": bson.M{"enrolled_count": n}}))
	}
	models = append(models, mongo.NewUpdateManyModel().
		SetFilter(bson.M{"id": bson.M{"$nin": ids}, "enrolled_count": bson.M{"$ne": 0}}).
		SetUpdate(bson.M{"$set": bson.M{"enrolled_count": 0}}))

	if _, err := r.col.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false)); err != nil {
		return fmt.Errorf("set enrolled counts: %w", err)
	}
	return nil
}
