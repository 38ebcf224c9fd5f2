package ports

import (
	"context"

	"github.com/righttechcentre/lms-api/internal/core/domain"
)

// ListCoursesFilter carries the catalog query parameters.
type ListCoursesFilter struct {
	Type      domain.CourseType // empty = any
	Published *bool             // nil = any
	Search    string            // case-insensitive match on title or description
}

// CourseRepository defines persistence operations for the catalog.
type CourseRepository interface {
	Create(ctx context.Context, c *domain.Course) error
	InsertMany(ctx context.Context, courses []*domain.Course) error
	FindByID(ctx context.Context, id string) (*domain.Course, error)
	List(ctx context.Context, filter ListCoursesFilter) ([]*domain.Course, error)
	Update(ctx context.Context, id string, patch domain.CoursePatch) (*domain.Course, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	// IncrementEnrolled atomically adds delta to enrolled_count.
	IncrementEnrolled(ctx context.Context, id string, delta int64) error
	// SetEnrolledCounts overwrites enrolled_count per course id.
	SetEnrolledCounts(ctx context.Context, counts map[string]int64) error
}
