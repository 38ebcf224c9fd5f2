package ports

import (
	"context"

	"github.com/righttechcentre/lms-api/internal/core/domain"
)

// ModuleInput describes one module on course creation or replacement.
type ModuleInput struct {
	ID            string
	Title         string
	Description   string
	Objectives    []string
	DurationHours int
}

// CreateCourseInput carries all data needed to create a course.
type CreateCourseInput struct {
	Title          string
	Description    string
	Type           string
	Thumbnail      string
	Price          float64
	CreditHours    int
	DurationMonths int
	Published      bool
	Modules        []ModuleInput
}

// ListCoursesInput carries the raw catalog query.
type ListCoursesInput struct {
	Type      string
	Published *bool
	Search    string
}

// CourseService defines use-case operations for the catalog.
type CourseService interface {
	List(ctx context.Context, in ListCoursesInput) ([]*domain.Course, error)
	Get(ctx context.Context, id string) (*domain.Course, error)
	Create(ctx context.Context, actor domain.Actor, in CreateCourseInput) (*domain.Course, error)
	Update(ctx context.Context, actor domain.Actor, id string, patch domain.CoursePatch) (*domain.Course, error)
	Delete(ctx context.Context, actor domain.Actor, id string) error
}
