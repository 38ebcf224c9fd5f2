package ports

import (
	"context"
	"time"

	"github.com/righttechcentre/lms-api/internal/core/domain"
)

// EnrollmentRepository defines persistence operations for the enrollment ledger.
type EnrollmentRepository interface {
	// CreateCounted inserts e and increments the course's enrolled_count.
	// A unique (user_id, course_id) index turns races into domain.ErrAlreadyEnrolled.
	CreateCounted(ctx context.Context, e *domain.Enrollment) error
	FindByID(ctx context.Context, id, userID string) (*domain.Enrollment, error)
	FindByUserCourse(ctx context.Context, userID, courseID string) (*domain.Enrollment, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Enrollment, error)
	// AddCompletedModule adds moduleID to the completed set and returns the updated record.
	AddCompletedModule(ctx context.Context, id, userID, moduleID string) (*domain.Enrollment, error)
	// SaveProgress raises progress (never lowers it) and, when completedAt is
	// non-nil, moves an active enrollment to completed. completed is true only
	// for the call that performed that move.
	SaveProgress(ctx context.Context, id string, progress float64, completedAt *time.Time) (completed bool, err error)
	// CountByCourse returns the number of enrollments per course id.
	CountByCourse(ctx context.Context) (map[string]int64, error)
}
