package ports

import (
	"context"

	"github.com/righttechcentre/lms-api/internal/core/domain"
)

// ProgressResult is returned after recording a module completion.
type ProgressResult struct {
	Enrollment *domain.Enrollment
	Progress   float64
}

// EnrollmentService defines the enrollment lifecycle.
type EnrollmentService interface {
	Enroll(ctx context.Context, userID, courseID string) (*domain.Enrollment, error)
	RecordModuleCompletion(ctx context.Context, userID, enrollmentID, moduleID string) (*ProgressResult, error)
	List(ctx context.Context, userID string) ([]*domain.Enrollment, error)
	Get(ctx context.Context, userID, enrollmentID string) (*domain.Enrollment, error)
	// EnsureFromPayment creates the enrollment for a paid transaction unless one exists.
	EnsureFromPayment(ctx context.Context, tx *domain.PaymentTransaction) (created bool, err error)
}
