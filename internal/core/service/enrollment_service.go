package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/righttechcentre/lms-api/internal/api/metrics"
	"github.com/righttechcentre/lms-api/internal/core/domain"
	"github.com/righttechcentre/lms-api/internal/core/ports"
)

// EnrollmentService drives the none → active → completed lifecycle.
type EnrollmentService struct {
	repo    ports.EnrollmentRepository
	courses ports.CourseRepository
	log     zerolog.Logger
	now     func() time.Time
}

func NewEnrollmentService(repo ports.EnrollmentRepository, courses ports.CourseRepository, log zerolog.Logger) *EnrollmentService {
	return &EnrollmentService{
		repo:    repo,
		courses: courses,
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Enroll registers userID in courseID. Duplicate enrollments are rejected by
// the store's unique index, so concurrent attempts yield exactly one record.
func (s *EnrollmentService) Enroll(ctx context.Context, userID, courseID string) (*domain.Enrollment, error) {
	if _, err := s.courses.FindByID(ctx, courseID); err != nil {
		return nil, fmt.Errorf("enroll: %w", err)
	}

	e := domain.NewEnrollment(uuid.NewString(), userID, courseID, s.now())
	if err := s.repo.CreateCounted(ctx, e); err != nil {
		return nil, fmt.Errorf("enroll: %w", err)
	}

	metrics.EnrollmentsCreatedTotal.WithLabelValues(string(domain.SourceDirect)).Inc()
	s.log.Info().Str("user_id", userID).Str("course_id", courseID).Str("enrollment_id", e.ID).Msg("enrolled")
	return e, nil
}

// RecordModuleCompletion marks moduleID complete and recomputes progress.
// Repeating a module is a no-op on the set but still recomputes progress.
func (s *EnrollmentService) RecordModuleCompletion(ctx context.Context, userID, enrollmentID, moduleID string) (*ports.ProgressResult, error) {
	if moduleID == "" {
		return nil, domain.NewValidationError("module_id is required")
	}

	current, err := s.repo.FindByID(ctx, enrollmentID, userID)
	if err != nil {
		return nil, err
	}
	course, err := s.courses.FindByID(ctx, current.CourseID)
	if err != nil {
		return nil, fmt.Errorf("record progress: %w", err)
	}
	if !course.HasModule(moduleID) {
		return nil, domain.ErrModuleNotFound
	}

	updated, err := s.repo.AddCompletedModule(ctx, enrollmentID, userID, moduleID)
	if err != nil {
		return nil, fmt.Errorf("record progress: %w", err)
	}

	upd := updated.ApplyCompletion(course, s.now())
	var completedAt *time.Time
	if upd.Transition {
		completedAt = upd.CompletedAt
	}
	won, err := s.repo.SaveProgress(ctx, enrollmentID, upd.Progress, completedAt)
	if err != nil {
		return nil, fmt.Errorf("record progress: %w", err)
	}

	metrics.ModuleCompletionsTotal.Inc()
	switch {
	case won:
		metrics.EnrollmentsCompletedTotal.Inc()
		s.log.Info().Str("enrollment_id", enrollmentID).Str("course_id", course.ID).Msg("enrollment completed")
	case upd.Transition:
		// A concurrent completion got there first; report what is stored.
		stored, err := s.repo.FindByID(ctx, enrollmentID, userID)
		if err != nil {
			return nil, fmt.Errorf("record progress: %w", err)
		}
		updated = stored
	}
	return &ports.ProgressResult{Enrollment: updated, Progress: upd.Progress}, nil
}

func (s *EnrollmentService) List(ctx context.Context, userID string) ([]*domain.Enrollment, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *EnrollmentService) Get(ctx context.Context, userID, enrollmentID string) (*domain.Enrollment, error) {
	return s.repo.FindByID(ctx, enrollmentID, userID)
}

// EnsureFromPayment creates the enrollment bought by tx unless the user is
// already enrolled. Safe to call any number of times for the same tx.
func (s *EnrollmentService) EnsureFromPayment(ctx context.Context, tx *domain.PaymentTransaction) (bool, error) {
	existing, err := s.repo.FindByUserCourse(ctx, tx.UserID, tx.CourseID)
	if err == nil && existing != nil {
		return false, nil
	}
	if err != nil && !errors.Is(err, domain.ErrEnrollmentNotFound) {
		return false, fmt.Errorf("ensure enrollment: %w", err)
	}

	e := domain.NewEnrollment(uuid.NewString(), tx.UserID, tx.CourseID, s.now())
	e.PaymentID = tx.ID
	if err := s.repo.CreateCounted(ctx, e); err != nil {
		if errors.Is(err, domain.ErrAlreadyEnrolled) {
			return false, nil
		}
		return false, fmt.Errorf("ensure enrollment: %w", err)
	}

	metrics.EnrollmentsCreatedTotal.WithLabelValues(string(domain.SourcePayment)).Inc()
	s.log.Info().Str("session_id", tx.SessionID).Str("enrollment_id", e.ID).Msg("enrollment created from payment")
	return true, nil
}
