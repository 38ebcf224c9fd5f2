package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/righttechcentre/lms-api/internal/api/metrics"
	"github.com/righttechcentre/lms-api/internal/core/domain"
	"github.com/righttechcentre/lms-api/internal/core/ports"
)

const (
	defaultCertificatePrefix = "RTC"
	maxNumberAttempts        = 3
	notifyTimeout            = 15 * time.Second
)

// CertificateService issues certificates for completed enrollments.
type CertificateService struct {
	certs       ports.CertificateRepository
	enrollments ports.EnrollmentRepository
	courses     ports.CourseRepository
	users       ports.UserRepository
	notifier    ports.CertificateNotifier
	prefix      string
	log         zerolog.Logger
	now         func() time.Time
}

func NewCertificateService(
	certs ports.CertificateRepository,
	enrollments ports.EnrollmentRepository,
	courses ports.CourseRepository,
	users ports.UserRepository,
	notifier ports.CertificateNotifier,
	prefix string,
	log zerolog.Logger,
) *CertificateService {
	if prefix == "" {
		prefix = defaultCertificatePrefix
	}
	return &CertificateService{
		certs:       certs,
		enrollments: enrollments,
		courses:     courses,
		users:       users,
		notifier:    notifier,
		prefix:      prefix,
		log:         log,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Issue returns the certificate for a completed enrollment, creating it on
// first call. Later calls return the same record.
func (s *CertificateService) Issue(ctx context.Context, userID, enrollmentID string) (*domain.Certificate, error) {
	e, err := s.enrollments.FindByID(ctx, enrollmentID, userID)
	if err != nil {
		return nil, err
	}
	if e.Status != domain.EnrollmentCompleted {
		return nil, domain.ErrEnrollmentIncomplete
	}

	if existing, err := s.certs.FindByUserCourse(ctx, userID, e.CourseID); err == nil {
		return existing, nil
	} else if !errors.Is(err, domain.ErrCertificateNotFound) {
		return nil, fmt.Errorf("issue certificate: %w", err)
	}

	course, err := s.courses.FindByID(ctx, e.CourseID)
	if err != nil {
		return nil, fmt.Errorf("issue certificate: %w", err)
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("issue certificate: %w", err)
	}

	issuedAt := s.now()
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		cert := &domain.Certificate{
			ID:                uuid.NewString(),
			UserID:            userID,
			CourseID:          course.ID,
			CourseTitle:       course.Title,
			UserName:          user.FullName,
			CreditHours:       course.CreditHours,
			IssuedAt:          issuedAt,
			CertificateNumber: s.newNumber(issuedAt),
		}

		err := s.certs.Create(ctx, cert)
		if err == nil {
			metrics.CertificatesIssuedTotal.Inc()
			s.log.Info().Str("certificate_number", cert.CertificateNumber).Str("user_id", userID).Msg("certificate issued")
			s.notify(user, cert)
			return cert, nil
		}
		if !errors.Is(err, domain.ErrCertificateExists) {
			return nil, fmt.Errorf("issue certificate: %w", err)
		}

		// Either a concurrent Issue won the (user, course) slot or the number collided.
		if existing, findErr := s.certs.FindByUserCourse(ctx, userID, course.ID); findErr == nil {
			return existing, nil
		}
	}
	return nil, fmt.Errorf("issue certificate: %w", domain.ErrCertificateExists)
}

// Verify looks up a certificate number. Unknown numbers are reported as
// invalid, not as errors.
func (s *CertificateService) Verify(ctx context.Context, number string) (*domain.Verification, error) {
	cert, err := s.certs.FindByNumber(ctx, strings.TrimSpace(number))
	if err != nil {
		if errors.Is(err, domain.ErrCertificateNotFound) {
			return &domain.Verification{Valid: false}, nil
		}
		return nil, err
	}
	return &domain.Verification{Valid: true, Certificate: cert}, nil
}

func (s *CertificateService) List(ctx context.Context, userID string) ([]*domain.Certificate, error) {
	return s.certs.ListByUser(ctx, userID)
}

func (s *CertificateService) Get(ctx context.Context, id string) (*domain.Certificate, error) {
	return s.certs.FindByID(ctx, id)
}

// newNumber formats <prefix>-<year>-<8 hex chars>.
func (s *CertificateService) newNumber(at time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("%s-%d-%s", s.prefix, at.Year(), suffix)
}

func (s *CertificateService) notify(user *domain.User, cert *domain.Certificate) {
	if s.notifier == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := s.notifier.CertificateIssued(ctx, user, cert); err != nil {
			s.log.Warn().Err(err).Str("certificate_number", cert.CertificateNumber).Msg("certificate notification failed")
		}
	}()
}
