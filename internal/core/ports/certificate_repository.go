package ports

import (
	"context"

	"github.com/righttechcentre/lms-api/internal/core/domain"
)

// CertificateRepository defines persistence operations for the certificate registry.
type CertificateRepository interface {
	// Create inserts c. Returns domain.ErrCertificateExists when (user, course)
	// or the certificate number is already taken.
	Create(ctx context.Context, c *domain.Certificate) error
	FindByID(ctx context.Context, id string) (*domain.Certificate, error)
	FindByNumber(ctx context.Context, number string) (*domain.Certificate, error)
	FindByUserCourse(ctx context.Context, userID, courseID string) (*domain.Certificate, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Certificate, error)
}
