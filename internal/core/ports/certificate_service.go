package ports

import (
	"context"

	"github.com/righttechcentre/lms-api/internal/core/domain"
)

// CertificateNotifier tells a holder their certificate was issued.
type CertificateNotifier interface {
	CertificateIssued(ctx context.Context, user *domain.User, cert *domain.Certificate) error
}

// CertificateService issues and verifies certificates.
type CertificateService interface {
	Issue(ctx context.Context, userID, enrollmentID string) (*domain.Certificate, error)
	Verify(ctx context.Context, number string) (*domain.Verification, error)
	List(ctx context.Context, userID string) ([]*domain.Certificate, error)
	Get(ctx context.Context, id string) (*domain.Certificate, error)
}
