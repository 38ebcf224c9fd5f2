package ports

import (
	"context"
	"time"

	"github.com/righttechcentre/lms-api/internal/core/domain"
)

// PaymentRepository defines persistence operations for the payment ledger.
type PaymentRepository interface {
	Create(ctx context.Context, tx *domain.PaymentTransaction) error
	FindBySession(ctx context.Context, sessionID string) (*domain.PaymentTransaction, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.PaymentTransaction, error)
	// Transition moves a pending transaction to status. It reports false when the
	// transaction was already final, leaving it untouched.
	Transition(ctx context.Context, sessionID string, status domain.TransactionStatus, paymentStatus domain.PaymentStatus) (bool, error)
	// ListPendingBefore returns pending transactions created before cutoff.
	ListPendingBefore(ctx context.Context, cutoff time.Time, limit int64) ([]*domain.PaymentTransaction, error)
}
