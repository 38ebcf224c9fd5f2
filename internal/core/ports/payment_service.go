package ports

import (
	"context"
	"time"

	"github.com/righttechcentre/lms-api/internal/core/domain"
)

// CheckoutInput carries the checkout request.
type CheckoutInput struct {
	UserID    string
	CourseID  string
	OriginURL string
}

// CheckoutRequest is what the payment gateway needs to open a session.
type CheckoutRequest struct {
	Amount     float64
	Currency   string
	SuccessURL string
	CancelURL  string
	Metadata   map[string]string
	// IdempotencyKey makes retried creates return the same provider session.
	IdempotencyKey string
}

// PaymentGateway is the external checkout provider.
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*domain.CheckoutSession, error)
	GetSessionState(ctx context.Context, sessionID string) (*domain.SessionState, error)
	// ParseWebhook verifies the signature and decodes the delivery.
	ParseWebhook(payload []byte, signature string) (*domain.PaymentNotification, error)
}

// PaymentService sequences checkout, polling and webhook handling.
type PaymentService interface {
	Checkout(ctx context.Context, in CheckoutInput) (*domain.CheckoutSession, error)
	PollStatus(ctx context.Context, userID, sessionID string) (*domain.SessionState, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
	ApplyNotification(ctx context.Context, n domain.PaymentNotification) error
	ListTransactions(ctx context.Context, userID string) ([]*domain.PaymentTransaction, error)
	ReconcilePending(ctx context.Context, olderThan time.Duration) (int, error)
}
