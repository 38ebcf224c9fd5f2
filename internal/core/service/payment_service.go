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

const reconcileBatch = 100

// DedupChecker abstracts the webhook idempotency store (Redis). Claim
// returns true only for the first caller presenting key.
type DedupChecker interface {
	Claim(ctx context.Context, key string) (bool, error)
}

// NotificationQueue hands webhook notifications to background workers.
type NotificationQueue interface {
	Enqueue(n domain.PaymentNotification)
}

// PaymentService implements checkout and the payment → enrollment bridge.
type PaymentService struct {
	payments    ports.PaymentRepository
	courses     ports.CourseRepository
	enrollments ports.EnrollmentRepository
	bridge      ports.EnrollmentService
	gateway     ports.PaymentGateway
	dedup       DedupChecker
	queue       NotificationQueue
	currency    string
	log         zerolog.Logger
}

// NewPaymentService wires the payment flow. gateway may be nil when the
// provider is not configured; dedup may be nil to disable webhook dedup.
func NewPaymentService(
	payments ports.PaymentRepository,
	courses ports.CourseRepository,
	enrollments ports.EnrollmentRepository,
	bridge ports.EnrollmentService,
	gateway ports.PaymentGateway,
	dedup DedupChecker,
	currency string,
	log zerolog.Logger,
) *PaymentService {
	if currency == "" {
		currency = "usd"
	}
	return &PaymentService{
		payments:    payments,
		courses:     courses,
		enrollments: enrollments,
		bridge:      bridge,
		gateway:     gateway,
		dedup:       dedup,
		currency:    currency,
		log:         log,
	}
}

// UseQueue routes verified webhook notifications through q instead of
// applying them inline.
func (s *PaymentService) UseQueue(q NotificationQueue) {
	s.queue = q
}

// Checkout opens a provider session for courseID and records a pending transaction.
func (s *PaymentService) Checkout(ctx context.Context, in ports.CheckoutInput) (*domain.CheckoutSession, error) {
	if s.gateway == nil {
		return nil, domain.ErrPaymentNotConfigured
	}
	origin := strings.TrimRight(strings.TrimSpace(in.OriginURL), "/")
	if origin == "" {
		return nil, domain.NewValidationError("origin_url is required")
	}

	course, err := s.courses.FindByID(ctx, in.CourseID)
	if err != nil {
		return nil, fmt.Errorf("checkout: %w", err)
	}

	existing, err := s.enrollments.FindByUserCourse(ctx, in.UserID, in.CourseID)
	if err == nil && existing != nil {
		return nil, domain.ErrAlreadyEnrolled
	}
	if err != nil && !errors.Is(err, domain.ErrEnrollmentNotFound) {
		return nil, fmt.Errorf("checkout: %w", err)
	}

	txID := uuid.NewString()
	session, err := s.gateway.CreateCheckoutSession(ctx, ports.CheckoutRequest{
		Amount:     course.Price,
		Currency:   s.currency,
		SuccessURL: origin + "/payment/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  origin + "/courses/" + course.ID,
		Metadata: map[string]string{
			"user_id":      in.UserID,
			"course_id":    course.ID,
			"course_title": course.Title,
		},
		IdempotencyKey: "checkout-" + txID,
	})
	if err != nil {
		return nil, fmt.Errorf("checkout: %w", err)
	}

	now := time.Now().UTC()
	tx := &domain.PaymentTransaction{
		ID:            txID,
		SessionID:     session.SessionID,
		UserID:        in.UserID,
		CourseID:      course.ID,
		CourseTitle:   course.Title,
		Amount:        course.Price,
		Currency:      s.currency,
		Status:        domain.TransactionPending,
		PaymentStatus: domain.PaymentInitiated,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.payments.Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("checkout: %w", err)
	}

	metrics.PaymentTransitionsTotal.WithLabelValues(string(domain.TransactionPending)).Inc()
	s.log.Info().Str("session_id", tx.SessionID).Str("user_id", in.UserID).Str("course_id", course.ID).Msg("checkout started")
	return session, nil
}

// PollStatus asks the provider for the session state and applies it.
func (s *PaymentService) PollStatus(ctx context.Context, userID, sessionID string) (*domain.SessionState, error) {
	if s.gateway == nil {
		return nil, domain.ErrPaymentNotConfigured
	}
	tx, err := s.payments.FindBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if tx.UserID != userID {
		return nil, domain.ErrTransactionNotFound
	}

	state, err := s.gateway.GetSessionState(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("poll status: %w", err)
	}
	if err := s.apply(ctx, tx, state.TransactionStatus(), state.PaymentStatus); err != nil {
		return nil, err
	}
	return state, nil
}

// HandleWebhook verifies a provider delivery and schedules it for processing.
// Deliveries already seen (by event id) are dropped.
func (s *PaymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	if s.gateway == nil {
		return domain.ErrPaymentNotConfigured
	}
	n, err := s.gateway.ParseWebhook(payload, signature)
	if err != nil {
		metrics.WebhookEventsTotal.WithLabelValues("rejected").Inc()
		return err
	}
	if n == nil {
		metrics.WebhookEventsTotal.WithLabelValues("ignored").Inc()
		return nil
	}

	if s.dedup != nil && n.EventID != "" {
		first, err := s.dedup.Claim(ctx, n.EventID)
		switch {
		case err != nil:
			s.log.Warn().Err(err).Str("event_id", n.EventID).Msg("dedup claim failed, processing anyway")
		case !first:
			metrics.WebhookEventsTotal.WithLabelValues("duplicate").Inc()
			s.log.Debug().Str("event_id", n.EventID).Msg("duplicate webhook skipped")
			return nil
		}
	}

	metrics.WebhookEventsTotal.WithLabelValues("accepted").Inc()
	if s.queue != nil {
		s.queue.Enqueue(*n)
		return nil
	}
	return s.ApplyNotification(ctx, *n)
}

// ApplyNotification applies a provider notification to the ledger.
func (s *PaymentService) ApplyNotification(ctx context.Context, n domain.PaymentNotification) error {
	tx, err := s.payments.FindBySession(ctx, n.SessionID)
	if err != nil {
		return fmt.Errorf("apply notification: %w", err)
	}
	state := domain.SessionState{SessionID: n.SessionID, Status: n.Status, PaymentStatus: n.PaymentStatus}
	return s.apply(ctx, tx, state.TransactionStatus(), n.PaymentStatus)
}

func (s *PaymentService) ListTransactions(ctx context.Context, userID string) ([]*domain.PaymentTransaction, error) {
	return s.payments.ListByUser(ctx, userID)
}

// ReconcilePending polls the provider for transactions left pending longer
// than olderThan, covering lost or failed webhook deliveries.
func (s *PaymentService) ReconcilePending(ctx context.Context, olderThan time.Duration) (int, error) {
	if s.gateway == nil {
		return 0, nil
	}
	pending, err := s.payments.ListPendingBefore(ctx, time.Now().UTC().Add(-olderThan), reconcileBatch)
	if err != nil {
		return 0, fmt.Errorf("reconcile: %w", err)
	}

	settled := 0
	for _, tx := range pending {
		state, err := s.gateway.GetSessionState(ctx, tx.SessionID)
		if err != nil {
			s.log.Warn().Err(err).Str("session_id", tx.SessionID).Msg("reconcile: provider lookup failed")
			continue
		}
		status := state.TransactionStatus()
		if status == domain.TransactionPending {
			continue
		}
		if err := s.apply(ctx, tx, status, state.PaymentStatus); err != nil {
			s.log.Error().Err(err).Str("session_id", tx.SessionID).Msg("reconcile: apply failed")
			continue
		}
		settled++
	}
	return settled, nil
}

// apply moves tx forward and bridges a completed payment to an enrollment.
// Final transactions never change; enrollment creation is idempotent, so a
// paid session seen by both poll and webhook yields one enrollment.
func (s *PaymentService) apply(ctx context.Context, tx *domain.PaymentTransaction, status domain.TransactionStatus, paymentStatus domain.PaymentStatus) error {
	if status == domain.TransactionPending {
		return nil
	}

	moved, err := s.payments.Transition(ctx, tx.SessionID, status, paymentStatus)
	if err != nil {
		return fmt.Errorf("apply payment status: %w", err)
	}
	if moved {
		metrics.PaymentTransitionsTotal.WithLabelValues(string(status)).Inc()
		s.log.Info().Str("session_id", tx.SessionID).Str("status", string(status)).Msg("payment status updated")
	} else {
		current, err := s.payments.FindBySession(ctx, tx.SessionID)
		if err != nil {
			return fmt.Errorf("apply payment status: %w", err)
		}
		if current.Status != status {
			s.log.Warn().
				Str("session_id", tx.SessionID).
				Str("current", string(current.Status)).
				Str("ignored", string(status)).
				Msg("payment already final, update ignored")
		}
		status = current.Status
	}

	if status != domain.TransactionComplete {
		return nil
	}
	if _, err := s.bridge.EnsureFromPayment(ctx, tx); err != nil {
		return fmt.Errorf("apply payment status: %w", err)
	}
	return nil
}
