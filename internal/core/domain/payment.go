package domain

import "time"

// TransactionStatus is the lifecycle state of a checkout attempt.
type TransactionStatus string

const (
	TransactionPending  TransactionStatus = "pending"
	TransactionComplete TransactionStatus = "complete"
	TransactionFailed   TransactionStatus = "failed"
)

// IsFinal reports whether no further transitions are allowed.
func (s TransactionStatus) IsFinal() bool {
	return s == TransactionComplete || s == TransactionFailed
}

// CanTransitionTo reports whether a transition from s to next is valid.
// Only pending moves forward; final states never change.
func (s TransactionStatus) CanTransitionTo(next TransactionStatus) bool {
	return s == TransactionPending && next.IsFinal()
}

// PaymentStatus mirrors the provider's view of the money movement.
type PaymentStatus string

const (
	PaymentInitiated PaymentStatus = "initiated"
	PaymentPaid      PaymentStatus = "paid"
	PaymentUnpaid    PaymentStatus = "unpaid"
)

// PaymentTransaction is one checkout attempt correlated to a provider session.
type PaymentTransaction struct {
	ID            string            `json:"id" bson:"id"`
	SessionID     string            `json:"session_id" bson:"session_id"`
	UserID        string            `json:"user_id" bson:"user_id"`
	CourseID      string            `json:"course_id" bson:"course_id"`
	CourseTitle   string            `json:"course_title" bson:"course_title"`
	Amount        float64           `json:"amount" bson:"amount"`
	Currency      string            `json:"currency" bson:"currency"`
	Status        TransactionStatus `json:"status" bson:"status"`
	PaymentStatus PaymentStatus     `json:"payment_status" bson:"payment_status"`
	CreatedAt     time.Time         `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at" bson:"updated_at"`
}

// CheckoutSession is the provider handle returned when a checkout starts.
type CheckoutSession struct {
	SessionID string
	URL       string
}

// SessionState is the provider's report on a checkout session.
type SessionState struct {
	SessionID     string
	Status        string // provider status, e.g. open, complete, expired
	PaymentStatus PaymentStatus
	AmountTotal   int64 // minor units
	Currency      string
}

// TransactionStatus maps the provider report onto the ledger's status.
func (s SessionState) TransactionStatus() TransactionStatus {
	switch {
	case s.PaymentStatus == PaymentPaid:
		return TransactionComplete
	case s.Status == "expired":
		return TransactionFailed
	default:
		return TransactionPending
	}
}

// PaymentNotification is a webhook delivery reduced to what the ledger needs.
type PaymentNotification struct {
	EventID       string
	SessionID     string
	Status        string
	PaymentStatus PaymentStatus
}
