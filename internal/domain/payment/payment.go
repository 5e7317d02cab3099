package payment

import (
	"time"

	"github.com/google/uuid"

	"github.com/openstay/service-booking/internal/domain"
)

// Payment is a settlement attempt against exactly one booking. A
// booking may accumulate several pending or failed attempts; the
// processor ensures at most one reaches completed.
type Payment struct {
	id            uuid.UUID
	bookingID     uuid.UUID
	amountCents   int64
	method        string
	transactionID string
	status        PaymentStatus

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewPayment creates a new pending payment attempt. A zero amount is
// allowed: free listings produce zero-total bookings that still settle
// through the normal payment flow.
func NewPayment(bookingID uuid.UUID, amountCents int64, method string) (*Payment, error) {
	if bookingID == uuid.Nil {
		return nil, domain.NewValidationError("booking ID is required")
	}
	if amountCents < 0 {
		return nil, domain.NewValidationError("payment amount cannot be negative")
	}
	if method == "" {
		return nil, domain.NewValidationError("payment method is required")
	}

	now := time.Now().UTC()
	return &Payment{
		id:          uuid.New(),
		bookingID:   bookingID,
		amountCents: amountCents,
		method:      method,
		status:      StatusPending,
		version:     1,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// Reconstruct rebuilds a Payment from persistence data (no validation).
func Reconstruct(
	id, bookingID uuid.UUID,
	amountCents int64,
	method, transactionID string,
	status PaymentStatus,
	version int64,
	createdAt, updatedAt time.Time,
) *Payment {
	return &Payment{
		id:            id,
		bookingID:     bookingID,
		amountCents:   amountCents,
		method:        method,
		transactionID: transactionID,
		status:        status,
		version:       version,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// --- Getters ---

func (p *Payment) ID() uuid.UUID         { return p.id }
func (p *Payment) BookingID() uuid.UUID  { return p.bookingID }
func (p *Payment) AmountCents() int64    { return p.amountCents }
func (p *Payment) Method() string        { return p.method }
func (p *Payment) TransactionID() string { return p.transactionID }
func (p *Payment) Status() PaymentStatus { return p.status }
func (p *Payment) Version() int64        { return p.version }
func (p *Payment) CreatedAt() time.Time  { return p.createdAt }
func (p *Payment) UpdatedAt() time.Time  { return p.updatedAt }

// --- Behavior ---

// Complete marks the payment as settled with the gateway's transaction reference.
func (p *Payment) Complete(transactionID string) error {
	if !p.status.CanTransitionTo(StatusCompleted) {
		return domain.NewInvalidTransitionError(string(p.status), string(StatusCompleted))
	}
	p.status = StatusCompleted
	p.transactionID = transactionID
	p.updatedAt = time.Now().UTC()
	return nil
}

// Fail marks the payment attempt as failed.
func (p *Payment) Fail() error {
	if !p.status.CanTransitionTo(StatusFailed) {
		return domain.NewInvalidTransitionError(string(p.status), string(StatusFailed))
	}
	p.status = StatusFailed
	p.updatedAt = time.Now().UTC()
	return nil
}

// Refund marks a completed payment as refunded.
func (p *Payment) Refund() error {
	if !p.status.CanTransitionTo(StatusRefunded) {
		return domain.NewInvalidTransitionError(string(p.status), string(StatusRefunded))
	}
	p.status = StatusRefunded
	p.updatedAt = time.Now().UTC()
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (p *Payment) IncrementVersion() {
	p.version++
	p.updatedAt = time.Now().UTC()
}
