package payment

import (
	"context"

	"github.com/google/uuid"
)

// PaymentRepository defines the persistence contract for payments.
type PaymentRepository interface {
	// FindByID retrieves a payment by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)

	// FindByBookingID retrieves all payment attempts for a booking,
	// newest first.
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*Payment, error)

	// FindByGuestID retrieves payments on bookings made by a guest with pagination.
	FindByGuestID(ctx context.Context, guestID uuid.UUID, page, limit int) ([]*Payment, int64, error)

	// HasCompletedForBooking reports whether a completed payment exists
	// for the booking. Used for crash reconciliation of booking status.
	HasCompletedForBooking(ctx context.Context, bookingID uuid.UUID) (bool, error)

	// Save persists a new payment.
	Save(ctx context.Context, payment *Payment) error

	// Update persists changes to an existing payment with optimistic locking.
	Update(ctx context.Context, payment *Payment) error
}
