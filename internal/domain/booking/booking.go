package booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/openstay/service-booking/internal/domain"
)

// Booking is the aggregate root for the booking domain. Its stay range
// and total price are immutable after creation; only the status moves,
// and only through the transition rules below.
type Booking struct {
	id              uuid.UUID
	guestID         uuid.UUID
	propertyID      uuid.UUID
	stay            StayRange
	guests          int
	totalPriceCents int64
	status          BookingStatus

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewBooking creates a new Booking aggregate with status=pending.
// Availability against other bookings is the caller's concern; this
// constructor only enforces intrinsic invariants.
func NewBooking(guestID, propertyID uuid.UUID, stay StayRange, guests int, totalPriceCents int64) (*Booking, error) {
	if guestID == uuid.Nil {
		return nil, domain.NewValidationError("guest ID is required")
	}
	if propertyID == uuid.Nil {
		return nil, domain.NewValidationError("property ID is required")
	}
	if guests <= 0 {
		return nil, domain.NewValidationError("guest count must be positive")
	}
	if totalPriceCents < 0 {
		return nil, domain.NewValidationError("total price cannot be negative")
	}

	now := time.Now().UTC()
	return &Booking{
		id:              uuid.New(),
		guestID:         guestID,
		propertyID:      propertyID,
		stay:            stay,
		guests:          guests,
		totalPriceCents: totalPriceCents,
		status:          StatusPending,
		version:         1,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

// Reconstruct rebuilds a Booking from persistence data (no validation).
func Reconstruct(
	id, guestID, propertyID uuid.UUID,
	stay StayRange,
	guests int,
	totalPriceCents int64,
	status BookingStatus,
	version int64,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:              id,
		guestID:         guestID,
		propertyID:      propertyID,
		stay:            stay,
		guests:          guests,
		totalPriceCents: totalPriceCents,
		status:          status,
		version:         version,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

// --- Getters ---

// ID returns the booking's unique identifier.
func (b *Booking) ID() uuid.UUID { return b.id }

// GuestID returns the booking guest's user ID.
func (b *Booking) GuestID() uuid.UUID { return b.guestID }

// PropertyID returns the booked property's ID.
func (b *Booking) PropertyID() uuid.UUID { return b.propertyID }

// Stay returns the half-open [check-in, check-out) date range.
func (b *Booking) Stay() StayRange { return b.stay }

// Guests returns the number of guests on the booking.
func (b *Booking) Guests() int { return b.guests }

// TotalPriceCents returns the derived total price in cents.
func (b *Booking) TotalPriceCents() int64 { return b.totalPriceCents }

// Status returns the current booking status.
func (b *Booking) Status() BookingStatus { return b.status }

// Version returns the entity version for optimistic locking.
func (b *Booking) Version() int64 { return b.version }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// --- Behavior ---

// IsOwnedBy checks if the booking belongs to the given guest.
func (b *Booking) IsOwnedBy(guestID uuid.UUID) bool {
	return b.guestID == guestID
}

// Confirm transitions the booking from pending to confirmed. Invoked
// after a successful payment.
func (b *Booking) Confirm() error {
	if !b.status.CanTransitionTo(StatusConfirmed) {
		return domain.NewInvalidTransitionError(string(b.status), string(StatusConfirmed))
	}
	b.status = StatusConfirmed
	b.updatedAt = time.Now().UTC()
	return nil
}

// Cancel transitions the booking to cancelled if it is not in a terminal state.
func (b *Booking) Cancel() error {
	if !b.status.CanBeCancelled() {
		return domain.NewInvalidTransitionError(string(b.status), string(StatusCancelled))
	}
	b.status = StatusCancelled
	b.updatedAt = time.Now().UTC()
	return nil
}

// Complete transitions the booking from confirmed to completed once
// the stay has ended.
func (b *Booking) Complete() error {
	if !b.status.CanTransitionTo(StatusCompleted) {
		return domain.NewInvalidTransitionError(string(b.status), string(StatusCompleted))
	}
	b.status = StatusCompleted
	b.updatedAt = time.Now().UTC()
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
	b.updatedAt = time.Now().UTC()
}
