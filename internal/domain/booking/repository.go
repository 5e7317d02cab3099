package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// BookingRepository defines the persistence contract for booking aggregates.
type BookingRepository interface {
	// FindByID retrieves a booking by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// FindByGuestID retrieves bookings made by a specific guest with pagination.
	FindByGuestID(ctx context.Context, guestID uuid.UUID, page, limit int) ([]*Booking, int64, error)

	// FindByPropertyID retrieves bookings for a specific property with pagination.
	FindByPropertyID(ctx context.Context, propertyID uuid.UUID, page, limit int) ([]*Booking, int64, error)

	// HasActiveOverlap reports whether any pending or confirmed booking
	// on the property overlaps the half-open stay range.
	HasActiveOverlap(ctx context.Context, propertyID uuid.UUID, stay StayRange) (bool, error)

	// FindConfirmedByCheckIn retrieves confirmed bookings whose stay
	// begins on the given calendar date.
	FindConfirmedByCheckIn(ctx context.Context, date time.Time) ([]*Booking, error)

	// CompletePastCheckouts transitions every confirmed booking whose
	// check-out precedes today to completed, returning the number of
	// rows changed. Idempotent.
	CompletePastCheckouts(ctx context.Context, today time.Time) (int64, error)

	// ListAll retrieves all bookings with pagination (admin).
	ListAll(ctx context.Context, page, limit int) ([]*Booking, int64, error)

	// CountByStatus returns booking counts grouped by status (admin).
	CountByStatus(ctx context.Context) (map[string]int64, error)

	// Save persists a new booking.
	Save(ctx context.Context, booking *Booking) error

	// Update persists changes to an existing booking with optimistic locking.
	Update(ctx context.Context, booking *Booking) error
}
