package review

import (
	"time"

	"github.com/google/uuid"

	"github.com/openstay/service-booking/internal/domain"
)

const (
	// MinRating and MaxRating bound the integer rating scale.
	MinRating = 1
	MaxRating = 5
)

// Review is a guest's one-and-only review of a completed booking. The
// property reference is always derived from the booking, never
// supplied directly.
type Review struct {
	id         uuid.UUID
	userID     uuid.UUID
	propertyID uuid.UUID
	bookingID  uuid.UUID
	rating     int
	comment    string
	createdAt  time.Time
}

// NewReview creates a new review. The caller is responsible for the
// booking-level preconditions (ownership, completed status, no prior
// review); this constructor enforces intrinsic ones.
func NewReview(userID, propertyID, bookingID uuid.UUID, rating int, comment string) (*Review, error) {
	if userID == uuid.Nil {
		return nil, domain.NewValidationError("user ID is required")
	}
	if propertyID == uuid.Nil {
		return nil, domain.NewValidationError("property ID is required")
	}
	if bookingID == uuid.Nil {
		return nil, domain.NewValidationError("booking ID is required")
	}
	if rating < MinRating || rating > MaxRating {
		return nil, domain.NewError(domain.CodeInvalidRating, "rating must be between 1 and 5")
	}

	return &Review{
		id:         uuid.New(),
		userID:     userID,
		propertyID: propertyID,
		bookingID:  bookingID,
		rating:     rating,
		comment:    comment,
		createdAt:  time.Now().UTC(),
	}, nil
}

// Reconstruct rebuilds a Review from persistence data (no validation).
func Reconstruct(id, userID, propertyID, bookingID uuid.UUID, rating int, comment string, createdAt time.Time) *Review {
	return &Review{
		id:         id,
		userID:     userID,
		propertyID: propertyID,
		bookingID:  bookingID,
		rating:     rating,
		comment:    comment,
		createdAt:  createdAt,
	}
}

// Getters.
func (r *Review) ID() uuid.UUID         { return r.id }
func (r *Review) UserID() uuid.UUID     { return r.userID }
func (r *Review) PropertyID() uuid.UUID { return r.propertyID }
func (r *Review) BookingID() uuid.UUID  { return r.bookingID }
func (r *Review) Rating() int           { return r.rating }
func (r *Review) Comment() string       { return r.comment }
func (r *Review) CreatedAt() time.Time  { return r.createdAt }

// IsAuthoredBy checks if the review was written by the given user.
func (r *Review) IsAuthoredBy(userID uuid.UUID) bool {
	return r.userID == userID
}
