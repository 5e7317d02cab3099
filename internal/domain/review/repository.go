package review

import (
	"context"

	"github.com/google/uuid"
)

// ReviewRepository defines the persistence contract for reviews. The
// store enforces a uniqueness constraint on the booking reference; the
// Save implementation surfaces a duplicate as a DUPLICATE_REVIEW error.
type ReviewRepository interface {
	// FindByID retrieves a review by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Review, error)

	// ExistsForBooking reports whether the booking already has a review.
	ExistsForBooking(ctx context.Context, bookingID uuid.UUID) (bool, error)

	// FindByPropertyID retrieves reviews of a property with pagination.
	FindByPropertyID(ctx context.Context, propertyID uuid.UUID, page, limit int) ([]*Review, int64, error)

	// AverageRatingByPropertyID returns the mean rating and review count
	// for a property. A property with no reviews yields (0, 0, nil).
	AverageRatingByPropertyID(ctx context.Context, propertyID uuid.UUID) (float64, int64, error)

	// Save persists a new review.
	Save(ctx context.Context, review *Review) error

	// Delete removes a review.
	Delete(ctx context.Context, id uuid.UUID) error
}
