package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/openstay/service-booking/internal/domain"
	bookingDomain "github.com/openstay/service-booking/internal/domain/booking"
	reviewDomain "github.com/openstay/service-booking/internal/domain/review"
	"github.com/openstay/service-booking/internal/events"
)

// CreateReviewRequest holds the data for reviewing a completed stay.
// The property is always derived from the booking, never supplied.
type CreateReviewRequest struct {
	BookingID uuid.UUID `json:"booking_id" binding:"required"`
	Rating    int       `json:"rating" binding:"required"`
	Comment   string    `json:"comment"`
}

// ReviewDTO is the response representation of a review.
type ReviewDTO struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	PropertyID uuid.UUID `json:"property_id"`
	BookingID  uuid.UUID `json:"booking_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// PropertyRatingDTO aggregates a property's reviews.
type PropertyRatingDTO struct {
	PropertyID    uuid.UUID `json:"property_id"`
	AverageRating float64   `json:"average_rating"`
	ReviewCount   int64     `json:"review_count"`
}

// ReviewService is the application service for stay reviews.
type ReviewService struct {
	reviews   reviewDomain.ReviewRepository
	bookings  bookingDomain.BookingRepository
	publisher events.Publisher
	logger    *zap.Logger
}

// NewReviewService creates a new ReviewService.
func NewReviewService(
	reviews reviewDomain.ReviewRepository,
	bookings bookingDomain.BookingRepository,
	publisher events.Publisher,
	logger *zap.Logger,
) *ReviewService {
	return &ReviewService{
		reviews:   reviews,
		bookings:  bookings,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateReview reviews a completed booking. Preconditions run in order:
// the caller owns the booking, the stay is completed, and no review
// exists yet. The existence pre-check gives a clean error; the store's
// unique constraint on the booking is the authoritative guard against
// racing duplicates.
func (s *ReviewService) CreateReview(ctx context.Context, userID uuid.UUID, req CreateReviewRequest) (*ReviewDTO, error) {
	bk, err := s.bookings.FindByID(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}

	if !bk.IsOwnedBy(userID) {
		return nil, domain.NewError(domain.CodeNotBookingOwner, "only the booking's guest can review the stay")
	}
	if bk.Status() != bookingDomain.StatusCompleted {
		return nil, domain.NewError(domain.CodeBookingNotCompleted, "only completed stays can be reviewed")
	}

	exists, err := s.reviews.ExistsForBooking(ctx, bk.ID())
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.NewError(domain.CodeDuplicateReview, "booking already has a review")
	}

	rv, err := reviewDomain.NewReview(userID, bk.PropertyID(), bk.ID(), req.Rating, req.Comment)
	if err != nil {
		return nil, err
	}

	if err := s.reviews.Save(ctx, rv); err != nil {
		return nil, err
	}

	s.publishReviewCreated(ctx, rv)

	result := toReviewDTO(rv)
	return &result, nil
}

// GetReview retrieves a single review.
func (s *ReviewService) GetReview(ctx context.Context, reviewID uuid.UUID) (*ReviewDTO, error) {
	rv, err := s.reviews.FindByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	result := toReviewDTO(rv)
	return &result, nil
}

// ListPropertyReviews retrieves a property's reviews with pagination.
func (s *ReviewService) ListPropertyReviews(ctx context.Context, propertyID uuid.UUID, page, limit int) (*domain.PaginatedResult[ReviewDTO], error) {
	reviews, total, err := s.reviews.FindByPropertyID(ctx, propertyID, page, limit)
	if err != nil {
		return nil, err
	}

	dtos := make([]ReviewDTO, len(reviews))
	for i, rv := range reviews {
		dtos[i] = toReviewDTO(rv)
	}

	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// GetPropertyRating returns a property's average rating and review count.
func (s *ReviewService) GetPropertyRating(ctx context.Context, propertyID uuid.UUID) (*PropertyRatingDTO, error) {
	avg, count, err := s.reviews.AverageRatingByPropertyID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	return &PropertyRatingDTO{
		PropertyID:    propertyID,
		AverageRating: avg,
		ReviewCount:   count,
	}, nil
}

// DeleteReview removes a review. Only its author or staff may delete it.
func (s *ReviewService) DeleteReview(ctx context.Context, reviewID, actorID uuid.UUID, isStaff bool) error {
	rv, err := s.reviews.FindByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if !isStaff && !rv.IsAuthoredBy(actorID) {
		return domain.NewForbiddenError("not allowed to delete this review")
	}
	return s.reviews.Delete(ctx, reviewID)
}

// --- Helpers ---

func toReviewDTO(rv *reviewDomain.Review) ReviewDTO {
	return ReviewDTO{
		ID:         rv.ID(),
		UserID:     rv.UserID(),
		PropertyID: rv.PropertyID(),
		BookingID:  rv.BookingID(),
		Rating:     rv.Rating(),
		Comment:    rv.Comment(),
		CreatedAt:  rv.CreatedAt(),
	}
}

func (s *ReviewService) publishReviewCreated(ctx context.Context, rv *reviewDomain.Review) {
	evt := events.ReviewCreatedEvent{
		ReviewID:   rv.ID(),
		BookingID:  rv.BookingID(),
		PropertyID: rv.PropertyID(),
		UserID:     rv.UserID(),
		Rating:     rv.Rating(),
		OccurredAt: time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, events.TopicReviewEvents, events.ReviewCreated, rv.PropertyID().String(), evt); err != nil {
		s.logger.Error("failed to publish review event",
			zap.String("review_id", rv.ID().String()),
			zap.Error(err),
		)
	}
}
