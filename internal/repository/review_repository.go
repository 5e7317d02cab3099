package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openstay/service-booking/internal/domain"
	reviewDomain "github.com/openstay/service-booking/internal/domain/review"
)

// ReviewModel is the GORM model for the reviews table. The unique index
// on BookingID backs the one-review-per-booking rule.
type ReviewModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID     uuid.UUID `gorm:"type:uuid;index;not null"`
	PropertyID uuid.UUID `gorm:"type:uuid;index;not null"`
	BookingID  uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	Rating     int       `gorm:"not null"`
	Comment    string    `gorm:"type:text"`
	CreatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (ReviewModel) TableName() string {
	return "reviews"
}

// GormReviewRepository is the GORM-based implementation of ReviewRepository.
type GormReviewRepository struct {
	db *gorm.DB
}

// NewGormReviewRepository creates a new GormReviewRepository.
func NewGormReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

// FindByID retrieves a review by its unique identifier.
func (r *GormReviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*reviewDomain.Review, error) {
	var model ReviewModel
	if err := dbFrom(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Review", id.String())
		}
		return nil, fmt.Errorf("failed to find review: %w", err)
	}
	return toDomainReview(&model), nil
}

// ExistsForBooking reports whether the booking already has a review.
func (r *GormReviewRepository) ExistsForBooking(ctx context.Context, bookingID uuid.UUID) (bool, error) {
	var count int64
	err := dbFrom(ctx, r.db).
		Model(&ReviewModel{}).
		Where("booking_id = ?", bookingID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check review existence: %w", err)
	}
	return count > 0, nil
}

// FindByPropertyID retrieves reviews of a property with pagination, newest first.
func (r *GormReviewRepository) FindByPropertyID(ctx context.Context, propertyID uuid.UUID, page, limit int) ([]*reviewDomain.Review, int64, error) {
	db := dbFrom(ctx, r.db)

	var total int64
	if err := db.Model(&ReviewModel{}).Where("property_id = ?", propertyID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	var models []ReviewModel
	offset := (page - 1) * limit
	if err := db.
		Where("property_id = ?", propertyID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list reviews: %w", err)
	}

	reviews := make([]*reviewDomain.Review, len(models))
	for i, m := range models {
		reviews[i] = toDomainReview(&m)
	}
	return reviews, total, nil
}

// AverageRatingByPropertyID returns the mean rating and review count for a property.
func (r *GormReviewRepository) AverageRatingByPropertyID(ctx context.Context, propertyID uuid.UUID) (float64, int64, error) {
	var agg struct {
		Avg   float64
		Count int64
	}
	err := dbFrom(ctx, r.db).
		Model(&ReviewModel{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Where("property_id = ?", propertyID).
		Scan(&agg).Error
	if err != nil {
		return 0, 0, fmt.Errorf("failed to aggregate ratings: %w", err)
	}
	return agg.Avg, agg.Count, nil
}

// Save persists a new review. A concurrent insert for the same booking
// loses to the unique constraint and surfaces as DUPLICATE_REVIEW.
func (r *GormReviewRepository) Save(ctx context.Context, rv *reviewDomain.Review) error {
	if err := dbFrom(ctx, r.db).Create(toReviewModel(rv)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.NewError(domain.CodeDuplicateReview, "booking already has a review")
		}
		return fmt.Errorf("failed to save review: %w", err)
	}
	return nil
}

// Delete removes a review.
func (r *GormReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbFrom(ctx, r.db).Where("id = ?", id).Delete(&ReviewModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete review: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Review", id.String())
	}
	return nil
}

// --- Conversions ---

func toReviewModel(rv *reviewDomain.Review) *ReviewModel {
	return &ReviewModel{
		ID:         rv.ID(),
		UserID:     rv.UserID(),
		PropertyID: rv.PropertyID(),
		BookingID:  rv.BookingID(),
		Rating:     rv.Rating(),
		Comment:    rv.Comment(),
		CreatedAt:  rv.CreatedAt(),
	}
}

func toDomainReview(m *ReviewModel) *reviewDomain.Review {
	return reviewDomain.Reconstruct(
		m.ID, m.UserID, m.PropertyID, m.BookingID,
		m.Rating, m.Comment,
		m.CreatedAt,
	)
}
