package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openstay/service-booking/internal/domain"
	bookingDomain "github.com/openstay/service-booking/internal/domain/booking"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	GuestID         uuid.UUID `gorm:"type:uuid;index;not null"`
	PropertyID      uuid.UUID `gorm:"type:uuid;index;not null"`
	CheckIn         time.Time `gorm:"type:date;not null;index:idx_bookings_stay"`
	CheckOut        time.Time `gorm:"type:date;not null;index:idx_bookings_stay"`
	Guests          int       `gorm:"not null"`
	TotalPriceCents int64     `gorm:"not null"`
	Status          string    `gorm:"not null;size:20;index"`
	Version         int64     `gorm:"not null;default:1"`
	CreatedAt       time.Time `gorm:"not null"`
	UpdatedAt       time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of BookingRepository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByID retrieves a booking by its unique identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := dbFrom(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", id.String())
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model)
}

// FindByGuestID retrieves bookings made by a specific guest with pagination.
func (r *GormBookingRepository) FindByGuestID(ctx context.Context, guestID uuid.UUID, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	return r.findPage(ctx, "guest_id = ?", []interface{}{guestID}, page, limit)
}

// FindByPropertyID retrieves bookings for a specific property with pagination.
func (r *GormBookingRepository) FindByPropertyID(ctx context.Context, propertyID uuid.UUID, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	return r.findPage(ctx, "property_id = ?", []interface{}{propertyID}, page, limit)
}

// HasActiveOverlap reports whether any pending or confirmed booking on
// the property overlaps the half-open stay range. Touching ranges do
// not overlap: the comparison is strict on both ends.
func (r *GormBookingRepository) HasActiveOverlap(ctx context.Context, propertyID uuid.UUID, stay bookingDomain.StayRange) (bool, error) {
	var count int64
	err := dbFrom(ctx, r.db).
		Model(&BookingModel{}).
		Where("property_id = ?", propertyID).
		Where("status IN ?", []string{
			string(bookingDomain.StatusPending),
			string(bookingDomain.StatusConfirmed),
		}).
		Where("check_in < ? AND check_out > ?", stay.CheckOut(), stay.CheckIn()).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check overlapping bookings: %w", err)
	}
	return count > 0, nil
}

// FindConfirmedByCheckIn retrieves confirmed bookings starting on the given date.
func (r *GormBookingRepository) FindConfirmedByCheckIn(ctx context.Context, date time.Time) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	err := dbFrom(ctx, r.db).
		Where("status = ? AND check_in = ?", string(bookingDomain.StatusConfirmed), bookingDomain.TruncateToDate(date)).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings by check-in date: %w", err)
	}
	return toDomainBookings(models)
}

// CompletePastCheckouts transitions every confirmed booking whose
// check-out precedes today to completed. A single bulk UPDATE keeps the
// sweep idempotent: re-running it matches no rows.
func (r *GormBookingRepository) CompletePastCheckouts(ctx context.Context, today time.Time) (int64, error) {
	result := dbFrom(ctx, r.db).
		Model(&BookingModel{}).
		Where("status = ? AND check_out < ?", string(bookingDomain.StatusConfirmed), bookingDomain.TruncateToDate(today)).
		Updates(map[string]interface{}{
			"status":     string(bookingDomain.StatusCompleted),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to complete past checkouts: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// ListAll retrieves all bookings with pagination (admin).
func (r *GormBookingRepository) ListAll(ctx context.Context, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	return r.findPage(ctx, "", nil, page, limit)
}

// CountByStatus returns booking counts grouped by status (admin).
func (r *GormBookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var results []statusCount
	if err := dbFrom(ctx, r.db).Model(&BookingModel{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}

	counts := make(map[string]int64)
	for _, sc := range results {
		counts[sc.Status] = sc.Count
	}
	return counts, nil
}

// Save persists a new booking.
func (r *GormBookingRepository) Save(ctx context.Context, bk *bookingDomain.Booking) error {
	if err := dbFrom(ctx, r.db).Create(toBookingModel(bk)).Error; err != nil {
		return fmt.Errorf("failed to save booking: %w", err)
	}
	return nil
}

// Update persists changes to an existing booking with optimistic locking.
func (r *GormBookingRepository) Update(ctx context.Context, bk *bookingDomain.Booking) error {
	model := toBookingModel(bk)

	// IncrementVersion was called before Update, so the stored row must
	// still be at the previous version for this write to apply.
	expectedVersion := bk.Version() - 1
	result := dbFrom(ctx, r.db).
		Model(&BookingModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"status":     model.Status,
			"version":    model.Version,
			"updated_at": model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update booking: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("booking was modified by another transaction")
	}
	return nil
}

func (r *GormBookingRepository) findPage(ctx context.Context, cond string, args []interface{}, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	db := dbFrom(ctx, r.db)
	query := db.Model(&BookingModel{})
	if cond != "" {
		query = query.Where(cond, args...)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	listQuery := db
	if cond != "" {
		listQuery = listQuery.Where(cond, args...)
	}
	var models []BookingModel
	offset := (page - 1) * limit
	if err := listQuery.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	bookings, err := toDomainBookings(models)
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

// --- Conversion Helpers ---

func toBookingModel(bk *bookingDomain.Booking) *BookingModel {
	return &BookingModel{
		ID:              bk.ID(),
		GuestID:         bk.GuestID(),
		PropertyID:      bk.PropertyID(),
		CheckIn:         bk.Stay().CheckIn(),
		CheckOut:        bk.Stay().CheckOut(),
		Guests:          bk.Guests(),
		TotalPriceCents: bk.TotalPriceCents(),
		Status:          string(bk.Status()),
		Version:         bk.Version(),
		CreatedAt:       bk.CreatedAt(),
		UpdatedAt:       bk.UpdatedAt(),
	}
}

func toDomainBooking(m *BookingModel) (*bookingDomain.Booking, error) {
	status, err := bookingDomain.ParseBookingStatus(m.Status)
	if err != nil {
		return nil, err
	}
	return bookingDomain.Reconstruct(
		m.ID,
		m.GuestID,
		m.PropertyID,
		bookingDomain.ReconstructStayRange(m.CheckIn, m.CheckOut),
		m.Guests,
		m.TotalPriceCents,
		status,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}

func toDomainBookings(models []BookingModel) ([]*bookingDomain.Booking, error) {
	bookings := make([]*bookingDomain.Booking, len(models))
	for i, m := range models {
		bk, err := toDomainBooking(&m)
		if err != nil {
			return nil, err
		}
		bookings[i] = bk
	}
	return bookings, nil
}
