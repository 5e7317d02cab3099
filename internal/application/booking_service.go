package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/openstay/service-booking/internal/domain"
	bookingDomain "github.com/openstay/service-booking/internal/domain/booking"
	propertyDomain "github.com/openstay/service-booking/internal/domain/property"
	"github.com/openstay/service-booking/internal/events"
)

// CreateBookingRequest holds the data needed to create a new booking.
type CreateBookingRequest struct {
	PropertyID uuid.UUID `json:"property_id" binding:"required"`
	CheckIn    string    `json:"check_in" binding:"required"`
	CheckOut   string    `json:"check_out" binding:"required"`
	Guests     int       `json:"guests" binding:"required"`
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID              uuid.UUID `json:"id"`
	GuestID         uuid.UUID `json:"guest_id"`
	PropertyID      uuid.UUID `json:"property_id"`
	CheckIn         string    `json:"check_in"`
	CheckOut        string    `json:"check_out"`
	Nights          int       `json:"nights"`
	Guests          int       `json:"guests"`
	TotalPriceCents int64     `json:"total_price_cents"`
	Status          string    `json:"status"`
	Version         int64     `json:"version"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// AvailabilityDTO is the response of an availability check.
type AvailabilityDTO struct {
	PropertyID uuid.UUID `json:"property_id"`
	CheckIn    string    `json:"check_in"`
	CheckOut   string    `json:"check_out"`
	Available  bool      `json:"available"`
}

// BookingService is the application service orchestrating booking use cases.
type BookingService struct {
	bookings   bookingDomain.BookingRepository
	properties propertyDomain.PropertyRepository
	pricing    bookingDomain.PricingStrategy
	tx         TxManager
	publisher  events.Publisher
	logger     *zap.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	bookings bookingDomain.BookingRepository,
	properties propertyDomain.PropertyRepository,
	pricing bookingDomain.PricingStrategy,
	tx TxManager,
	publisher events.Publisher,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		bookings:   bookings,
		properties: properties,
		pricing:    pricing,
		tx:         tx,
		publisher:  publisher,
		logger:     logger,
	}
}

// CreateBooking creates a new pending booking for the given guest. The
// availability check and the insert run in one transaction holding a
// row lock on the property, so two racing requests for overlapping
// dates serialize and the second one fails with DATE_CONFLICT.
func (s *BookingService) CreateBooking(ctx context.Context, guestID uuid.UUID, req CreateBookingRequest) (*BookingDTO, error) {
	stay, err := parseStayRange(req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, err
	}

	var bk *bookingDomain.Booking
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		prop, err := s.properties.FindByIDForUpdate(ctx, req.PropertyID)
		if err != nil {
			return err
		}
		if !prop.IsAvailable() {
			return domain.NewError(domain.CodePropertyUnavailable, "property is not accepting bookings")
		}
		if !prop.CanAccommodate(req.Guests) {
			return domain.NewValidationError(fmt.Sprintf("property accommodates at most %d guests", prop.MaxGuests()))
		}

		conflict, err := s.bookings.HasActiveOverlap(ctx, prop.ID(), stay)
		if err != nil {
			return err
		}
		if conflict {
			return domain.NewError(domain.CodeDateConflict, "property is already booked for these dates")
		}

		totalCents, err := s.pricing.Quote(prop.PricePerNightCents(), stay)
		if err != nil {
			return err
		}

		bk, err = bookingDomain.NewBooking(guestID, prop.ID(), stay, req.Guests, totalCents)
		if err != nil {
			return err
		}
		return s.bookings.Save(ctx, bk)
	})
	if err != nil {
		return nil, err
	}

	s.publishBookingEvent(ctx, events.BookingCreated, bk)
	s.publishNotification(ctx, events.NotificationBookingConfirmation, bk)

	result := toBookingDTO(bk)
	return &result, nil
}

// ConfirmBooking transitions a pending booking to confirmed. Normal
// confirmation happens through payment; this path exists for staff.
func (s *BookingService) ConfirmBooking(ctx context.Context, bookingID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := bk.Confirm(); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.bookings.Update(ctx, bk); err != nil {
		return nil, err
	}

	s.publishBookingEvent(ctx, events.BookingConfirmed, bk)

	result := toBookingDTO(bk)
	return &result, nil
}

// CancelBooking cancels a pending or confirmed booking. The caller must
// be the booking's guest, the property's host, or staff.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID, actorID uuid.UUID, isStaff bool) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !isStaff && !bk.IsOwnedBy(actorID) {
		prop, err := s.properties.FindByID(ctx, bk.PropertyID())
		if err != nil {
			return nil, err
		}
		if !prop.IsOwnedBy(actorID) {
			return nil, domain.NewForbiddenError("booking can only be cancelled by its guest, the host, or staff")
		}
	}

	if err := bk.Cancel(); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.bookings.Update(ctx, bk); err != nil {
		return nil, err
	}

	s.publishBookingEvent(ctx, events.BookingCancelled, bk)

	result := toBookingDTO(bk)
	return &result, nil
}

// SweepCompletions transitions every confirmed booking whose check-out
// has passed to completed. Safe to run repeatedly; re-runs affect zero
// rows. Past-dated pending bookings are left alone, the payment flow
// owns their fate.
func (s *BookingService) SweepCompletions(ctx context.Context, today time.Time) (int64, error) {
	n, err := s.bookings.CompletePastCheckouts(ctx, bookingDomain.TruncateToDate(today))
	if err != nil {
		return 0, fmt.Errorf("failed to sweep completions: %w", err)
	}
	if n > 0 {
		s.logger.Info("completed past-checkout bookings", zap.Int64("count", n))
	}
	return n, nil
}

// CheckAvailability reports whether a property is free for the given
// half-open date range. Touching ranges do not conflict.
func (s *BookingService) CheckAvailability(ctx context.Context, propertyID uuid.UUID, checkIn, checkOut string) (*AvailabilityDTO, error) {
	stay, err := parseStayRange(checkIn, checkOut)
	if err != nil {
		return nil, err
	}

	prop, err := s.properties.FindByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	available := false
	if prop.IsAvailable() {
		conflict, err := s.bookings.HasActiveOverlap(ctx, prop.ID(), stay)
		if err != nil {
			return nil, err
		}
		available = !conflict
	}

	return &AvailabilityDTO{
		PropertyID: prop.ID(),
		CheckIn:    stay.CheckIn().Format(time.DateOnly),
		CheckOut:   stay.CheckOut().Format(time.DateOnly),
		Available:  available,
	}, nil
}

// GetBooking retrieves a single booking. Guests see their own bookings,
// hosts the bookings on their properties, staff everything.
func (s *BookingService) GetBooking(ctx context.Context, bookingID, actorID uuid.UUID, isStaff bool) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !isStaff && !bk.IsOwnedBy(actorID) {
		prop, err := s.properties.FindByID(ctx, bk.PropertyID())
		if err != nil {
			return nil, err
		}
		if !prop.IsOwnedBy(actorID) {
			return nil, domain.NewForbiddenError("not allowed to view this booking")
		}
	}

	result := toBookingDTO(bk)
	return &result, nil
}

// GetGuestBookings retrieves paginated bookings made by a guest.
func (s *BookingService) GetGuestBookings(ctx context.Context, guestID uuid.UUID, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	bookings, total, err := s.bookings.FindByGuestID(ctx, guestID, page, limit)
	if err != nil {
		return nil, err
	}

	result := domain.NewPaginatedResult(toBookingDTOs(bookings), total, page, limit)
	return &result, nil
}

// GetPropertyBookings retrieves paginated bookings on a property. Only
// the property's host or staff may list them.
func (s *BookingService) GetPropertyBookings(ctx context.Context, propertyID, actorID uuid.UUID, isStaff bool, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	prop, err := s.properties.FindByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if !isStaff && !prop.IsOwnedBy(actorID) {
		return nil, domain.NewForbiddenError("not allowed to view bookings for this property")
	}

	bookings, total, err := s.bookings.FindByPropertyID(ctx, propertyID, page, limit)
	if err != nil {
		return nil, err
	}

	result := domain.NewPaginatedResult(toBookingDTOs(bookings), total, page, limit)
	return &result, nil
}

// --- Admin methods ---

// BookingStatsDTO holds booking statistics for the admin dashboard.
type BookingStatsDTO struct {
	TotalBookings int64            `json:"total_bookings"`
	ByStatus      map[string]int64 `json:"by_status"`
}

// ListAllBookings returns a paginated list of all bookings (admin).
func (s *BookingService) ListAllBookings(ctx context.Context, page, limit int) ([]BookingDTO, int64, error) {
	bookings, total, err := s.bookings.ListAll(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}
	return toBookingDTOs(bookings), total, nil
}

// GetBookingStats returns aggregate booking statistics (admin).
func (s *BookingService) GetBookingStats(ctx context.Context) (*BookingStatsDTO, error) {
	counts, err := s.bookings.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking stats: %w", err)
	}

	var total int64
	for _, c := range counts {
		total += c
	}

	return &BookingStatsDTO{
		TotalBookings: total,
		ByStatus:      counts,
	}, nil
}

// --- Helpers ---

func parseStayRange(checkIn, checkOut string) (bookingDomain.StayRange, error) {
	ci, err := bookingDomain.ParseDate(checkIn)
	if err != nil {
		return bookingDomain.StayRange{}, err
	}
	co, err := bookingDomain.ParseDate(checkOut)
	if err != nil {
		return bookingDomain.StayRange{}, err
	}
	return bookingDomain.NewStayRange(ci, co)
}

func toBookingDTO(bk *bookingDomain.Booking) BookingDTO {
	return BookingDTO{
		ID:              bk.ID(),
		GuestID:         bk.GuestID(),
		PropertyID:      bk.PropertyID(),
		CheckIn:         bk.Stay().CheckIn().Format(time.DateOnly),
		CheckOut:        bk.Stay().CheckOut().Format(time.DateOnly),
		Nights:          bk.Stay().Nights(),
		Guests:          bk.Guests(),
		TotalPriceCents: bk.TotalPriceCents(),
		Status:          string(bk.Status()),
		Version:         bk.Version(),
		CreatedAt:       bk.CreatedAt(),
		UpdatedAt:       bk.UpdatedAt(),
	}
}

func toBookingDTOs(bookings []*bookingDomain.Booking) []BookingDTO {
	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}
	return dtos
}

func (s *BookingService) publishBookingEvent(ctx context.Context, eventType string, bk *bookingDomain.Booking) {
	evt := events.BookingEvent{
		BookingID:       bk.ID(),
		PropertyID:      bk.PropertyID(),
		GuestID:         bk.GuestID(),
		CheckIn:         bk.Stay().CheckIn().Format(time.DateOnly),
		CheckOut:        bk.Stay().CheckOut().Format(time.DateOnly),
		TotalPriceCents: bk.TotalPriceCents(),
		Status:          string(bk.Status()),
		OccurredAt:      time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, events.TopicBookingEvents, eventType, bk.ID().String(), evt); err != nil {
		s.logger.Error("failed to publish booking event",
			zap.String("event_type", eventType),
			zap.String("booking_id", bk.ID().String()),
			zap.Error(err),
		)
	}
}

func (s *BookingService) publishNotification(ctx context.Context, eventType string, bk *bookingDomain.Booking) {
	evt := events.NotificationEvent{
		UserID:     bk.GuestID(),
		BookingID:  bk.ID(),
		PropertyID: bk.PropertyID(),
		CheckIn:    bk.Stay().CheckIn().Format(time.DateOnly),
		CheckOut:   bk.Stay().CheckOut().Format(time.DateOnly),
		OccurredAt: time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, events.TopicNotificationEvents, eventType, bk.ID().String(), evt); err != nil {
		s.logger.Error("failed to publish notification",
			zap.String("event_type", eventType),
			zap.String("booking_id", bk.ID().String()),
			zap.Error(err),
		)
	}
}
