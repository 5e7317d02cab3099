package application

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/openstay/service-booking/internal/domain"
	bookingDomain "github.com/openstay/service-booking/internal/domain/booking"
	propertyDomain "github.com/openstay/service-booking/internal/domain/property"
	"github.com/openstay/service-booking/internal/events"
)

type bookingFixture struct {
	svc        *BookingService
	bookings   *fakeBookingRepo
	properties *fakePropertyRepo

	hostID   uuid.UUID
	guestID  uuid.UUID
	property *propertyDomain.Property
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()

	bookings := newFakeBookingRepo()
	properties := newFakePropertyRepo()

	hostID := uuid.New()
	prop, err := propertyDomain.NewProperty(
		hostID,
		"Seaside flat", "", "1 Shore Rd", "Brighton", "", "UK", "",
		10000, // 100.00 per night
		4, 2, 1,
		"apartment", nil,
	)
	require.NoError(t, err)
	require.NoError(t, properties.Save(context.Background(), prop))

	svc := NewBookingService(
		bookings, properties,
		bookingDomain.NewNightlyRateStrategy(),
		passthroughTx{},
		events.NopPublisher{},
		zap.NewNop(),
	)

	return &bookingFixture{
		svc:        svc,
		bookings:   bookings,
		properties: properties,
		hostID:     hostID,
		guestID:    uuid.New(),
		property:   prop,
	}
}

func (f *bookingFixture) createBooking(t *testing.T, checkIn, checkOut string) *BookingDTO {
	t.Helper()
	dto, err := f.svc.CreateBooking(context.Background(), f.guestID, CreateBookingRequest{
		PropertyID: f.property.ID(),
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Guests:     2,
	})
	require.NoError(t, err)
	return dto
}

func TestCreateBooking(t *testing.T) {
	f := newBookingFixture(t)

	dto := f.createBooking(t, "2026-06-01", "2026-06-04")

	assert.Equal(t, "pending", dto.Status)
	assert.Equal(t, 3, dto.Nights)
	assert.Equal(t, int64(30000), dto.TotalPriceCents)
	assert.Equal(t, f.guestID, dto.GuestID)
}

func TestCreateBooking_InvalidDateRange(t *testing.T) {
	f := newBookingFixture(t)

	_, err := f.svc.CreateBooking(context.Background(), f.guestID, CreateBookingRequest{
		PropertyID: f.property.ID(),
		CheckIn:    "2026-06-04",
		CheckOut:   "2026-06-01",
		Guests:     2,
	})
	assert.True(t, domain.IsCode(err, domain.CodeInvalidDateRange))
}

func TestCreateBooking_PropertyUnavailable(t *testing.T) {
	f := newBookingFixture(t)
	f.property.SetAvailability(false)

	_, err := f.svc.CreateBooking(context.Background(), f.guestID, CreateBookingRequest{
		PropertyID: f.property.ID(),
		CheckIn:    "2026-06-01",
		CheckOut:   "2026-06-04",
		Guests:     2,
	})
	assert.True(t, domain.IsCode(err, domain.CodePropertyUnavailable))
}

func TestCreateBooking_TooManyGuests(t *testing.T) {
	f := newBookingFixture(t)

	_, err := f.svc.CreateBooking(context.Background(), f.guestID, CreateBookingRequest{
		PropertyID: f.property.ID(),
		CheckIn:    "2026-06-01",
		CheckOut:   "2026-06-04",
		Guests:     9,
	})
	assert.True(t, domain.IsCode(err, domain.CodeValidation))
}

func TestCreateBooking_DateConflict(t *testing.T) {
	f := newBookingFixture(t)
	f.createBooking(t, "2026-06-10", "2026-06-15")

	_, err := f.svc.CreateBooking(context.Background(), uuid.New(), CreateBookingRequest{
		PropertyID: f.property.ID(),
		CheckIn:    "2026-06-12",
		CheckOut:   "2026-06-18",
		Guests:     1,
	})
	assert.True(t, domain.IsCode(err, domain.CodeDateConflict))
}

func TestCreateBooking_TouchingRangesDoNotConflict(t *testing.T) {
	f := newBookingFixture(t)
	f.createBooking(t, "2026-06-10", "2026-06-15")

	dto, err := f.svc.CreateBooking(context.Background(), uuid.New(), CreateBookingRequest{
		PropertyID: f.property.ID(),
		CheckIn:    "2026-06-15",
		CheckOut:   "2026-06-20",
		Guests:     1,
	})
	require.NoError(t, err)
	assert.Equal(t, "pending", dto.Status)
}

func TestCreateBooking_CancelledBookingFreesDates(t *testing.T) {
	f := newBookingFixture(t)
	dto := f.createBooking(t, "2026-06-10", "2026-06-15")

	_, err := f.svc.CancelBooking(context.Background(), dto.ID, f.guestID, false)
	require.NoError(t, err)

	rebooked := f.createBooking(t, "2026-06-10", "2026-06-15")
	assert.Equal(t, "pending", rebooked.Status)
}

func TestCancelBooking_Actors(t *testing.T) {
	f := newBookingFixture(t)

	t.Run("guest can cancel", func(t *testing.T) {
		dto := f.createBooking(t, "2026-07-01", "2026-07-05")
		out, err := f.svc.CancelBooking(context.Background(), dto.ID, f.guestID, false)
		require.NoError(t, err)
		assert.Equal(t, "cancelled", out.Status)
	})

	t.Run("host can cancel", func(t *testing.T) {
		dto := f.createBooking(t, "2026-07-10", "2026-07-15")
		out, err := f.svc.CancelBooking(context.Background(), dto.ID, f.hostID, false)
		require.NoError(t, err)
		assert.Equal(t, "cancelled", out.Status)
	})

	t.Run("staff can cancel", func(t *testing.T) {
		dto := f.createBooking(t, "2026-07-20", "2026-07-25")
		out, err := f.svc.CancelBooking(context.Background(), dto.ID, uuid.New(), true)
		require.NoError(t, err)
		assert.Equal(t, "cancelled", out.Status)
	})

	t.Run("stranger cannot cancel", func(t *testing.T) {
		dto := f.createBooking(t, "2026-08-01", "2026-08-05")
		_, err := f.svc.CancelBooking(context.Background(), dto.ID, uuid.New(), false)
		assert.True(t, domain.IsCode(err, domain.CodeForbidden))
	})
}

func TestCancelBooking_CompletedIsTerminal(t *testing.T) {
	f := newBookingFixture(t)
	dto := f.createBooking(t, "2026-06-01", "2026-06-04")

	_, err := f.svc.ConfirmBooking(context.Background(), dto.ID)
	require.NoError(t, err)

	bk, err := f.bookings.FindByID(context.Background(), dto.ID)
	require.NoError(t, err)
	require.NoError(t, bk.Complete())

	_, err = f.svc.CancelBooking(context.Background(), dto.ID, f.guestID, false)
	assert.True(t, domain.IsCode(err, domain.CodeInvalidTransition))
}

func TestSweepCompletions(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	past := f.createBooking(t, "2026-01-05", "2026-01-10")
	_, err := f.svc.ConfirmBooking(ctx, past.ID)
	require.NoError(t, err)

	// Past-dated but never paid: stays pending.
	pendingPast := f.createBooking(t, "2026-01-12", "2026-01-15")

	future := f.createBooking(t, "2026-12-01", "2026-12-05")
	_, err = f.svc.ConfirmBooking(ctx, future.ID)
	require.NoError(t, err)

	today := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	n, err := f.svc.SweepCompletions(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	bk, err := f.bookings.FindByID(ctx, past.ID)
	require.NoError(t, err)
	assert.Equal(t, bookingDomain.StatusCompleted, bk.Status())

	bk, err = f.bookings.FindByID(ctx, pendingPast.ID)
	require.NoError(t, err)
	assert.Equal(t, bookingDomain.StatusPending, bk.Status())

	bk, err = f.bookings.FindByID(ctx, future.ID)
	require.NoError(t, err)
	assert.Equal(t, bookingDomain.StatusConfirmed, bk.Status())

	// Second sweep finds nothing.
	n, err = f.svc.SweepCompletions(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestCheckAvailability(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	f.createBooking(t, "2026-06-10", "2026-06-15")

	out, err := f.svc.CheckAvailability(ctx, f.property.ID(), "2026-06-12", "2026-06-14")
	require.NoError(t, err)
	assert.False(t, out.Available)

	out, err = f.svc.CheckAvailability(ctx, f.property.ID(), "2026-06-15", "2026-06-20")
	require.NoError(t, err)
	assert.True(t, out.Available)

	_, err = f.svc.CheckAvailability(ctx, f.property.ID(), "2026-06-20", "2026-06-20")
	assert.True(t, domain.IsCode(err, domain.CodeInvalidDateRange))
}

func TestGetBooking_Authorization(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	dto := f.createBooking(t, "2026-06-01", "2026-06-04")

	_, err := f.svc.GetBooking(ctx, dto.ID, f.guestID, false)
	assert.NoError(t, err)

	_, err = f.svc.GetBooking(ctx, dto.ID, f.hostID, false)
	assert.NoError(t, err)

	_, err = f.svc.GetBooking(ctx, dto.ID, uuid.New(), true)
	assert.NoError(t, err)

	_, err = f.svc.GetBooking(ctx, dto.ID, uuid.New(), false)
	assert.True(t, domain.IsCode(err, domain.CodeForbidden))
}

func TestGetBookingStats(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	f.createBooking(t, "2026-06-01", "2026-06-04")
	confirmed := f.createBooking(t, "2026-06-05", "2026-06-08")
	_, err := f.svc.ConfirmBooking(ctx, confirmed.ID)
	require.NoError(t, err)

	stats, err := f.svc.GetBookingStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalBookings)
	assert.Equal(t, int64(1), stats.ByStatus["pending"])
	assert.Equal(t, int64(1), stats.ByStatus["confirmed"])
}
