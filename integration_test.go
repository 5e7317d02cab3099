//go:build integration

package main_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openstay/service-booking/internal/application"
	"github.com/openstay/service-booking/internal/domain"
	bookingDomain "github.com/openstay/service-booking/internal/domain/booking"
)

func TestConcurrentBookings_OnlyOneWins(t *testing.T) {
	infra := setupPostgres(t)
	defer infra.Cleanup()
	stack := setupStack(t, infra.DB)
	ctx := context.Background()

	hostID := seedUser(t, infra.DB, "host@example.com", true)
	prop := seedProperty(t, stack, hostID, 10000)

	const racers = 8
	req := application.CreateBookingRequest{
		PropertyID: prop.ID(),
		CheckIn:    "2026-06-10",
		CheckOut:   "2026-06-15",
		Guests:     2,
	}

	guests := make([]uuid.UUID, racers)
	for i := range guests {
		guests[i] = seedUser(t, infra.DB, uuid.NewString()+"@example.com", false)
	}

	var wg sync.WaitGroup
	errs := make([]error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := stack.Bookings.CreateBooking(ctx, guests[i], req)
			errs[i] = err
		}(i)
	}
	wg.Wait()

	var created, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			created++
		case domain.IsCode(err, domain.CodeDateConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, created, "exactly one racer may win the dates")
	assert.Equal(t, racers-1, conflicts)
}

func TestTouchingRangesBothSucceed(t *testing.T) {
	infra := setupPostgres(t)
	defer infra.Cleanup()
	stack := setupStack(t, infra.DB)
	ctx := context.Background()

	hostID := seedUser(t, infra.DB, "host@example.com", true)
	guestID := seedUser(t, infra.DB, "guest@example.com", false)
	prop := seedProperty(t, stack, hostID, 10000)

	first, err := stack.Bookings.CreateBooking(ctx, guestID, application.CreateBookingRequest{
		PropertyID: prop.ID(), CheckIn: "2026-06-10", CheckOut: "2026-06-15", Guests: 2,
	})
	require.NoError(t, err)

	second, err := stack.Bookings.CreateBooking(ctx, guestID, application.CreateBookingRequest{
		PropertyID: prop.ID(), CheckIn: "2026-06-15", CheckOut: "2026-06-20", Guests: 2,
	})
	require.NoError(t, err, "back-to-back stays must not conflict")

	assert.Equal(t, "pending", first.Status)
	assert.Equal(t, "pending", second.Status)
}

func TestPaymentFlow_EndToEnd(t *testing.T) {
	infra := setupPostgres(t)
	defer infra.Cleanup()
	stack := setupStack(t, infra.DB)
	ctx := context.Background()

	hostID := seedUser(t, infra.DB, "host@example.com", true)
	guestID := seedUser(t, infra.DB, "guest@example.com", false)
	prop := seedProperty(t, stack, hostID, 10000)

	bk, err := stack.Bookings.CreateBooking(ctx, guestID, application.CreateBookingRequest{
		PropertyID: prop.ID(), CheckIn: "2026-06-10", CheckOut: "2026-06-13", Guests: 2,
	})
	require.NoError(t, err)
	require.Equal(t, int64(30000), bk.TotalPriceCents)

	// Wrong amount leaves the booking pending.
	_, err = stack.Payments.Pay(ctx, guestID, application.PayRequest{
		BookingID: bk.ID, AmountCents: 29999, Method: "card",
	})
	require.True(t, domain.IsCode(err, domain.CodeAmountMismatch))

	got, err := stack.Bookings.GetBooking(ctx, bk.ID, guestID, false)
	require.NoError(t, err)
	require.Equal(t, "pending", got.Status)

	// Exact amount settles and confirms atomically.
	pay, err := stack.Payments.Pay(ctx, guestID, application.PayRequest{
		BookingID: bk.ID, AmountCents: 30000, Method: "card",
	})
	require.NoError(t, err)
	assert.Equal(t, "completed", pay.Status)

	got, err = stack.Bookings.GetBooking(ctx, bk.ID, guestID, false)
	require.NoError(t, err)
	assert.Equal(t, "confirmed", got.Status)

	// Settled bookings refuse further payment.
	_, err = stack.Payments.Pay(ctx, guestID, application.PayRequest{
		BookingID: bk.ID, AmountCents: 30000, Method: "card",
	})
	assert.True(t, domain.IsCode(err, domain.CodeBookingNotPending))
}

func TestReviewUniqueConstraint_UnderRace(t *testing.T) {
	infra := setupPostgres(t)
	defer infra.Cleanup()
	stack := setupStack(t, infra.DB)
	ctx := context.Background()

	hostID := seedUser(t, infra.DB, "host@example.com", true)
	guestID := seedUser(t, infra.DB, "guest@example.com", false)
	prop := seedProperty(t, stack, hostID, 10000)

	bk, err := stack.Bookings.CreateBooking(ctx, guestID, application.CreateBookingRequest{
		PropertyID: prop.ID(), CheckIn: "2026-01-10", CheckOut: "2026-01-13", Guests: 2,
	})
	require.NoError(t, err)
	_, err = stack.Payments.Pay(ctx, guestID, application.PayRequest{
		BookingID: bk.ID, AmountCents: bk.TotalPriceCents, Method: "card",
	})
	require.NoError(t, err)

	// Check-out is in the past; the sweep completes the stay.
	n, err := stack.Bookings.SweepCompletions(ctx, time.Now().UTC())
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	const racers = 6
	var wg sync.WaitGroup
	errs := make([]error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := stack.Reviews.CreateReview(ctx, guestID, application.CreateReviewRequest{
				BookingID: bk.ID, Rating: 5, Comment: "lovely",
			})
			errs[i] = err
		}(i)
	}
	wg.Wait()

	var created, duplicates int
	for _, err := range errs {
		switch {
		case err == nil:
			created++
		case domain.IsCode(err, domain.CodeDuplicateReview):
			duplicates++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, created, "the store admits exactly one review per booking")
	assert.Equal(t, racers-1, duplicates)

	rating, err := stack.Reviews.GetPropertyRating(ctx, prop.ID())
	require.NoError(t, err)
	assert.Equal(t, int64(1), rating.ReviewCount)
	assert.InDelta(t, 5.0, rating.AverageRating, 0.001)
}

func TestSweepCompletions_Bulk(t *testing.T) {
	infra := setupPostgres(t)
	defer infra.Cleanup()
	stack := setupStack(t, infra.DB)
	ctx := context.Background()

	hostID := seedUser(t, infra.DB, "host@example.com", true)
	guestID := seedUser(t, infra.DB, "guest@example.com", false)
	prop := seedProperty(t, stack, hostID, 10000)

	stays := []struct{ in, out string }{
		{"2026-01-05", "2026-01-08"},
		{"2026-01-10", "2026-01-12"},
		{"2026-02-01", "2026-02-05"},
	}
	for _, s := range stays {
		bk, err := stack.Bookings.CreateBooking(ctx, guestID, application.CreateBookingRequest{
			PropertyID: prop.ID(), CheckIn: s.in, CheckOut: s.out, Guests: 2,
		})
		require.NoError(t, err)
		_, err = stack.Payments.Pay(ctx, guestID, application.PayRequest{
			BookingID: bk.ID, AmountCents: bk.TotalPriceCents, Method: "card",
		})
		require.NoError(t, err)
	}

	// A past-dated stay that was never paid stays pending.
	pendingPast, err := stack.Bookings.CreateBooking(ctx, guestID, application.CreateBookingRequest{
		PropertyID: prop.ID(), CheckIn: "2026-03-01", CheckOut: "2026-03-04", Guests: 2,
	})
	require.NoError(t, err)

	n, err := stack.Bookings.SweepCompletions(ctx, time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	got, err := stack.Bookings.GetBooking(ctx, pendingPast.ID, guestID, false)
	require.NoError(t, err)
	assert.Equal(t, string(bookingDomain.StatusPending), got.Status)

	// Idempotent: a second pass changes nothing.
	n, err = stack.Bookings.SweepCompletions(ctx, time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}
