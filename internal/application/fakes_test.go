package application

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/openstay/service-booking/internal/domain"
	bookingDomain "github.com/openstay/service-booking/internal/domain/booking"
	paymentDomain "github.com/openstay/service-booking/internal/domain/payment"
	propertyDomain "github.com/openstay/service-booking/internal/domain/property"
	reviewDomain "github.com/openstay/service-booking/internal/domain/review"
	userDomain "github.com/openstay/service-booking/internal/domain/user"
)

// passthroughTx runs the function without a real transaction. The
// service-level sequencing under test does not depend on isolation.
type passthroughTx struct{}

func (passthroughTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// --- booking repository fake ---

type fakeBookingRepo struct {
	bookings map[uuid.UUID]*bookingDomain.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[uuid.UUID]*bookingDomain.Booking)}
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	bk, ok := r.bookings[id]
	if !ok {
		return nil, domain.NewNotFoundError("Booking", id.String())
	}
	return bk, nil
}

func (r *fakeBookingRepo) FindByGuestID(_ context.Context, guestID uuid.UUID, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	var out []*bookingDomain.Booking
	for _, bk := range r.bookings {
		if bk.GuestID() == guestID {
			out = append(out, bk)
		}
	}
	sortBookings(out)
	return out, int64(len(out)), nil
}

func (r *fakeBookingRepo) FindByPropertyID(_ context.Context, propertyID uuid.UUID, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	var out []*bookingDomain.Booking
	for _, bk := range r.bookings {
		if bk.PropertyID() == propertyID {
			out = append(out, bk)
		}
	}
	sortBookings(out)
	return out, int64(len(out)), nil
}

func (r *fakeBookingRepo) HasActiveOverlap(_ context.Context, propertyID uuid.UUID, stay bookingDomain.StayRange) (bool, error) {
	for _, bk := range r.bookings {
		if bk.PropertyID() == propertyID && bk.Status().IsActive() && bk.Stay().Overlaps(stay) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeBookingRepo) FindConfirmedByCheckIn(_ context.Context, date time.Time) ([]*bookingDomain.Booking, error) {
	var out []*bookingDomain.Booking
	for _, bk := range r.bookings {
		if bk.Status() == bookingDomain.StatusConfirmed && bk.Stay().CheckIn().Equal(date) {
			out = append(out, bk)
		}
	}
	sortBookings(out)
	return out, nil
}

func (r *fakeBookingRepo) CompletePastCheckouts(_ context.Context, today time.Time) (int64, error) {
	var n int64
	for _, bk := range r.bookings {
		if bk.Status() == bookingDomain.StatusConfirmed && bk.Stay().CheckOut().Before(today) {
			if err := bk.Complete(); err != nil {
				return n, err
			}
			bk.IncrementVersion()
			n++
		}
	}
	return n, nil
}

func (r *fakeBookingRepo) ListAll(_ context.Context, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	out := make([]*bookingDomain.Booking, 0, len(r.bookings))
	for _, bk := range r.bookings {
		out = append(out, bk)
	}
	sortBookings(out)
	return out, int64(len(out)), nil
}

func (r *fakeBookingRepo) CountByStatus(_ context.Context) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, bk := range r.bookings {
		counts[string(bk.Status())]++
	}
	return counts, nil
}

func (r *fakeBookingRepo) Save(_ context.Context, bk *bookingDomain.Booking) error {
	r.bookings[bk.ID()] = bk
	return nil
}

func (r *fakeBookingRepo) Update(_ context.Context, bk *bookingDomain.Booking) error {
	if _, ok := r.bookings[bk.ID()]; !ok {
		return domain.NewNotFoundError("Booking", bk.ID().String())
	}
	r.bookings[bk.ID()] = bk
	return nil
}

func sortBookings(bookings []*bookingDomain.Booking) {
	sort.Slice(bookings, func(i, j int) bool {
		return bookings[i].CreatedAt().After(bookings[j].CreatedAt())
	})
}

// --- property repository fake ---

type fakePropertyRepo struct {
	properties map[uuid.UUID]*propertyDomain.Property
}

func newFakePropertyRepo() *fakePropertyRepo {
	return &fakePropertyRepo{properties: make(map[uuid.UUID]*propertyDomain.Property)}
}

func (r *fakePropertyRepo) FindByID(_ context.Context, id uuid.UUID) (*propertyDomain.Property, error) {
	p, ok := r.properties[id]
	if !ok {
		return nil, domain.NewNotFoundError("Property", id.String())
	}
	return p, nil
}

func (r *fakePropertyRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*propertyDomain.Property, error) {
	return r.FindByID(ctx, id)
}

func (r *fakePropertyRepo) FindByHostID(_ context.Context, hostID uuid.UUID) ([]*propertyDomain.Property, error) {
	var out []*propertyDomain.Property
	for _, p := range r.properties {
		if p.HostID() == hostID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePropertyRepo) ListAll(_ context.Context, page, limit int) ([]*propertyDomain.Property, int64, error) {
	out := make([]*propertyDomain.Property, 0, len(r.properties))
	for _, p := range r.properties {
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (r *fakePropertyRepo) Save(_ context.Context, p *propertyDomain.Property) error {
	r.properties[p.ID()] = p
	return nil
}

func (r *fakePropertyRepo) Update(_ context.Context, p *propertyDomain.Property) error {
	if _, ok := r.properties[p.ID()]; !ok {
		return domain.NewNotFoundError("Property", p.ID().String())
	}
	r.properties[p.ID()] = p
	return nil
}

func (r *fakePropertyRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.properties[id]; !ok {
		return domain.NewNotFoundError("Property", id.String())
	}
	delete(r.properties, id)
	return nil
}

// --- image repository fake ---

type fakeImageRepo struct {
	images map[uuid.UUID]*propertyDomain.Image
}

func newFakeImageRepo() *fakeImageRepo {
	return &fakeImageRepo{images: make(map[uuid.UUID]*propertyDomain.Image)}
}

func (r *fakeImageRepo) FindByID(_ context.Context, id uuid.UUID) (*propertyDomain.Image, error) {
	img, ok := r.images[id]
	if !ok {
		return nil, domain.NewNotFoundError("PropertyImage", id.String())
	}
	return img, nil
}

func (r *fakeImageRepo) FindByPropertyID(_ context.Context, propertyID uuid.UUID) ([]*propertyDomain.Image, error) {
	var out []*propertyDomain.Image
	for _, img := range r.images {
		if img.PropertyID() == propertyID {
			out = append(out, img)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsPrimary() != out[j].IsPrimary() {
			return out[i].IsPrimary()
		}
		return out[i].CreatedAt().Before(out[j].CreatedAt())
	})
	return out, nil
}

func (r *fakeImageRepo) Save(_ context.Context, img *propertyDomain.Image) error {
	r.images[img.ID()] = img
	return nil
}

func (r *fakeImageRepo) SetPrimary(_ context.Context, propertyID, imageID uuid.UUID) error {
	target, ok := r.images[imageID]
	if !ok || target.PropertyID() != propertyID {
		return domain.NewNotFoundError("PropertyImage", imageID.String())
	}
	for id, img := range r.images {
		if img.PropertyID() != propertyID {
			continue
		}
		r.images[id] = propertyDomain.ReconstructImage(
			img.ID(), img.PropertyID(), img.ImageURL(), id == imageID, img.CreatedAt(),
		)
	}
	return nil
}

func (r *fakeImageRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.images[id]; !ok {
		return domain.NewNotFoundError("PropertyImage", id.String())
	}
	delete(r.images, id)
	return nil
}

// --- payment repository fake ---

type fakePaymentRepo struct {
	payments map[uuid.UUID]*paymentDomain.Payment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[uuid.UUID]*paymentDomain.Payment)}
}

func (r *fakePaymentRepo) FindByID(_ context.Context, id uuid.UUID) (*paymentDomain.Payment, error) {
	p, ok := r.payments[id]
	if !ok {
		return nil, domain.NewNotFoundError("Payment", id.String())
	}
	return p, nil
}

func (r *fakePaymentRepo) FindByBookingID(_ context.Context, bookingID uuid.UUID) ([]*paymentDomain.Payment, error) {
	var out []*paymentDomain.Payment
	for _, p := range r.payments {
		if p.BookingID() == bookingID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePaymentRepo) FindByGuestID(_ context.Context, guestID uuid.UUID, page, limit int) ([]*paymentDomain.Payment, int64, error) {
	// The fake has no join to bookings; guest scoping is covered by
	// integration tests.
	out := make([]*paymentDomain.Payment, 0, len(r.payments))
	for _, p := range r.payments {
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (r *fakePaymentRepo) HasCompletedForBooking(_ context.Context, bookingID uuid.UUID) (bool, error) {
	for _, p := range r.payments {
		if p.BookingID() == bookingID && p.Status() == paymentDomain.StatusCompleted {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakePaymentRepo) Save(_ context.Context, p *paymentDomain.Payment) error {
	r.payments[p.ID()] = p
	return nil
}

func (r *fakePaymentRepo) Update(_ context.Context, p *paymentDomain.Payment) error {
	if _, ok := r.payments[p.ID()]; !ok {
		return domain.NewNotFoundError("Payment", p.ID().String())
	}
	r.payments[p.ID()] = p
	return nil
}

// --- review repository fake ---

type fakeReviewRepo struct {
	reviews map[uuid.UUID]*reviewDomain.Review
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{reviews: make(map[uuid.UUID]*reviewDomain.Review)}
}

func (r *fakeReviewRepo) FindByID(_ context.Context, id uuid.UUID) (*reviewDomain.Review, error) {
	rv, ok := r.reviews[id]
	if !ok {
		return nil, domain.NewNotFoundError("Review", id.String())
	}
	return rv, nil
}

func (r *fakeReviewRepo) ExistsForBooking(_ context.Context, bookingID uuid.UUID) (bool, error) {
	for _, rv := range r.reviews {
		if rv.BookingID() == bookingID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeReviewRepo) FindByPropertyID(_ context.Context, propertyID uuid.UUID, page, limit int) ([]*reviewDomain.Review, int64, error) {
	var out []*reviewDomain.Review
	for _, rv := range r.reviews {
		if rv.PropertyID() == propertyID {
			out = append(out, rv)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeReviewRepo) AverageRatingByPropertyID(_ context.Context, propertyID uuid.UUID) (float64, int64, error) {
	var sum, count int64
	for _, rv := range r.reviews {
		if rv.PropertyID() == propertyID {
			sum += int64(rv.Rating())
			count++
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(count), count, nil
}

// Save mirrors the store's unique constraint on the booking reference.
func (r *fakeReviewRepo) Save(_ context.Context, rv *reviewDomain.Review) error {
	for _, existing := range r.reviews {
		if existing.BookingID() == rv.BookingID() {
			return domain.NewError(domain.CodeDuplicateReview, "booking already has a review")
		}
	}
	r.reviews[rv.ID()] = rv
	return nil
}

func (r *fakeReviewRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.reviews[id]; !ok {
		return domain.NewNotFoundError("Review", id.String())
	}
	delete(r.reviews, id)
	return nil
}

// --- user repository fake ---

type fakeUserRepo struct {
	users map[uuid.UUID]*userDomain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*userDomain.User)}
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*userDomain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.NewNotFoundError("User", id.String())
	}
	return u, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*userDomain.User, error) {
	for _, u := range r.users {
		if u.Email() == email {
			return u, nil
		}
	}
	return nil, domain.NewNotFoundError("User", email)
}

// Save mirrors the store's unique constraint on email.
func (r *fakeUserRepo) Save(_ context.Context, u *userDomain.User) error {
	for _, existing := range r.users {
		if existing.Email() == u.Email() {
			return domain.NewConflictError("email is already registered")
		}
	}
	r.users[u.ID()] = u
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *userDomain.User) error {
	if _, ok := r.users[u.ID()]; !ok {
		return domain.NewNotFoundError("User", u.ID().String())
	}
	r.users[u.ID()] = u
	return nil
}
