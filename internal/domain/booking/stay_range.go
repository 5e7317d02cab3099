package booking

import (
	"fmt"
	"time"

	"github.com/openstay/service-booking/internal/domain"
)

// StayRange is a half-open calendar date range [check-in, check-out).
// Adjacent stays (one ending exactly where another begins) do not
// overlap.
type StayRange struct {
	checkIn  time.Time
	checkOut time.Time
}

// NewStayRange creates a validated stay range from calendar dates.
// Inputs are truncated to UTC midnight; check-in must be strictly
// before check-out.
func NewStayRange(checkIn, checkOut time.Time) (StayRange, error) {
	ci := TruncateToDate(checkIn)
	co := TruncateToDate(checkOut)
	if !ci.Before(co) {
		return StayRange{}, domain.NewError(domain.CodeInvalidDateRange, "check-out must be after check-in")
	}
	return StayRange{checkIn: ci, checkOut: co}, nil
}

// ReconstructStayRange rebuilds a stay range from persistence data (no validation).
func ReconstructStayRange(checkIn, checkOut time.Time) StayRange {
	return StayRange{checkIn: TruncateToDate(checkIn), checkOut: TruncateToDate(checkOut)}
}

// CheckIn returns the first night of the stay.
func (r StayRange) CheckIn() time.Time { return r.checkIn }

// CheckOut returns the departure date (exclusive).
func (r StayRange) CheckOut() time.Time { return r.checkOut }

// Nights returns the number of whole nights in the range.
func (r StayRange) Nights() int {
	return int(r.checkOut.Sub(r.checkIn).Hours() / 24)
}

// Overlaps reports whether two half-open ranges share at least one night.
func (r StayRange) Overlaps(other StayRange) bool {
	return r.checkIn.Before(other.checkOut) && r.checkOut.After(other.checkIn)
}

// String renders the range as "[2024-06-01, 2024-06-05)".
func (r StayRange) String() string {
	return fmt.Sprintf("[%s, %s)", r.checkIn.Format(time.DateOnly), r.checkOut.Format(time.DateOnly))
}

// TruncateToDate strips the time component, leaving UTC midnight.
func TruncateToDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a "2006-01-02" calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, domain.NewValidationError(fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", s))
	}
	return t, nil
}
