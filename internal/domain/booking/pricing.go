package booking

import (
	"github.com/openstay/service-booking/internal/domain"
)

// PricingStrategy defines the interface for quoting a stay's total price.
type PricingStrategy interface {
	// Quote returns the total price in cents for the given stay at the
	// given nightly rate.
	Quote(nightlyRateCents int64, stay StayRange) (int64, error)
}

// NightlyRateStrategy prices a stay as nights times the property's
// nightly rate. Guest count does not affect the price.
type NightlyRateStrategy struct{}

// NewNightlyRateStrategy creates a new NightlyRateStrategy.
func NewNightlyRateStrategy() *NightlyRateStrategy {
	return &NightlyRateStrategy{}
}

// Quote computes nights * nightly rate in cents.
func (s *NightlyRateStrategy) Quote(nightlyRateCents int64, stay StayRange) (int64, error) {
	if nightlyRateCents < 0 {
		return 0, domain.NewValidationError("nightly rate cannot be negative")
	}
	return nightlyRateCents * int64(stay.Nights()), nil
}
