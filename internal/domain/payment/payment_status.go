package payment

import "fmt"

// PaymentStatus represents the settlement state of a payment attempt.
type PaymentStatus string

const (
	StatusPending   PaymentStatus = "pending"
	StatusCompleted PaymentStatus = "completed"
	StatusFailed    PaymentStatus = "failed"
	StatusRefunded  PaymentStatus = "refunded"
)

// validTransitions defines the payment settlement state machine.
// Failed and refunded are terminal; completed may only move to refunded.
var validTransitions = map[PaymentStatus][]PaymentStatus{
	StatusPending:   {StatusCompleted, StatusFailed},
	StatusCompleted: {StatusRefunded},
	StatusFailed:    {},
	StatusRefunded:  {},
}

// IsValid returns true if the status is a recognized payment status.
func (s PaymentStatus) IsValid() bool {
	_, exists := validTransitions[s]
	return exists
}

// CanTransitionTo returns true if a transition from this status to the target is allowed.
func (s PaymentStatus) CanTransitionTo(target PaymentStatus) bool {
	allowed, exists := validTransitions[s]
	if !exists {
		return false
	}
	for _, t := range allowed {
		if t == target {
			return true
		}
	}
	return false
}

// String returns the string representation of the status.
func (s PaymentStatus) String() string {
	return string(s)
}

// ParsePaymentStatus converts a string to a PaymentStatus, returning an error if invalid.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	status := PaymentStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid payment status: %s", s)
	}
	return status, nil
}
