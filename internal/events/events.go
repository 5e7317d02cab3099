package events

import (
	"time"

	"github.com/google/uuid"
)

// Kafka topics carrying domain events out of the service.
const (
	TopicBookingEvents      = "booking.events"
	TopicPaymentEvents      = "payment.events"
	TopicReviewEvents       = "review.events"
	TopicNotificationEvents = "notification.events"
)

// Event types.
const (
	BookingCreated   = "booking.created"
	BookingConfirmed = "booking.confirmed"
	BookingCancelled = "booking.cancelled"

	PaymentCompleted = "payment.completed"

	ReviewCreated = "review.created"

	NotificationBookingConfirmation = "notification.booking_confirmation"
	NotificationCheckInReminder     = "notification.checkin_reminder"
)

// BookingEvent is the payload of booking lifecycle events.
type BookingEvent struct {
	BookingID       uuid.UUID `json:"booking_id"`
	PropertyID      uuid.UUID `json:"property_id"`
	GuestID         uuid.UUID `json:"guest_id"`
	CheckIn         string    `json:"check_in"`
	CheckOut        string    `json:"check_out"`
	TotalPriceCents int64     `json:"total_price_cents"`
	Status          string    `json:"status"`
	OccurredAt      time.Time `json:"occurred_at"`
}

// PaymentCompletedEvent is published when a payment settles and its
// booking is confirmed in the same transaction.
type PaymentCompletedEvent struct {
	PaymentID     uuid.UUID `json:"payment_id"`
	BookingID     uuid.UUID `json:"booking_id"`
	AmountCents   int64     `json:"amount_cents"`
	Method        string    `json:"method"`
	TransactionID string    `json:"transaction_id"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// ReviewCreatedEvent is published when a completed stay is reviewed.
type ReviewCreatedEvent struct {
	ReviewID   uuid.UUID `json:"review_id"`
	BookingID  uuid.UUID `json:"booking_id"`
	PropertyID uuid.UUID `json:"property_id"`
	UserID     uuid.UUID `json:"user_id"`
	Rating     int       `json:"rating"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NotificationEvent asks the (external) notifier to deliver a message.
// Delivery is best effort and never part of booking correctness.
type NotificationEvent struct {
	UserID     uuid.UUID `json:"user_id"`
	BookingID  uuid.UUID `json:"booking_id"`
	PropertyID uuid.UUID `json:"property_id"`
	CheckIn    string    `json:"check_in"`
	CheckOut   string    `json:"check_out"`
	OccurredAt time.Time `json:"occurred_at"`
}
