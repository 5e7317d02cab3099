package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/openstay/service-booking/internal/application"
	bookingDomain "github.com/openstay/service-booking/internal/domain/booking"
	"github.com/openstay/service-booking/internal/events"
)

// Scheduler runs the periodic maintenance work: completing past
// checkouts and sending check-in reminders. Every task is idempotent,
// so overlapping runs across restarts or replicas are harmless.
type Scheduler struct {
	bookings  bookingDomain.BookingRepository
	svc       *application.BookingService
	publisher events.Publisher
	interval  time.Duration
	logger    *zap.Logger
}

// New creates a Scheduler ticking at the given interval.
func New(
	bookings bookingDomain.BookingRepository,
	svc *application.BookingService,
	publisher events.Publisher,
	interval time.Duration,
	logger *zap.Logger,
) *Scheduler {
	return &Scheduler{
		bookings:  bookings,
		svc:       svc,
		publisher: publisher,
		interval:  interval,
		logger:    logger,
	}
}

// Start runs the tick loop until the context is cancelled. One tick
// fires immediately at startup so a service that was down over a
// boundary catches up right away.
func (s *Scheduler) Start(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.runOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	now := time.Now().UTC()

	if _, err := s.svc.SweepCompletions(ctx, now); err != nil {
		s.logger.Error("completion sweep failed", zap.Error(err))
	}

	if err := s.sendCheckInReminders(ctx, now); err != nil {
		s.logger.Error("check-in reminders failed", zap.Error(err))
	}
}

// sendCheckInReminders publishes a reminder for every confirmed booking
// checking in tomorrow. A booking that vanished since being scheduled
// is simply skipped.
func (s *Scheduler) sendCheckInReminders(ctx context.Context, now time.Time) error {
	tomorrow := bookingDomain.TruncateToDate(now).AddDate(0, 0, 1)

	bookings, err := s.bookings.FindConfirmedByCheckIn(ctx, tomorrow)
	if err != nil {
		return err
	}

	for _, bk := range bookings {
		evt := events.NotificationEvent{
			UserID:     bk.GuestID(),
			BookingID:  bk.ID(),
			PropertyID: bk.PropertyID(),
			CheckIn:    bk.Stay().CheckIn().Format(time.DateOnly),
			CheckOut:   bk.Stay().CheckOut().Format(time.DateOnly),
			OccurredAt: time.Now().UTC(),
		}
		err := s.publisher.Publish(ctx, events.TopicNotificationEvents, events.NotificationCheckInReminder, bk.ID().String(), evt)
		if err != nil {
			s.logger.Error("failed to publish check-in reminder",
				zap.String("booking_id", bk.ID().String()),
				zap.Error(err),
			)
		}
	}

	if len(bookings) > 0 {
		s.logger.Info("check-in reminders published", zap.Int("count", len(bookings)))
	}
	return nil
}
