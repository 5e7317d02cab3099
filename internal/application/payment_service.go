package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/openstay/service-booking/internal/domain"
	bookingDomain "github.com/openstay/service-booking/internal/domain/booking"
	paymentDomain "github.com/openstay/service-booking/internal/domain/payment"
	"github.com/openstay/service-booking/internal/events"
)

// PayRequest holds the data for settling a booking's payment.
type PayRequest struct {
	BookingID   uuid.UUID `json:"booking_id" binding:"required"`
	AmountCents int64     `json:"amount_cents" binding:"min=0"`
	Method      string    `json:"method" binding:"required"`
}

// PaymentDTO is the response representation of a payment.
type PaymentDTO struct {
	ID            uuid.UUID `json:"id"`
	BookingID     uuid.UUID `json:"booking_id"`
	AmountCents   int64     `json:"amount_cents"`
	Method        string    `json:"method"`
	TransactionID string    `json:"transaction_id,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// PaymentService is the application service for payment settlement.
type PaymentService struct {
	payments  paymentDomain.PaymentRepository
	bookings  bookingDomain.BookingRepository
	tx        TxManager
	publisher events.Publisher
	logger    *zap.Logger
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(
	payments paymentDomain.PaymentRepository,
	bookings bookingDomain.BookingRepository,
	tx TxManager,
	publisher events.Publisher,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		payments:  payments,
		bookings:  bookings,
		tx:        tx,
		publisher: publisher,
		logger:    logger,
	}
}

// Pay settles a pending booking. The payment record and the booking's
// transition to confirmed commit in one transaction, so the store never
// holds a completed payment against a booking left pending. Only the
// booking's guest may pay.
func (s *PaymentService) Pay(ctx context.Context, guestID uuid.UUID, req PayRequest) (*PaymentDTO, error) {
	var pay *paymentDomain.Payment
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		bk, err := s.bookings.FindByID(ctx, req.BookingID)
		if err != nil {
			return err
		}
		if !bk.IsOwnedBy(guestID) {
			return domain.NewError(domain.CodeNotBookingOwner, "only the booking's guest can pay")
		}
		if bk.Status() != bookingDomain.StatusPending {
			return domain.NewError(domain.CodeBookingNotPending, "booking is not awaiting payment")
		}
		if req.AmountCents != bk.TotalPriceCents() {
			return domain.NewError(domain.CodeAmountMismatch, "payment amount does not match the booking total")
		}

		pay, err = paymentDomain.NewPayment(bk.ID(), req.AmountCents, req.Method)
		if err != nil {
			return err
		}
		if err := pay.Complete(newTransactionID()); err != nil {
			return err
		}
		if err := s.payments.Save(ctx, pay); err != nil {
			return err
		}

		if err := bk.Confirm(); err != nil {
			return err
		}
		bk.IncrementVersion()
		return s.bookings.Update(ctx, bk)
	})
	if err != nil {
		return nil, err
	}

	s.publishPaymentCompleted(ctx, pay)

	result := toPaymentDTO(pay)
	return &result, nil
}

// Reconcile re-derives a pending booking's status from its payment
// records. Run after a crash between payment settlement and booking
// confirmation would have split them; with both writes in one
// transaction it finds nothing to repair, but stays as the recovery
// path for externally-settled payments.
func (s *PaymentService) Reconcile(ctx context.Context, bookingID uuid.UUID) (*BookingDTO, error) {
	var bk *bookingDomain.Booking
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		bk, err = s.bookings.FindByID(ctx, bookingID)
		if err != nil {
			return err
		}
		if bk.Status() != bookingDomain.StatusPending {
			return nil
		}

		settled, err := s.payments.HasCompletedForBooking(ctx, bk.ID())
		if err != nil {
			return err
		}
		if !settled {
			return nil
		}

		if err := bk.Confirm(); err != nil {
			return err
		}
		bk.IncrementVersion()
		return s.bookings.Update(ctx, bk)
	})
	if err != nil {
		return nil, err
	}

	result := toBookingDTO(bk)
	return &result, nil
}

// GetPayment retrieves a single payment. The caller must own the
// booking it settles, or be staff.
func (s *PaymentService) GetPayment(ctx context.Context, paymentID, actorID uuid.UUID, isStaff bool) (*PaymentDTO, error) {
	pay, err := s.payments.FindByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	if !isStaff {
		bk, err := s.bookings.FindByID(ctx, pay.BookingID())
		if err != nil {
			return nil, err
		}
		if !bk.IsOwnedBy(actorID) {
			return nil, domain.NewForbiddenError("not allowed to view this payment")
		}
	}

	result := toPaymentDTO(pay)
	return &result, nil
}

// GetBookingPayments lists all payment attempts for a booking.
func (s *PaymentService) GetBookingPayments(ctx context.Context, bookingID, actorID uuid.UUID, isStaff bool) ([]PaymentDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !isStaff && !bk.IsOwnedBy(actorID) {
		return nil, domain.NewForbiddenError("not allowed to view payments for this booking")
	}

	payments, err := s.payments.FindByBookingID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	return toPaymentDTOs(payments), nil
}

// GetGuestPayments lists a guest's payments with pagination.
func (s *PaymentService) GetGuestPayments(ctx context.Context, guestID uuid.UUID, page, limit int) (*domain.PaginatedResult[PaymentDTO], error) {
	payments, total, err := s.payments.FindByGuestID(ctx, guestID, page, limit)
	if err != nil {
		return nil, err
	}

	result := domain.NewPaginatedResult(toPaymentDTOs(payments), total, page, limit)
	return &result, nil
}

// --- Helpers ---

// newTransactionID stands in for a processor reference. There is no
// external gateway; settlement succeeds synchronously.
func newTransactionID() string {
	return "txn_" + uuid.NewString()
}

func toPaymentDTO(p *paymentDomain.Payment) PaymentDTO {
	return PaymentDTO{
		ID:            p.ID(),
		BookingID:     p.BookingID(),
		AmountCents:   p.AmountCents(),
		Method:        p.Method(),
		TransactionID: p.TransactionID(),
		Status:        string(p.Status()),
		CreatedAt:     p.CreatedAt(),
		UpdatedAt:     p.UpdatedAt(),
	}
}

func toPaymentDTOs(payments []*paymentDomain.Payment) []PaymentDTO {
	dtos := make([]PaymentDTO, len(payments))
	for i, p := range payments {
		dtos[i] = toPaymentDTO(p)
	}
	return dtos
}

func (s *PaymentService) publishPaymentCompleted(ctx context.Context, p *paymentDomain.Payment) {
	evt := events.PaymentCompletedEvent{
		PaymentID:     p.ID(),
		BookingID:     p.BookingID(),
		AmountCents:   p.AmountCents(),
		Method:        p.Method(),
		TransactionID: p.TransactionID(),
		OccurredAt:    time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, events.TopicPaymentEvents, events.PaymentCompleted, p.BookingID().String(), evt); err != nil {
		s.logger.Error("failed to publish payment event",
			zap.String("payment_id", p.ID().String()),
			zap.Error(err),
		)
	}
}
