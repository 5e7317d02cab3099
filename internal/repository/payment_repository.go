package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openstay/service-booking/internal/domain"
	paymentDomain "github.com/openstay/service-booking/internal/domain/payment"
)

// PaymentModel is the GORM model for the payments table.
type PaymentModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	BookingID     uuid.UUID `gorm:"type:uuid;index;not null"`
	AmountCents   int64     `gorm:"not null"`
	Method        string    `gorm:"not null;size:50"`
	TransactionID string    `gorm:"size:255"`
	Status        string    `gorm:"not null;size:20;index"`
	Version       int64     `gorm:"not null;default:1"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (PaymentModel) TableName() string {
	return "payments"
}

// GormPaymentRepository is the GORM-based implementation of PaymentRepository.
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository.
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// FindByID retrieves a payment by its unique identifier.
func (r *GormPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*paymentDomain.Payment, error) {
	var model PaymentModel
	if err := dbFrom(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Payment", id.String())
		}
		return nil, fmt.Errorf("failed to find payment: %w", err)
	}
	return toDomainPayment(&model)
}

// FindByBookingID retrieves all payment attempts for a booking, newest first.
func (r *GormPaymentRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*paymentDomain.Payment, error) {
	var models []PaymentModel
	if err := dbFrom(ctx, r.db).
		Where("booking_id = ?", bookingID).
		Order("created_at DESC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find payments for booking: %w", err)
	}
	return toDomainPayments(models)
}

// FindByGuestID retrieves payments on bookings made by a guest with pagination.
func (r *GormPaymentRepository) FindByGuestID(ctx context.Context, guestID uuid.UUID, page, limit int) ([]*paymentDomain.Payment, int64, error) {
	db := dbFrom(ctx, r.db)
	join := db.Model(&PaymentModel{}).
		Joins("JOIN bookings ON bookings.id = payments.booking_id").
		Where("bookings.guest_id = ?", guestID)

	var total int64
	if err := join.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count guest payments: %w", err)
	}

	var models []PaymentModel
	offset := (page - 1) * limit
	if err := db.Model(&PaymentModel{}).
		Joins("JOIN bookings ON bookings.id = payments.booking_id").
		Where("bookings.guest_id = ?", guestID).
		Order("payments.created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list guest payments: %w", err)
	}

	payments, err := toDomainPayments(models)
	if err != nil {
		return nil, 0, err
	}
	return payments, total, nil
}

// HasCompletedForBooking reports whether a completed payment exists for the booking.
func (r *GormPaymentRepository) HasCompletedForBooking(ctx context.Context, bookingID uuid.UUID) (bool, error) {
	var count int64
	err := dbFrom(ctx, r.db).
		Model(&PaymentModel{}).
		Where("booking_id = ? AND status = ?", bookingID, string(paymentDomain.StatusCompleted)).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check completed payment: %w", err)
	}
	return count > 0, nil
}

// Save persists a new payment.
func (r *GormPaymentRepository) Save(ctx context.Context, p *paymentDomain.Payment) error {
	if err := dbFrom(ctx, r.db).Create(toPaymentModel(p)).Error; err != nil {
		return fmt.Errorf("failed to save payment: %w", err)
	}
	return nil
}

// Update persists changes to an existing payment with optimistic locking.
func (r *GormPaymentRepository) Update(ctx context.Context, p *paymentDomain.Payment) error {
	model := toPaymentModel(p)

	expectedVersion := p.Version() - 1
	result := dbFrom(ctx, r.db).
		Model(&PaymentModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"status":         model.Status,
			"transaction_id": model.TransactionID,
			"version":        model.Version,
			"updated_at":     model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update payment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("payment was modified by another transaction")
	}
	return nil
}

// --- Conversions ---

func toPaymentModel(p *paymentDomain.Payment) *PaymentModel {
	return &PaymentModel{
		ID:            p.ID(),
		BookingID:     p.BookingID(),
		AmountCents:   p.AmountCents(),
		Method:        p.Method(),
		TransactionID: p.TransactionID(),
		Status:        string(p.Status()),
		Version:       p.Version(),
		CreatedAt:     p.CreatedAt(),
		UpdatedAt:     p.UpdatedAt(),
	}
}

func toDomainPayment(m *PaymentModel) (*paymentDomain.Payment, error) {
	status, err := paymentDomain.ParsePaymentStatus(m.Status)
	if err != nil {
		return nil, err
	}
	return paymentDomain.Reconstruct(
		m.ID, m.BookingID,
		m.AmountCents,
		m.Method, m.TransactionID,
		status,
		m.Version,
		m.CreatedAt, m.UpdatedAt,
	), nil
}

func toDomainPayments(models []PaymentModel) ([]*paymentDomain.Payment, error) {
	payments := make([]*paymentDomain.Payment, len(models))
	for i, m := range models {
		p, err := toDomainPayment(&m)
		if err != nil {
			return nil, err
		}
		payments[i] = p
	}
	return payments, nil
}
