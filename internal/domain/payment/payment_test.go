package payment

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openstay/service-booking/internal/domain"
)

func newTestPayment(t *testing.T) *Payment {
	t.Helper()
	p, err := NewPayment(uuid.New(), 50000, "card")
	require.NoError(t, err)
	return p
}

func TestNewPayment_StartsPending(t *testing.T) {
	p := newTestPayment(t)
	assert.Equal(t, StatusPending, p.Status())
	assert.Empty(t, p.TransactionID())
}

func TestNewPayment_Validation(t *testing.T) {
	_, err := NewPayment(uuid.Nil, 50000, "card")
	assert.True(t, domain.IsCode(err, domain.CodeValidation))

	_, err = NewPayment(uuid.New(), -1, "card")
	assert.True(t, domain.IsCode(err, domain.CodeValidation))

	_, err = NewPayment(uuid.New(), 50000, "")
	assert.True(t, domain.IsCode(err, domain.CodeValidation))
}

func TestNewPayment_ZeroAmountAllowed(t *testing.T) {
	// Free listings produce zero-total bookings that still settle.
	p, err := NewPayment(uuid.New(), 0, "card")
	require.NoError(t, err)
	assert.Equal(t, int64(0), p.AmountCents())
	assert.Equal(t, StatusPending, p.Status())
}

func TestPayment_Complete(t *testing.T) {
	p := newTestPayment(t)
	require.NoError(t, p.Complete("txn_abc"))
	assert.Equal(t, StatusCompleted, p.Status())
	assert.Equal(t, "txn_abc", p.TransactionID())

	// Completed can only move to refunded.
	assert.True(t, domain.IsCode(p.Complete("txn_again"), domain.CodeInvalidTransition))
	assert.True(t, domain.IsCode(p.Fail(), domain.CodeInvalidTransition))
}

func TestPayment_FailIsTerminal(t *testing.T) {
	p := newTestPayment(t)
	require.NoError(t, p.Fail())
	assert.Equal(t, StatusFailed, p.Status())

	assert.True(t, domain.IsCode(p.Complete("txn"), domain.CodeInvalidTransition))
	assert.True(t, domain.IsCode(p.Refund(), domain.CodeInvalidTransition))
}

func TestPayment_Refund(t *testing.T) {
	p := newTestPayment(t)

	// Only completed payments are refundable.
	assert.True(t, domain.IsCode(p.Refund(), domain.CodeInvalidTransition))

	require.NoError(t, p.Complete("txn_abc"))
	require.NoError(t, p.Refund())
	assert.Equal(t, StatusRefunded, p.Status())

	assert.True(t, domain.IsCode(p.Refund(), domain.CodeInvalidTransition))
}
