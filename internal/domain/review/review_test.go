package review

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openstay/service-booking/internal/domain"
)

func TestNewReview(t *testing.T) {
	rv, err := NewReview(uuid.New(), uuid.New(), uuid.New(), 4, "great stay")
	require.NoError(t, err)
	assert.Equal(t, 4, rv.Rating())
	assert.Equal(t, "great stay", rv.Comment())
}

func TestNewReview_RatingBounds(t *testing.T) {
	for _, rating := range []int{MinRating, 3, MaxRating} {
		_, err := NewReview(uuid.New(), uuid.New(), uuid.New(), rating, "")
		assert.NoError(t, err, "rating %d should be valid", rating)
	}

	for _, rating := range []int{0, -1, 6, 100} {
		_, err := NewReview(uuid.New(), uuid.New(), uuid.New(), rating, "")
		assert.True(t, domain.IsCode(err, domain.CodeInvalidRating), "rating %d should be rejected", rating)
	}
}

func TestNewReview_RequiredRefs(t *testing.T) {
	_, err := NewReview(uuid.Nil, uuid.New(), uuid.New(), 3, "")
	assert.True(t, domain.IsCode(err, domain.CodeValidation))

	_, err = NewReview(uuid.New(), uuid.Nil, uuid.New(), 3, "")
	assert.True(t, domain.IsCode(err, domain.CodeValidation))

	_, err = NewReview(uuid.New(), uuid.New(), uuid.Nil, 3, "")
	assert.True(t, domain.IsCode(err, domain.CodeValidation))
}

func TestReview_IsAuthoredBy(t *testing.T) {
	userID := uuid.New()
	rv, err := NewReview(userID, uuid.New(), uuid.New(), 5, "")
	require.NoError(t, err)

	assert.True(t, rv.IsAuthoredBy(userID))
	assert.False(t, rv.IsAuthoredBy(uuid.New()))
}
