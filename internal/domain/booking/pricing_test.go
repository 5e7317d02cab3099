package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNightlyRateStrategy_Quote(t *testing.T) {
	strategy := NewNightlyRateStrategy()

	t.Run("three nights at 100.00", func(t *testing.T) {
		stay := mustStay(t, "2026-06-01", "2026-06-04")
		total, err := strategy.Quote(10000, stay)
		require.NoError(t, err)
		assert.Equal(t, int64(30000), total)
	})

	t.Run("single night", func(t *testing.T) {
		stay := mustStay(t, "2026-06-01", "2026-06-02")
		total, err := strategy.Quote(12550, stay)
		require.NoError(t, err)
		assert.Equal(t, int64(12550), total)
	})

	t.Run("free listing", func(t *testing.T) {
		stay := mustStay(t, "2026-06-01", "2026-06-08")
		total, err := strategy.Quote(0, stay)
		require.NoError(t, err)
		assert.Equal(t, int64(0), total)
	})
}
