package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openstay/service-booking/internal/response"
)

func TestCreateBooking_MissingIdentityUsesErrorEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/bookings", nil)

	// No identity in the context; the handler must refuse before
	// touching the service and answer with the standard envelope.
	h := NewBookingHandler(nil)
	h.CreateBooking(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var body response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	require.NotNil(t, body.Error)
	assert.Equal(t, "UNAUTHORIZED", body.Error.Code)
}
