package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/openstay/service-booking/internal/application"
	"github.com/openstay/service-booking/internal/auth"
	"github.com/openstay/service-booking/internal/middleware"
	"github.com/openstay/service-booking/internal/response"
)

// PaymentHandler handles HTTP requests for payment operations.
type PaymentHandler struct {
	service *application.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(service *application.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// RegisterRoutes registers all payment routes on the given router group.
func (h *PaymentHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)

	payments := r.Group("/api/v1/payments")
	payments.Use(authMW)
	{
		payments.POST("", h.Pay)
		payments.GET("", h.ListMyPayments)
		payments.GET("/:id", h.GetPayment)
	}

	bookings := r.Group("/api/v1/bookings")
	bookings.Use(authMW)
	{
		bookings.GET("/:id/payments", h.ListBookingPayments)
		bookings.POST("/:id/reconcile", middleware.RequireStaff(), h.Reconcile)
	}
}

// Pay handles POST /api/v1/payments.
func (h *PaymentHandler) Pay(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	var req application.PayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.Pay(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListMyPayments handles GET /api/v1/payments.
func (h *PaymentHandler) ListMyPayments(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	page, limit := parsePagination(c)

	result, err := h.service.GetGuestPayments(c.Request.Context(), userID, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetPayment handles GET /api/v1/payments/:id.
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid payment ID")
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	result, err := h.service.GetPayment(c.Request.Context(), paymentID, userID, middleware.IsStaff(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListBookingPayments handles GET /api/v1/bookings/:id/payments.
func (h *PaymentHandler) ListBookingPayments(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	result, err := h.service.GetBookingPayments(c.Request.Context(), bookingID, userID, middleware.IsStaff(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Reconcile handles POST /api/v1/bookings/:id/reconcile (staff).
func (h *PaymentHandler) Reconcile(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	result, err := h.service.Reconcile(c.Request.Context(), bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
