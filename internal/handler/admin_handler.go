package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/openstay/service-booking/internal/application"
	"github.com/openstay/service-booking/internal/auth"
	"github.com/openstay/service-booking/internal/middleware"
	"github.com/openstay/service-booking/internal/response"
)

// AdminHandler handles staff HTTP requests for booking management.
type AdminHandler struct {
	service *application.BookingService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(service *application.BookingService) *AdminHandler {
	return &AdminHandler{service: service}
}

// RegisterRoutes registers admin routes.
func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)

	admin := r.Group("/api/v1/admin")
	admin.Use(authMW, middleware.RequireStaff())
	{
		admin.GET("/bookings", h.ListBookings)
		admin.GET("/stats/bookings", h.BookingStats)
		admin.POST("/sweep", h.Sweep)
	}
}

// ListBookings handles GET /api/v1/admin/bookings.
func (h *AdminHandler) ListBookings(c *gin.Context) {
	page, limit := parsePagination(c)

	bookings, total, err := h.service.ListAllBookings(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, bookings, total, page, limit)
}

// BookingStats handles GET /api/v1/admin/stats/bookings.
func (h *AdminHandler) BookingStats(c *gin.Context) {
	stats, err := h.service.GetBookingStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, stats)
}

// Sweep handles POST /api/v1/admin/sweep. Manual trigger for the
// completion sweep the scheduler runs daily.
func (h *AdminHandler) Sweep(c *gin.Context) {
	n, err := h.service.SweepCompletions(c.Request.Context(), time.Now().UTC())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"completed": n})
}
