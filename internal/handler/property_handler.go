package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/openstay/service-booking/internal/application"
	"github.com/openstay/service-booking/internal/auth"
	"github.com/openstay/service-booking/internal/middleware"
	"github.com/openstay/service-booking/internal/response"
)

// PropertyHandler handles HTTP requests for property listings, their
// images, availability, and reviews.
type PropertyHandler struct {
	properties *application.PropertyService
	bookings   *application.BookingService
	reviews    *application.ReviewService
}

// NewPropertyHandler creates a new PropertyHandler.
func NewPropertyHandler(
	properties *application.PropertyService,
	bookings *application.BookingService,
	reviews *application.ReviewService,
) *PropertyHandler {
	return &PropertyHandler{properties: properties, bookings: bookings, reviews: reviews}
}

// RegisterRoutes registers all property routes on the given router group.
func (h *PropertyHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)

	// Browsing is public; mutation requires a host account.
	props := r.Group("/api/v1/properties")
	{
		props.GET("", h.ListProperties)
		props.GET("/:id", h.GetProperty)
		props.GET("/:id/availability", h.CheckAvailability)
		props.GET("/:id/images", h.ListImages)
		props.GET("/:id/reviews", h.ListReviews)
		props.GET("/:id/rating", h.GetRating)
	}

	hostProps := r.Group("/api/v1/properties")
	hostProps.Use(authMW, middleware.RequireHost())
	{
		hostProps.POST("", h.CreateProperty)
		hostProps.PATCH("/:id", h.UpdateProperty)
		hostProps.DELETE("/:id", h.DeleteProperty)
		hostProps.PUT("/:id/availability", h.SetAvailability)
		hostProps.GET("/:id/bookings", h.ListPropertyBookings)
		hostProps.POST("/:id/images", h.AddImage)
		hostProps.PUT("/:id/images/:imageId/primary", h.SetPrimaryImage)
		hostProps.DELETE("/:id/images/:imageId", h.DeleteImage)
	}

	mine := r.Group("/api/v1/my/properties")
	mine.Use(authMW, middleware.RequireHost())
	{
		mine.GET("", h.ListMyProperties)
	}
}

// CreateProperty handles POST /api/v1/properties.
func (h *PropertyHandler) CreateProperty(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	var req application.CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.properties.CreateProperty(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListProperties handles GET /api/v1/properties.
func (h *PropertyHandler) ListProperties(c *gin.Context) {
	page, limit := parsePagination(c)

	result, err := h.properties.ListProperties(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetProperty handles GET /api/v1/properties/:id.
func (h *PropertyHandler) GetProperty(c *gin.Context) {
	propertyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid property ID")
		return
	}

	result, err := h.properties.GetProperty(c.Request.Context(), propertyID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateProperty handles PATCH /api/v1/properties/:id.
func (h *PropertyHandler) UpdateProperty(c *gin.Context) {
	propertyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid property ID")
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	var req application.UpdatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.properties.UpdateProperty(c.Request.Context(), propertyID, userID, middleware.IsStaff(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeleteProperty handles DELETE /api/v1/properties/:id.
func (h *PropertyHandler) DeleteProperty(c *gin.Context) {
	propertyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid property ID")
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	if err := h.properties.DeleteProperty(c.Request.Context(), propertyID, userID, middleware.IsStaff(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// SetAvailability handles PUT /api/v1/properties/:id/availability.
func (h *PropertyHandler) SetAvailability(c *gin.Context) {
	propertyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid property ID")
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	var body struct {
		Available *bool `json:"available" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.properties.SetAvailability(c.Request.Context(), propertyID, userID, middleware.IsStaff(c), *body.Available)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// CheckAvailability handles GET /api/v1/properties/:id/availability.
func (h *PropertyHandler) CheckAvailability(c *gin.Context) {
	propertyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid property ID")
		return
	}

	checkIn := c.Query("check_in")
	checkOut := c.Query("check_out")
	if checkIn == "" || checkOut == "" {
		response.BadRequest(c, "check_in and check_out query parameters are required")
		return
	}

	result, err := h.bookings.CheckAvailability(c.Request.Context(), propertyID, checkIn, checkOut)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListPropertyBookings handles GET /api/v1/properties/:id/bookings.
func (h *PropertyHandler) ListPropertyBookings(c *gin.Context) {
	propertyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid property ID")
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	page, limit := parsePagination(c)

	result, err := h.bookings.GetPropertyBookings(c.Request.Context(), propertyID, userID, middleware.IsStaff(c), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// ListMyProperties handles GET /api/v1/my/properties.
func (h *PropertyHandler) ListMyProperties(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	result, err := h.properties.GetHostProperties(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// --- Images ---

// AddImage handles POST /api/v1/properties/:id/images.
func (h *PropertyHandler) AddImage(c *gin.Context) {
	propertyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid property ID")
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	var req application.AddImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.properties.AddImage(c.Request.Context(), propertyID, userID, middleware.IsStaff(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListImages handles GET /api/v1/properties/:id/images.
func (h *PropertyHandler) ListImages(c *gin.Context) {
	propertyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid property ID")
		return
	}

	result, err := h.properties.ListImages(c.Request.Context(), propertyID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// SetPrimaryImage handles PUT /api/v1/properties/:id/images/:imageId/primary.
func (h *PropertyHandler) SetPrimaryImage(c *gin.Context) {
	propertyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid property ID")
		return
	}
	imageID, err := uuid.Parse(c.Param("imageId"))
	if err != nil {
		response.BadRequest(c, "invalid image ID")
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	if err := h.properties.SetPrimaryImage(c.Request.Context(), propertyID, imageID, userID, middleware.IsStaff(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// DeleteImage handles DELETE /api/v1/properties/:id/images/:imageId.
func (h *PropertyHandler) DeleteImage(c *gin.Context) {
	propertyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid property ID")
		return
	}
	imageID, err := uuid.Parse(c.Param("imageId"))
	if err != nil {
		response.BadRequest(c, "invalid image ID")
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	if err := h.properties.DeleteImage(c.Request.Context(), propertyID, imageID, userID, middleware.IsStaff(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// --- Reviews on a property ---

// ListReviews handles GET /api/v1/properties/:id/reviews.
func (h *PropertyHandler) ListReviews(c *gin.Context) {
	propertyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid property ID")
		return
	}

	page, limit := parsePagination(c)

	result, err := h.reviews.ListPropertyReviews(c.Request.Context(), propertyID, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetRating handles GET /api/v1/properties/:id/rating.
func (h *PropertyHandler) GetRating(c *gin.Context) {
	propertyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid property ID")
		return
	}

	result, err := h.reviews.GetPropertyRating(c.Request.Context(), propertyID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
