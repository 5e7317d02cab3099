package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/openstay/service-booking/internal/application"
	"github.com/openstay/service-booking/internal/auth"
	"github.com/openstay/service-booking/internal/middleware"
	"github.com/openstay/service-booking/internal/response"
)

// ReviewHandler handles HTTP requests for review operations.
type ReviewHandler struct {
	service *application.ReviewService
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(service *application.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

// RegisterRoutes registers all review routes on the given router group.
func (h *ReviewHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)

	reviews := r.Group("/api/v1/reviews")
	{
		reviews.GET("/:id", h.GetReview)
	}

	authed := r.Group("/api/v1/reviews")
	authed.Use(authMW)
	{
		authed.POST("", h.CreateReview)
		authed.DELETE("/:id", h.DeleteReview)
	}
}

// CreateReview handles POST /api/v1/reviews.
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	var req application.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateReview(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// GetReview handles GET /api/v1/reviews/:id.
func (h *ReviewHandler) GetReview(c *gin.Context) {
	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid review ID")
		return
	}

	result, err := h.service.GetReview(c.Request.Context(), reviewID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeleteReview handles DELETE /api/v1/reviews/:id.
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid review ID")
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	if err := h.service.DeleteReview(c.Request.Context(), reviewID, userID, middleware.IsStaff(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
