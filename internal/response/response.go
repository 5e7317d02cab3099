package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openstay/service-booking/internal/domain"
)

// Envelope is the uniform JSON body for non-paginated responses.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
}

// ErrorBody carries the machine-readable error code plus message.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PaginatedEnvelope is the uniform JSON body for list responses.
type PaginatedEnvelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Total   int64       `json:"total"`
	Page    int         `json:"page"`
	Limit   int         `json:"limit"`
}

// Success writes a 200 response.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// Created writes a 201 response.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

// NoContent writes a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Paginated writes a 200 list response with pagination metadata.
func Paginated(c *gin.Context, data interface{}, total int64, page, limit int) {
	c.JSON(http.StatusOK, PaginatedEnvelope{
		Success: true,
		Data:    data,
		Total:   total,
		Page:    page,
		Limit:   limit,
	})
}

// BadRequest writes a 400 response with a validation error body.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Envelope{
		Success: false,
		Error:   &ErrorBody{Code: string(domain.CodeValidation), Message: message},
	})
}

// Unauthorized writes a 401 response.
func Unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, Envelope{
		Success: false,
		Error:   &ErrorBody{Code: "UNAUTHORIZED", Message: message},
	})
}

// statusByCode maps every application error code to an HTTP status.
// Conflict-shaped failures (double bookings, illegal transitions,
// duplicate reviews) are 409; precondition failures on the request
// payload are 422; ownership failures are 403.
var statusByCode = map[domain.ErrorCode]int{
	domain.CodeValidation:          http.StatusBadRequest,
	domain.CodeNotFound:            http.StatusNotFound,
	domain.CodeForbidden:           http.StatusForbidden,
	domain.CodeConflict:            http.StatusConflict,
	domain.CodeInvalidDateRange:    http.StatusUnprocessableEntity,
	domain.CodePropertyUnavailable: http.StatusUnprocessableEntity,
	domain.CodeDateConflict:        http.StatusConflict,
	domain.CodeInvalidTransition:   http.StatusConflict,
	domain.CodeBookingNotPending:   http.StatusConflict,
	domain.CodeAmountMismatch:      http.StatusUnprocessableEntity,
	domain.CodeNotBookingOwner:     http.StatusForbidden,
	domain.CodeBookingNotCompleted: http.StatusUnprocessableEntity,
	domain.CodeDuplicateReview:     http.StatusConflict,
	domain.CodeInvalidRating:       http.StatusUnprocessableEntity,
}

// Error writes the response for an application or internal error.
func Error(c *gin.Context, err error) {
	code := domain.CodeOf(err)
	status, ok := statusByCode[code]
	if !ok {
		c.JSON(http.StatusInternalServerError, Envelope{
			Success: false,
			Error:   &ErrorBody{Code: string(domain.CodeInternal), Message: "internal server error"},
		})
		return
	}
	c.JSON(status, Envelope{
		Success: false,
		Error:   &ErrorBody{Code: string(code), Message: err.Error()},
	})
}
