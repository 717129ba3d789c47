package response

import (
	"errors"
	"net/http"

	"library-catalog/internal/shared/apperr"
	"library-catalog/internal/shared/validate"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   *Error `json:"error,omitempty"`
	Meta    *Meta  `json:"meta,omitempty"`
}

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type Meta struct {
	Total int `json:"total"`
}

// Success responses
func Success(c *gin.Context, statusCode int, data any) {
	c.JSON(statusCode, Response{
		Success: true,
		Data:    data,
	})
}

func SuccessWithMeta(c *gin.Context, statusCode int, data any, meta *Meta) {
	c.JSON(statusCode, Response{
		Success: true,
		Data:    data,
		Meta:    meta,
	})
}

// Error responses
func ErrorResponse(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, Response{
		Success: false,
		Error: &Error{
			Code:    code,
			Message: message,
		},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code, message string, details any) {
	c.JSON(statusCode, Response{
		Success: false,
		Error: &Error{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

func BadRequest(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusBadRequest, "BAD_REQUEST", message)
}

func NotFound(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusNotFound, "NOT_FOUND", message)
}

// FromError writes the response for an error returned by a service:
//
//	validate.Errors              422 VALIDATION_FAILED with field details
//	apperr.ErrIntegrityViolation 409 INTEGRITY_VIOLATION
//	apperr.ErrNotFound           404 NOT_FOUND
//	apperr.ErrStorage            503 STORAGE_UNAVAILABLE
//	anything else                500 INTERNAL_SERVER_ERROR
func FromError(c *gin.Context, err error) {
	if errs, ok := validate.AsErrors(err); ok {
		ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_FAILED", "Validation failed", []validate.FieldError(errs))
		return
	}

	switch {
	case errors.Is(err, apperr.ErrIntegrityViolation):
		ErrorResponse(c, http.StatusConflict, "INTEGRITY_VIOLATION", err.Error())
	case errors.Is(err, apperr.ErrNotFound):
		NotFound(c, err.Error())
	case errors.Is(err, apperr.ErrStorage):
		ErrorResponse(c, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "Storage is temporarily unavailable")
	default:
		log.Error().Err(err).Str("request_id", c.GetString("request_id")).Msg("unhandled error")
		ErrorResponse(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error")
	}
}
